package browser

import (
	"context"
	"time"

	"github.com/alonana/perfshark/core"
)

const PerformanceLog = "performance"

// SessionConfig configures a browser session.
type SessionConfig struct {
	SessionId string
}

// Runtime creates browser sessions.
type Runtime interface {
	NewSession(ctx context.Context, cfg SessionConfig) (Session, error)
}

// Session is one exclusively owned browser session.
// Close must be called exactly once per session and is idempotent.
type Session interface {
	ID() string
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	Log(ctx context.Context, channel string) ([]core.LogEntry, error)
	Close() error
}
