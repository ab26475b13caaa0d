package browser

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable       = errors.New("backend unavailable")
	ErrNavigationTimeout = errors.New("navigation timeout")
	ErrSessionClosed     = errors.New("browser session closed")
	ErrUnsupportedLog    = errors.New("unsupported log channel")
)

// BackendError wraps a failure of the browser backend with the failed operation.
type BackendError struct {
	Op      string
	Message string
	Err     error
}

func (e *BackendError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("browser %s failed: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("browser %s failed: %s", e.Op, e.Message)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

func NewBackendError(op, message string) *BackendError {
	return &BackendError{Op: op, Message: message}
}

func WrapBackendError(op, message string, err error) *BackendError {
	return &BackendError{Op: op, Message: message, Err: err}
}

// IsTimeout returns true if the error is a navigation timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrNavigationTimeout)
}
