package capture

import (
	"context"
	"errors"
	"time"

	"github.com/alonana/perfshark/browser"
	"github.com/alonana/perfshark/core"
	"github.com/alonana/perfshark/core/aggregated"
	"github.com/alonana/perfshark/devtools/bulk"
	"github.com/alonana/perfshark/devtools/correlator"
	"github.com/alonana/perfshark/exporters"
	"github.com/alonana/perfshark/filter"
	"github.com/alonana/perfshark/metrics"
	"github.com/google/uuid"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type State int

const (
	Idle State = iota
	SessionAcquired
	Navigated
	LogCollected
	Correlated
	Filtered
	Done
	Failed
)

var stateNames = []string{"Idle", "SessionAcquired", "Navigated", "LogCollected", "Correlated", "Filtered", "Done", "Failed"}

func (s State) String() string {
	if int(s) < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}
	return stateNames[s]
}

type Request struct {
	URL      string
	Settle   time.Duration
	Category string
	SavePath string
}

// Result is the outcome of one capture. Requests is nil whenever Status is error.
type Result struct {
	URL            string               `json:"url"`
	Status         string               `json:"status"`
	Requests       []core.RequestRecord `json:"requests"`
	DroppedEntries int                  `json:"dropped_entries"`
	Error          string               `json:"error,omitempty"`
	SavedToFile    bool                 `json:"saved_to_file,omitempty"`
	FilePath       string               `json:"file_path,omitempty"`
	SaveError      string               `json:"save_error,omitempty"`
	State          State                `json:"-"`
	Err            error                `json:"-"`
}

type Orchestrator struct {
	Runtime           browser.Runtime
	Exporter          *exporters.Processor
	Diagnostics       *aggregated.Log
	NavigationTimeout time.Duration
	sleep             func(ctx context.Context, d time.Duration)
}

func CreateOrchestrator(runtime browser.Runtime) *Orchestrator {
	return &Orchestrator{
		Runtime:           runtime,
		Exporter:          exporters.CreateProcessor(),
		Diagnostics:       aggregated.NewLog(),
		NavigationTimeout: core.Config.NavigationTimeout,
	}
}

func (o *Orchestrator) CaptureNetwork(ctx context.Context, request Request) *Result {
	started := time.Now()
	result := &Result{URL: request.URL, State: Idle}
	defer func() {
		metrics.CaptureFinished(result.Status, time.Since(started))
	}()

	category, err := filter.ParseCategory(request.Category)
	if err != nil {
		return result.fail(err)
	}

	if o.Runtime == nil {
		return result.fail(browser.NewBackendError("acquire", browser.ErrUnavailable.Error()))
	}
	runId := uuid.NewString()
	session, err := o.Runtime.NewSession(ctx, browser.SessionConfig{SessionId: runId})
	if err != nil {
		return result.fail(err)
	}
	defer o.release(session)
	result.State = SessionAcquired
	core.V1("capture %v of %v acquired session %v", runId, request.URL, session.ID())

	err = session.Navigate(ctx, request.URL, o.navigationTimeout(request.Settle))
	if err != nil {
		return result.fail(err)
	}
	result.State = Navigated

	o.settle(ctx, request.Settle)

	entries, err := session.Log(ctx, browser.PerformanceLog)
	if err != nil {
		return result.fail(err)
	}
	result.State = LogCollected
	core.V1("capture %v collected %v log entries", runId, len(entries))

	processed := o.ProcessLog(entries, category)
	processed.URL = request.URL
	if category == filter.None {
		processed.State = Correlated
	} else {
		processed.State = Filtered
	}
	*result = *processed

	if request.SavePath != "" {
		o.Save(result, request.SavePath)
	}
	result.State = Done
	return result
}

// ProcessLog turns one performance log batch into a successful result without a browser.
func (o *Orchestrator) ProcessLog(entries []core.LogEntry, category filter.Category) *Result {
	parser := bulk.Processor{Diagnostics: o.Diagnostics}
	events, dropped := parser.Process(entries)
	records := correlator.Correlate(events)
	records = filter.Apply(records, category)
	if records == nil {
		records = []core.RequestRecord{}
	}
	metrics.LogProcessed(len(entries), len(dropped), len(records))

	return &Result{
		Status:         StatusSuccess,
		Requests:       records,
		DroppedEntries: len(dropped),
		State:          Done,
	}
}

// Save persists the requests of a successful result, recording the outcome on it.
func (o *Orchestrator) Save(result *Result, path string) {
	exporter := o.Exporter
	if exporter == nil {
		exporter = exporters.CreateProcessor()
	}
	location, err := exporter.Save(result.Requests, path)
	if err != nil {
		core.Warn("%v", err)
		result.SaveError = err.Error()
		return
	}
	result.SavedToFile = true
	result.FilePath = location
}

func (o *Orchestrator) navigationTimeout(settle time.Duration) time.Duration {
	if o.NavigationTimeout > 0 {
		return o.NavigationTimeout
	}
	if settle > 0 {
		return 2 * settle
	}
	return 30 * time.Second
}

func (o *Orchestrator) settle(ctx context.Context, d time.Duration) {
	if o.sleep != nil {
		o.sleep(ctx, d)
		return
	}
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

func (o *Orchestrator) release(session browser.Session) {
	err := session.Close()
	if err != nil && !errors.Is(err, browser.ErrSessionClosed) {
		core.Warn("release session %v failed: %v", session.ID(), err)
	}
}

// Failure creates the error result of a capture that failed before producing requests.
func Failure(url string, err error) *Result {
	return (&Result{URL: url}).fail(err)
}

func (r *Result) fail(err error) *Result {
	core.V1("capture of %v failed in state %v: %v", r.URL, r.State, err)
	r.State = Failed
	r.Status = StatusError
	r.Requests = nil
	r.Error = err.Error()
	r.Err = err
	return r
}
