package bulk

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/alonana/perfshark/core"
	"github.com/alonana/perfshark/core/aggregated"
	"github.com/alonana/perfshark/devtools/types"
)

const (
	requestMethodPrefix  = "Network.request"
	responseMethodPrefix = "Network.response"
)

var (
	ErrMissingMessage = errors.New("missing message")
	ErrMissingMethod  = errors.New("missing method")
)

// ParseError describes a log entry that was dropped.
type ParseError struct {
	Index  int
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("entry %v dropped: %v: %v", e.Index, e.Reason, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Processor decodes performance log entries into network events.
// Undecodable entries are reported, never returned as errors.
type Processor struct {
	Diagnostics *aggregated.Log
}

func (p *Processor) Process(entries []core.LogEntry) ([]core.NetworkEvent, []*ParseError) {
	events := make([]core.NetworkEvent, 0, len(entries))
	var dropped []*ParseError
	for i := 0; i < len(entries); i++ {
		event, err := p.parse(i, entries[i])
		if err != nil {
			dropped = append(dropped, err)
			p.warn(err)
			continue
		}
		events = append(events, *event)
	}
	core.V1("%v log entries parsed, %v dropped", len(entries), len(dropped))
	return events, dropped
}

func (p *Processor) Parse(entry core.LogEntry) (*core.NetworkEvent, error) {
	event, err := p.parse(0, entry)
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (p *Processor) warn(err *ParseError) {
	if p.Diagnostics == nil {
		core.V2("%v", err)
		return
	}
	p.Diagnostics.Warn("parse performance log entry failed: %v: %v", err.Reason, err.Err)
}

func (p *Processor) parse(index int, entry core.LogEntry) (*core.NetworkEvent, *ParseError) {
	var performance types.Performance
	err := json.Unmarshal([]byte(entry.Message), &performance)
	if err != nil {
		return nil, &ParseError{Index: index, Reason: "invalid JSON", Err: err}
	}
	if performance.Message == nil {
		return nil, &ParseError{Index: index, Reason: "invalid envelope", Err: ErrMissingMessage}
	}
	if performance.Message.Method == nil {
		return nil, &ParseError{Index: index, Reason: "invalid envelope", Err: ErrMissingMethod}
	}

	method := *performance.Message.Method
	core.V5("entry %v method %v", index, method)

	var kind core.EventKind
	if strings.Contains(method, requestMethodPrefix) {
		kind = core.EventRequestSent
	} else if strings.Contains(method, responseMethodPrefix) {
		kind = core.EventResponseReceived
	} else {
		return &core.NetworkEvent{Kind: core.EventOther}, nil
	}

	params := types.NetworkParams{}
	if len(performance.Message.Params) > 0 {
		err = json.Unmarshal(performance.Message.Params, &params)
		if err != nil {
			return nil, &ParseError{Index: index, Reason: fmt.Sprintf("invalid %v params", method), Err: err}
		}
	}

	if params.RequestId == "" {
		core.V5("ignoring %v without request id", method)
		return &core.NetworkEvent{Kind: core.EventOther}, nil
	}

	event := core.NetworkEvent{
		CorrelationId: params.RequestId,
		Kind:          kind,
	}
	if kind == core.EventRequestSent {
		event.Request = p.convertRequest(&params)
	} else {
		event.Response = p.convertResponse(&params)
	}
	return &event, nil
}

func (p *Processor) convertRequest(params *types.NetworkParams) *core.RequestFields {
	fields := core.RequestFields{
		Timestamp: params.Timestamp,
	}
	if params.Request != nil {
		fields.Url = params.Request.Url
		fields.Method = params.Request.Method
		fields.Headers = params.Request.Headers
	}
	return &fields
}

func (p *Processor) convertResponse(params *types.NetworkParams) *core.ResponseFields {
	fields := core.ResponseFields{}
	if params.Response != nil {
		fields.Status = params.Response.Status
		fields.StatusText = params.Response.StatusText
		fields.MimeType = params.Response.MimeType
		fields.ResponseHeaders = params.Response.Headers
	}
	return &fields
}
