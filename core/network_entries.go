package core

// LogEntry is one raw entry of a browser performance log.
type LogEntry struct {
	Message   string `json:"message"`
	Level     string `json:"level"`
	Timestamp int64  `json:"timestamp"`
}

type Headers = map[string]interface{}

type EventKind int

const (
	EventOther EventKind = iota
	EventRequestSent
	EventResponseReceived
)

func (k EventKind) String() string {
	switch k {
	case EventRequestSent:
		return "RequestSent"
	case EventResponseReceived:
		return "ResponseReceived"
	default:
		return "Other"
	}
}

type RequestFields struct {
	Url       *string
	Method    *string
	Headers   Headers
	Timestamp *float64
}

type ResponseFields struct {
	Status          *int
	StatusText      *string
	MimeType        *string
	ResponseHeaders Headers
}

type NetworkEvent struct {
	CorrelationId string
	Kind          EventKind
	Request       *RequestFields
	Response      *ResponseFields
}

// RequestRecord summarizes all events sharing a correlation id.
// Absent fields are nil and omitted from the JSON form.
type RequestRecord struct {
	CorrelationId   string   `json:"correlationId"`
	Url             *string  `json:"url,omitempty"`
	Method          *string  `json:"method,omitempty"`
	Headers         Headers  `json:"headers,omitempty"`
	Timestamp       *float64 `json:"timestamp,omitempty"`
	Status          *int     `json:"status,omitempty"`
	StatusText      *string  `json:"statusText,omitempty"`
	MimeType        *string  `json:"mimeType,omitempty"`
	ResponseHeaders Headers  `json:"responseHeaders,omitempty"`
}

// MergeRequest sets the present request fields, leaving the others untouched.
func (r *RequestRecord) MergeRequest(fields *RequestFields) {
	if fields == nil {
		return
	}
	if fields.Url != nil {
		r.Url = fields.Url
	}
	if fields.Method != nil {
		r.Method = fields.Method
	}
	if fields.Headers != nil {
		r.Headers = fields.Headers
	}
	if fields.Timestamp != nil {
		r.Timestamp = fields.Timestamp
	}
}

// MergeResponse sets the present response fields, leaving the others untouched.
func (r *RequestRecord) MergeResponse(fields *ResponseFields) {
	if fields == nil {
		return
	}
	if fields.Status != nil {
		r.Status = fields.Status
	}
	if fields.StatusText != nil {
		r.StatusText = fields.StatusText
	}
	if fields.MimeType != nil {
		r.MimeType = fields.MimeType
	}
	if fields.ResponseHeaders != nil {
		r.ResponseHeaders = fields.ResponseHeaders
	}
}

func (r *RequestRecord) HasResponse() bool {
	return r.Status != nil || r.MimeType != nil || r.StatusText != nil || r.ResponseHeaders != nil
}

func StringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
