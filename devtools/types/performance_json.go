package types

import "encoding/json"

// Performance is the JSON held by a performance log entry message.
type Performance struct {
	Message *Message `json:"message"`
	Webview string   `json:"webview,omitempty"`
}

type Message struct {
	Method *string         `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

type NetworkParams struct {
	RequestId string    `json:"requestId"`
	Timestamp *float64  `json:"timestamp"`
	Request   *Request  `json:"request"`
	Response  *Response `json:"response"`
}

type Request struct {
	Url     *string                `json:"url"`
	Method  *string                `json:"method"`
	Headers map[string]interface{} `json:"headers"`
}

type Response struct {
	Status     *int                   `json:"status"`
	StatusText *string                `json:"statusText"`
	MimeType   *string                `json:"mimeType"`
	Headers    map[string]interface{} `json:"headers"`
}
