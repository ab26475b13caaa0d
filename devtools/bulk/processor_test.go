package bulk

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/alonana/perfshark/core"
	"github.com/alonana/perfshark/core/aggregated"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmpty(t *testing.T) {
	p := Processor{}
	events, dropped := p.Process(nil)
	assert.Empty(t, events)
	assert.Empty(t, dropped)
}

func TestRequest(t *testing.T) {
	event := runRecord(t, "request")
	require.Equal(t, core.EventRequestSent, event.Kind)
	assert.Equal(t, "1000.1", event.CorrelationId)
	require.NotNil(t, event.Request)
	assert.Nil(t, event.Response)
	assert.Equal(t, "GET", core.StringValue(event.Request.Method))
	assert.Equal(t, "http://x/a.json", core.StringValue(event.Request.Url))
	assert.Equal(t, "application/json", event.Request.Headers["Accept"])
	require.NotNil(t, event.Request.Timestamp)
	assert.Equal(t, 1234.5678, *event.Request.Timestamp)
}

func TestResponse(t *testing.T) {
	event := runRecord(t, "response")
	require.Equal(t, core.EventResponseReceived, event.Kind)
	require.NotNil(t, event.Response)
	assert.Nil(t, event.Request)
	require.NotNil(t, event.Response.Status)
	assert.Equal(t, 200, *event.Response.Status)
	assert.Equal(t, "OK", core.StringValue(event.Response.StatusText))
	assert.Equal(t, "application/json", core.StringValue(event.Response.MimeType))
	assert.Equal(t, "17", event.Response.ResponseHeaders["Content-Length"])
}

func TestOtherEvents(t *testing.T) {
	p := Processor{}
	messages := []string{
		`{"message":{"method":"Page.loadEventFired","params":{"timestamp":1.5}}}`,
		`{"message":{"method":"Network.dataReceived","params":{"requestId":"7","dataLength":10}}}`,
		`{"message":{"method":"Network.requestWillBeSent","params":{"request":{"url":"http://x/"}}}}`,
		`{"message":{"method":"Network.responseReceived"}}`,
	}
	for _, message := range messages {
		event, err := p.Parse(core.LogEntry{Message: message})
		require.NoError(t, err, message)
		assert.Equal(t, core.EventOther, event.Kind, message)
	}
}

func TestExtraInfoEventsHaveNoFields(t *testing.T) {
	p := Processor{}
	event, err := p.Parse(core.LogEntry{
		Message: `{"message":{"method":"Network.requestWillBeSentExtraInfo","params":{"requestId":"9","headers":{"a":"b"}}}}`,
	})
	require.NoError(t, err)
	assert.Equal(t, core.EventRequestSent, event.Kind)
	assert.Nil(t, event.Request.Url)
	assert.Nil(t, event.Request.Headers)
}

func TestNullValuesAreAbsent(t *testing.T) {
	p := Processor{}
	event, err := p.Parse(core.LogEntry{
		Message: `{"message":{"method":"Network.responseReceived","params":{"requestId":"3","response":{"status":null,"mimeType":"text/html"}}}}`,
	})
	require.NoError(t, err)
	assert.Nil(t, event.Response.Status)
	assert.Equal(t, "text/html", core.StringValue(event.Response.MimeType))
}

func TestMalformed(t *testing.T) {
	diagnostics := aggregated.NewLog()
	p := Processor{Diagnostics: diagnostics}
	entries := []core.LogEntry{
		{Message: "not a json"},
		{Message: `{"webview":"T1"}`},
		{Message: `{"message":{"params":{}}}`},
		{Message: `{"message":{"method":"Network.responseReceived","params":{"requestId":"1","response":"bad"}}}`},
		{Message: readTestData(t, "request")},
	}

	events, dropped := p.Process(entries)
	require.Len(t, events, 1)
	require.Len(t, dropped, 4)
	assert.Equal(t, []int{0, 1, 2, 3}, []int{dropped[0].Index, dropped[1].Index, dropped[2].Index, dropped[3].Index})
	assert.True(t, errors.Is(dropped[1], ErrMissingMessage))
	assert.True(t, errors.Is(dropped[2], ErrMissingMethod))
	assert.Equal(t, 4, diagnostics.Total())
	assert.Equal(t, 2, diagnostics.Count("parse performance log entry failed: invalid envelope: missing message")+
		diagnostics.Count("parse performance log entry failed: invalid envelope: missing method"))
}

func TestParseErrorIsError(t *testing.T) {
	p := Processor{}
	event, err := p.Parse(core.LogEntry{Message: "{"})
	assert.Nil(t, event)
	var parseError *ParseError
	require.True(t, errors.As(err, &parseError))
	assert.Contains(t, parseError.Error(), "invalid JSON")
}

func runRecord(t *testing.T, name string) core.NetworkEvent {
	core.Config.Verbose = 5
	p := Processor{}
	events, dropped := p.Process([]core.LogEntry{{Message: readTestData(t, name), Level: "INFO"}})
	require.Empty(t, dropped)
	require.Len(t, events, 1)
	return events[0]
}

func readTestData(t *testing.T, name string) string {
	data, err := os.ReadFile(fmt.Sprintf("test_resources/%v.txt", name))
	require.NoError(t, err)
	return strings.TrimSpace(string(data))
}
