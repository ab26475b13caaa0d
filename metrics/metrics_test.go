package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(metricCaptures.WithLabelValues("success"))
	CaptureFinished("success", time.Second)
	assert.Equal(t, before+1, testutil.ToFloat64(metricCaptures.WithLabelValues("success")))

	entries := testutil.ToFloat64(metricLogEntries)
	dropped := testutil.ToFloat64(metricParseErrors)
	LogProcessed(5, 2, 3)
	assert.Equal(t, entries+5, testutil.ToFloat64(metricLogEntries))
	assert.Equal(t, dropped+2, testutil.ToFloat64(metricParseErrors))
}

func TestHandler(t *testing.T) {
	CaptureFinished("error", time.Millisecond)

	recorder := httptest.NewRecorder()
	Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, strings.Contains(recorder.Body.String(), "perfshark_captures_total"))
}
