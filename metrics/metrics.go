package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "perfshark"

var (
	metricCaptures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "captures_total",
		Help:      "Number of capture runs by final status.",
	}, []string{"status"})
	metricLogEntries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "log_entries_total",
		Help:      "Performance log entries received.",
	})
	metricParseErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "parse_errors_total",
		Help:      "Performance log entries dropped as undecodable.",
	})
	metricRecords = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_total",
		Help:      "Request records returned after correlation and filtering.",
	})
	metricCaptureDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "capture_duration_seconds",
		Help:      "Duration of capture runs.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	})
)

func CaptureFinished(status string, duration time.Duration) {
	metricCaptures.WithLabelValues(status).Inc()
	metricCaptureDuration.Observe(duration.Seconds())
}

func LogProcessed(entries int, dropped int, records int) {
	metricLogEntries.Add(float64(entries))
	metricParseErrors.Add(float64(dropped))
	metricRecords.Add(float64(records))
}

func Handler() http.Handler {
	return promhttp.Handler()
}
