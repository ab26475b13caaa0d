package exporters

import (
	"github.com/alonana/perfshark/core"
)

type MetricPublisher interface {
	PutMetric(metricName string, unitName string, metricValue float64, namespace string)
}

// RunStats publishes the totals of one capture run to CloudWatch.
type RunStats struct {
	Namespace string
	Publisher MetricPublisher
}

func CreateRunStats() *RunStats {
	return &RunStats{
		Namespace: core.Config.CloudWatchNamespace,
		Publisher: &core.CloudWatchClient,
	}
}

func (r *RunStats) Process(records []core.RequestRecord, droppedEntries int) {
	if r == nil || r.Namespace == "" || r.Publisher == nil {
		return
	}

	withoutResponse := 0
	for i := 0; i < len(records); i++ {
		if !records[i].HasResponse() {
			withoutResponse++
		}
	}

	core.V1("publishing run stats to cloudwatch namespace %v", r.Namespace)
	r.Publisher.PutMetric("total_requests", "Count", float64(len(records)), r.Namespace)
	r.Publisher.PutMetric("requests_without_response", "Count", float64(withoutResponse), r.Namespace)
	r.Publisher.PutMetric("dropped_entries", "Count", float64(droppedEntries), r.Namespace)
}
