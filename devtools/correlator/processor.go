package correlator

import (
	"github.com/alonana/perfshark/core"
)

// Table folds network events into request records.
// Records keep the order in which their correlation id first appeared.
type Table struct {
	records []*core.RequestRecord
	index   map[string]int
}

func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

func Correlate(events []core.NetworkEvent) []core.RequestRecord {
	t := NewTable()
	for i := 0; i < len(events); i++ {
		t.Update(&events[i])
	}
	return t.Records()
}

func (t *Table) Update(event *core.NetworkEvent) {
	if event.Kind == core.EventOther || event.CorrelationId == "" {
		return
	}

	record := t.getRecord(event.CorrelationId)
	switch event.Kind {
	case core.EventRequestSent:
		if record.Url != nil && event.Request != nil && event.Request.Url != nil {
			core.V5("request %v sent again, keeping the latest attempt", event.CorrelationId)
		}
		record.MergeRequest(event.Request)
	case core.EventResponseReceived:
		record.MergeResponse(event.Response)
	}
}

func (t *Table) getRecord(correlationId string) *core.RequestRecord {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	position, exists := t.index[correlationId]
	if exists {
		return t.records[position]
	}

	record := &core.RequestRecord{CorrelationId: correlationId}
	t.index[correlationId] = len(t.records)
	t.records = append(t.records, record)
	return record
}

func (t *Table) Len() int {
	return len(t.records)
}

// Records returns a snapshot of the records in first-occurrence order.
func (t *Table) Records() []core.RequestRecord {
	records := make([]core.RequestRecord, len(t.records))
	for i := 0; i < len(t.records); i++ {
		records[i] = *t.records[i]
	}
	return records
}
