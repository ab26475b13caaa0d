package aggregated

import (
	"fmt"
	"sort"
	"sync"

	"github.com/alonana/perfshark/core"
)

// Log collects repeated warnings of one batch and prints each distinct message once.
type Log struct {
	messages map[string]int
	total    int
	mutex    sync.Mutex
}

func NewLog() *Log {
	return &Log{messages: make(map[string]int)}
}

func (l *Log) Warn(format string, v ...interface{}) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if l.messages == nil {
		l.messages = make(map[string]int)
	}
	message := fmt.Sprintf(format, v...)
	core.V2("%v", message)
	l.messages[message]++
	l.total++
}

func (l *Log) Total() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.total
}

func (l *Log) Count(message string) int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.messages[message]
}

// Records returns the "N times: message" lines sorted by message.
func (l *Log) Records() []string {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	var keys []string
	for k := range l.messages {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var records []string
	for _, k := range keys {
		records = append(records, fmt.Sprintf("%v times: %v", l.messages[k], k))
	}
	return records
}

func (l *Log) PublishToCloudWatch(namespace string) {
	if namespace == "" {
		return
	}
	l.mutex.Lock()
	defer l.mutex.Unlock()

	for warningDescription, warningCounter := range l.messages {
		core.CloudWatchClient.PutMetric(warningDescription, "Count", float64(warningCounter), namespace)
	}
}

func (l *Log) Print() {
	for _, record := range l.Records() {
		core.Warn("%v", record)
	}
}
