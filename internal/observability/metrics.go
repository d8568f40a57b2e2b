package observability

import (
	"strconv"
	"sync"
)

// Metrics counts outbound API calls made during one invocation. The
// totals go into the final log line so the calling automation can see how
// many round trips a reconciliation cost.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
	}
}

// RecordRequest increments the counter for one completed round trip.
func (m *Metrics) RecordRequest(method, path string, status int) {
	if m == nil {
		return
	}
	key := pathKey(method, path, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	if status >= 400 {
		m.errorCount[key]++
	}
}

// Totals returns the overall request and error counts.
func (m *Metrics) Totals() (requests, errors int64) {
	if m == nil {
		return 0, 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, count := range m.requestCount {
		requests += count
	}
	for _, count := range m.errorCount {
		errors += count
	}
	return requests, errors
}

func pathKey(method, path string, status int) string {
	return method + "|" + path + "|" + strconv.Itoa(status)
}
