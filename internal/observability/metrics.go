package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64
	frameCount   map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
		frameCount:   make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordFrame counts one feed frame by outcome. Accepted frames use outcome
// "applied"; discarded frames use their discard reason, which makes duplicate
// suppression and malformed input observable without surfacing them as errors.
func (m *Metrics) RecordFrame(source, outcome string) {
	if m == nil {
		return
	}
	key := source + "|" + outcome
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frameCount[key]++
}

// FrameCounts returns a copy of the per-source frame counters.
func (m *Metrics) FrameCounts() map[string]int64 {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64, len(m.frameCount))
	for k, v := range m.frameCount {
		out[k] = v
	}
	return out
}

// RequestCounts returns a copy of the request counters.
func (m *Metrics) RequestCounts() map[string]int64 {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64, len(m.requestCount))
	for k, v := range m.requestCount {
		out[k] = v
	}
	return out
}

// ErrorCounts returns a copy of the error counters.
func (m *Metrics) ErrorCounts() map[string]int64 {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64, len(m.errorCount))
	for k, v := range m.errorCount {
		out[k] = v
	}
	return out
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
