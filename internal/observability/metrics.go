package observability

import (
	"fmt"
	"sync"
	"time"
)

// Metrics keeps in-process request and error counters, exposed through the
// readiness payload rather than a scrape endpoint.
type Metrics struct {
	mu       sync.RWMutex
	requests map[string]uint64
	errors   map[string]uint64
}

// NewMetrics returns empty counters.
func NewMetrics() *Metrics {
	return &Metrics{
		requests: make(map[string]uint64),
		errors:   make(map[string]uint64),
	}
}

// RecordRequest counts a completed request.
func (m *Metrics) RecordRequest(path, method string, status int, _ time.Duration) {
	if m == nil {
		return
	}
	key := fmt.Sprintf("%s %s %d", method, path, status)
	m.mu.Lock()
	m.requests[key]++
	m.mu.Unlock()
}

// RecordError counts a request that resolved to an application error.
func (m *Metrics) RecordError(path, method, errType string) {
	if m == nil {
		return
	}
	key := fmt.Sprintf("%s %s %s", method, path, errType)
	m.mu.Lock()
	m.errors[key]++
	m.mu.Unlock()
}

// ErrorsByType aggregates error counts per error type.
func (m *Metrics) ErrorsByType() map[string]uint64 {
	if m == nil {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]uint64, len(m.errors))
	for key, count := range m.errors {
		parts := splitKey(key)
		out[parts] += count
	}
	return out
}

func splitKey(key string) string {
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == ' ' {
			return key[i+1:]
		}
	}
	return key
}
