package limiter

import (
	"sync"
	"time"
)

// MemoryLimiter counts failures per key inside a sliding window and trips
// once a key has accumulated too many. It is process-local; a multi-instance
// deployment needs a shared store instead.
type MemoryLimiter struct {
	mu       sync.Mutex
	failures map[string][]time.Time
	window   time.Duration
	maxFails int
}

func NewMemoryLimiter(window time.Duration, maxFails int) *MemoryLimiter {
	return &MemoryLimiter{
		failures: make(map[string][]time.Time),
		window:   window,
		maxFails: maxFails,
	}
}

// TooMany reports whether key has reached the failure threshold within the
// window. Expired entries are pruned on access.
func (m *MemoryLimiter) TooMany(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.prune(key)) >= m.maxFails
}

// Fail records one failure for key.
func (m *MemoryLimiter) Fail(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failures[key] = append(m.failures[key], time.Now())
}

// Reset wipes the failure history for key, typically after a success.
func (m *MemoryLimiter) Reset(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.failures, key)
}

// prune drops entries older than the window. Callers must hold mu.
func (m *MemoryLimiter) prune(key string) []time.Time {
	now := time.Now()
	kept := m.failures[key][:0]

	for _, stamp := range m.failures[key] {
		if now.Sub(stamp) <= m.window {
			kept = append(kept, stamp)
		}
	}

	m.failures[key] = kept

	return kept
}
