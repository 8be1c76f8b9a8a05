package service

import (
	"sync"
	"time"
)

// Clock returns the current time. Tests substitute a fixed or stepping clock.
type Clock func() time.Time

// IDGenerator hands out time-based ids (Unix milliseconds) that never
// repeat: each id is greater than the previous one and than every id the
// caller reports as already taken.
type IDGenerator struct {
	mu   sync.Mutex
	now  Clock
	last int64
}

// NewIDGenerator creates a generator reading time from now; nil means time.Now.
func NewIDGenerator(now Clock) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Next returns a fresh id strictly greater than every id in taken.
func (g *IDGenerator) Next(taken ...int64) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	for _, t := range taken {
		if id <= t {
			id = t + 1
		}
	}
	g.last = id
	return id
}
