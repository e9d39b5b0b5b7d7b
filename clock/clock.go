package clock

import (
	"sync/atomic"
	"time"
)

// Clock provides the timestamps assigned to property writes.
//
// ElapsedRealtimeNano must be non-decreasing across calls. The epoch is
// arbitrary; only ordering and deltas are meaningful.
type Clock interface {
	ElapsedRealtimeNano() int64
}

type systemClock struct {
	start time.Time
}

// System returns a clock backed by Go's monotonic reading, counting
// nanoseconds since process start.
func System() Clock {
	return &systemClock{start: processStart}
}

var processStart = time.Now()

func (c *systemClock) ElapsedRealtimeNano() int64 {
	return time.Since(c.start).Nanoseconds()
}

// Manual is a test clock whose reading only moves when advanced.
type Manual struct {
	now atomic.Int64
}

// NewManual creates a manual clock starting at the provided reading.
func NewManual(start int64) *Manual {
	m := &Manual{}
	m.now.Store(start)
	return m
}

// ElapsedRealtimeNano returns the current manual reading.
func (m *Manual) ElapsedRealtimeNano() int64 {
	return m.now.Load()
}

// Advance moves the reading forward by delta nanoseconds.
func (m *Manual) Advance(delta int64) {
	m.now.Add(delta)
}
