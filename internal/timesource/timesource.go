// Package timesource provides the engine's abstract nanosecond clock. The
// engine never reads wall-clock time directly; every timestamp threaded
// into an event originates from a Source injected at construction. This is
// the substrate of the determinism guarantee: a Simulated source paired
// with an identical input sequence produces a bit-identical event stream.
package timesource

import (
	"sync/atomic"
	"time"
)

// Source is a polymorphic nanosecond clock.
type Source interface {
	NowNs() uint64
}

// Simulated is an internal counter moved forward only by explicit calls to
// Advance or Set. Safe for the producer thread only, matching the rest of
// the core's single-producer discipline.
type Simulated struct {
	current uint64
}

// NewSimulated returns a Simulated source starting at initialNs.
func NewSimulated(initialNs uint64) *Simulated {
	return &Simulated{current: initialNs}
}

func (s *Simulated) NowNs() uint64 {
	return atomic.LoadUint64(&s.current)
}

// Advance moves the clock forward by deltaNs.
func (s *Simulated) Advance(deltaNs uint64) {
	atomic.AddUint64(&s.current, deltaNs)
}

// Set moves the clock to an arbitrary point, forward or backward.
func (s *Simulated) Set(ns uint64) {
	atomic.StoreUint64(&s.current, ns)
}

// Monotonic reads a real steady clock and returns nanoseconds elapsed since
// construction.
type Monotonic struct {
	start time.Time
}

// NewMonotonic returns a Monotonic source anchored to the current instant.
func NewMonotonic() *Monotonic {
	return &Monotonic{start: time.Now()}
}

func (m *Monotonic) NowNs() uint64 {
	return uint64(time.Since(m.start).Nanoseconds())
}
