package instrument

import "sync/atomic"

// Gauge is a thread-safe metric cell whose value can move up, down, or be
// set absolutely (e.g., current in-flight requests, items held in a cache).
// The zero value is ready to use.
//
// All methods are safe for concurrent use; updates are atomic and arithmetic
// wraps modulo 2^64 (decrementing below zero is defined, not an error).
type Gauge struct {
	nc noCopy

	v atomic.Uint64
}

// Inc increments the gauge by 1.
func (g *Gauge) Inc() { g.v.Add(1) }

// Add increments the gauge by delta.
func (g *Gauge) Add(delta uint64) { g.v.Add(delta) }

// Dec decrements the gauge by 1.
func (g *Gauge) Dec() { g.v.Add(^uint64(0)) }

// Sub decrements the gauge by delta.
func (g *Gauge) Sub(delta uint64) { g.v.Add(^(delta - 1)) }

// Set overwrites the gauge with v.
func (g *Gauge) Set(v uint64) { g.v.Store(v) }

// Value returns the current value. Safe to call concurrently with updates;
// never returns a torn value.
func (g *Gauge) Value() uint64 { return g.v.Load() }
