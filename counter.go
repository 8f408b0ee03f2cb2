package instrument

import "sync/atomic"

// Counter is a thread-safe monotonic metric cell.
// The zero value is ready to use, so a metrics struct needs no constructor:
//
//	type cacheMetrics struct {
//		Hits   instrument.Counter
//		Misses instrument.Counter
//	}
//
// All methods are safe for concurrent use. Updates are atomic: no increment
// is ever lost, regardless of how many goroutines update the same cell.
// The value wraps modulo 2^64 on overflow; wraparound is defined behavior,
// not an error.
type Counter struct {
	// noCopy prevents accidental copying of the cell; a copy would split
	// the metric into two independent values.
	nc noCopy

	v atomic.Uint64
}

// Inc increments the counter by 1.
func (c *Counter) Inc() { c.v.Add(1) }

// Add increments the counter by delta.
func (c *Counter) Add(delta uint64) { c.v.Add(delta) }

// Value returns the current value. It is safe to call concurrently with
// updates and never returns a torn value; it may trail in-flight increments.
func (c *Counter) Value() uint64 { return c.v.Load() }

// noCopy is a vet-recognized marker to discourage copying types with this field embedded.
// It works with the "-copylocks" analyzer via the presence of Lock/Unlock methods.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
