package instrument

import (
	"sync"
	"time"
)

// TrackActive increments g and returns a stop function that decrements it,
// for tracking in-flight work:
//
//	defer instrument.TrackActive(&m.Active)()
//
// The stop function is idempotent; extra calls are no-ops.
func TrackActive(g *Gauge) func() {
	g.Inc()
	var once sync.Once
	return func() { once.Do(g.Dec) }
}

// TimeMillis returns a stop function that adds the elapsed wall-clock
// milliseconds since the TimeMillis call to c:
//
//	defer instrument.TimeMillis(&m.LookupMillis)()
//
// The stop function is idempotent; extra calls are no-ops.
func TimeMillis(c *Counter) func() {
	start := time.Now()
	var once sync.Once
	return func() {
		once.Do(func() { c.Add(uint64(time.Since(start).Milliseconds())) })
	}
}

// TimeMicros is TimeMillis at microsecond resolution.
func TimeMicros(c *Counter) func() {
	start := time.Now()
	var once sync.Once
	return func() {
		once.Do(func() { c.Add(uint64(time.Since(start).Microseconds())) })
	}
}
