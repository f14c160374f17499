// Package testutil provides deterministic stand-ins for the simulation's
// time and token sources.
package testutil

// FrameClock hands out a fixed dt per tick so test runs advance simulated
// time identically every execution.
//
// The same scenario driven by the same FrameClock produces byte-identical
// event logs and golden traces.
type FrameClock struct {
	dt      float64
	elapsed float64
	ticks   int64
}

// NewFrameClock creates a clock advancing dt simulated seconds per tick.
// A dt of 0 defaults to 1/60.
func NewFrameClock(dt float64) *FrameClock {
	if dt == 0 {
		dt = 1.0 / 60.0
	}
	return &FrameClock{dt: dt}
}

// Tick returns the frame delta and advances elapsed time.
func (c *FrameClock) Tick() float64 {
	c.ticks++
	c.elapsed += c.dt
	return c.dt
}

// Elapsed returns total simulated seconds handed out so far.
func (c *FrameClock) Elapsed() float64 { return c.elapsed }

// Ticks returns the number of frames handed out so far.
func (c *FrameClock) Ticks() int64 { return c.ticks }

// Reset returns the clock to zero for test reuse.
func (c *FrameClock) Reset() {
	c.elapsed = 0
	c.ticks = 0
}
