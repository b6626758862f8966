// pkg/dispatch/clock.go

package dispatch

import (
	"sync/atomic"
	"time"
)

// Ticks is a point on the dispatcher's timeline. Tick values are unsigned
// and wrap modulo 2^32; all ordering uses signed-difference comparison, so
// scheduling stays correct across wraparound as long as no interval exceeds
// half the range.
type Ticks uint32

// TimingFunc is the injected monotonic tick source. Its resolution defines
// the library's time unit.
type TimingFunc func() Ticks

// tickBefore reports whether a is earlier than b on the wrapping timeline.
func tickBefore(a, b Ticks) bool {
	return int32(a-b) < 0
}

var processStart = time.Now()

// Millis is the default timing function: monotonic milliseconds since
// process start.
func Millis() Ticks {
	return Ticks(time.Since(processStart).Milliseconds())
}

// TickClock counts ticks emitted by a background time.Ticker. Its Now method
// is a coarse TimingFunc: a dispatcher driven by it advances one tick per
// clock interval regardless of how long callbacks take.
type TickClock struct {
	count atomic.Uint32
	stop  chan struct{}
}

// NewTickClock creates a clock; call Start to begin counting.
func NewTickClock() *TickClock {
	return &TickClock{stop: make(chan struct{})}
}

// Start begins counting ticks at the given interval.
func (c *TickClock) Start(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.count.Add(1)
			case <-c.stop:
				return
			}
		}
	}()
}

// Stop releases the counting goroutine. The clock cannot be restarted.
func (c *TickClock) Stop() {
	close(c.stop)
}

// Now returns the current tick count.
func (c *TickClock) Now() Ticks {
	return Ticks(c.count.Load())
}

// ManualClock is a hand-advanced tick source for tests and lockstep
// simulation. It is not safe for concurrent use, which is fine: the
// dispatcher model is single-threaded anyway.
type ManualClock struct {
	now Ticks
}

// NewManualClock returns a clock positioned at start.
func NewManualClock(start Ticks) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current position.
func (c *ManualClock) Now() Ticks {
	return c.now
}

// Set jumps the clock to t.
func (c *ManualClock) Set(t Ticks) {
	c.now = t
}

// Advance moves the clock forward by n ticks.
func (c *ManualClock) Advance(n Ticks) {
	c.now += n
}
