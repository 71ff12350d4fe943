package attempt

import (
	"sync"
	"time"
)

// Clock is a restartable one-second countdown. It emits tick(remaining) once
// per interval and exactly one expired callback when the count reaches zero;
// no tick is delivered after expiry. Start while running replaces the
// countdown instead of stacking a second timer.
type Clock struct {
	mu       sync.Mutex
	interval time.Duration
	tick     func(remaining int)
	expired  func()
	stop     chan struct{} // nil when not running
}

// NewClock creates a Clock ticking once per second. Either callback may be
// nil. Callbacks run on the clock goroutine; receivers guard their own state.
func NewClock(tick func(int), expired func()) *Clock {
	return &Clock{
		interval: time.Second,
		tick:     tick,
		expired:  expired,
	}
}

// SetInterval overrides the tick interval. Only for tests; call before Start.
func (c *Clock) SetInterval(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interval = d
}

// Start begins counting down from totalSeconds. Any running countdown is
// stopped first, so at most one timer exists at a time.
func (c *Clock) Start(totalSeconds int) {
	if totalSeconds <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	stop := make(chan struct{})
	c.stop = stop
	go c.run(totalSeconds, stop)
}

// Stop halts emission. Idempotent.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

// Running reports whether a countdown is active.
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stop != nil
}

func (c *Clock) stopLocked() {
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

func (c *Clock) run(remaining int, stop chan struct{}) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// The ticker may fire in the same instant Stop closes the
			// channel; re-check so a stopped clock never emits.
			select {
			case <-stop:
				return
			default:
			}

			remaining--
			if c.tick != nil {
				c.tick(remaining)
			}
			if remaining <= 0 {
				c.finish(stop)
				if c.expired != nil {
					c.expired()
				}
				return
			}
		}
	}
}

// finish clears the stop channel so a later Stop is a no-op, but only if the
// clock was not restarted in the meantime.
func (c *Clock) finish(stop chan struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop == stop {
		c.stop = nil
	}
}
