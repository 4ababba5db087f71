package mock

import (
	"sync"
	"time"

	"github.com/rabidaudio/flashgate/clock"
)

// Clock is a manual clock. Timers never fire on their own; the test
// advances time explicitly.
type Clock struct {
	mu     sync.Mutex
	now    time.Time
	timers []mockTimer
}

type mockTimer struct {
	deadline time.Time
	ch       chan time.Time
}

var _ clock.Clock = (*Clock)(nil)

func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- c.now
		return ch
	}
	c.timers = append(c.timers, mockTimer{deadline: c.now.Add(d), ch: ch})
	return ch
}

// Advance moves the clock forward and fires every timer whose deadline has
// been reached.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	keep := c.timers[:0]
	for _, t := range c.timers {
		if t.deadline.After(c.now) {
			keep = append(keep, t)
		} else {
			t.ch <- c.now
		}
	}
	c.timers = keep
}
