// Package clock abstracts time so device latency can be simulated and
// tested without sleeping.
package clock

import "time"

type Clock interface {
	Now() time.Time

	// After behaves like time.After against this clock.
	After(d time.Duration) <-chan time.Time
}

// Wall is the real system clock.
type Wall struct{}

var _ Clock = Wall{}

func (Wall) Now() time.Time { return time.Now() }

func (Wall) After(d time.Duration) <-chan time.Time { return time.After(d) }
