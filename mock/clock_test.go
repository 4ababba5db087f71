package mock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockAdvance(t *testing.T) {
	c := NewClock(time.Unix(100, 0))
	assert.Equal(t, time.Unix(100, 0), c.Now())

	ch := c.After(10 * time.Second)
	select {
	case <-ch:
		t.Fatal("timer fired without Advance")
	default:
	}

	c.Advance(5 * time.Second)
	select {
	case <-ch:
		t.Fatal("timer fired early")
	default:
	}

	c.Advance(5 * time.Second)
	assert.Equal(t, time.Unix(110, 0), <-ch)
}

func TestClockZeroDurationFiresImmediately(t *testing.T) {
	c := NewClock(time.Unix(0, 0))
	assert.Equal(t, time.Unix(0, 0), <-c.After(0))
}
