package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualClock_AdvanceFiresDueTimer(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewManualClock(start)

	fired := false
	c.AfterFunc(5*time.Second, func() { fired = true })

	c.Advance(4 * time.Second)
	assert.False(t, fired)

	c.Advance(1 * time.Second)
	assert.True(t, fired)
}

func TestManualClock_FiresInDeadlineOrder(t *testing.T) {
	c := NewManualClock(time.Now())
	var order []int

	c.AfterFunc(3*time.Second, func() { order = append(order, 3) })
	c.AfterFunc(1*time.Second, func() { order = append(order, 1) })
	c.AfterFunc(2*time.Second, func() { order = append(order, 2) })

	c.Advance(3 * time.Second)
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestManualClock_StopPreventsFiring(t *testing.T) {
	c := NewManualClock(time.Now())
	fired := false
	timer := c.AfterFunc(1*time.Second, func() { fired = true })

	assert.True(t, timer.Stop())
	c.Advance(2 * time.Second)
	assert.False(t, fired)

	assert.False(t, timer.Stop())
}

func TestManualClock_RearmedTimerFromWithinCallback(t *testing.T) {
	c := NewManualClock(time.Now())
	calls := 0

	var schedule func()
	schedule = func() {
		calls++
		if calls < 3 {
			c.AfterFunc(1*time.Second, schedule)
		}
	}
	c.AfterFunc(1*time.Second, schedule)

	c.Advance(1 * time.Second)
	c.Advance(1 * time.Second)
	c.Advance(1 * time.Second)

	assert.Equal(t, 3, calls)
}
