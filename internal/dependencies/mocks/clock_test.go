package mocks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMockClockRunsDueTimersInOrder(t *testing.T) {
	c := NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	var fired []string
	c.AfterFunc(2*time.Second, func() { fired = append(fired, "second") })
	c.AfterFunc(time.Second, func() { fired = append(fired, "first") })
	c.AfterFunc(time.Minute, func() { fired = append(fired, "late") })

	c.Advance(5 * time.Second)

	assert.Equal(t, []string{"first", "second"}, fired)
	assert.Equal(t, 1, c.PendingTimers())
}

func TestMockTimerStop(t *testing.T) {
	c := NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())
	c.Advance(time.Hour)
	assert.False(t, fired)
}

func TestMockTimerStopAfterFire(t *testing.T) {
	c := NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	timer := c.AfterFunc(time.Second, func() {})
	c.Advance(time.Second)

	assert.False(t, timer.Stop())
}

func TestCallbackMayScheduleAgain(t *testing.T) {
	c := NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	count := 0
	var tick func()
	tick = func() {
		count++
		c.AfterFunc(time.Second, tick)
	}
	c.AfterFunc(time.Second, tick)

	c.Advance(time.Second)
	c.Advance(time.Second)

	assert.Equal(t, 2, count)
}
