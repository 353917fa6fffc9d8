package mocks

import (
	"sort"
	"sync"
	"time"

	"github.com/mcoot/wordduel/internal/dependencies/clock"
)

// MockClock is a mock implementation of Clock for testing.
// Scheduled callbacks only run when Advance or Set moves time past them.
type MockClock struct {
	mu      sync.Mutex
	current time.Time
	timers  []*MockTimer
}

// Ensure MockClock implements Clock
var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{current: t}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// AfterFunc registers f to run once the clock reaches now+d
func (c *MockClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &MockTimer{clock: c, at: c.current.Add(d), fn: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward by the given duration, synchronously
// running every callback that became due in deadline order
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.current.Add(d)
	c.mu.Unlock()
	c.Set(target)
}

// Set sets the clock to the given time and runs due callbacks
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	var due, pending []*MockTimer
	for _, timer := range c.timers {
		if !timer.at.After(t) {
			due = append(due, timer)
		} else {
			pending = append(pending, timer)
		}
	}
	c.timers = pending
	for _, timer := range due {
		timer.fired = true
	}
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	for _, timer := range due {
		timer.fn()
	}
}

// PendingTimers returns the number of scheduled callbacks not yet run or stopped
func (c *MockClock) PendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// MockTimer is a callback scheduled on a MockClock
type MockTimer struct {
	clock *MockClock
	at    time.Time
	fn    func()
	fired bool
}

// Stop removes the timer from its clock
func (t *MockTimer) Stop() bool {
	c := t.clock
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.fired {
		return false
	}
	for i, timer := range c.timers {
		if timer == t {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return true
		}
	}
	return false
}
