// Package clock provides a pausable elapsed-time source.
package clock

import "time"

// Clock measures wall-clock time minus every interval it spent stopped.
// The zero value is a stopped clock reporting zero.
type Clock struct {
	now func() time.Time

	origin    time.Time
	stoppedAt time.Time
	paused    time.Duration
	running   bool
}

// New returns a stopped clock backed by time.Now.
func New() *Clock {
	return &Clock{now: time.Now}
}

// NewWithSource returns a clock reading time from now. Used by tests.
func NewWithSource(now func() time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) time() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

// Start resets the origin and accumulated pause and starts running.
func (c *Clock) Start() {
	c.origin = c.time()
	c.paused = 0
	c.running = true
}

// Stop freezes the elapsed time. Stopping a stopped clock does nothing.
func (c *Clock) Stop() {
	if !c.running {
		return
	}
	c.stoppedAt = c.time()
	c.running = false
}

// Resume continues from where Stop froze the clock. Resuming a running
// clock does nothing.
func (c *Clock) Resume() {
	if c.running {
		return
	}
	if c.origin.IsZero() {
		c.Start()
		return
	}
	c.paused += c.time().Sub(c.stoppedAt)
	c.running = true
}

// Running reports whether the clock is advancing.
func (c *Clock) Running() bool {
	return c.running
}

// ElapsedTime returns wall-clock time since Start minus all pauses.
func (c *Clock) ElapsedTime() time.Duration {
	if c.origin.IsZero() {
		return 0
	}
	end := c.time()
	if !c.running {
		end = c.stoppedAt
	}
	return end.Sub(c.origin) - c.paused
}
