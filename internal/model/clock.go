package model

import (
	"sync"
	"time"
)

type Clock struct {
	mu          sync.Mutex
	initial     time.Duration
	timeLeft    time.Duration
	lastStarted time.Time // When the clock was last started
	isRunning   bool
}

func NewClock(initialTime time.Duration) *Clock {
	return &Clock{
		initial:  initialTime,
		timeLeft: initialTime,
	}
}

func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		c.lastStarted = time.Now()
		c.isRunning = true
	}
}

func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		c.timeLeft -= time.Since(c.lastStarted)
		c.isRunning = false
	}
}

// Reset stops the clock and restores the initial time.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.timeLeft = c.initial
	c.isRunning = false
}

func (c *Clock) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		return c.timeLeft - time.Since(c.lastStarted)
	}
	return c.timeLeft
}

func (c *Clock) Expired() bool {
	return c.Remaining() <= 0
}

// deciseconds is the unit clients display.
func deciseconds(d time.Duration) int {
	if d < 0 {
		return 0
	}
	return int(d.Milliseconds() / 100)
}
