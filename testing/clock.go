// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package testing

import (
	"sync"
	"time"

	"github.com/juju/clock"
)

// Clock is a clock.Clock whose time moves only when something waits on
// it: every wait advances the clock by its duration and fires at once.
// Poll loops driven by it run to completion without sleeping.
type Clock struct {
	mu    sync.Mutex
	now   time.Time
	waits []time.Duration
}

var _ clock.Clock = (*Clock)(nil)

// NewClock returns a new clock set to the supplied time.
func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

// Now is part of the clock.Clock interface.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// After is part of the clock.Clock interface.
func (c *Clock) After(d time.Duration) <-chan time.Time {
	notify := make(chan time.Time, 1)
	notify <- c.wait(d)
	return notify
}

// AfterFunc is part of the clock.Clock interface.
func (c *Clock) AfterFunc(d time.Duration, f func()) clock.Timer {
	t := c.NewTimer(d)
	go f()
	return t
}

// NewTimer is part of the clock.Clock interface.
func (c *Clock) NewTimer(d time.Duration) clock.Timer {
	t := &timer{clock: c, ch: make(chan time.Time, 1)}
	t.ch <- c.wait(d)
	return t
}

// Advance moves the clock forward without recording a wait.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Waits returns the durations waited on so far.
func (c *Clock) Waits() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.waits...)
}

func (c *Clock) wait(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.waits = append(c.waits, d)
	if d > 0 {
		c.now = c.now.Add(d)
	}
	return c.now
}

type timer struct {
	clock *Clock
	ch    chan time.Time
}

// Chan is part of the clock.Timer interface.
func (t *timer) Chan() <-chan time.Time {
	return t.ch
}

// Reset is part of the clock.Timer interface.
func (t *timer) Reset(d time.Duration) bool {
	select {
	case <-t.ch:
	default:
	}
	t.ch <- t.clock.wait(d)
	return true
}

// Stop is part of the clock.Timer interface.
func (t *timer) Stop() bool {
	return false
}
