// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

// Package lockout tracks consecutive verification failures per source and
// blocks further attempts once the threshold is reached.
package lockout

import (
	"sync"
	"time"
)

// State is the lock status of a key.
type State struct {
	// Locked is true while the key's cooldown is in effect.
	Locked bool `json:"locked"`
	// Until is when the lock expires; zero when unlocked.
	Until time.Time `json:"until,omitempty"`
	// Failures is the current consecutive failure count.
	Failures int `json:"failures"`
}

// counter tracks failures for one key.
type counter struct {
	count       int
	windowStart time.Time
	lockedUntil time.Time
}

// Policy applies a rolling-window failure threshold with a cooldown.
// Every operation is a single critical section: a racing failure and
// lock decision can never interleave.
type Policy struct {
	mu          sync.Mutex
	counters    map[string]*counter
	maxFailures int
	window      time.Duration
	cooldown    time.Duration
	now         func() time.Time
}

// Option configures a Policy.
type Option func(*Policy)

// WithNow overrides the clock. Used by tests.
func WithNow(
	now func() time.Time,
) Option {
	return func(p *Policy) {
		p.now = now
	}
}

// NewPolicy creates a new Policy.
func NewPolicy(
	maxFailures int,
	window time.Duration,
	cooldown time.Duration,
	opts ...Option,
) *Policy {
	p := &Policy{
		counters:    make(map[string]*counter),
		maxFailures: maxFailures,
		window:      window,
		cooldown:    cooldown,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// RecordFailure increments the key's counter, engaging a lock when the
// threshold is reached within the rolling window. Returns the resulting
// state.
func (p *Policy) RecordFailure(
	key string,
) State {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	c := p.counters[key]
	if c == nil {
		c = &counter{}
		p.counters[key] = c
	}

	// An expired lock or a lapsed window restarts the count.
	if !c.lockedUntil.IsZero() && !now.Before(c.lockedUntil) {
		c.count = 0
		c.lockedUntil = time.Time{}
	}
	if c.count > 0 && now.Sub(c.windowStart) > p.window {
		c.count = 0
	}

	if c.count == 0 {
		c.windowStart = now
	}
	c.count++

	if c.count >= p.maxFailures && c.lockedUntil.IsZero() {
		c.lockedUntil = now.Add(p.cooldown)
	}

	return p.stateLocked(c, now)
}

// RecordSuccess resets the key's counter and clears any lock.
func (p *Policy) RecordSuccess(
	key string,
) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.counters, key)
}

// Check returns the key's current lock state. Callers consult this before
// any image processing so locked sources fail fast.
func (p *Policy) Check(
	key string,
) State {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	c := p.counters[key]
	if c == nil {
		return State{}
	}

	if !c.lockedUntil.IsZero() && !now.Before(c.lockedUntil) {
		c.count = 0
		c.lockedUntil = time.Time{}
	}

	return p.stateLocked(c, now)
}

// stateLocked snapshots a counter. Callers must hold mu.
func (p *Policy) stateLocked(
	c *counter,
	now time.Time,
) State {
	s := State{Failures: c.count}
	if !c.lockedUntil.IsZero() && now.Before(c.lockedUntil) {
		s.Locked = true
		s.Until = c.lockedUntil
	}

	return s
}
