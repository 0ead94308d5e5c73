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

// Package challenge issues and consumes single-use verification nonces.
package challenge

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidNonce is returned for unknown, expired, and already-consumed
// tokens alike. The three cases are deliberately indistinguishable so the
// endpoint cannot be used as an oracle for which tokens ever existed.
var ErrInvalidNonce = errors.New("invalid or expired challenge")

// Challenge binds one verification attempt to one authorization round.
type Challenge struct {
	// Token is the opaque single-use value the client must echo back.
	Token string `json:"nonce"`
	// IssuedAt is when the challenge was created.
	IssuedAt time.Time `json:"issued_at"`
}

// Manager owns the live nonce set. Consume is an atomic check-and-remove:
// of two racing Consume calls for one token, exactly one succeeds.
type Manager struct {
	mu     sync.Mutex
	live   map[string]time.Time
	ttl    time.Duration
	now    func() time.Time
	newTok func() string
}

// Option configures a Manager.
type Option func(*Manager)

// WithNow overrides the clock. Used by tests.
func WithNow(
	now func() time.Time,
) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a new Manager with the given nonce TTL.
func NewManager(
	ttl time.Duration,
	opts ...Option,
) *Manager {
	m := &Manager{
		live:   make(map[string]time.Time),
		ttl:    ttl,
		now:    time.Now,
		newTok: func() string { return uuid.New().String() },
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Issue generates a token unique among live tokens and records its
// issuance time. Expired entries are purged opportunistically.
func (m *Manager) Issue() Challenge {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.purgeLocked(now)

	token := m.newTok()
	for {
		if _, exists := m.live[token]; !exists {
			break
		}
		token = m.newTok()
	}

	m.live[token] = now

	return Challenge{
		Token:    token,
		IssuedAt: now,
	}
}

// Consume validates and removes the token in one critical section.
// Unknown, expired, and reused tokens all fail identically.
func (m *Manager) Consume(
	token string,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.purgeLocked(now)

	issuedAt, ok := m.live[token]
	if !ok {
		return ErrInvalidNonce
	}

	if now.Sub(issuedAt) > m.ttl {
		// Expired but not yet purged; remove and fail the same way.
		delete(m.live, token)
		return ErrInvalidNonce
	}

	delete(m.live, token)

	return nil
}

// Live returns the number of currently-live tokens.
func (m *Manager) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.live)
}

// purgeLocked drops expired entries. Callers must hold mu.
func (m *Manager) purgeLocked(
	now time.Time,
) {
	for token, issuedAt := range m.live {
		if now.Sub(issuedAt) > m.ttl {
			delete(m.live, token)
		}
	}
}
