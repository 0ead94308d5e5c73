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

package identity

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store holds registered identities in memory. All mutation is serialized;
// identities are kept in registration order so 1:N matching iterates
// deterministically.
type Store struct {
	mu     sync.Mutex
	order  []string
	byName map[string]*Identity
	now    func() time.Time
}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{
		byName: make(map[string]*Identity),
		now:    time.Now,
	}
}

// Register creates a new identity without biometrics.
func (s *Store) Register(
	username string,
	role string,
) (Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byName[username]; ok {
		return Identity{}, ErrDuplicateUsername
	}

	ident := &Identity{
		ID:        uuid.New().String(),
		Username:  username,
		Role:      role,
		CreatedAt: s.now(),
	}

	s.byName[username] = ident
	s.order = append(s.order, username)

	return *ident, nil
}

// AttachEmbedding attaches or overwrites the identity's face embedding.
// The write is all-or-nothing: an unknown username leaves the store
// unchanged.
func (s *Store) AttachEmbedding(
	username string,
	embedding []float32,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ident, ok := s.byName[username]
	if !ok {
		return ErrNotFound
	}

	vec := make([]float32, len(embedding))
	copy(vec, embedding)
	ident.Embedding = vec

	return nil
}

// GetByUsername returns a copy of the identity.
func (s *Store) GetByUsername(
	username string,
) (Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ident, ok := s.byName[username]
	if !ok {
		return Identity{}, ErrNotFound
	}

	return *ident, nil
}

// Enrolled returns copies of all identities with embeddings, in
// registration order.
func (s *Store) Enrolled() []Identity {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Identity, 0, len(s.order))
	for _, username := range s.order {
		ident := s.byName[username]
		if ident.Enrolled() {
			out = append(out, *ident)
		}
	}

	return out
}

// Count returns the number of registered identities.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.order)
}
