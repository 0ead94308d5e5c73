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

// Package identity provides the in-memory identity store.
package identity

import (
	"errors"
	"time"
)

// ErrDuplicateUsername is returned when registering an existing username.
var ErrDuplicateUsername = errors.New("username already exists")

// ErrNotFound is returned when no identity matches the username.
var ErrNotFound = errors.New("identity not found")

// Identity is a registered subject, optionally enrolled with a face embedding.
type Identity struct {
	// ID is the unique identifier assigned at registration.
	ID string `json:"id"`
	// Username is unique across the store.
	Username string `json:"username"`
	// Role is the subject's business role, returned on authorization.
	Role string `json:"role"`
	// Embedding is the enrolled face vector; nil until enrollment.
	Embedding []float32 `json:"embedding,omitempty"`
	// CreatedAt is the registration time.
	CreatedAt time.Time `json:"created_at"`
}

// Enrolled reports whether the identity has a face embedding attached.
func (i Identity) Enrolled() bool {
	return len(i.Embedding) > 0
}
