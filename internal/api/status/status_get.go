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

package status

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// StatusResponse is the lockout state of the requesting source.
type StatusResponse struct {
	// Locked is true while the source's cooldown is in effect.
	Locked bool `json:"locked"`
	// Until is the lock expiry in RFC 3339; omitted when unlocked.
	Until string `json:"until,omitempty"`
	// Failures is the source's current consecutive failure count.
	Failures int `json:"failures"`
}

// StatusGet returns the lockout state for the requesting source. A
// `source` query parameter overrides the client address, letting
// operators inspect any key.
func (s *Status) StatusGet(
	ctx echo.Context,
) error {
	key := ctx.QueryParam("source")
	if key == "" {
		key = ctx.RealIP()
	}

	state := s.lockout.Check(key)

	resp := StatusResponse{
		Locked:   state.Locked,
		Failures: state.Failures,
	}
	if state.Locked {
		resp.Until = state.Until.Format(time.RFC3339)
	}

	return ctx.JSON(http.StatusOK, resp)
}
