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

package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// ChallengeResponse is the issued nonce returned to the client.
type ChallengeResponse struct {
	// Nonce is the single-use challenge token.
	Nonce string `json:"nonce"`
	// Timestamp is the issuance time in Unix seconds.
	Timestamp float64 `json:"timestamp"`
}

// ChallengePost issues a single-use nonce binding the next verification
// attempt to this authorization round.
func (a *Auth) ChallengePost(
	ctx echo.Context,
) error {
	ch := a.protocol.Challenge()

	return ctx.JSON(http.StatusOK, ChallengeResponse{
		Nonce:     ch.Token,
		Timestamp: float64(ch.IssuedAt.UnixNano()) / float64(time.Second),
	})
}
