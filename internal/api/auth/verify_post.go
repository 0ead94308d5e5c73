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

	"github.com/labstack/echo/v4"

	"github.com/facegate-io/facegate/internal/api/common"
	"github.com/facegate-io/facegate/internal/verify"
)

// VerifyPost runs one verification attempt. Protocol denials (liveness,
// no face, below threshold) are soft-denies returned with 200; only the
// replay and lockout rejections surface as HTTP errors.
func (a *Auth) VerifyPost(
	ctx echo.Context,
) error {
	nonce := ctx.FormValue("nonce")
	if nonce == "" {
		return ctx.JSON(http.StatusForbidden, common.ErrorResponse{
			Error: "Invalid or expired challenge (Replay Attack Protection)",
		})
	}

	content, err := readImageForm(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, common.ErrorResponse{
			Error: err.Error(),
		})
	}

	decision := a.protocol.Verify(ctx.Request().Context(), verify.VerifyRequest{
		Nonce:    nonce,
		Image:    content,
		SourceIP: ctx.RealIP(),
	})

	switch decision.Reason {
	case verify.ReasonInvalidNonce:
		return ctx.JSON(http.StatusForbidden, common.ErrorResponse{
			Error: "Invalid or expired challenge (Replay Attack Protection)",
		})
	case verify.ReasonLocked:
		return ctx.JSON(http.StatusLocked, common.ErrorResponse{
			Error: decision.Message,
		})
	}

	return ctx.JSON(http.StatusOK, decision)
}
