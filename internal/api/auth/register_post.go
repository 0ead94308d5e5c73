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
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/facegate-io/facegate/internal/api/common"
	"github.com/facegate-io/facegate/internal/identity"
	"github.com/facegate-io/facegate/internal/validation"
)

// registerRequest is the form payload for registration.
type registerRequest struct {
	Username string `validate:"required,min=1,max=64"`
	Role     string `validate:"required,min=1,max=64"`
}

// RegisterResponse is the created identity record.
type RegisterResponse struct {
	// ID is the identity's unique identifier.
	ID string `json:"id"`
	// Username of the identity.
	Username string `json:"username"`
	// Role of the identity.
	Role string `json:"role"`
	// CreatedAt is the creation time in Unix seconds.
	CreatedAt float64 `json:"created_at"`
}

// RegisterPost creates a new identity without biometrics.
func (a *Auth) RegisterPost(
	ctx echo.Context,
) error {
	req := registerRequest{
		Username: ctx.FormValue("username"),
		Role:     ctx.FormValue("role"),
	}

	if msg, ok := validation.Struct(req); !ok {
		return ctx.JSON(http.StatusBadRequest, common.ErrorResponse{
			Error: msg,
		})
	}

	ident, err := a.protocol.Register(req.Username, req.Role, ctx.RealIP())
	if err != nil {
		if errors.Is(err, identity.ErrDuplicateUsername) {
			return ctx.JSON(http.StatusBadRequest, common.ErrorResponse{
				Error: "Username already exists",
			})
		}

		return ctx.JSON(http.StatusInternalServerError, common.ErrorResponse{
			Error: err.Error(),
		})
	}

	return ctx.JSON(http.StatusOK, RegisterResponse{
		ID:        ident.ID,
		Username:  ident.Username,
		Role:      ident.Role,
		CreatedAt: float64(ident.CreatedAt.UnixNano()) / float64(time.Second),
	})
}
