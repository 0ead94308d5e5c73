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
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/facegate-io/facegate/internal/api/common"
	"github.com/facegate-io/facegate/internal/identity"
	"github.com/facegate-io/facegate/internal/verify"
)

// EnrollResponse confirms a successful enrollment.
type EnrollResponse struct {
	// Success is always true on a 200 response.
	Success bool `json:"success"`
	// Message describes the outcome.
	Message string `json:"message"`
}

// EnrollPost attaches a face embedding to a registered identity.
func (a *Auth) EnrollPost(
	ctx echo.Context,
) error {
	username := ctx.FormValue("username")
	if username == "" {
		return ctx.JSON(http.StatusBadRequest, common.ErrorResponse{
			Error: "username is required",
		})
	}

	content, err := readImageForm(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, common.ErrorResponse{
			Error: err.Error(),
		})
	}

	err = a.protocol.Enroll(ctx.Request().Context(), verify.EnrollRequest{
		Username: username,
		Image:    content,
		SourceIP: ctx.RealIP(),
	})
	if err != nil {
		var qualityErr *verify.QualityError

		switch {
		case errors.Is(err, identity.ErrNotFound):
			return ctx.JSON(http.StatusNotFound, common.ErrorResponse{
				Error: "User not found",
			})
		case errors.As(err, &qualityErr):
			return ctx.JSON(http.StatusBadRequest, common.ErrorResponse{
				Error: fmt.Sprintf("Image Quality Check Failed: %s", qualityErr.Reason),
			})
		default:
			return ctx.JSON(http.StatusInternalServerError, common.ErrorResponse{
				Error: err.Error(),
			})
		}
	}

	return ctx.JSON(http.StatusOK, EnrollResponse{
		Success: true,
		Message: fmt.Sprintf("User %s enrolled successfully.", username),
	})
}
