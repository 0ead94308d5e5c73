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

// Package auth provides the enrollment and verification API handlers.
package auth

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/facegate-io/facegate/internal/challenge"
	"github.com/facegate-io/facegate/internal/identity"
	"github.com/facegate-io/facegate/internal/verify"
)

// Protocol is the verification protocol surface the handlers drive.
type Protocol interface {
	Challenge() challenge.Challenge
	Register(
		username string,
		role string,
		sourceIP string,
	) (identity.Identity, error)
	Enroll(
		ctx context.Context,
		req verify.EnrollRequest,
	) error
	Verify(
		ctx context.Context,
		req verify.VerifyRequest,
	) verify.Decision
}

// Auth handles the /auth endpoints.
type Auth struct {
	logger   *slog.Logger
	protocol Protocol
}

// New factory to create a new instance.
func New(
	logger *slog.Logger,
	protocol Protocol,
) *Auth {
	return &Auth{
		logger:   logger,
		protocol: protocol,
	}
}

// readImageForm pulls the uploaded image bytes out of a multipart form.
func readImageForm(
	ctx echo.Context,
) ([]byte, error) {
	fh, err := ctx.FormFile("image")
	if err != nil {
		return nil, fmt.Errorf("missing image upload: %w", err)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("opening image upload: %w", err)
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading image upload: %w", err)
	}

	return content, nil
}
