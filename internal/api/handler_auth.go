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

package api

import (
	"github.com/labstack/echo/v4"

	"github.com/facegate-io/facegate/internal/api/auth"
)

// GetAuthHandler returns the auth handler for registration. The /auth
// endpoints are the client-facing protocol surface and carry no bearer
// auth; the nonce challenge is the protocol's own protection.
func (s *Server) GetAuthHandler(
	protocol auth.Protocol,
) []func(e *echo.Echo) {
	authHandler := auth.New(s.logger, protocol)

	return []func(e *echo.Echo){
		func(e *echo.Echo) {
			e.POST("/auth/challenge", authHandler.ChallengePost)
			e.POST("/auth/register", authHandler.RegisterPost)
			e.POST("/auth/enroll", authHandler.EnrollPost)
			e.POST("/auth/verify", authHandler.VerifyPost)
		},
	}
}
