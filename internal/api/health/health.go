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

// Package health provides the liveness probe API handler.
package health

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// ModelChecker reports whether the embedding extractor is usable.
type ModelChecker interface {
	Loaded() bool
}

// Health handles the /health endpoint.
type Health struct {
	logger    *slog.Logger
	models    ModelChecker
	startTime time.Time
	version   string
}

// New factory to create a new instance.
func New(
	logger *slog.Logger,
	models ModelChecker,
	startTime time.Time,
	version string,
) *Health {
	return &Health{
		logger:    logger,
		models:    models,
		startTime: startTime,
		version:   version,
	}
}

// HealthResponse is the service liveness report.
type HealthResponse struct {
	// Status is "online" while the service is serving.
	Status string `json:"status"`
	// ModelsLoaded is true when the embedding extractor is usable.
	ModelsLoaded bool `json:"models_loaded"`
	// Version of the running binary.
	Version string `json:"version,omitempty"`
	// UptimeSeconds since process start.
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// HealthGet reports service liveness and extractor readiness.
func (h *Health) HealthGet(
	ctx echo.Context,
) error {
	return ctx.JSON(http.StatusOK, HealthResponse{
		Status:        "online",
		ModelsLoaded:  h.models.Loaded(),
		Version:       h.version,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	})
}
