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

package audit

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	auditstore "github.com/facegate-io/facegate/internal/audit"
)

// defaultLogsLimit applies when the limit query parameter is absent.
const defaultLogsLimit = 50

// LogsResponse is one page of audit events, newest first.
type LogsResponse struct {
	// Events in descending timestamp order.
	Events []auditstore.Event `json:"events"`
	// Total number of retained events.
	Total int `json:"total"`
	// Limit applied to this page.
	Limit int `json:"limit"`
	// Offset applied to this page.
	Offset int `json:"offset"`
}

// LogsGet returns a page of retained audit events, newest first.
func (a *Audit) LogsGet(
	ctx echo.Context,
) error {
	limit := queryInt(ctx, "limit", defaultLogsLimit)
	offset := queryInt(ctx, "offset", 0)

	if limit < 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}

	events, total := a.store.Page(limit, offset)

	return ctx.JSON(http.StatusOK, LogsResponse{
		Events: events,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// queryInt parses an integer query parameter, falling back on absence or
// garbage.
func queryInt(
	ctx echo.Context,
	name string,
	fallback int,
) int {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}
