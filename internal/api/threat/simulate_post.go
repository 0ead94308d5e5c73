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

package threat

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/facegate-io/facegate/internal/api/common"
	"github.com/facegate-io/facegate/internal/validation"
)

// SimulateRequest selects the attack scenario to run.
type SimulateRequest struct {
	// AttackType names the simulated attack vector.
	AttackType string `json:"attack_type"    validate:"required"`
	// TargetUser the simulation is aimed at.
	TargetUser string `json:"target_user"    validate:"required"`
	// SecurityLevel the defenses are evaluated under.
	SecurityLevel string `json:"security_level" validate:"required,oneof=HIGH MEDIUM LOW"`
}

// SimulatePost runs one deterministic attack simulation.
func (t *Threat) SimulatePost(
	ctx echo.Context,
) error {
	var req SimulateRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, common.ErrorResponse{
			Error: "malformed request body",
		})
	}

	if msg, ok := validation.Struct(req); !ok {
		return ctx.JSON(http.StatusBadRequest, common.ErrorResponse{
			Error: msg,
		})
	}

	result := t.engine.Simulate(
		req.AttackType,
		req.TargetUser,
		req.SecurityLevel,
		ctx.RealIP(),
	)

	return ctx.JSON(http.StatusOK, result)
}
