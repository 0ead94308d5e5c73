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

package cmd

import (
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/facegate-io/facegate/internal/api"
	"github.com/facegate-io/facegate/internal/audit"
	"github.com/facegate-io/facegate/internal/challenge"
	"github.com/facegate-io/facegate/internal/cli"
	"github.com/facegate-io/facegate/internal/extractor"
	"github.com/facegate-io/facegate/internal/identity"
	"github.com/facegate-io/facegate/internal/liveness"
	"github.com/facegate-io/facegate/internal/lockout"
	"github.com/facegate-io/facegate/internal/metrics"
	"github.com/facegate-io/facegate/internal/threatsim"
	"github.com/facegate-io/facegate/internal/verify"
)

// version is overridden at build time via ldflags.
var version = "dev"

// serverStartCmd represents the serverStart command.
var serverStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the server",
	Long: `Start the access control API server.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		m := metrics.New()
		auditLog := audit.NewLog(logger, appConfig.Audit.Capacity)
		identities := identity.NewStore()
		challenges := challenge.NewManager(appConfig.Challenge.TTL)
		gate := liveness.NewGate(
			appConfig.Liveness.MinSharpness,
			appConfig.Liveness.MinBrightness,
			appConfig.Liveness.MaxBrightness,
		)
		lockouts := lockout.NewPolicy(
			appConfig.Lockout.MaxFailures,
			appConfig.Lockout.Window,
			appConfig.Lockout.Cooldown,
		)

		var ext extractor.Extractor
		cleanup := func() {}

		switch appConfig.Verification.Extractor.Backend {
		case "nats":
			nc, err := nats.Connect(
				appConfig.Verification.Extractor.NATS.URL,
				nats.Name("facegate-api"),
			)
			if err != nil {
				cli.LogFatal(logger, "failed to connect to extractor NATS", err,
					"url", appConfig.Verification.Extractor.NATS.URL)
			}

			ext = extractor.NewNATS(logger, nc, appConfig.Verification.Extractor.NATS.Subject)
			cleanup = nc.Close
		default:
			ext = extractor.NewStub()
		}

		orchestrator := verify.New(logger, verify.Options{
			Challenges:          challenges,
			Gate:                gate,
			Extractor:           ext,
			Identities:          identities,
			Audit:               auditLog,
			Lockouts:            lockouts,
			Metrics:             m,
			SimilarityThreshold: appConfig.Verification.SimilarityThreshold,
			ExtractTimeout:      appConfig.Verification.Extractor.Timeout,
		})
		engine := threatsim.New(logger, auditLog, m)

		server := api.New(appConfig, logger)
		server.RegisterHandlers(
			server.GetAuthHandler(orchestrator),
			server.GetAuditHandler(auditLog),
			server.GetStatusHandler(lockouts),
			server.GetHealthHandler(ext, time.Now(), version),
			server.GetThreatHandler(engine),
			server.GetMetricsHandler(m),
		)

		server.Start()
		cli.RunServer(ctx, server, cleanup)
	},
}

func init() {
	serverCmd.AddCommand(serverStartCmd)
}
