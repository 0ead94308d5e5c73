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
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	auditapi "github.com/facegate-io/facegate/internal/api/audit"
	"github.com/facegate-io/facegate/internal/audit"
	"github.com/facegate-io/facegate/internal/audit/export"
	"github.com/facegate-io/facegate/internal/cli"
)

var (
	auditExportOutput string
	auditExportURL    string
	auditExportToken  string
	auditExportBatch  int
)

// auditExportCmd represents the auditExport command.
var auditExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export audit log entries to a file",
	Long: `Export all audit log entries to a file for long-term retention.

Fetches all entries from a running server's /audit/logs endpoint and
writes each entry as a JSON line (JSONL format). Requires a token with
audit:read permission.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		fetcher := httpFetcher(auditExportURL, auditExportToken)
		exporter := export.NewFileExporter(appFs, auditExportOutput)

		result, err := export.Run(
			ctx,
			logger,
			fetcher,
			exporter,
			auditExportBatch,
			nil,
		)
		if err != nil {
			cli.LogFatal(logger, "export failed", err)
		}

		logger.Info(
			"exported audit log",
			slog.Int("exported", result.ExportedEntries),
			slog.Int("total", result.TotalEntries),
			slog.String("output", auditExportOutput),
		)
	},
}

// httpFetcher pages through a running server's audit log endpoint.
func httpFetcher(
	baseURL string,
	token string,
) export.Fetcher {
	return func(ctx context.Context, limit int, offset int) ([]audit.Event, int, error) {
		u, err := url.Parse(baseURL + "/audit/logs")
		if err != nil {
			return nil, 0, fmt.Errorf("parsing server url: %w", err)
		}

		q := u.Query()
		q.Set("limit", strconv.Itoa(limit))
		q.Set("offset", strconv.Itoa(offset))
		u.RawQuery = q.Encode()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, 0, fmt.Errorf("building request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, 0, fmt.Errorf("fetching audit page: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			return nil, 0, fmt.Errorf("server returned status %d", resp.StatusCode)
		}

		var page auditapi.LogsResponse
		if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
			return nil, 0, fmt.Errorf("decoding audit page: %w", err)
		}

		return page.Events, page.Total, nil
	}
}

func init() {
	auditCmd.AddCommand(auditExportCmd)

	auditExportCmd.Flags().
		StringVar(&auditExportOutput, "output", "", "Output file path (required)")
	auditExportCmd.Flags().
		StringVar(&auditExportURL, "server-url", "http://127.0.0.1:8000", "Base URL of the running server")
	auditExportCmd.Flags().
		StringVar(&auditExportToken, "token", "", "Bearer token with audit:read permission (required)")
	auditExportCmd.Flags().
		IntVar(&auditExportBatch, "batch-size", 200, "Entries fetched per request")

	_ = auditExportCmd.MarkFlagRequired("output")
	_ = auditExportCmd.MarkFlagRequired("token")
}
