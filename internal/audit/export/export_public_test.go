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

package export_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/suite"

	"github.com/facegate-io/facegate/internal/audit"
	"github.com/facegate-io/facegate/internal/audit/export"
)

type ExportPublicTestSuite struct {
	suite.Suite

	fs afero.Fs
}

func (s *ExportPublicTestSuite) SetupTest() {
	s.fs = afero.NewMemMapFs()
}

// sliceFetcher pages through an in-memory event slice the way the audit
// log endpoint does.
func sliceFetcher(
	events []audit.Event,
) export.Fetcher {
	return func(_ context.Context, limit int, offset int) ([]audit.Event, int, error) {
		total := len(events)
		if offset >= total {
			return nil, total, nil
		}

		end := offset + limit
		if end > total {
			end = total
		}

		return events[offset:end], total, nil
	}
}

func makeEvents(
	n int,
) []audit.Event {
	events := make([]audit.Event, 0, n)
	for i := 0; i < n; i++ {
		events = append(events, audit.Event{
			ID:        fmt.Sprintf("event-%d", i),
			Timestamp: "2026-01-15T10:00:00Z",
			Severity:  audit.SeverityInfo,
			EventType: audit.EventVerifySuccess,
			SourceIP:  "10.0.0.1",
			Details:   fmt.Sprintf("event %d", i),
		})
	}

	return events
}

func (s *ExportPublicTestSuite) TestRun() {
	events := makeEvents(25)
	exporter := export.NewFileExporter(s.fs, "/tmp/audit.jsonl")

	result, err := export.Run(
		context.Background(),
		slog.Default(),
		sliceFetcher(events),
		exporter,
		10,
		nil,
	)

	s.NoError(err)
	s.Equal(25, result.TotalEntries)
	s.Equal(25, result.ExportedEntries)

	data, err := afero.ReadFile(s.fs, "/tmp/audit.jsonl")
	s.Require().NoError(err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	s.Len(lines, 25)

	var first audit.Event
	s.Require().NoError(json.Unmarshal([]byte(lines[0]), &first))
	s.Equal("event-0", first.ID)
}

func (s *ExportPublicTestSuite) TestRunEmptyLog() {
	exporter := export.NewFileExporter(s.fs, "/tmp/audit.jsonl")

	result, err := export.Run(
		context.Background(),
		slog.Default(),
		sliceFetcher(nil),
		exporter,
		10,
		nil,
	)

	s.NoError(err)
	s.Equal(0, result.TotalEntries)
	s.Equal(0, result.ExportedEntries)
}

func (s *ExportPublicTestSuite) TestRunReportsProgress() {
	events := makeEvents(25)
	exporter := export.NewFileExporter(s.fs, "/tmp/audit.jsonl")

	var calls []int
	_, err := export.Run(
		context.Background(),
		slog.Default(),
		sliceFetcher(events),
		exporter,
		10,
		func(exported int, total int) {
			calls = append(calls, exported)
			s.Equal(25, total)
		},
	)

	s.NoError(err)
	s.Equal([]int{10, 20, 25}, calls)
}

func (s *ExportPublicTestSuite) TestRunFetcherError() {
	exporter := export.NewFileExporter(s.fs, "/tmp/audit.jsonl")
	fetcher := func(_ context.Context, _ int, _ int) ([]audit.Event, int, error) {
		return nil, 0, fmt.Errorf("server unreachable")
	}

	_, err := export.Run(
		context.Background(),
		slog.Default(),
		fetcher,
		exporter,
		10,
		nil,
	)

	s.ErrorContains(err, "server unreachable")
}

func (s *ExportPublicTestSuite) TestFileExporterWriteBeforeOpen() {
	exporter := export.NewFileExporter(s.fs, "/tmp/audit.jsonl")

	err := exporter.Write(context.Background(), audit.Event{ID: "x"})

	s.ErrorContains(err, "not opened")
}

func TestExportPublicTestSuite(t *testing.T) {
	suite.Run(t, new(ExportPublicTestSuite))
}
