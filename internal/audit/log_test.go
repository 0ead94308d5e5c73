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
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSummarySkipsUnparseableTimestamps(t *testing.T) {
	l := NewLog(slog.Default(), 10)
	l.events = append(l.events, Event{
		ID:        "bad",
		Timestamp: "not-a-timestamp",
		Severity:  SeverityCritical,
		EventType: EventAttackDetected,
		SourceIP:  "10.0.0.1",
		Details:   "corrupt entry",
	})

	summary := l.Summary(time.Now())

	assert.Equal(t, 0, summary.ThreatsDetected24h)
}

func TestRecordUsesInjectedClock(t *testing.T) {
	l := NewLog(slog.Default(), 10)
	fixed := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	event := l.Record(EventRegistration, SeverityInfo, "User alice registered", "alice", SourceSystem)

	assert.Equal(t, fixed.Format(time.RFC3339Nano), event.Timestamp)
}
