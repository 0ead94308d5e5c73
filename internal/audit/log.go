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
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SourceSystem marks events not attributable to a client address.
const SourceSystem = "SYSTEM"

// Log is an append-only, size-bounded event store kept newest-first.
// Recording and querying are serialized; an event is visible to queries
// the moment Record returns.
type Log struct {
	mu       sync.Mutex
	events   []Event
	capacity int
	logger   *slog.Logger
	now      func() time.Time
}

// NewLog creates a new Log retaining at most capacity events.
func NewLog(
	logger *slog.Logger,
	capacity int,
) *Log {
	return &Log{
		events:   make([]Event, 0, capacity),
		capacity: capacity,
		logger:   logger,
		now:      time.Now,
	}
}

// Record creates an event, inserts it at the head, and evicts the oldest
// entry when over capacity.
func (l *Log) Record(
	eventType string,
	severity string,
	details string,
	username string,
	sourceIP string,
) Event {
	l.mu.Lock()

	event := Event{
		ID:        uuid.New().String(),
		Timestamp: l.now().Format(time.RFC3339Nano),
		Severity:  severity,
		EventType: eventType,
		Username:  username,
		SourceIP:  sourceIP,
		Details:   details,
	}

	l.events = append([]Event{event}, l.events...)
	if len(l.events) > l.capacity {
		l.events = l.events[:l.capacity]
	}

	l.mu.Unlock()

	l.logger.Info(
		"audit",
		slog.String("severity", severity),
		slog.String("event_type", eventType),
		slog.String("username", username),
		slog.String("source_ip", sourceIP),
		slog.String("details", details),
	)

	return event
}

// Recent returns up to limit events, newest first.
func (l *Log) Recent(
	limit int,
) []Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limit > len(l.events) {
		limit = len(l.events)
	}
	if limit < 0 {
		limit = 0
	}

	out := make([]Event, limit)
	copy(out, l.events[:limit])

	return out
}

// Page returns a slice of events with pagination, newest first, along
// with the total retained count.
func (l *Log) Page(
	limit int,
	offset int,
) ([]Event, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := len(l.events)
	if offset >= total {
		return []Event{}, total
	}

	end := offset + limit
	if end > total {
		end = total
	}

	out := make([]Event, end-offset)
	copy(out, l.events[offset:end])

	return out, total
}

// Size returns the number of retained events.
func (l *Log) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.events)
}

// authEventTypes counted toward the hourly authentication total.
var authEventTypes = map[string]bool{
	"VERIFY_SUCCESS": true,
	"VERIFY_FAIL":    true,
	"AUTH_SUCCESS":   true,
	"AUTH_FAILURE":   true,
}

// deniedEventTypes counted toward the daily denial total.
var deniedEventTypes = map[string]bool{
	"VERIFY_FAIL":   true,
	"ACCESS_DENIED": true,
	"AUTH_FAILURE":  true,
}

// Summary scans retained events and aggregates dashboard metrics
// relative to now. Events with unparseable timestamps are skipped.
//
// The threat heuristic matches "ATTACK" in the event type but "Threat"
// in details, case-sensitively: the casing mismatch is long-standing
// observed behavior that dashboards count on, so it stays.
func (l *Log) Summary(
	now time.Time,
) MetricSummary {
	l.mu.Lock()
	defer l.mu.Unlock()

	oneHourAgo := now.Add(-1 * time.Hour)
	oneDayAgo := now.Add(-24 * time.Hour)

	var summary MetricSummary

	for _, event := range l.events {
		ts, err := time.Parse(time.RFC3339Nano, event.Timestamp)
		if err != nil {
			continue
		}

		if !ts.After(oneDayAgo) {
			continue
		}

		if authEventTypes[event.EventType] && ts.After(oneHourAgo) {
			summary.TotalAuths1h++
		}

		if deniedEventTypes[event.EventType] {
			summary.AccessDenied24h++
		}

		if event.Severity == SeverityCritical ||
			strings.Contains(event.EventType, "ATTACK") ||
			strings.Contains(event.Details, "Threat") {
			summary.ThreatsDetected24h++
		}
	}

	return summary
}
