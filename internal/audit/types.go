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

// Package audit provides the bounded in-memory security event log.
package audit

// Severity level of an audit event.
const (
	SeverityInfo     = "INFO"
	SeverityWarning  = "WARNING"
	SeverityCritical = "CRITICAL"
)

// Event type tags written by the verification protocol.
const (
	EventRegistration   = "REGISTRATION"
	EventEnrollSuccess  = "ENROLL_SUCCESS"
	EventEnrollFail     = "ENROLL_FAIL"
	EventVerifySuccess  = "VERIFY_SUCCESS"
	EventVerifyFail     = "VERIFY_FAIL"
	EventAccessDenied   = "ACCESS_DENIED"
	EventLivenessFail   = "LIVENESS_FAIL"
	EventReplayRejected = "REPLAY_REJECTED"
	EventLockoutEngaged = "LOCKOUT_ENGAGED"
	EventLockoutReject  = "LOCKOUT_REJECT"
	EventAttackDetected = "ATTACK_DETECTED"
	EventTrafficAnomaly = "TRAFFIC_ANOMALY"
)

// Event is a single immutable security event record.
type Event struct {
	// ID is the unique identifier for this event.
	ID string `json:"id"`
	// Timestamp is the ISO-8601 creation time.
	Timestamp string `json:"timestamp"`
	// Severity is one of INFO, WARNING, CRITICAL.
	Severity string `json:"severity"`
	// EventType is the event's type tag.
	EventType string `json:"event_type"`
	// Username is the subject involved, when known.
	Username string `json:"username,omitempty"`
	// SourceIP is the originating client address, or SYSTEM.
	SourceIP string `json:"source_ip"`
	// Details is a human-readable description.
	Details string `json:"details"`
}

// MetricSummary aggregates retained events for the operations dashboard.
type MetricSummary struct {
	// TotalAuths1h counts authentication events in the last hour.
	TotalAuths1h int `json:"total_auths_1h"`
	// AccessDenied24h counts denial events in the last 24 hours.
	AccessDenied24h int `json:"access_denied_24h"`
	// ActiveThreats is reserved for lockout integration and is always 0.
	ActiveThreats int `json:"active_threats"`
	// ThreatsDetected24h counts threat events in the last 24 hours.
	ThreatsDetected24h int `json:"threats_detected_24h"`
}
