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

package verify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/facegate-io/facegate/internal/audit"
	"github.com/facegate-io/facegate/internal/challenge"
	"github.com/facegate-io/facegate/internal/embedding"
	"github.com/facegate-io/facegate/internal/extractor"
	"github.com/facegate-io/facegate/internal/identity"
	"github.com/facegate-io/facegate/internal/liveness"
	"github.com/facegate-io/facegate/internal/lockout"
	"github.com/facegate-io/facegate/internal/metrics"
)

// Options wires the orchestrator's collaborators. All stores are owned by
// the caller and injected; the orchestrator holds no hidden state.
type Options struct {
	Challenges *challenge.Manager
	Gate       *liveness.Gate
	Extractor  extractor.Extractor
	Identities *identity.Store
	Audit      *audit.Log
	Lockouts   *lockout.Policy
	Metrics    *metrics.Metrics

	// SimilarityThreshold is the strict lower bound for authorization.
	SimilarityThreshold float64
	// ExtractTimeout bounds the embedding extraction call.
	ExtractTimeout time.Duration
}

// Orchestrator runs the enroll and verify protocol over the injected
// stores. No store lock is held across the extraction call.
type Orchestrator struct {
	logger *slog.Logger
	opts   Options
}

// New factory to create a new instance.
func New(
	logger *slog.Logger,
	opts Options,
) *Orchestrator {
	return &Orchestrator{
		logger: logger,
		opts:   opts,
	}
}

// Challenge issues a new verification nonce.
func (o *Orchestrator) Challenge() challenge.Challenge {
	ch := o.opts.Challenges.Issue()
	o.opts.Metrics.Challenges.Inc()

	return ch
}

// Register creates a new identity without biometrics.
func (o *Orchestrator) Register(
	username string,
	role string,
	sourceIP string,
) (identity.Identity, error) {
	ident, err := o.opts.Identities.Register(username, role)
	if err != nil {
		return identity.Identity{}, err
	}

	o.opts.Audit.Record(
		audit.EventRegistration,
		audit.SeverityInfo,
		fmt.Sprintf("User %s registered with role %s", username, role),
		username,
		sourceIP,
	)

	return ident, nil
}

// Enroll attaches a face embedding to a registered identity. The chain is
// identity lookup, liveness, extraction, storage; failures before storage
// leave the identity unchanged. Enrollment is audited but never touches
// the lockout policy.
func (o *Orchestrator) Enroll(
	ctx context.Context,
	req EnrollRequest,
) error {
	if _, err := o.opts.Identities.GetByUsername(req.Username); err != nil {
		return err
	}

	img, err := liveness.Decode(req.Image)
	if err != nil {
		o.auditEnrollFail(req, "could not decode image")
		return &QualityError{Reason: "could not decode image"}
	}

	if res := o.opts.Gate.Assess(img); !res.Live {
		o.auditEnrollFail(req, res.Reason)
		return &QualityError{Reason: res.Reason}
	}

	vec, err := o.extract(ctx, req.Image)
	if err != nil {
		reason := "no face detected or confidence too low, please realign"
		if errors.Is(err, extractor.ErrUnavailable) {
			reason = "embedding extraction unavailable"
			o.opts.Audit.Record(
				audit.EventEnrollFail,
				audit.SeverityCritical,
				fmt.Sprintf("Enrollment failed for %s: %s", req.Username, err),
				req.Username,
				req.SourceIP,
			)
			o.opts.Metrics.Enrollments.WithLabelValues("unavailable").Inc()
			return &QualityError{Reason: reason}
		}

		o.auditEnrollFail(req, reason)
		return &QualityError{Reason: reason}
	}

	if err := o.opts.Identities.AttachEmbedding(req.Username, vec); err != nil {
		return err
	}

	o.opts.Audit.Record(
		audit.EventEnrollSuccess,
		audit.SeverityInfo,
		fmt.Sprintf("User %s enrolled successfully", req.Username),
		req.Username,
		req.SourceIP,
	)
	o.opts.Metrics.Enrollments.WithLabelValues("success").Inc()

	return nil
}

// Verify runs one verification attempt end to end. Each terminal outcome
// writes exactly one audit event and one lockout update: RecordFailure on
// any denial, RecordSuccess on authorization. The lockout check runs
// before any image work so locked sources cost nothing and learn nothing.
func (o *Orchestrator) Verify(
	ctx context.Context,
	req VerifyRequest,
) Decision {
	if state := o.opts.Lockouts.Check(req.SourceIP); state.Locked {
		o.opts.Audit.Record(
			audit.EventLockoutReject,
			audit.SeverityWarning,
			fmt.Sprintf("Verification rejected: source locked until %s",
				state.Until.Format(time.RFC3339)),
			"",
			req.SourceIP,
		)
		o.opts.Metrics.Verifications.WithLabelValues("locked").Inc()

		return Decision{
			Reason:      ReasonLocked,
			Message:     "Too many failed attempts, try again later",
			LockedUntil: state.Until,
		}
	}

	if err := o.opts.Challenges.Consume(req.Nonce); err != nil {
		return o.deny(req, denial{
			reason:    ReasonInvalidNonce,
			eventType: audit.EventReplayRejected,
			severity:  audit.SeverityWarning,
			details:   "Nonce validation rejected the request",
			message:   "Invalid or expired challenge",
		})
	}

	img, err := liveness.Decode(req.Image)
	if err != nil {
		return o.deny(req, denial{
			reason:    ReasonBadImage,
			eventType: audit.EventVerifyFail,
			severity:  audit.SeverityWarning,
			details:   "Unreadable image submitted",
			message:   "Could not decode image",
		})
	}

	if res := o.opts.Gate.Assess(img); !res.Live {
		return o.deny(req, denial{
			reason:    ReasonNotLive,
			eventType: audit.EventLivenessFail,
			severity:  audit.SeverityWarning,
			details:   fmt.Sprintf("Liveness check failed: %s", res.Reason),
			message:   fmt.Sprintf("Liveness check failed: %s", res.Reason),
		})
	}

	vec, err := o.extract(ctx, req.Image)
	if err != nil {
		switch {
		case errors.Is(err, extractor.ErrNoFace):
			return o.deny(req, denial{
				reason:    ReasonNoFace,
				eventType: audit.EventVerifyFail,
				severity:  audit.SeverityWarning,
				details:   "No face detected in submitted image",
				message:   "No face detected",
			})
		case errors.Is(err, extractor.ErrLowConfidence):
			return o.deny(req, denial{
				reason:    ReasonLowConfidence,
				eventType: audit.EventVerifyFail,
				severity:  audit.SeverityWarning,
				details:   "Face detected below confidence threshold",
				message:   "Face confidence too low, please realign",
			})
		default:
			return o.deny(req, denial{
				reason:    ReasonUnavailable,
				eventType: audit.EventVerifyFail,
				severity:  audit.SeverityCritical,
				details:   fmt.Sprintf("Embedding extraction failed: %s", err),
				message:   "Verification temporarily unavailable",
			})
		}
	}

	candidates := o.candidates()
	best, score := embedding.MatchBest(vec, candidates)

	if best != nil && score > o.opts.SimilarityThreshold {
		o.opts.Audit.Record(
			audit.EventVerifySuccess,
			audit.SeverityInfo,
			fmt.Sprintf("User %s authorized (similarity %.3f)", best.Username, score),
			best.Username,
			req.SourceIP,
		)
		o.opts.Lockouts.RecordSuccess(req.SourceIP)
		o.opts.Metrics.Verifications.WithLabelValues("authorized").Inc()

		return Decision{
			Authorized: true,
			Similarity: score,
			Message:    fmt.Sprintf("Welcome, %s", best.Username),
			User: &AuthorizedUser{
				Username: best.Username,
				Role:     best.Role,
			},
		}
	}

	d := o.deny(req, denial{
		reason:    ReasonBelowThreshold,
		eventType: audit.EventVerifyFail,
		severity:  audit.SeverityWarning,
		details:   fmt.Sprintf("Best match below threshold (similarity %.3f)", score),
		message:   "Access denied: face not recognized",
	})
	d.Similarity = score

	return d
}

// denial bundles the audit and response fields of one denied outcome.
type denial struct {
	reason    Reason
	eventType string
	severity  string
	details   string
	message   string
}

// deny writes the single audit event and lockout update for a denied
// outcome. A denial that engages the lock is folded into the same event's
// details rather than a second write.
func (o *Orchestrator) deny(
	req VerifyRequest,
	d denial,
) Decision {
	state := o.opts.Lockouts.RecordFailure(req.SourceIP)

	details := d.details
	if state.Locked {
		details = fmt.Sprintf("%s; source locked until %s",
			details, state.Until.Format(time.RFC3339))
	}

	o.opts.Audit.Record(d.eventType, d.severity, details, "", req.SourceIP)
	o.opts.Metrics.Verifications.WithLabelValues(string(d.reason)).Inc()

	return Decision{
		Reason:  d.reason,
		Message: d.message,
	}
}

// extract calls the embedding extractor with the configured timeout. No
// store lock is held here; the call may take hundreds of milliseconds.
func (o *Orchestrator) extract(
	ctx context.Context,
	image []byte,
) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, o.opts.ExtractTimeout)
	defer cancel()

	return o.opts.Extractor.DetectAndEmbed(ctx, image)
}

// candidates snapshots the enrolled identities in registration order.
func (o *Orchestrator) candidates() []embedding.Candidate {
	enrolled := o.opts.Identities.Enrolled()

	out := make([]embedding.Candidate, 0, len(enrolled))
	for _, ident := range enrolled {
		out = append(out, embedding.Candidate{
			Username: ident.Username,
			Role:     ident.Role,
			Vector:   ident.Embedding,
		})
	}

	return out
}

// auditEnrollFail records one failed enrollment event.
func (o *Orchestrator) auditEnrollFail(
	req EnrollRequest,
	reason string,
) {
	o.opts.Audit.Record(
		audit.EventEnrollFail,
		audit.SeverityWarning,
		fmt.Sprintf("Enrollment failed for %s: %s", req.Username, reason),
		req.Username,
		req.SourceIP,
	)
	o.opts.Metrics.Enrollments.WithLabelValues("fail").Inc()
}
