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

// Package verify composes the stores and gates into the end-to-end
// enrollment and verification protocol.
package verify

import "time"

// Reason tags why a verification attempt was denied.
type Reason string

// Denial reasons, one per protocol gate.
const (
	ReasonNone           Reason = ""
	ReasonLocked         Reason = "locked"
	ReasonInvalidNonce   Reason = "invalid_nonce"
	ReasonBadImage       Reason = "bad_image"
	ReasonNotLive        Reason = "not_live"
	ReasonNoFace         Reason = "no_face"
	ReasonLowConfidence  Reason = "low_confidence"
	ReasonUnavailable    Reason = "extractor_unavailable"
	ReasonBelowThreshold Reason = "below_threshold"
)

// AuthorizedUser is the matched identity returned on authorization.
type AuthorizedUser struct {
	// Username of the matched identity.
	Username string `json:"username"`
	// Role of the matched identity.
	Role string `json:"role"`
}

// Decision is the tagged terminal outcome of a verification attempt.
// Denials carry a Reason; only an authorized decision carries a User,
// so a denial cannot be mistaken for success.
type Decision struct {
	// Authorized is true only for an above-threshold match.
	Authorized bool `json:"authorized"`
	// Reason tags the denial; empty when authorized.
	Reason Reason `json:"-"`
	// Similarity is the best match score; 0 when matching never ran.
	Similarity float64 `json:"similarity"`
	// Message is the human-readable outcome description.
	Message string `json:"message"`
	// User is the matched identity; nil unless authorized.
	User *AuthorizedUser `json:"user,omitempty"`
	// LockedUntil is set when the denial is a lockout rejection.
	LockedUntil time.Time `json:"-"`
}

// VerifyRequest is one verification attempt.
type VerifyRequest struct {
	// Nonce is the challenge token being consumed.
	Nonce string
	// Image is the raw uploaded capture.
	Image []byte
	// SourceIP keys the lockout policy and audit trail.
	SourceIP string
}

// EnrollRequest attaches a face to a registered identity.
type EnrollRequest struct {
	// Username of the identity being enrolled.
	Username string
	// Image is the raw uploaded capture.
	Image []byte
	// SourceIP for the audit trail.
	SourceIP string
}

// QualityError is returned by Enroll when the image fails the liveness
// gate or face detection. The reason is safe to surface to the caller.
type QualityError struct {
	// Reason describes the failing check.
	Reason string
}

// Error implements the error interface.
func (e *QualityError) Error() string {
	return e.Reason
}
