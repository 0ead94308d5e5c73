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

package config

import (
	"fmt"
	"time"

	"github.com/facegate-io/facegate/internal/validation"
)

// Protocol defaults applied before validation. Thresholds mirror the
// deployed verification contract.
const (
	DefaultAPIPort             = 8000
	DefaultChallengeTTL        = 60 * time.Second
	DefaultMinSharpness        = 20.0
	DefaultMinBrightness       = 40.0
	DefaultMaxBrightness       = 220.0
	DefaultSimilarityThreshold = 0.5
	DefaultExtractorBackend    = "stub"
	DefaultExtractorTimeout    = 5 * time.Second
	DefaultLockoutMaxFailures  = 3
	DefaultLockoutWindow       = 5 * time.Minute
	DefaultLockoutCooldown     = 5 * time.Minute
	DefaultAuditCapacity       = 1000
)

// ApplyDefaults fills zero-valued fields with protocol defaults.
func ApplyDefaults(
	cfg *Config,
) {
	if cfg.API.Port == 0 {
		cfg.API.Port = DefaultAPIPort
	}
	if cfg.Challenge.TTL == 0 {
		cfg.Challenge.TTL = DefaultChallengeTTL
	}
	if cfg.Liveness.MinSharpness == 0 {
		cfg.Liveness.MinSharpness = DefaultMinSharpness
	}
	if cfg.Liveness.MinBrightness == 0 {
		cfg.Liveness.MinBrightness = DefaultMinBrightness
	}
	if cfg.Liveness.MaxBrightness == 0 {
		cfg.Liveness.MaxBrightness = DefaultMaxBrightness
	}
	if cfg.Verification.SimilarityThreshold == 0 {
		cfg.Verification.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if cfg.Verification.Extractor.Backend == "" {
		cfg.Verification.Extractor.Backend = DefaultExtractorBackend
	}
	if cfg.Verification.Extractor.Timeout == 0 {
		cfg.Verification.Extractor.Timeout = DefaultExtractorTimeout
	}
	if cfg.Lockout.MaxFailures == 0 {
		cfg.Lockout.MaxFailures = DefaultLockoutMaxFailures
	}
	if cfg.Lockout.Window == 0 {
		cfg.Lockout.Window = DefaultLockoutWindow
	}
	if cfg.Lockout.Cooldown == 0 {
		cfg.Lockout.Cooldown = DefaultLockoutCooldown
	}
	if cfg.Audit.Capacity == 0 {
		cfg.Audit.Capacity = DefaultAuditCapacity
	}
}

// Validate applies defaults and validates the configuration.
func Validate(
	cfg *Config,
) error {
	ApplyDefaults(cfg)

	if cfg.Liveness.MinBrightness >= cfg.Liveness.MaxBrightness {
		return fmt.Errorf(
			"liveness min_brightness (%v) must be below max_brightness (%v)",
			cfg.Liveness.MinBrightness,
			cfg.Liveness.MaxBrightness,
		)
	}

	if cfg.Verification.Extractor.Backend == "nats" &&
		cfg.Verification.Extractor.NATS.URL == "" {
		return fmt.Errorf("nats extractor backend requires verification.extractor.nats.url")
	}

	if errMsg, ok := validation.Struct(cfg); !ok {
		return fmt.Errorf("invalid configuration: %s", errMsg)
	}

	return nil
}
