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

// Package config provides the YAML configuration schema.
package config

import "time"

// Config represents the root structure of the YAML configuration file.
// This struct is used to unmarshal configuration data from Viper.
type Config struct {
	API          API          `mapstructure:"api"`
	Challenge    Challenge    `mapstructure:"challenge"`
	Liveness     Liveness     `mapstructure:"liveness"`
	Verification Verification `mapstructure:"verification"`
	Lockout      Lockout      `mapstructure:"lockout"`
	Audit        Audit        `mapstructure:"audit"`
	Telemetry    Telemetry    `mapstructure:"telemetry"`
	// Debug enable or disable debug option set from CLI.
	Debug bool `mapstructure:"debug"`
}

// API configuration settings for the HTTP surface.
type API struct {
	// Port the API server will bind to.
	Port   int       `mapstructure:"port"   validate:"gte=1,lte=65535"`
	Server APIServer `mapstructure:"server"`
}

// APIServer configuration settings.
type APIServer struct {
	Security APISecurity `mapstructure:"security"`
}

// APISecurity security related configuration settings.
type APISecurity struct {
	// SigningKey is the HMAC key used to sign operator API tokens.
	SigningKey string `mapstructure:"signing_key"`
	CORS       CORS   `mapstructure:"cors"`
	// Roles maps custom role names to their granted permissions.
	Roles map[string]Role `mapstructure:"roles"`
}

// Role represents a custom role definition from configuration.
type Role struct {
	// Permissions granted to tokens carrying this role.
	Permissions []string `mapstructure:"permissions"`
}

// CORS configuration settings.
type CORS struct {
	// AllowOrigins which origins are allowed to hit the API.
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// Challenge configuration for the nonce challenge manager.
type Challenge struct {
	// TTL is how long an issued nonce remains consumable.
	TTL time.Duration `mapstructure:"ttl" validate:"gt=0"`
}

// Liveness configuration for the image quality gate.
//
// The thresholds are protocol contract, not tuning suggestions: clients
// depend on the exact boundary behavior.
type Liveness struct {
	// MinSharpness is the minimum Laplacian variance before an image is
	// rejected as too blurry.
	MinSharpness float64 `mapstructure:"min_sharpness" validate:"gte=0"`
	// MinBrightness is the minimum mean greyscale intensity.
	MinBrightness float64 `mapstructure:"min_brightness" validate:"gte=0,lte=255"`
	// MaxBrightness is the maximum mean greyscale intensity.
	MaxBrightness float64 `mapstructure:"max_brightness" validate:"gte=0,lte=255"`
}

// Verification configuration for the verification orchestrator.
type Verification struct {
	// SimilarityThreshold is the strict lower bound a best-match score
	// must exceed before access is authorized.
	SimilarityThreshold float64   `mapstructure:"similarity_threshold" validate:"gt=0,lt=1"`
	Extractor           Extractor `mapstructure:"extractor"`
}

// Extractor configuration for the embedding extraction backend.
type Extractor struct {
	// Backend selects the extractor implementation: "stub" or "nats".
	Backend string `mapstructure:"backend" validate:"oneof=stub nats"`
	// Timeout bounds a single extraction call.
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
	NATS    ExtractorNATS `mapstructure:"nats"`
}

// ExtractorNATS connection settings for the remote extractor worker.
type ExtractorNATS struct {
	// URL of the NATS server the extractor worker is attached to.
	URL string `mapstructure:"url"`
	// Subject the extractor worker services.
	Subject string `mapstructure:"subject"`
}

// Lockout configuration for the failure lockout policy.
type Lockout struct {
	// MaxFailures is the consecutive failure count that engages a lock.
	MaxFailures int `mapstructure:"max_failures" validate:"gte=1"`
	// Window is the rolling window in which failures accumulate.
	Window time.Duration `mapstructure:"window" validate:"gt=0"`
	// Cooldown is how long an engaged lock is held.
	Cooldown time.Duration `mapstructure:"cooldown" validate:"gt=0"`
}

// Audit configuration for the in-memory audit log.
type Audit struct {
	// Capacity bounds the number of retained audit events.
	Capacity int `mapstructure:"capacity" validate:"gte=1"`
}

// Telemetry configuration settings.
type Telemetry struct {
	Metrics MetricsConfig `mapstructure:"metrics,omitempty"`
}

// MetricsConfig configuration settings for Prometheus metrics.
type MetricsConfig struct {
	// Path is the HTTP path for the Prometheus scrape endpoint.
	// Defaults to "/metrics" when empty.
	Path string `mapstructure:"path"`
}
