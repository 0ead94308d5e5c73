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

// Package metrics exposes Prometheus instrumentation for the
// verification protocol.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultPath is the default HTTP path for the Prometheus scrape endpoint.
const DefaultPath = "/metrics"

// Metrics holds the protocol counters.
type Metrics struct {
	registry *prometheus.Registry

	// Verifications counts verification attempts by outcome.
	Verifications *prometheus.CounterVec
	// Enrollments counts enrollment attempts by outcome.
	Enrollments *prometheus.CounterVec
	// Challenges counts issued nonce challenges.
	Challenges prometheus.Counter
	// Simulations counts threat simulations by attack type.
	Simulations *prometheus.CounterVec
}

// New creates and registers the protocol counters on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		Verifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "facegate_verifications_total",
				Help: "Verification attempts by outcome.",
			},
			[]string{"outcome"},
		),
		Enrollments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "facegate_enrollments_total",
				Help: "Enrollment attempts by outcome.",
			},
			[]string{"outcome"},
		),
		Challenges: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "facegate_challenges_issued_total",
				Help: "Issued nonce challenges.",
			},
		),
		Simulations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "facegate_simulations_total",
				Help: "Threat simulations by attack type.",
			},
			[]string{"attack_type"},
		),
	}

	registry.MustRegister(
		m.Verifications,
		m.Enrollments,
		m.Challenges,
		m.Simulations,
	)

	return m
}

// Handler returns the scrape endpoint handler for the private registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
