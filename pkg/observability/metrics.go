// Package observability defines the service's Prometheus metrics. Metrics
// are registered through promauto at package load and exposed on /metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by method, route pattern, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matcher_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures server response time per route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "matcher_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	// RoundsTotal counts completed matching rounds, labeled by outcome
	// (committed, empty, failed).
	RoundsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matcher_rounds_total",
			Help: "Total number of matching rounds run",
		},
		[]string{"outcome"},
	)

	// PairsTotal counts pairs produced across all rounds.
	PairsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matcher_pairs_total",
			Help: "Total number of pairs produced by matching rounds",
		},
	)

	// SingletonsTotal counts participants left unpaired by odd-parity rounds.
	SingletonsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matcher_singletons_total",
			Help: "Total number of participants left unpaired",
		},
	)

	// WaitingParticipants tracks the size of the waiting pool as of the
	// last round.
	WaitingParticipants = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "matcher_waiting_participants",
			Help: "Number of participants waiting at the start of the last round",
		},
	)
)
