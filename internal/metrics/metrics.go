// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

// Package metrics holds the Prometheus collectors for CrowdWatch:
// API throughput and latency, event store and asset lookups, circuit
// breakers, and crowding verdicts. Collectors register with the default
// registry and are exposed on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "crowdwatch"

var (
	// Event store metrics
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_query_duration_seconds",
			Help:      "Duration of event store queries in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"backend", "stream"},
	)

	StoreQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_query_errors_total",
			Help:      "Total number of event store queries that did not return data",
		},
		[]string{"backend", "stream", "kind"}, // kind: "not_found", "unavailable", "invalid"
	)

	// Asset store metrics
	AssetLookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "asset_lookup_duration_seconds",
			Help:      "Duration of newest-asset lookups (list and sign) in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"backend"},
	)

	AssetLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "asset_lookups_total",
			Help:      "Total number of newest-asset lookups by result",
		},
		[]string{"backend", "result"}, // result: "success", "not_found", "unavailable"
	)

	AssetObjectsScanned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "asset_objects_scanned",
			Help:      "Number of objects listed per newest-asset lookup",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	// Crowding metrics
	CrowdingVerdicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "crowding_verdicts_total",
			Help:      "Total number of crowding assessments by verdict",
		},
		[]string{"verdict"},
	)

	CrowdingRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "crowding_ratio",
			Help:      "Most recent determinate newest/highest people-count ratio",
		},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Duration of API requests in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "api_active_requests",
			Help:      "Number of API requests currently being processed",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_requests_total",
			Help:      "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_consecutive_failures",
			Help:      "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state_transitions_total",
			Help:      "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	StoreUp = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "store_up",
			Help:      "Whether the last background probe of a store succeeded (1) or failed (0)",
		},
		[]string{"store"},
	)

	// Application Info
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "app_info",
			Help:      "Application build and backend information",
		},
		[]string{"version", "store_backend", "asset_backend"},
	)
)

// RecordStoreQuery records an event store query. kind is empty on success.
func RecordStoreQuery(backend, stream string, duration time.Duration, kind string) {
	StoreQueryDuration.WithLabelValues(backend, stream).Observe(duration.Seconds())
	if kind != "" {
		StoreQueryErrors.WithLabelValues(backend, stream, kind).Inc()
	}
}

// RecordAssetLookup records a newest-asset lookup and how many objects it scanned.
func RecordAssetLookup(backend, result string, duration time.Duration, scanned int) {
	AssetLookupDuration.WithLabelValues(backend).Observe(duration.Seconds())
	AssetLookups.WithLabelValues(backend, result).Inc()
	if scanned > 0 {
		AssetObjectsScanned.Observe(float64(scanned))
	}
}

// RecordCrowdingVerdict records a crowding assessment. The ratio gauge is only
// updated for determinate verdicts.
func RecordCrowdingVerdict(verdict string, ratio float64, determinate bool) {
	CrowdingVerdicts.WithLabelValues(verdict).Inc()
	if determinate {
		CrowdingRatio.Set(ratio)
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// SetAppInfo publishes the running version and selected backends.
func SetAppInfo(version, storeBackend, assetBackend string) {
	AppInfo.Reset()
	AppInfo.WithLabelValues(version, storeBackend, assetBackend).Set(1)
}

// SetStoreUp records the outcome of a background store probe.
func SetStoreUp(store string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	StoreUp.WithLabelValues(store).Set(v)
}
