// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/crowdwatch/internal/logging"
	"github.com/tomtom215/crowdwatch/internal/models"
)

// readinessTimeout bounds the store pings of the readiness probe.
const readinessTimeout = 5 * time.Second

// Root answers the plain-text greeting.
func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("CrowdWatch API is running"))
}

// Health reports version, uptime, backends and breaker states. It never
// touches the stores.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()
	breakers := map[string]string{
		"eventstore": h.samples.BreakerState(),
		"assets":     h.images.BreakerState(),
	}

	status := "healthy"
	for _, state := range breakers {
		if state != "closed" {
			status = "degraded"
		}
	}

	respondEnvelope(w, http.StatusOK, models.HealthStatus{
		Status:        status,
		Version:       h.version,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
		StoreBackend:  h.samples.Backend(),
		AssetBackend:  h.images.Backend(),
		Breakers:      breakers,
	}, start)
}

// HealthLive is the liveness probe: 200 while the process serves HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondEnvelope(w, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, time.Now())
}

// HealthReady pings both stores and answers 503 if either fails.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	checks := map[string]string{"eventstore": "ok", "assets": "ok"}
	ready := true

	if err := h.samples.Ping(ctx); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Readiness: event store ping failed")
		checks["eventstore"] = "unavailable"
		ready = false
	}
	if err := h.images.Ping(ctx); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Readiness: asset store ping failed")
		checks["assets"] = "unavailable"
		ready = false
	}

	if !ready {
		respondError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Service not ready",
			map[string]interface{}{"checks": checks})
		return
	}
	respondEnvelope(w, http.StatusOK, map[string]interface{}{"ready": true, "checks": checks}, start)
}
