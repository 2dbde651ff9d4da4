// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/crowdwatch/internal/config"
	"github.com/tomtom215/crowdwatch/internal/middleware"
)

// slowRequestThreshold is the latency above which requests are logged at warn.
const slowRequestThreshold = 2 * time.Second

// chiMiddleware adapts http.HandlerFunc middleware to chi's
// func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// NewRouter builds the chi router. Data routes are mounted under
// server.BasePath; health, metrics and the greeting stay at the root.
func NewRouter(h *Handler, server config.ServerConfig, security config.SecurityConfig) http.Handler {
	r := chi.NewRouter()

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, MsgRouteNotFound, nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, MsgMethodDenied, nil)
	})

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chiMiddleware(middleware.AccessLog(slowRequestThreshold)))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: security.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         86400,
	}))
	r.Use(chiMiddleware(middleware.PrometheusMetrics))

	r.Get("/", h.Root)
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})
	r.Handle("/metrics", promhttp.Handler())

	dataRoutes := func(r chi.Router) {
		for _, ep := range sampleEndpoints {
			r.Get(ep.Path, h.Samples(ep.Query))
		}
		r.Get("/newest-image", h.NewestImage)
		r.Get("/crowding", h.Crowding)
		r.Post("/upload", h.Upload)
	}

	if base := strings.TrimRight(server.BasePath, "/"); base != "" {
		r.Route(base, dataRoutes)
	} else {
		r.Group(dataRoutes)
	}

	return r
}
