// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

/*
Package middleware provides the HTTP middleware shared by all CrowdWatch routes.

  - RequestID: accepts or generates X-Request-ID and stores it for logging.Ctx
  - AccessLog: one structured log line per request, warning on slow requests
  - PrometheusMetrics: request count, latency, and in-flight gauge labelled
    by chi route pattern

The functions take and return http.HandlerFunc; the api package adapts them
to chi with chiMiddleware:

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chiMiddleware(middleware.AccessLog(time.Second)))
	r.Use(chiMiddleware(middleware.PrometheusMetrics))
*/
package middleware
