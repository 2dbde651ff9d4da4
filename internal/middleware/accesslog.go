// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/crowdwatch/internal/logging"
)

// AccessLog logs every request at debug level, 5xx responses at error level,
// and requests slower than slowThreshold at warn level. A zero threshold
// disables the slow request warning.
func AccessLog(slowThreshold time.Duration) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)

			next(rec, r)

			duration := time.Since(start)
			var event *zerolog.Event
			log := logging.Ctx(r.Context())
			switch {
			case rec.statusCode >= http.StatusInternalServerError:
				event = log.Error()
			case slowThreshold > 0 && duration > slowThreshold:
				event = log.Warn().Dur("threshold", slowThreshold)
			default:
				event = log.Debug()
			}

			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.statusCode).
				Dur("duration", duration).
				Str("remote_addr", r.RemoteAddr).
				Msg("HTTP request")
		}
	}
}
