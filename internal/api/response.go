// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/crowdwatch/internal/logging"
	"github.com/tomtom215/crowdwatch/internal/models"
)

// Error codes used in the error envelope.
const (
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeStoreUnavailable   = "STORE_UNAVAILABLE"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// Client-facing messages. The dashboard matches on these strings.
const (
	MsgNoData        = "No data found."
	MsgStoreError    = "Error reading from the event store."
	MsgNoImages      = "No images found"
	MsgImageError    = "Error retrieving image"
	MsgUploaded      = "Image uploaded successfully!"
	MsgRouteNotFound = "Route not found"
	MsgMethodDenied  = "Method not allowed"
)

// respondJSON writes payload as JSON with the given status.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError writes the error envelope.
func respondError(w http.ResponseWriter, status int, code, message string, details map[string]interface{}) {
	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}

// respondEnvelope writes a success envelope; used by the health endpoints.
func respondEnvelope(w http.ResponseWriter, status int, data interface{}, start time.Time) {
	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}
