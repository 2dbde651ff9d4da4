// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package models

import "time"

// APIResponse is the envelope used for error responses and the health
// endpoints.
//
// Example error:
//
//	{"status":"error","error":{"code":"NOT_FOUND","message":"No data found."},"metadata":{"timestamp":"..."}}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data,omitempty"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError carries a machine-readable code and a short client-facing message.
// Store failure details are logged server-side and never placed here.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is the payload of the /health endpoint.
type HealthStatus struct {
	Status        string            `json:"status"`
	Version       string            `json:"version"`
	UptimeSeconds float64           `json:"uptime_seconds"`
	StoreBackend  string            `json:"store_backend"`
	AssetBackend  string            `json:"asset_backend"`
	Breakers      map[string]string `json:"breakers,omitempty"`
}
