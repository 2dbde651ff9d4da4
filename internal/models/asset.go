// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package models

import "time"

// AssetMetadata describes a stored image object. Field names follow the
// Cloud Storage object resource so the frontend can read either backend.
type AssetMetadata struct {
	Name         string            `json:"name"`
	Bucket       string            `json:"bucket"`
	ContentType  string            `json:"contentType,omitempty"`
	Size         string            `json:"size"` // decimal string, as in the storage JSON API
	TimeCreated  time.Time         `json:"timeCreated"`
	Updated      time.Time         `json:"updated"`
	MD5Hash      string            `json:"md5Hash,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	Generation   string            `json:"generation,omitempty"`
	StorageClass string            `json:"storageClass,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// NewestImage is the response of the newest-image endpoint.
type NewestImage struct {
	ImageURL string        `json:"imageUrl"`
	MetaData AssetMetadata `json:"metaData"`
}

// UploadRequest is the body accepted by the upload endpoint.
type UploadRequest struct {
	ImageURL string `json:"imageUrl" validate:"required,notblank,max=2048"`
}

// UploadResponse acknowledges an upload request.
type UploadResponse struct {
	Message  string `json:"message"`
	ImageURL string `json:"imageUrl"`
}
