// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/crowdwatch/internal/assets"
)

// NewestImage returns a freshly signed URL for the newest image and its
// metadata.
func (h *Handler) NewestImage(w http.ResponseWriter, r *http.Request) {
	img, err := h.images.Newest(r.Context())
	switch {
	case errors.Is(err, assets.ErrNotFound):
		respondError(w, http.StatusNotFound, ErrCodeNotFound, MsgNoImages, nil)
	case err != nil:
		respondError(w, http.StatusInternalServerError, ErrCodeStoreUnavailable, MsgImageError, nil)
	default:
		respondJSON(w, http.StatusOK, img)
	}
}
