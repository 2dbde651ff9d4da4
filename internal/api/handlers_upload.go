// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/crowdwatch/internal/logging"
	"github.com/tomtom215/crowdwatch/internal/models"
	"github.com/tomtom215/crowdwatch/internal/validation"
)

// maxUploadBody bounds the upload request body.
const maxUploadBody = 16 << 10

// Upload acknowledges an image URL sent by the frontend. Nothing is stored;
// the detector uploads images to the bucket directly.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	var req models.UploadRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUploadBody))
	if err := dec.Decode(&req); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Malformed upload body")
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "Request body must be JSON with an imageUrl field", nil)
		return
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}

	logging.Ctx(r.Context()).Info().Str("image_url", req.ImageURL).Msg("Image upload acknowledged")

	respondJSON(w, http.StatusOK, models.UploadResponse{
		Message:  MsgUploaded,
		ImageURL: req.ImageURL,
	})
}
