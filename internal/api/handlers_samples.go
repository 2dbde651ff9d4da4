// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/crowdwatch/internal/eventstore"
	"github.com/tomtom215/crowdwatch/internal/logging"
)

// SampleEndpoint binds a route to a fixed event store query.
type SampleEndpoint struct {
	Path  string
	Query eventstore.Query
}

// sampleEndpoints lists every sample route. Adding a route is adding a row.
var sampleEndpoints = []SampleEndpoint{
	{"/result", eventstore.Query{Stream: eventstore.PeopleCount, SortField: eventstore.InsertedAt, Direction: eventstore.Descending, Limit: 10}},
	{"/newest-sum", eventstore.Query{Stream: eventstore.PeopleCount, SortField: eventstore.InsertedAt, Direction: eventstore.Descending, Limit: 1}},
	{"/highest", eventstore.Query{Stream: eventstore.PeopleCount, SortField: eventstore.Value, Direction: eventstore.Descending, Limit: 1}},
	{"/ethic-count", eventstore.Query{Stream: eventstore.SpeedViolation, SortField: eventstore.InsertedAt, Direction: eventstore.Descending, Limit: 10}},
	{"/ethic-highest", eventstore.Query{Stream: eventstore.SpeedViolation, SortField: eventstore.Value, Direction: eventstore.Descending, Limit: 1}},
}

// SampleEndpoints returns a copy of the sample route table.
func SampleEndpoints() []SampleEndpoint {
	out := make([]SampleEndpoint, len(sampleEndpoints))
	copy(out, sampleEndpoints)
	return out
}

// Samples returns a handler that runs q and writes the samples as a bare
// JSON array in store order.
func (h *Handler) Samples(q eventstore.Query) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		samples, err := h.samples.Query(r.Context(), q)
		if err != nil {
			h.writeStoreError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, samples)
	}
}

func (h *Handler) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, eventstore.ErrNotFound):
		respondError(w, http.StatusNotFound, ErrCodeNotFound, MsgNoData, nil)
	case errors.Is(err, eventstore.ErrInvalidQuery):
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Route configured with an invalid query")
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, MsgStoreError, nil)
	default:
		respondError(w, http.StatusInternalServerError, ErrCodeStoreUnavailable, MsgStoreError, nil)
	}
}
