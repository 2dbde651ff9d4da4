// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package api

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/tomtom215/crowdwatch/internal/crowding"
	"github.com/tomtom215/crowdwatch/internal/eventstore"
	"github.com/tomtom215/crowdwatch/internal/metrics"
)

var (
	newestPeopleQuery  = eventstore.Query{Stream: eventstore.PeopleCount, SortField: eventstore.InsertedAt, Direction: eventstore.Descending, Limit: 1}
	highestPeopleQuery = eventstore.Query{Stream: eventstore.PeopleCount, SortField: eventstore.Value, Direction: eventstore.Descending, Limit: 1}
)

// Crowding reads the newest and the highest people count concurrently and
// classifies their ratio. A missing sample gives an Indeterminate verdict;
// a store failure gives 500.
func (h *Handler) Crowding(w http.ResponseWriter, r *http.Request) {
	var (
		wg                    sync.WaitGroup
		newest, highest       *float64
		newestErr, highestErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		newest, newestErr = h.firstValue(r.Context(), newestPeopleQuery)
	}()
	go func() {
		defer wg.Done()
		highest, highestErr = h.firstValue(r.Context(), highestPeopleQuery)
	}()
	wg.Wait()

	for _, err := range []error{newestErr, highestErr} {
		if err != nil && !errors.Is(err, eventstore.ErrNotFound) {
			h.writeStoreError(w, r, err)
			return
		}
	}

	assessment := h.classifier.Classify(newest, highest)
	var ratio float64
	if assessment.Ratio != nil {
		ratio = *assessment.Ratio
	}
	metrics.RecordCrowdingVerdict(string(assessment.Verdict), ratio, assessment.Verdict != crowding.Indeterminate)

	respondJSON(w, http.StatusOK, assessment)
}

func (h *Handler) firstValue(ctx context.Context, q eventstore.Query) (*float64, error) {
	samples, err := h.samples.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	v := samples[0].Value
	return &v, nil
}
