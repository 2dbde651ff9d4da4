// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package api

import (
	"context"
	"time"

	"github.com/tomtom215/crowdwatch/internal/crowding"
	"github.com/tomtom215/crowdwatch/internal/eventstore"
	"github.com/tomtom215/crowdwatch/internal/models"
)

// SampleReader is the read side of the event store.
type SampleReader interface {
	Query(ctx context.Context, q eventstore.Query) ([]models.Sample, error)
	Ping(ctx context.Context) error
	Backend() string
	BreakerState() string
}

// ImageLocator resolves the newest uploaded image.
type ImageLocator interface {
	Newest(ctx context.Context) (*models.NewestImage, error)
	Ping(ctx context.Context) error
	Backend() string
	BreakerState() string
}

// Handler holds the dependencies of the HTTP handlers. It carries no
// request state and is shared by all requests.
type Handler struct {
	samples    SampleReader
	images     ImageLocator
	classifier crowding.Classifier
	version    string
	startTime  time.Time
}

// NewHandler creates a Handler. The readers are constructed and closed by
// the caller.
//
//	acc := eventstore.NewAccessor(backend, cfg.Store, cfg.Breaker)
//	loc := assets.NewLocator(assetBackend, cfg.Assets, cfg.Breaker)
//	h := api.NewHandler(acc, loc, crowding.Classifier{Threshold: cfg.Crowding.Threshold}, version)
func NewHandler(samples SampleReader, images ImageLocator, classifier crowding.Classifier, version string) *Handler {
	return &Handler{
		samples:    samples,
		images:     images,
		classifier: classifier,
		version:    version,
		startTime:  time.Now(),
	}
}
