// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package eventstore

import (
	"context"
	"fmt"

	"github.com/tomtom215/crowdwatch/internal/config"
)

// OpenBackend constructs the backend selected by cfg.Store.Backend.
func OpenBackend(ctx context.Context, cfg *config.Config) (Backend, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendFirestore:
		return NewFirestoreBackend(ctx, cfg.GCP, cfg.Store)
	case config.StoreBackendMongo:
		return NewMongoBackend(ctx, cfg.Store)
	case config.StoreBackendDuckDB:
		return NewDuckDBBackend(ctx, cfg.Store)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
