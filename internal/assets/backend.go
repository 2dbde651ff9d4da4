// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package assets

import (
	"context"
	"fmt"

	"github.com/tomtom215/crowdwatch/internal/config"
)

// OpenBackend constructs the backend selected by cfg.Assets.Backend.
func OpenBackend(ctx context.Context, cfg *config.Config) (Backend, error) {
	switch cfg.Assets.Backend {
	case config.AssetBackendGCS:
		return NewGCSBackend(ctx, cfg.GCP, cfg.Assets)
	case config.AssetBackendS3:
		return NewS3Backend(ctx, cfg.Assets)
	case config.AssetBackendLocal:
		return NewLocalBackend(cfg.Assets)
	default:
		return nil, fmt.Errorf("unknown asset backend %q", cfg.Assets.Backend)
	}
}
