// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/crowdwatch/internal/logging"
	"github.com/tomtom215/crowdwatch/internal/metrics"
)

// Pinger is a store that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

const (
	defaultProbeInterval = 30 * time.Second
	probeTimeout         = 5 * time.Second
)

// ProbeService pings a store on a fixed interval.
type ProbeService struct {
	store    string
	pinger   Pinger
	interval time.Duration
	logger   zerolog.Logger

	// up is nil until the first probe completes.
	up *bool
}

// NewProbeService creates a probe for the named store. A non-positive
// interval becomes 30s.
func NewProbeService(store string, pinger Pinger, interval time.Duration) *ProbeService {
	if interval <= 0 {
		interval = defaultProbeInterval
	}
	return &ProbeService{
		store:    store,
		pinger:   pinger,
		interval: interval,
		logger:   logging.WithComponent("probe").With().Str("store", store).Logger(),
	}
}

// Serve implements suture.Service. It probes immediately and then on every
// tick until ctx is canceled.
func (p *ProbeService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.probe(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (p *ProbeService) probe(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	err := p.pinger.Ping(pingCtx)
	cancel()

	if ctx.Err() != nil {
		return
	}

	up := err == nil
	metrics.SetStoreUp(p.store, up)

	switch {
	case p.up == nil && up:
		p.logger.Info().Msg("Store reachable")
	case p.up == nil, *p.up && !up:
		p.logger.Warn().Err(err).Msg("Store unreachable")
	case !*p.up && up:
		p.logger.Info().Msg("Store recovered")
	}
	p.up = &up
}

// String identifies the service in supervisor logs.
func (p *ProbeService) String() string {
	return "probe-" + p.store
}
