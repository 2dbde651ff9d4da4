// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/crowdwatch/internal/api"
	"github.com/tomtom215/crowdwatch/internal/assets"
	"github.com/tomtom215/crowdwatch/internal/config"
	"github.com/tomtom215/crowdwatch/internal/crowding"
	"github.com/tomtom215/crowdwatch/internal/eventstore"
	"github.com/tomtom215/crowdwatch/internal/logging"
	"github.com/tomtom215/crowdwatch/internal/metrics"
	"github.com/tomtom215/crowdwatch/internal/supervisor"
	"github.com/tomtom215/crowdwatch/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	openTimeout   = 30 * time.Second
	probeInterval = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("version", version).
		Str("store_backend", cfg.Store.Backend).
		Str("asset_backend", cfg.Assets.Backend).
		Str("base_path", cfg.Server.BasePath).
		Msg("Starting CrowdWatch")

	openCtx, cancelOpen := context.WithTimeout(context.Background(), openTimeout)
	storeBackend, err := eventstore.OpenBackend(openCtx, cfg)
	if err != nil {
		cancelOpen()
		logging.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msg("Failed to open event store")
	}
	assetBackend, err := assets.OpenBackend(openCtx, cfg)
	cancelOpen()
	if err != nil {
		_ = storeBackend.Close()
		logging.Fatal().Err(err).Str("backend", cfg.Assets.Backend).Msg("Failed to open asset store")
	}

	accessor := eventstore.NewAccessor(storeBackend, cfg.Store, cfg.Breaker)
	defer func() {
		if err := accessor.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event store")
		}
	}()

	locator := assets.NewLocator(assetBackend, cfg.Assets, cfg.Breaker)
	defer func() {
		if err := locator.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing asset store")
		}
	}()

	metrics.SetAppInfo(version, accessor.Backend(), locator.Backend())

	classifier := crowding.Classifier{Threshold: cfg.Crowding.Threshold}
	handler := api.NewHandler(accessor, locator, classifier, version)
	router := api.NewRouter(handler, cfg.Server, cfg.Security)

	if cfg.Server.IsProduction() {
		for _, origin := range cfg.Security.CORSOrigins {
			if origin == "*" {
				logging.Warn().Msg("CORS allows any origin (CORS_ORIGINS=*)")
			}
		}
	}

	server := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddDataService(services.NewProbeService("eventstore", accessor, probeInterval))
	tree.AddDataService(services.NewProbeService("assets", locator, probeInterval))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	if err := supervisor.Wait(ctx, errCh); err != nil {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("CrowdWatch stopped")
}
