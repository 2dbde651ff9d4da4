// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

// Package main runs the CrowdWatch terminal dashboard against a running API.
//
//	DASHBOARD_API_URL=http://localhost:5000 DASHBOARD_REFRESH_INTERVAL=30s ./crowdwatch-dashboard
//
// With no refresh interval the board renders once and exits. SIGINT cancels
// every in-flight fetch.
//
// The -upload flag posts an image URL to the API instead of rendering the
// board:
//
//	./crowdwatch-dashboard -upload https://storage.example/results/frame.jpg
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/crowdwatch/internal/config"
	"github.com/tomtom215/crowdwatch/internal/dashboard"
	"github.com/tomtom215/crowdwatch/internal/logging"
)

func main() {
	upload := flag.String("upload", "", "post this image URL to the API and exit")
	flag.Parse()

	cfg, err := config.LoadDashboard()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    "console",
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := dashboard.NewClient(cfg.Dashboard, cfg.Server.BasePath)

	if *upload != "" {
		ack, err := client.Upload(ctx, *upload)
		if err != nil {
			logging.Error().Err(err).Str("image_url", *upload).Msg("Upload failed")
			stop()
			os.Exit(1)
		}
		fmt.Fprintf(os.Stdout, "%s %s\n", ack.Message, ack.ImageURL)
		return
	}

	board := dashboard.NewBoard(client, cfg.Dashboard.UTCOffsetHours, cfg.Crowding.Threshold)

	if err := board.Run(ctx, os.Stdout, cfg.Dashboard.RefreshInterval); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Dashboard stopped")
		stop()
		os.Exit(1)
	}
}
