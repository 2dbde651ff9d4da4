// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/crowdwatch/internal/logging"
)

const defaultDrainTimeout = 10 * time.Second

// HTTPServer is the part of *http.Server the API service drives.
//
// Close is only called when Shutdown runs past its deadline, to drop the
// connections that did not drain in time.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
	Close() error
}

// HTTPServerService runs the CrowdWatch API server under the api-layer
// supervisor.
//
// Lifecycle:
//
//  1. Serve starts ListenAndServe on its own goroutine.
//  2. A listen failure (port in use, bad address) is returned, and suture
//     restarts the service with backoff.
//  3. When the supervisor cancels ctx, in-flight requests get drainTimeout
//     to complete. Connections still open after that are closed.
//
// http.ErrServerClosed is the normal end of a shutdown and is never
// reported as a failure.
//
//	server := &http.Server{Addr: cfg.Server.Address(), Handler: router}
//	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
type HTTPServerService struct {
	server       HTTPServer
	drainTimeout time.Duration
	logger       zerolog.Logger
}

// NewHTTPServerService wraps server. A non-positive drainTimeout becomes
// 10s. When server is an *http.Server its Addr is attached to every log
// line.
func NewHTTPServerService(server HTTPServer, drainTimeout time.Duration) *HTTPServerService {
	if drainTimeout <= 0 {
		drainTimeout = defaultDrainTimeout
	}

	logger := logging.WithComponent("http")
	if s, ok := server.(*http.Server); ok {
		logger = logger.With().Str("addr", s.Addr).Logger()
	}

	return &HTTPServerService{
		server:       server,
		drainTimeout: drainTimeout,
		logger:       logger,
	}
}

// Serve implements suture.Service. It returns the listen error when the
// server cannot start, the drain error when shutdown overruns, and
// ctx.Err() after a clean shutdown.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	done := h.listen()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		h.logger.Warn().Msg("HTTP server stopped without a shutdown request")
		return nil
	case <-ctx.Done():
	}

	err := h.drain()
	<-done
	if err != nil {
		return err
	}
	return ctx.Err()
}

// listen runs ListenAndServe and delivers its result on the returned
// channel, which is closed once the server has stopped. A nil value means
// the server was shut down.
func (h *HTTPServerService) listen() <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		h.logger.Info().Msg("HTTP server starting")
		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			done <- err
		}
	}()
	return done
}

// drain stops accepting connections and waits up to drainTimeout for
// in-flight requests. The supervisor context is already canceled here, so
// the deadline starts from a fresh context.
func (h *HTTPServerService) drain() error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), h.drainTimeout)
	defer cancel()

	err := h.server.Shutdown(ctx)
	if err == nil {
		h.logger.Info().Dur("duration", time.Since(start)).Msg("HTTP server drained")
		return nil
	}

	h.logger.Warn().Err(err).Dur("timeout", h.drainTimeout).Msg("HTTP server drain incomplete, closing connections")
	if cerr := h.server.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	return fmt.Errorf("http server shutdown failed: %w", err)
}

// String identifies the service in supervisor logs.
func (h *HTTPServerService) String() string {
	return "http-server"
}
