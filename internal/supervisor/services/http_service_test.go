// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

// mockHTTPServer is a test double for HTTPServer.
type mockHTTPServer struct {
	listenAndServeErr    error
	listenAndServeBlock  bool
	shutdownErr          error
	listenAndServeCount  atomic.Int32
	shutdownCount        atomic.Int32
	closeCount           atomic.Int32
	listenAndServeCalled chan struct{}
	stopCh               chan struct{}
	stopOnce             sync.Once

	// shutdownHangs keeps the server running through Shutdown, as when
	// requests outlive the drain deadline. Only Close stops it.
	shutdownHangs bool
}

func newMockHTTPServer() *mockHTTPServer {
	return &mockHTTPServer{
		listenAndServeCalled: make(chan struct{}, 1),
		stopCh:               make(chan struct{}),
	}
}

func (m *mockHTTPServer) ListenAndServe() error {
	m.listenAndServeCount.Add(1)

	select {
	case m.listenAndServeCalled <- struct{}{}:
	default:
	}

	if m.listenAndServeErr != nil {
		return m.listenAndServeErr
	}
	if m.listenAndServeBlock {
		<-m.stopCh
		return http.ErrServerClosed
	}
	return nil
}

func (m *mockHTTPServer) Shutdown(ctx context.Context) error {
	m.shutdownCount.Add(1)
	if m.shutdownHangs {
		<-ctx.Done()
		return ctx.Err()
	}
	m.stop()
	return m.shutdownErr
}

func (m *mockHTTPServer) Close() error {
	m.closeCount.Add(1)
	m.stop()
	return nil
}

func (m *mockHTTPServer) stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

func TestHTTPServerService_Interface(t *testing.T) {
	var _ suture.Service = (*HTTPServerService)(nil)
}

func TestNewHTTPServerService_DefaultTimeout(t *testing.T) {
	for _, timeout := range []time.Duration{0, -5 * time.Second} {
		svc := NewHTTPServerService(newMockHTTPServer(), timeout)
		if svc.drainTimeout != 10*time.Second {
			t.Errorf("timeout %v: got %v, want 10s", timeout, svc.drainTimeout)
		}
	}
	if got := NewHTTPServerService(newMockHTTPServer(), time.Second).String(); got != "http-server" {
		t.Errorf("String() = %q", got)
	}
}

func TestHTTPServerService_Serve(t *testing.T) {
	t.Run("shuts down gracefully on context cancellation", func(t *testing.T) {
		server := newMockHTTPServer()
		server.listenAndServeBlock = true
		svc := NewHTTPServerService(server, time.Second)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()

		select {
		case <-server.listenAndServeCalled:
		case <-time.After(time.Second):
			t.Fatal("server did not start")
		}
		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Serve did not return after context cancellation")
		}
		if server.shutdownCount.Load() != 1 {
			t.Errorf("Shutdown calls = %d, want 1", server.shutdownCount.Load())
		}
		if server.closeCount.Load() != 0 {
			t.Errorf("Close calls = %d, want 0 after a clean drain", server.closeCount.Load())
		}
	})

	t.Run("returns error on startup failure", func(t *testing.T) {
		expectedErr := errors.New("bind: address already in use")
		server := newMockHTTPServer()
		server.listenAndServeErr = expectedErr

		err := NewHTTPServerService(server, time.Second).Serve(context.Background())
		if !errors.Is(err, expectedErr) {
			t.Errorf("expected %v, got %v", expectedErr, err)
		}
	})

	t.Run("returns shutdown error if shutdown fails", func(t *testing.T) {
		shutdownErr := errors.New("shutdown timeout")
		server := newMockHTTPServer()
		server.listenAndServeBlock = true
		server.shutdownErr = shutdownErr
		svc := NewHTTPServerService(server, time.Second)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()

		<-server.listenAndServeCalled
		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, shutdownErr) {
				t.Errorf("expected shutdown error, got %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Serve did not return")
		}
	})

	t.Run("closes connections when drain overruns", func(t *testing.T) {
		server := newMockHTTPServer()
		server.listenAndServeBlock = true
		server.shutdownHangs = true
		svc := NewHTTPServerService(server, 50*time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()

		<-server.listenAndServeCalled
		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, context.DeadlineExceeded) {
				t.Errorf("expected drain deadline error, got %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Serve did not return after the drain deadline")
		}
		if server.closeCount.Load() != 1 {
			t.Errorf("Close calls = %d, want 1", server.closeCount.Load())
		}
	})

	t.Run("external close is not a failure", func(t *testing.T) {
		server := newMockHTTPServer()
		server.listenAndServeBlock = true
		svc := NewHTTPServerService(server, time.Second)

		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(context.Background()) }()

		<-server.listenAndServeCalled
		_ = server.Close()

		select {
		case err := <-errCh:
			if err != nil {
				t.Errorf("expected nil, got %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Serve did not return after Close")
		}
	})

	t.Run("accepts an http.Server", func(t *testing.T) {
		svc := NewHTTPServerService(&http.Server{Addr: "127.0.0.1:0"}, time.Second)
		if svc.String() != "http-server" {
			t.Errorf("String() = %q", svc.String())
		}
	})
}
