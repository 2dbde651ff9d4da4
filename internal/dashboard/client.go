// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package dashboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/crowdwatch/internal/config"
	"github.com/tomtom215/crowdwatch/internal/logging"
	"github.com/tomtom215/crowdwatch/internal/models"
)

// ErrNoData is returned when the API answers 404.
var ErrNoData = errors.New("no data")

// maxBodyBytes caps how much of a response the client reads.
const maxBodyBytes = 1 << 20

// StatusError is a non-2xx, non-404 response. Message comes from the
// error envelope when the body carries one.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api returned %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("api returned %d", e.Code)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// Client fetches JSON from the CrowdWatch API.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	backoff time.Duration
}

// NewClient builds a client for cfg.APIURL with basePath appended.
func NewClient(cfg config.DashboardConfig, basePath string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(cfg.APIURL, "/") + strings.TrimRight(basePath, "/"),
		http:    &http.Client{},
		timeout: cfg.FetchTimeout,
		backoff: cfg.RetryBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the URL every path is appended to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get fetches path and decodes the JSON body into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	retry, err := c.do(ctx, http.MethodGet, path, nil, out)
	if err == nil || !retry || ctx.Err() != nil {
		return err
	}

	logging.Ctx(ctx).Debug().Err(err).Str("path", path).Dur("backoff", c.backoff).Msg("Retrying fetch")

	timer := time.NewTimer(c.backoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	_, err = c.do(ctx, http.MethodGet, path, nil, out)
	return err
}

// Upload posts imageURL to /upload and returns the acknowledgement. It is
// sent once; a failed upload is reported rather than retried.
func (c *Client) Upload(ctx context.Context, imageURL string) (*models.UploadResponse, error) {
	payload, err := json.Marshal(models.UploadRequest{ImageURL: imageURL})
	if err != nil {
		return nil, fmt.Errorf("encode upload: %w", err)
	}

	var ack models.UploadResponse
	if _, err := c.do(ctx, http.MethodPost, "/upload", payload, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

// do performs one attempt. retry is true for transport failures and 5xx
// responses.
func (c *Client) do(ctx context.Context, method, path string, payload []byte, out interface{}) (retry bool, err error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader = http.NoBody
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return true, fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return true, fmt.Errorf("read %s: %w", path, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, ErrNoData
	case resp.StatusCode >= 500:
		return true, statusError(resp.StatusCode, data)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return false, statusError(resp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", path, err)
	}
	return false, nil
}

func statusError(code int, body []byte) *StatusError {
	var envelope models.APIResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		return &StatusError{Code: code, Message: envelope.Error.Message}
	}
	return &StatusError{Code: code}
}
