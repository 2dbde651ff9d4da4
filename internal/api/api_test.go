// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/crowdwatch/internal/assets"
	"github.com/tomtom215/crowdwatch/internal/config"
	"github.com/tomtom215/crowdwatch/internal/crowding"
	"github.com/tomtom215/crowdwatch/internal/eventstore"
	"github.com/tomtom215/crowdwatch/internal/models"
)

type queryResult struct {
	samples []models.Sample
	err     error
}

type fakeSamples struct {
	mu      sync.Mutex
	results map[eventstore.Query]queryResult
	calls   []eventstore.Query
	pingErr error
}

func (f *fakeSamples) Query(_ context.Context, q eventstore.Query) ([]models.Sample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, q)
	res, ok := f.results[q]
	if !ok {
		return nil, fmt.Errorf("%w: nothing configured", eventstore.ErrNotFound)
	}
	return res.samples, res.err
}

func (f *fakeSamples) Ping(context.Context) error { return f.pingErr }
func (f *fakeSamples) Backend() string            { return "fake" }
func (f *fakeSamples) BreakerState() string       { return "closed" }

func (f *fakeSamples) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeImages struct {
	img     *models.NewestImage
	err     error
	pingErr error
	calls   int
}

func (f *fakeImages) Newest(context.Context) (*models.NewestImage, error) {
	f.calls++
	return f.img, f.err
}
func (f *fakeImages) Ping(context.Context) error { return f.pingErr }
func (f *fakeImages) Backend() string            { return "fake" }
func (f *fakeImages) BreakerState() string       { return "closed" }

func newTestRouter(s *fakeSamples, i *fakeImages) http.Handler {
	h := NewHandler(s, i, crowding.Classifier{Threshold: crowding.DefaultThreshold}, "test")
	return NewRouter(h,
		config.ServerConfig{BasePath: "/api"},
		config.SecurityConfig{CORSOrigins: []string{"*"}})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	if resp.Status != "error" || resp.Error == nil {
		t.Fatalf("not an error envelope: %s", rec.Body.String())
	}
	return resp
}

func sample(id string, value float64, field string, sec int64) models.Sample {
	return models.Sample{ID: id, Value: value, Field: field, InsertedAt: models.Timestamp{Seconds: sec}}
}

func TestSampleEndpoints(t *testing.T) {
	for _, ep := range SampleEndpoints() {
		t.Run(ep.Path, func(t *testing.T) {
			field := ep.Query.Stream.ValueField()
			want := []models.Sample{sample("a", 9, field, 200), sample("b", 4, field, 100)}[:min(2, ep.Query.Limit)]
			s := &fakeSamples{results: map[eventstore.Query]queryResult{ep.Query: {samples: want}}}

			rec := do(t, newTestRouter(s, &fakeImages{}), http.MethodGet, "/api"+ep.Path, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}

			var got []map[string]interface{}
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("body is not a JSON array: %v", err)
			}
			if len(got) != len(want) || len(got) > ep.Query.Limit {
				t.Fatalf("len = %d, want %d", len(got), len(want))
			}
			if got[0]["id"] != "a" || got[0][field] != 9.0 {
				t.Errorf("first item = %v", got[0])
			}
			ts, ok := got[0]["timeAdded"].(map[string]interface{})
			if !ok || ts["_seconds"] != 200.0 {
				t.Errorf("timeAdded = %v", got[0]["timeAdded"])
			}
			if s.calls[0] != ep.Query {
				t.Errorf("query = %+v, want %+v", s.calls[0], ep.Query)
			}
		})
	}
}

func TestSampleEndpointsTable(t *testing.T) {
	want := map[string]struct {
		stream eventstore.Stream
		field  eventstore.SortField
		limit  int
	}{
		"/result":        {eventstore.PeopleCount, eventstore.InsertedAt, 10},
		"/newest-sum":    {eventstore.PeopleCount, eventstore.InsertedAt, 1},
		"/highest":       {eventstore.PeopleCount, eventstore.Value, 1},
		"/ethic-count":   {eventstore.SpeedViolation, eventstore.InsertedAt, 10},
		"/ethic-highest": {eventstore.SpeedViolation, eventstore.Value, 1},
	}
	eps := SampleEndpoints()
	if len(eps) != len(want) {
		t.Fatalf("got %d endpoints, want %d", len(eps), len(want))
	}
	for _, ep := range eps {
		w, ok := want[ep.Path]
		if !ok {
			t.Errorf("unexpected endpoint %s", ep.Path)
			continue
		}
		if ep.Query.Stream != w.stream || ep.Query.SortField != w.field || ep.Query.Limit != w.limit || ep.Query.Direction != eventstore.Descending {
			t.Errorf("%s query = %+v", ep.Path, ep.Query)
		}
	}
}

func TestSampleEndpointErrors(t *testing.T) {
	q := sampleEndpoints[0].Query
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"empty collection", fmt.Errorf("%w in persons-sum", eventstore.ErrNotFound), http.StatusNotFound, ErrCodeNotFound, MsgNoData},
		{"store down", fmt.Errorf("%w: permission denied", eventstore.ErrStoreUnavailable), http.StatusInternalServerError, ErrCodeStoreUnavailable, MsgStoreError},
		{"invalid query", fmt.Errorf("%w: limit", eventstore.ErrInvalidQuery), http.StatusInternalServerError, ErrCodeInternal, MsgStoreError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &fakeSamples{results: map[eventstore.Query]queryResult{q: {err: tt.err}}}
			rec := do(t, newTestRouter(s, &fakeImages{}), http.MethodGet, "/api/result", "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			resp := decodeError(t, rec)
			if resp.Error.Code != tt.wantCode || resp.Error.Message != tt.wantMsg {
				t.Errorf("error = %+v", resp.Error)
			}
			if strings.Contains(rec.Body.String(), "permission denied") {
				t.Error("store error detail leaked to client")
			}
		})
	}
}

func TestNewestImage(t *testing.T) {
	img := &models.NewestImage{
		ImageURL: "https://signed.example/results/a.jpg",
		MetaData: models.AssetMetadata{Name: "results/a.jpg", Bucket: "b", TimeCreated: time.Unix(100, 0).UTC()},
	}
	tests := []struct {
		name       string
		images     *fakeImages
		wantStatus int
		wantMsg    string
	}{
		{"found", &fakeImages{img: img}, http.StatusOK, ""},
		{"empty prefix", &fakeImages{err: fmt.Errorf("%w under results/", assets.ErrNotFound)}, http.StatusNotFound, MsgNoImages},
		{"sign failure", &fakeImages{err: fmt.Errorf("%w: sign", assets.ErrStoreUnavailable)}, http.StatusInternalServerError, MsgImageError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestRouter(&fakeSamples{}, tt.images), http.MethodGet, "/api/newest-image", "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				if resp := decodeError(t, rec); resp.Error.Message != tt.wantMsg {
					t.Errorf("message = %q, want %q", resp.Error.Message, tt.wantMsg)
				}
				return
			}
			var got models.NewestImage
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.ImageURL != img.ImageURL || got.MetaData.Name != "results/a.jpg" {
				t.Errorf("body = %+v", got)
			}
			if !strings.Contains(rec.Body.String(), `"metaData"`) {
				t.Errorf("body missing metaData key: %s", rec.Body.String())
			}
		})
	}
}

func TestUpload(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"echoes url", `{"imageUrl":"http://x/y.png"}`, http.StatusOK},
		{"malformed json", `{"imageUrl":`, http.StatusBadRequest},
		{"missing field", `{}`, http.StatusBadRequest},
		{"blank url", `{"imageUrl":"  "}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, i := &fakeSamples{}, &fakeImages{}
			rec := do(t, newTestRouter(s, i), http.MethodPost, "/api/upload", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if s.callCount() != 0 || i.calls != 0 {
				t.Error("upload must not touch the stores")
			}
			if tt.wantStatus != http.StatusOK {
				if resp := decodeError(t, rec); resp.Error.Code != ErrCodeValidation {
					t.Errorf("code = %q", resp.Error.Code)
				}
				return
			}
			var got models.UploadResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Message != MsgUploaded || got.ImageURL != "http://x/y.png" {
				t.Errorf("body = %+v", got)
			}
		})
	}
}

func TestCrowding(t *testing.T) {
	storeDown := fmt.Errorf("%w: timeout", eventstore.ErrStoreUnavailable)
	notFound := fmt.Errorf("%w", eventstore.ErrNotFound)

	tests := []struct {
		name        string
		newest      queryResult
		highest     queryResult
		wantStatus  int
		wantVerdict crowding.Verdict
	}{
		{"crowded", queryResult{samples: []models.Sample{sample("n", 71, "sum", 2)}}, queryResult{samples: []models.Sample{sample("h", 100, "sum", 1)}}, http.StatusOK, crowding.Crowded},
		{"not crowded", queryResult{samples: []models.Sample{sample("n", 70, "sum", 2)}}, queryResult{samples: []models.Sample{sample("h", 100, "sum", 1)}}, http.StatusOK, crowding.NotCrowded},
		{"no data", queryResult{err: notFound}, queryResult{err: notFound}, http.StatusOK, crowding.Indeterminate},
		{"zero max", queryResult{samples: []models.Sample{sample("n", 0, "sum", 2)}}, queryResult{samples: []models.Sample{sample("h", 0, "sum", 1)}}, http.StatusOK, crowding.Indeterminate},
		{"store down", queryResult{samples: []models.Sample{sample("n", 1, "sum", 2)}}, queryResult{err: storeDown}, http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &fakeSamples{results: map[eventstore.Query]queryResult{
				newestPeopleQuery:  tt.newest,
				highestPeopleQuery: tt.highest,
			}}
			rec := do(t, newTestRouter(s, &fakeImages{}), http.MethodGet, "/api/crowding", "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if s.callCount() != 2 {
				t.Errorf("store calls = %d, want 2", s.callCount())
			}
			if tt.wantStatus != http.StatusOK {
				decodeError(t, rec)
				return
			}
			var got crowding.Assessment
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Verdict != tt.wantVerdict {
				t.Errorf("verdict = %q, want %q", got.Verdict, tt.wantVerdict)
			}
		})
	}
}

func TestHealthEndpoints(t *testing.T) {
	t.Run("greeting", func(t *testing.T) {
		rec := do(t, newTestRouter(&fakeSamples{}, &fakeImages{}), http.MethodGet, "/", "")
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "running") {
			t.Errorf("status %d body %q", rec.Code, rec.Body.String())
		}
	})

	t.Run("health", func(t *testing.T) {
		rec := do(t, newTestRouter(&fakeSamples{}, &fakeImages{}), http.MethodGet, "/health", "")
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"version":"test"`) {
			t.Errorf("status %d body %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("live", func(t *testing.T) {
		rec := do(t, newTestRouter(&fakeSamples{pingErr: errors.New("down")}, &fakeImages{}), http.MethodGet, "/health/live", "")
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200 regardless of stores", rec.Code)
		}
	})

	readyTests := []struct {
		name       string
		samples    *fakeSamples
		images     *fakeImages
		wantStatus int
	}{
		{"ready", &fakeSamples{}, &fakeImages{}, http.StatusOK},
		{"event store down", &fakeSamples{pingErr: errors.New("down")}, &fakeImages{}, http.StatusServiceUnavailable},
		{"asset store down", &fakeSamples{}, &fakeImages{pingErr: errors.New("down")}, http.StatusServiceUnavailable},
	}
	for _, tt := range readyTests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestRouter(tt.samples, tt.images), http.MethodGet, "/health/ready", "")
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}

	t.Run("metrics", func(t *testing.T) {
		rec := do(t, newTestRouter(&fakeSamples{}, &fakeImages{}), http.MethodGet, "/metrics", "")
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "crowdwatch_") {
			t.Errorf("status %d, metrics missing crowdwatch_ prefix", rec.Code)
		}
	})
}

func TestRoutingErrors(t *testing.T) {
	router := newTestRouter(&fakeSamples{}, &fakeImages{})

	rec := do(t, router, http.MethodGet, "/api/nope", "")
	if rec.Code != http.StatusNotFound || decodeError(t, rec).Error.Code != ErrCodeNotFound {
		t.Errorf("unknown route: status %d", rec.Code)
	}

	rec = do(t, router, http.MethodPost, "/api/result", `{}`)
	if rec.Code != http.StatusMethodNotAllowed || decodeError(t, rec).Error.Code != ErrCodeMethodNotAllowed {
		t.Errorf("wrong method: status %d", rec.Code)
	}

	rec = do(t, router, http.MethodGet, "/result", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("data route outside base path: status %d, want 404", rec.Code)
	}
}

func TestEmptyBasePath(t *testing.T) {
	q := sampleEndpoints[1].Query
	s := &fakeSamples{results: map[eventstore.Query]queryResult{q: {samples: []models.Sample{sample("a", 1, "sum", 1)}}}}
	h := NewHandler(s, &fakeImages{}, crowding.Classifier{}, "test")
	router := NewRouter(h, config.ServerConfig{BasePath: ""}, config.SecurityConfig{CORSOrigins: []string{"*"}})

	rec := do(t, router, http.MethodGet, "/newest-sum", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRequestIDHeader(t *testing.T) {
	rec := do(t, newTestRouter(&fakeSamples{}, &fakeImages{}), http.MethodGet, "/health/live", "")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header not set")
	}
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/result", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	newTestRouter(&fakeSamples{}, &fakeImages{}).ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Errorf("Access-Control-Allow-Origin missing, status %d", rec.Code)
	}
}
