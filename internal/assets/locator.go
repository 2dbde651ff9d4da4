// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

// Package assets finds the newest annotated image uploaded by the detector
// and hands out a short-lived signed URL for it.
//
// Objects live under a fixed prefix (results/ by default). Every call lists
// the prefix, picks the object with the latest creation time, and signs a
// fresh URL; nothing is cached between requests.
package assets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/crowdwatch/internal/breaker"
	"github.com/tomtom215/crowdwatch/internal/config"
	"github.com/tomtom215/crowdwatch/internal/logging"
	"github.com/tomtom215/crowdwatch/internal/metrics"
	"github.com/tomtom215/crowdwatch/internal/models"
)

var (
	ErrNotFound         = errors.New("no images found")
	ErrStoreUnavailable = errors.New("asset store unavailable")
)

// Object is one listed object.
type Object struct {
	Key       string
	CreatedAt time.Time
	Metadata  models.AssetMetadata
}

// Backend lists and signs objects in a bucket.
type Backend interface {
	Name() string

	// Walk calls fn for every object whose key starts with prefix.
	Walk(ctx context.Context, prefix string, fn func(Object)) error

	// Describe completes the metadata of a selected object. Backends whose
	// listings already carry full metadata return obj.Metadata unchanged.
	Describe(ctx context.Context, obj Object) (models.AssetMetadata, error)

	// SignURL returns a GET URL for key valid until expires.
	SignURL(ctx context.Context, key string, expires time.Time) (string, error)

	Ping(ctx context.Context) error
	Close() error
}

// Locator resolves the newest asset. It is safe for concurrent use.
type Locator struct {
	backend Backend
	prefix  string
	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time
	cb      *breaker.Breaker[*models.NewestImage]
}

// Option configures a Locator.
type Option func(*Locator)

// WithClock overrides the clock used to compute URL expiry.
func WithClock(now func() time.Time) Option {
	return func(l *Locator) {
		l.now = now
	}
}

// NewLocator creates a Locator over backend.
func NewLocator(backend Backend, cfg config.AssetsConfig, breakerCfg config.BreakerConfig, opts ...Option) *Locator {
	l := &Locator{
		backend: backend,
		prefix:  cfg.Prefix,
		ttl:     cfg.SignedURLTTL,
		timeout: cfg.LookupTimeout,
		now:     time.Now,
		cb:      breaker.New[*models.NewestImage]("assets", breakerCfg),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Backend returns the name of the underlying backend.
func (l *Locator) Backend() string {
	return l.backend.Name()
}

// BreakerState returns the circuit breaker state.
func (l *Locator) BreakerState() string {
	return l.cb.State()
}

// Newest returns a signed URL and the metadata of the most recently created
// object under the prefix. Ties on creation time go to the greatest key.
// The whole lookup shares one deadline of cfg.LookupTimeout.
func (l *Locator) Newest(ctx context.Context) (*models.NewestImage, error) {
	start := time.Now()
	scanned := 0

	lookupCtx := ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		lookupCtx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	// An empty listing returns (nil, nil) so that it does not count as a
	// breaker failure.
	img, err := l.cb.Execute(func() (*models.NewestImage, error) {
		var (
			newest Object
			found  bool
		)
		err := l.backend.Walk(lookupCtx, l.prefix, func(obj Object) {
			if strings.HasSuffix(obj.Key, "/") {
				return
			}
			scanned++
			if !found || newer(obj, newest) {
				newest, found = obj, true
			}
		})
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", l.prefix, err)
		}
		if !found {
			return nil, nil
		}

		meta, err := l.backend.Describe(lookupCtx, newest)
		if err != nil {
			return nil, fmt.Errorf("describe %s: %w", newest.Key, err)
		}

		url, err := l.backend.SignURL(lookupCtx, newest.Key, l.now().Add(l.ttl))
		if err != nil {
			return nil, fmt.Errorf("sign %s: %w", newest.Key, err)
		}
		return &models.NewestImage{ImageURL: url, MetaData: meta}, nil
	})
	duration := time.Since(start)

	switch {
	case err != nil:
		metrics.RecordAssetLookup(l.backend.Name(), "error", duration, scanned)
		logging.Ctx(ctx).Error().Err(err).
			Str("backend", l.backend.Name()).
			Str("prefix", l.prefix).
			Msg("Newest asset lookup failed")
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	case img == nil:
		metrics.RecordAssetLookup(l.backend.Name(), "not_found", duration, scanned)
		return nil, fmt.Errorf("%w under %q", ErrNotFound, l.prefix)
	}

	metrics.RecordAssetLookup(l.backend.Name(), "found", duration, scanned)
	logging.Ctx(ctx).Debug().
		Str("object", img.MetaData.Name).
		Int("scanned", scanned).
		Dur("duration", duration).
		Msg("Newest asset resolved")
	return img, nil
}

// Ping checks that the bucket is reachable.
func (l *Locator) Ping(ctx context.Context) error {
	if err := l.backend.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

// Close releases the backend.
func (l *Locator) Close() error {
	return l.backend.Close()
}

func newer(a, b Object) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.Key > b.Key
}
