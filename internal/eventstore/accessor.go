// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package eventstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/crowdwatch/internal/breaker"
	"github.com/tomtom215/crowdwatch/internal/config"
	"github.com/tomtom215/crowdwatch/internal/logging"
	"github.com/tomtom215/crowdwatch/internal/metrics"
	"github.com/tomtom215/crowdwatch/internal/models"
)

// Backend executes resolved queries against a concrete store.
//
// Find returns at most spec.Limit samples in the requested order, with
// Value and InsertedAt populated. An empty collection is not an error.
type Backend interface {
	Name() string
	Find(ctx context.Context, spec FindSpec) ([]models.Sample, error)
	Ping(ctx context.Context) error
	Close() error
}

// Accessor is the read-only entry point to the event store. It is safe for
// concurrent use.
type Accessor struct {
	backend     Backend
	collections map[Stream]string
	timeout     time.Duration
	cb          *breaker.Breaker[[]models.Sample]
}

// NewAccessor wraps backend with the per-query timeout and a circuit breaker.
func NewAccessor(backend Backend, storeCfg config.StoreConfig, breakerCfg config.BreakerConfig) *Accessor {
	return &Accessor{
		backend: backend,
		collections: map[Stream]string{
			PeopleCount:    storeCfg.PeopleCollection,
			SpeedViolation: storeCfg.SpeedCollection,
		},
		timeout: storeCfg.QueryTimeout,
		cb:      breaker.New[[]models.Sample]("eventstore", breakerCfg),
	}
}

// Backend returns the name of the underlying backend.
func (a *Accessor) Backend() string {
	return a.backend.Name()
}

// BreakerState returns the circuit breaker state.
func (a *Accessor) BreakerState() string {
	return a.cb.State()
}

// Query runs q and returns between 1 and q.Limit samples.
func (a *Accessor) Query(ctx context.Context, q Query) ([]models.Sample, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	spec := a.resolve(q)
	stream := q.Stream.String()
	start := time.Now()

	queryCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		queryCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	samples, err := a.cb.Execute(func() ([]models.Sample, error) {
		return a.backend.Find(queryCtx, spec)
	})
	duration := time.Since(start)

	if err != nil {
		kind := errorKind(err)
		metrics.RecordStoreQuery(a.backend.Name(), stream, duration, kind)
		logging.Ctx(ctx).Error().Err(err).
			Str("backend", a.backend.Name()).
			Str("collection", spec.Collection).
			Str("order_by", spec.OrderBy).
			Int("limit", spec.Limit).
			Str("kind", kind).
			Msg("Event store query failed")
		return nil, fmt.Errorf("%w: query %s: %w", ErrStoreUnavailable, spec.Collection, err)
	}

	if len(samples) == 0 {
		metrics.RecordStoreQuery(a.backend.Name(), stream, duration, "not_found")
		return nil, fmt.Errorf("%w in %s", ErrNotFound, spec.Collection)
	}
	metrics.RecordStoreQuery(a.backend.Name(), stream, duration, "")

	if len(samples) > spec.Limit {
		samples = samples[:spec.Limit]
	}
	for i := range samples {
		samples[i].Field = spec.ValueField
	}

	logging.Ctx(ctx).Debug().
		Str("collection", spec.Collection).
		Int("count", len(samples)).
		Dur("duration", duration).
		Msg("Event store query")

	return samples, nil
}

// Ping checks that the backend is reachable. It bypasses the breaker so that
// readiness reflects the store itself.
func (a *Accessor) Ping(ctx context.Context) error {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	if err := a.backend.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

// Close releases the backend.
func (a *Accessor) Close() error {
	return a.backend.Close()
}

func (a *Accessor) resolve(q Query) FindSpec {
	valueField := q.Stream.ValueField()
	orderBy := FieldTimeAdded
	if q.SortField == Value {
		orderBy = valueField
	}
	return FindSpec{
		Collection: a.collections[q.Stream],
		ValueField: valueField,
		OrderBy:    orderBy,
		Descending: q.Direction == Descending,
		Limit:      q.Limit,
	}
}

func errorKind(err error) string {
	switch {
	case breaker.IsRejected(err):
		return "rejected"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "backend"
	}
}
