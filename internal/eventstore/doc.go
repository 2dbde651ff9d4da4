// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

/*
Package eventstore reads people-count and speed-violation samples from the
document store written by the ingestion pipeline.

Every read is a single sorted, limited query over one collection:

	acc := eventstore.NewAccessor(backend, cfg.Store, cfg.Breaker)
	samples, err := acc.Query(ctx, eventstore.Query{
	    Stream:    eventstore.PeopleCount,
	    SortField: eventstore.InsertedAt,
	    Direction: eventstore.Descending,
	    Limit:     10,
	})

The store does the ordering; the accessor never re-sorts. An empty result is
reported as ErrNotFound, and any backend failure, timeout, or open circuit as
ErrStoreUnavailable wrapping the cause.

Backends:
  - FirestoreBackend: Cloud Firestore (production)
  - MongoBackend: MongoDB with the same collection and field names
  - DuckDBBackend: embedded DuckDB, one table per collection, optionally
    seeded with demo data for local development

Samples are never written by the accessor. DuckDBBackend.Insert exists for
seeding and tests only.
*/
package eventstore
