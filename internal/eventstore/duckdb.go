// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package eventstore

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // registers the "duckdb" driver

	"github.com/tomtom215/crowdwatch/internal/config"
	"github.com/tomtom215/crowdwatch/internal/logging"
	"github.com/tomtom215/crowdwatch/internal/models"
)

// DuckDBBackend stores each collection as a table with columns
// id, <value field>, "timeAdded".
type DuckDBBackend struct {
	conn *sql.DB

	// collection name -> value column
	tables map[string]string
}

// NewDuckDBBackend opens store.DuckDBPath (in memory when empty), creates the
// two collection tables, and seeds demo data when store.DuckDBSeed is set.
func NewDuckDBBackend(ctx context.Context, store config.StoreConfig) (*DuckDBBackend, error) {
	dsn := ""
	if store.DuckDBPath != "" {
		dir := filepath.Dir(store.DuckDBPath)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
		dsn = store.DuckDBPath + "?autoinstall_known_extensions=false&autoload_known_extensions=false"
	}

	conn, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}

	b := &DuckDBBackend{
		conn: conn,
		tables: map[string]string{
			store.PeopleCollection: models.FieldSum,
			store.SpeedCollection:  models.FieldSpeed,
		},
	}

	if err := b.createTables(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}

	if store.DuckDBSeed {
		if err := b.seed(ctx, store, time.Now().UTC()); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to seed duckdb: %w", err)
		}
	}

	logging.Info().
		Str("path", store.DuckDBPath).
		Bool("seeded", store.DuckDBSeed).
		Msg("DuckDB event store opened")

	return b, nil
}

func (b *DuckDBBackend) Name() string { return config.StoreBackendDuckDB }

func (b *DuckDBBackend) createTables(ctx context.Context) error {
	for collection, valueField := range b.tables {
		stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id VARCHAR PRIMARY KEY,
			%s DOUBLE NOT NULL,
			%s TIMESTAMP NOT NULL
		)`, quoteIdent(collection), quoteIdent(valueField), quoteIdent(FieldTimeAdded))
		if _, err := b.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table %s: %w", collection, err)
		}
	}
	return nil
}

// Find runs SELECT ... ORDER BY <field> <dir> LIMIT n.
func (b *DuckDBBackend) Find(ctx context.Context, spec FindSpec) ([]models.Sample, error) {
	valueField, ok := b.tables[spec.Collection]
	if !ok {
		return nil, fmt.Errorf("unknown collection %q", spec.Collection)
	}
	if valueField != spec.ValueField {
		return nil, fmt.Errorf("collection %q has value field %q, not %q", spec.Collection, valueField, spec.ValueField)
	}
	if spec.OrderBy != FieldTimeAdded && spec.OrderBy != valueField {
		return nil, fmt.Errorf("cannot order %q by %q", spec.Collection, spec.OrderBy)
	}

	dir := "ASC"
	if spec.Descending {
		dir = "DESC"
	}

	query := fmt.Sprintf("SELECT id, %s, %s FROM %s ORDER BY %s %s LIMIT ?",
		quoteIdent(valueField), quoteIdent(FieldTimeAdded), quoteIdent(spec.Collection),
		quoteIdent(spec.OrderBy), dir)

	rows, err := b.conn.QueryContext(ctx, query, spec.Limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	samples := make([]models.Sample, 0, spec.Limit)
	for rows.Next() {
		var (
			id    string
			value float64
			added time.Time
		)
		if err := rows.Scan(&id, &value, &added); err != nil {
			return nil, err
		}
		samples = append(samples, models.Sample{
			ID:         id,
			Value:      value,
			InsertedAt: models.NewTimestamp(added),
			Field:      valueField,
		})
	}
	return samples, rows.Err()
}

// Insert adds samples to collection, ignoring IDs that already exist.
func (b *DuckDBBackend) Insert(ctx context.Context, collection string, samples ...models.Sample) error {
	valueField, ok := b.tables[collection]
	if !ok {
		return fmt.Errorf("unknown collection %q", collection)
	}

	tx, err := b.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT OR IGNORE INTO %s (id, %s, %s) VALUES (?, ?, ?)",
		quoteIdent(collection), quoteIdent(valueField), quoteIdent(FieldTimeAdded)))
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, s := range samples {
		if _, err := stmt.ExecContext(ctx, s.ID, s.Value, s.InsertedAt.Time()); err != nil {
			return fmt.Errorf("insert %s into %s: %w", s.ID, collection, err)
		}
	}
	return tx.Commit()
}

func (b *DuckDBBackend) Ping(ctx context.Context) error {
	return b.conn.PingContext(ctx)
}

func (b *DuckDBBackend) Close() error {
	return b.conn.Close()
}

const (
	seedSamples  = 48
	seedInterval = 30 * time.Minute
)

// seed writes a fixed pseudo-random day of samples ending at now. Values are
// identical on every run; only the timestamps move with now.
func (b *DuckDBBackend) seed(ctx context.Context, store config.StoreConfig, now time.Time) error {
	rng := rand.New(rand.NewPCG(2026, 7))

	people := make([]models.Sample, seedSamples)
	speeds := make([]models.Sample, seedSamples)
	for i := 0; i < seedSamples; i++ {
		at := models.NewTimestamp(now.Add(-time.Duration(seedSamples-1-i) * seedInterval).Truncate(time.Second))
		people[i] = models.Sample{
			ID:         fmt.Sprintf("seed-people-%03d", i),
			Value:      float64(rng.IntN(60)),
			InsertedAt: at,
		}
		speeds[i] = models.Sample{
			ID:         fmt.Sprintf("seed-speed-%03d", i),
			Value:      float64(40+rng.IntN(50)) + float64(rng.IntN(10))/10,
			InsertedAt: at,
		}
	}

	if err := b.Insert(ctx, store.PeopleCollection, people...); err != nil {
		return err
	}
	return b.Insert(ctx, store.SpeedCollection, speeds...)
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
