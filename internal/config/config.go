// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from defaults, an optional
// config file, and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting via environment variables
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	GCP       GCPConfig       `koanf:"gcp"`
	Store     StoreConfig     `koanf:"store"`
	Assets    AssetsConfig    `koanf:"assets"`
	Crowding  CrowdingConfig  `koanf:"crowding"`
	Breaker   BreakerConfig   `koanf:"breaker"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	Dashboard DashboardConfig `koanf:"dashboard"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	BasePath    string        `koanf:"base_path"`   // Mount point for the query endpoints (default: /api)
	Environment string        `koanf:"environment"` // "development", "staging", "production"
}

// GCPConfig holds Google Cloud credentials shared by the Firestore and
// Cloud Storage backends.
type GCPConfig struct {
	// CredentialsFile is the path to a service account JSON key.
	// Empty means Application Default Credentials.
	CredentialsFile string `koanf:"credentials_file"`

	// ProjectID is optional; when empty it is detected from the credentials.
	ProjectID string `koanf:"project_id"`
}

// StoreConfig selects and tunes the event store backend.
type StoreConfig struct {
	// Backend is one of: firestore, mongo, duckdb.
	Backend string `koanf:"backend"`

	PeopleCollection string        `koanf:"people_collection"`
	SpeedCollection  string        `koanf:"speed_collection"`
	QueryTimeout     time.Duration `koanf:"query_timeout"`

	MongoURI      string `koanf:"mongo_uri"`
	MongoDatabase string `koanf:"mongo_database"`

	// DuckDBPath is the database file; empty opens an in-memory database.
	DuckDBPath string `koanf:"duckdb_path"`
	DuckDBSeed bool   `koanf:"duckdb_seed"`
}

// AssetsConfig selects and tunes the object store holding uploaded images.
type AssetsConfig struct {
	// Backend is one of: gcs, s3, local.
	Backend string `koanf:"backend"`
	Bucket  string `koanf:"bucket"`
	Prefix  string `koanf:"prefix"`

	// LocalDir is the root directory of the local backend. Object keys are
	// slash-separated paths relative to it.
	LocalDir string `koanf:"local_dir"`

	// SignedURLTTL is how long a signed image URL stays valid, counted from
	// the request that produced it.
	SignedURLTTL time.Duration `koanf:"signed_url_ttl"`

	// Region is used by the s3 backend only.
	Region string `koanf:"region"`

	// LookupTimeout bounds one newest-image lookup (list, describe, sign).
	LookupTimeout time.Duration `koanf:"lookup_timeout"`
}

// CrowdingConfig holds the crowding decision threshold.
type CrowdingConfig struct {
	// Threshold is the newest/highest ratio above which a stop is reported
	// as crowded. Ratios equal to the threshold are not crowded.
	Threshold float64 `koanf:"threshold"`
}

// BreakerConfig tunes the circuit breakers wrapping the store backends.
type BreakerConfig struct {
	MaxRequests  uint32        `koanf:"max_requests"`  // Requests allowed in half-open state
	Interval     time.Duration `koanf:"interval"`      // Count reset period while closed
	Timeout      time.Duration `koanf:"timeout"`       // Open to half-open delay
	MinRequests  uint32        `koanf:"min_requests"`  // Requests required before tripping
	FailureRatio float64       `koanf:"failure_ratio"` // Failure ratio that trips the breaker
}

// SecurityConfig holds browser-facing HTTP settings
type SecurityConfig struct {
	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig holds logging configuration for zerolog.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// DashboardConfig configures the terminal dashboard client.
type DashboardConfig struct {
	// APIURL is the base URL of a running server, without the base path.
	APIURL          string        `koanf:"api_url"`
	FetchTimeout    time.Duration `koanf:"fetch_timeout"`
	RetryBackoff    time.Duration `koanf:"retry_backoff"`
	RefreshInterval time.Duration `koanf:"refresh_interval"` // 0 renders once and exits
	UTCOffsetHours  int           `koanf:"utc_offset_hours"`
}

// Address returns the host:port the HTTP server listens on.
func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// IsProduction reports whether the server runs in production mode.
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// Load reads configuration from defaults, an optional YAML file, and the
// environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
