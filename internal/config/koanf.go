// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/crowdwatch/config.yaml",
	"/etc/crowdwatch/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Store and asset backend names.
const (
	StoreBackendFirestore = "firestore"
	StoreBackendMongo     = "mongo"
	StoreBackendDuckDB    = "duckdb"

	AssetBackendGCS   = "gcs"
	AssetBackendS3    = "s3"
	AssetBackendLocal = "local"
)

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        5000,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			BasePath:    "/api",
			Environment: "development",
		},
		GCP: GCPConfig{
			CredentialsFile: "",
			ProjectID:       "",
		},
		Store: StoreConfig{
			Backend:          StoreBackendFirestore,
			PeopleCollection: "persons-sum",
			SpeedCollection:  "ethical-count",
			QueryTimeout:     10 * time.Second,
			MongoURI:         "",
			MongoDatabase:    "crowdwatch",
			DuckDBPath:       "",
			DuckDBSeed:       false,
		},
		Assets: AssetsConfig{
			Backend:       AssetBackendGCS,
			Bucket:        "",
			Prefix:        "results/",
			LocalDir:      "",
			SignedURLTTL:  time.Hour,
			Region:        "us-east-1",
			LookupTimeout: 10 * time.Second,
		},
		Crowding: CrowdingConfig{
			Threshold: 0.7,
		},
		Breaker: BreakerConfig{
			MaxRequests:  3,
			Interval:     time.Minute,
			Timeout:      2 * time.Minute,
			MinRequests:  10,
			FailureRatio: 0.6,
		},
		Security: SecurityConfig{
			CORSOrigins: []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Dashboard: DashboardConfig{
			APIURL:          "http://localhost:5000",
			FetchTimeout:    10 * time.Second,
			RetryBackoff:    time.Second,
			RefreshInterval: 0,
			UTCOffsetHours:  7,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	return loadWithKoanf((*Config).Validate)
}

// LoadDashboard loads the same layered configuration as LoadWithKoanf but only
// validates the sections the dashboard client reads.
func LoadDashboard() (*Config, error) {
	return loadWithKoanf(func(c *Config) error {
		if err := c.validateDashboard(); err != nil {
			return err
		}
		if err := c.validateServer(); err != nil {
			return err
		}
		if err := c.validateCrowding(); err != nil {
			return err
		}
		return c.validateLogging()
	})
}

func loadWithKoanf(validate func(*Config) error) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// YAML lists are already slices
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server mappings
	"port":           "server.port",
	"http_host":      "server.host",
	"server_timeout": "server.timeout",
	"api_base_path":  "server.base_path",
	"environment":    "server.environment",

	// Google Cloud mappings
	"google_application_credentials": "gcp.credentials_file",
	"gcp_project_id":                 "gcp.project_id",

	// Event store mappings
	"store_backend":       "store.backend",
	"people_collection":   "store.people_collection",
	"speed_collection":    "store.speed_collection",
	"store_query_timeout": "store.query_timeout",
	"mongo_uri":           "store.mongo_uri",
	"mongo_database":      "store.mongo_database",
	"duckdb_path":         "store.duckdb_path",
	"duckdb_seed":         "store.duckdb_seed",

	// Asset store mappings
	"asset_backend":        "assets.backend",
	"storage_bucket":       "assets.bucket",
	"asset_prefix":         "assets.prefix",
	"signed_url_ttl":       "assets.signed_url_ttl",
	"aws_region":           "assets.region",
	"asset_local_dir":      "assets.local_dir",
	"asset_lookup_timeout": "assets.lookup_timeout",

	// Crowding mappings
	"crowding_threshold": "crowding.threshold",

	// Circuit breaker mappings
	"circuit_breaker_max_requests":  "breaker.max_requests",
	"circuit_breaker_interval":      "breaker.interval",
	"circuit_breaker_timeout":       "breaker.timeout",
	"circuit_breaker_min_requests":  "breaker.min_requests",
	"circuit_breaker_failure_ratio": "breaker.failure_ratio",

	// Security mappings
	"cors_origins": "security.cors_origins",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Dashboard client mappings
	"dashboard_api_url":          "dashboard.api_url",
	"dashboard_fetch_timeout":    "dashboard.fetch_timeout",
	"dashboard_retry_backoff":    "dashboard.retry_backoff",
	"dashboard_refresh_interval": "dashboard.refresh_interval",
	"dashboard_utc_offset_hours": "dashboard.utc_offset_hours",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - PORT -> server.port
//   - STORAGE_BUCKET -> assets.bucket
//   - GOOGLE_APPLICATION_CREDENTIALS -> gcp.credentials_file
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped variables are skipped so unrelated environment does not leak into config
	return ""
}
