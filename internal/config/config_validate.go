// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package config

import (
	"fmt"
	"math"
	"strings"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateStore(); err != nil {
		return err
	}

	if err := c.validateAssets(); err != nil {
		return err
	}

	if err := c.validateCrowding(); err != nil {
		return err
	}

	if err := c.validateBreaker(); err != nil {
		return err
	}

	if err := c.validateDashboard(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("SERVER_TIMEOUT must be positive")
	}
	if c.Server.BasePath != "" && !strings.HasPrefix(c.Server.BasePath, "/") {
		return fmt.Errorf("API_BASE_PATH must start with '/', got %q", c.Server.BasePath)
	}
	return nil
}

// validStoreBackends defines the supported event store backends
var validStoreBackends = map[string]bool{
	StoreBackendFirestore: true,
	StoreBackendMongo:     true,
	StoreBackendDuckDB:    true,
}

// validateStore validates event store configuration
func (c *Config) validateStore() error {
	if !validStoreBackends[c.Store.Backend] {
		return fmt.Errorf("STORE_BACKEND must be one of: firestore, mongo, duckdb")
	}
	if c.Store.PeopleCollection == "" || c.Store.SpeedCollection == "" {
		return fmt.Errorf("PEOPLE_COLLECTION and SPEED_COLLECTION must not be empty")
	}
	if c.Store.PeopleCollection == c.Store.SpeedCollection {
		return fmt.Errorf("PEOPLE_COLLECTION and SPEED_COLLECTION must differ, both are %q", c.Store.PeopleCollection)
	}
	if c.Store.QueryTimeout <= 0 {
		return fmt.Errorf("STORE_QUERY_TIMEOUT must be positive")
	}
	if c.Store.Backend == StoreBackendMongo {
		if c.Store.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required when STORE_BACKEND=mongo")
		}
		if err := validateMongoURI(c.Store.MongoURI); err != nil {
			return fmt.Errorf("MONGO_URI is invalid: %w", err)
		}
		if c.Store.MongoDatabase == "" {
			return fmt.Errorf("MONGO_DATABASE is required when STORE_BACKEND=mongo")
		}
	}
	return nil
}

// validateAssets validates the image object store configuration
func (c *Config) validateAssets() error {
	switch c.Assets.Backend {
	case AssetBackendGCS, AssetBackendS3:
		if c.Assets.Bucket == "" {
			return fmt.Errorf("STORAGE_BUCKET is required when ASSET_BACKEND=%s", c.Assets.Backend)
		}
	case AssetBackendLocal:
		if c.Assets.LocalDir == "" {
			return fmt.Errorf("ASSET_LOCAL_DIR is required when ASSET_BACKEND=local")
		}
	default:
		return fmt.Errorf("ASSET_BACKEND must be one of: gcs, s3, local")
	}
	if c.Assets.SignedURLTTL <= 0 {
		return fmt.Errorf("SIGNED_URL_TTL must be positive")
	}
	// V4 signed URLs cannot outlive seven days on either provider
	if c.Assets.SignedURLTTL > maxSignedURLTTL {
		return fmt.Errorf("SIGNED_URL_TTL must not exceed %s, got %s", maxSignedURLTTL, c.Assets.SignedURLTTL)
	}
	if c.Assets.LookupTimeout <= 0 {
		return fmt.Errorf("ASSET_LOOKUP_TIMEOUT must be positive")
	}
	if c.Assets.Backend == AssetBackendS3 && c.Assets.Region == "" {
		return fmt.Errorf("AWS_REGION is required when ASSET_BACKEND=s3")
	}
	return nil
}

// validateCrowding validates the crowding threshold
func (c *Config) validateCrowding() error {
	t := c.Crowding.Threshold
	if math.IsNaN(t) || t <= 0 || t > 1 {
		return fmt.Errorf("CROWDING_THRESHOLD must be in (0, 1], got %v", t)
	}
	return nil
}

// validateBreaker validates circuit breaker tuning
func (c *Config) validateBreaker() error {
	b := c.Breaker
	if b.MaxRequests == 0 {
		return fmt.Errorf("CIRCUIT_BREAKER_MAX_REQUESTS must be at least 1")
	}
	if b.Interval <= 0 || b.Timeout <= 0 {
		return fmt.Errorf("CIRCUIT_BREAKER_INTERVAL and CIRCUIT_BREAKER_TIMEOUT must be positive")
	}
	if b.FailureRatio <= 0 || b.FailureRatio > 1 {
		return fmt.Errorf("CIRCUIT_BREAKER_FAILURE_RATIO must be in (0, 1], got %v", b.FailureRatio)
	}
	return nil
}

// validateDashboard validates the terminal dashboard client settings
func (c *Config) validateDashboard() error {
	if err := validateHTTPURL(c.Dashboard.APIURL, "DASHBOARD_API_URL"); err != nil {
		return err
	}
	if c.Dashboard.FetchTimeout <= 0 {
		return fmt.Errorf("DASHBOARD_FETCH_TIMEOUT must be positive")
	}
	if c.Dashboard.RetryBackoff < 0 || c.Dashboard.RefreshInterval < 0 {
		return fmt.Errorf("DASHBOARD_RETRY_BACKOFF and DASHBOARD_REFRESH_INTERVAL must not be negative")
	}
	if c.Dashboard.UTCOffsetHours < -12 || c.Dashboard.UTCOffsetHours > 14 {
		return fmt.Errorf("DASHBOARD_UTC_OFFSET_HOURS must be between -12 and 14")
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
