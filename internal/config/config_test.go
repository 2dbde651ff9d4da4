// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package config

import (
	"testing"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Assets.Bucket = "demo-project.appspot.com"
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults with bucket", func(*Config) {}, false},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, true},
		{"base path without slash", func(c *Config) { c.Server.BasePath = "api" }, true},
		{"empty base path", func(c *Config) { c.Server.BasePath = "" }, false},
		{"same collections", func(c *Config) { c.Store.SpeedCollection = c.Store.PeopleCollection }, true},
		{"mongo with uri", func(c *Config) {
			c.Store.Backend = StoreBackendMongo
			c.Store.MongoURI = "mongodb://localhost:27017"
		}, false},
		{"mongo with http uri", func(c *Config) {
			c.Store.Backend = StoreBackendMongo
			c.Store.MongoURI = "http://localhost:27017"
		}, true},
		{"s3 backend", func(c *Config) { c.Assets.Backend = AssetBackendS3 }, false},
		{"s3 without region", func(c *Config) {
			c.Assets.Backend = AssetBackendS3
			c.Assets.Region = ""
		}, true},
		{"unknown asset backend", func(c *Config) { c.Assets.Backend = "azure" }, true},
		{"zero ttl", func(c *Config) { c.Assets.SignedURLTTL = 0 }, true},
		{"local backend without bucket", func(c *Config) {
			c.Assets.Backend = AssetBackendLocal
			c.Assets.Bucket = ""
			c.Assets.LocalDir = "./testdata/results"
		}, false},
		{"local backend without dir", func(c *Config) { c.Assets.Backend = AssetBackendLocal }, true},
		{"gcs without bucket", func(c *Config) { c.Assets.Bucket = "" }, true},
		{"zero lookup timeout", func(c *Config) { c.Assets.LookupTimeout = 0 }, true},
		{"threshold one", func(c *Config) { c.Crowding.Threshold = 1 }, false},
		{"threshold zero", func(c *Config) { c.Crowding.Threshold = 0 }, true},
		{"breaker zero half-open requests", func(c *Config) { c.Breaker.MaxRequests = 0 }, true},
		{"breaker ratio above one", func(c *Config) { c.Breaker.FailureRatio = 1.2 }, true},
		{"dashboard url with path", func(c *Config) { c.Dashboard.APIURL = "http://localhost:5000/api" }, true},
		{"dashboard offset out of range", func(c *Config) { c.Dashboard.UTCOffsetHours = 20 }, true},
		{"console format", func(c *Config) { c.Logging.Format = "console" }, false},
		{"xml format", func(c *Config) { c.Logging.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestServerAddress(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"0.0.0.0", 5000, "0.0.0.0:5000"},
		{"", 8080, ":8080"},
		{"::1", 5000, "[::1]:5000"},
	}
	for _, tt := range tests {
		s := ServerConfig{Host: tt.host, Port: tt.port}
		if got := s.Address(); got != tt.want {
			t.Errorf("Address() = %q, want %q", got, tt.want)
		}
	}
}
