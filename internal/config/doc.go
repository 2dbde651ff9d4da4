// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

/*
Package config provides centralized configuration management for CrowdWatch.

Configuration is loaded with Koanf v2 in three layers, later layers winning:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, ./config.yaml, /etc/crowdwatch/config.yaml
 3. Environment variables, mapped explicitly by envTransformFunc

# Environment Variables

Server:
  - PORT: Listen port (default: 5000)
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - API_BASE_PATH: Mount point for the query endpoints (default: /api)

Stores:
  - GOOGLE_APPLICATION_CREDENTIALS: Service account key for Firestore and Cloud Storage
  - STORE_BACKEND: firestore, mongo, or duckdb (default: firestore)
  - PEOPLE_COLLECTION, SPEED_COLLECTION: Collection names (default: persons-sum, ethical-count)
  - MONGO_URI, MONGO_DATABASE: Required for the mongo backend
  - DUCKDB_PATH, DUCKDB_SEED: Embedded backend file and demo seeding
  - ASSET_BACKEND: gcs, s3, or local (default: gcs)
  - STORAGE_BUCKET: Bucket holding uploaded images (required for gcs and s3)
  - ASSET_LOCAL_DIR: Image directory for the local backend
  - ASSET_PREFIX: Object prefix scanned for images (default: results/)
  - SIGNED_URL_TTL: Signed image URL lifetime (default: 1h)
  - ASSET_LOOKUP_TIMEOUT: Deadline for one newest-image lookup (default: 10s)

Crowding:
  - CROWDING_THRESHOLD: newest/highest ratio above which the stop is crowded (default: 0.7)

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Example YAML

	server:
	  port: 8080
	store:
	  backend: duckdb
	  duckdb_seed: true
	assets:
	  bucket: my-project.appspot.com
	  signed_url_ttl: 30m
*/
package config
