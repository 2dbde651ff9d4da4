// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

/*
Package main is the entry point for the CrowdWatch API server.

CrowdWatch serves read-only query endpoints over the event store holding
people-count and speed-violation samples, plus the newest uploaded camera
image from object storage.

# Application Architecture

	RootSupervisor ("crowdwatch")
	├── DataSupervisor ("data-layer")
	│   ├── probe-eventstore
	│   └── probe-assets
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Startup order:

 1. Configuration: koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog
 3. Event store: firestore, mongo or duckdb behind a circuit breaker
 4. Asset store: gcs, s3 or local behind a circuit breaker
 5. HTTP: chi router under server.base_path
 6. Supervisor tree, then block until SIGINT or SIGTERM

# Example Usage

Local development with the seeded DuckDB store and images read from disk,
no cloud account needed:

	export STORE_BACKEND=duckdb
	export DUCKDB_SEED=true
	export ASSET_BACKEND=local
	export ASSET_LOCAL_DIR=./data
	export LOG_FORMAT=console
	./crowdwatch

Images are then picked up from ./data/results/.

Production against Firebase:

	export GOOGLE_APPLICATION_CREDENTIALS=/secrets/service-account.json
	export STORAGE_BUCKET=my-project.appspot.com
	./crowdwatch
*/
package main
