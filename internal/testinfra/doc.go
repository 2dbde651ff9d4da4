// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

//go:build integration

// Package testinfra starts throwaway containers for integration tests.
//
// Everything here is behind the integration build tag:
//
//	go test -tags integration ./internal/eventstore/...
//
// # MongoDB
//
//	func TestMongoBackend(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    mongo, err := testinfra.NewMongoContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, mongo)
//
//	    backend, err := eventstore.NewMongoBackend(ctx, config.StoreConfig{
//	        MongoURI:      mongo.URI,
//	        MongoDatabase: "crowdwatch_test",
//	    })
//	    // ...
//	}
//
// Tests are skipped when Docker is unavailable. The first run pulls the image.
package testinfra
