// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

/*
Package supervisor runs the long-lived CrowdWatch services under suture v4.

The tree has two layers so a failing store probe never restarts the HTTP
server:

	RootSupervisor ("crowdwatch")
	├── DataSupervisor ("data-layer")
	│   ├── ProbeService ("probe-eventstore")
	│   └── ProbeService ("probe-assets")
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Usage from main:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddDataService(services.NewProbeService("eventstore", accessor, 30*time.Second))
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout))
	errCh := tree.ServeBackground(ctx)

Supervisor events (restarts, backoff, stop timeouts) are logged through the
sutureslog hook, which writes to zerolog via logging.NewSlogLogger.
*/
package supervisor
