// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

/*
Package services adapts CrowdWatch components to suture's Serve(ctx) model.

HTTPServerService wraps *http.Server: ListenAndServe runs in a goroutine and
context cancellation triggers Shutdown with a bounded timeout.

ProbeService pings a store on an interval, publishes crowdwatch_store_up
and logs transitions between reachable and unreachable. Probes never
return an error to the supervisor; an unreachable store is a state, not a
crash.
*/
package services
