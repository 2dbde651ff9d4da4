// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

/*
Package api implements the CrowdWatch HTTP surface.

Routes under the configured base path (default /api):

	GET  /result         newest 10 people counts
	GET  /newest-sum     newest people count
	GET  /highest        highest people count
	GET  /ethic-count    newest 10 speed violations
	GET  /ethic-highest  highest speed violation
	GET  /newest-image   signed URL and metadata of the newest image
	GET  /crowding       crowding verdict from newest and highest count
	POST /upload         acknowledges an image URL (no store write)

Unprefixed routes: / (greeting), /health, /health/live, /health/ready and
/metrics.

The five sample endpoints share one handler driven by sampleEndpoints. Query
endpoints return bare JSON arrays, which is what the browser dashboard reads.
Failures use the models.APIResponse envelope with a short message; the full
error is only logged.
*/
package api
