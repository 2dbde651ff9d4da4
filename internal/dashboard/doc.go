// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

/*
Package dashboard is the terminal client for the CrowdWatch API.

A Board holds one Widget per card. Each widget polls one or two endpoints
and holds exactly one State: Loading, Error(message) or Data(payload).

	client := dashboard.NewClient(cfg.Dashboard, cfg.Server.BasePath)
	board := dashboard.NewBoard(client, cfg.Dashboard.UTCOffsetHours, cfg.Crowding.Threshold)
	err := board.Run(ctx, os.Stdout, cfg.Dashboard.RefreshInterval)

Every fetch is bounded by dashboard.fetch_timeout and retried once after
dashboard.retry_backoff on a transport error or a 5xx. A 404 is not
retried and shows as "No data". Widgets run concurrently under their own
contexts; a widget whose context is canceled keeps its previous state.
*/
package dashboard
