// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

/*
Package models defines the wire types shared by the CrowdWatch server and the
dashboard client.

  - Sample and Timestamp: one people-count or speed-violation reading, encoded
    as {id, sum|speed, timeAdded{_seconds,_nanoseconds}}
  - NewestImage and AssetMetadata: the newest uploaded image and its object
    metadata
  - UploadRequest and UploadResponse: the image upload acknowledgement
  - APIResponse and APIError: the error envelope returned on failures

Query endpoints return bare JSON arrays of Sample; the envelope is only used
for errors so that existing frontend code keeps working.
*/
package models
