// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestRecordStoreQuery(t *testing.T) {
	before := testutil.ToFloat64(StoreQueryErrors.WithLabelValues("duckdb", "people-count", "not_found"))

	RecordStoreQuery("duckdb", "people-count", 3*time.Millisecond, "")
	RecordStoreQuery("duckdb", "people-count", 2*time.Millisecond, "not_found")

	after := testutil.ToFloat64(StoreQueryErrors.WithLabelValues("duckdb", "people-count", "not_found"))
	if after-before != 1 {
		t.Errorf("not_found errors increased by %v, want 1", after-before)
	}

	if count := testutil.CollectAndCount(StoreQueryDuration); count == 0 {
		t.Error("expected StoreQueryDuration to have observations")
	}
}

func histogramCount(t *testing.T) uint64 {
	t.Helper()
	var m dto.Metric
	if err := AssetObjectsScanned.Write(&m); err != nil {
		t.Fatalf("write histogram: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestRecordAssetLookup(t *testing.T) {
	before := testutil.ToFloat64(AssetLookups.WithLabelValues("gcs", "success"))
	scannedBefore := histogramCount(t)

	RecordAssetLookup("gcs", "success", 20*time.Millisecond, 12)
	RecordAssetLookup("gcs", "not_found", time.Millisecond, 0)

	if got := testutil.ToFloat64(AssetLookups.WithLabelValues("gcs", "success")) - before; got != 1 {
		t.Errorf("success lookups increased by %v, want 1", got)
	}
	if got := histogramCount(t) - scannedBefore; got != 1 {
		t.Errorf("scanned observations increased by %d, want 1 (zero scans are skipped)", got)
	}
}

func TestRecordCrowdingVerdict(t *testing.T) {
	RecordCrowdingVerdict("Crowded", 0.85, true)
	if got := testutil.ToFloat64(CrowdingRatio); got != 0.85 {
		t.Errorf("CrowdingRatio = %v, want 0.85", got)
	}

	// Indeterminate verdicts leave the last ratio in place
	RecordCrowdingVerdict("Indeterminate", 0, false)
	if got := testutil.ToFloat64(CrowdingRatio); got != 0.85 {
		t.Errorf("CrowdingRatio = %v after indeterminate, want 0.85", got)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/result", "200"))

	RecordAPIRequest("GET", "/api/result", "200", 5*time.Millisecond)

	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/result", "200")) - before; got != 1 {
		t.Errorf("APIRequestsTotal increased by %v, want 1", got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("APIActiveRequests = %v, want %v", got, before+1)
	}

	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("APIActiveRequests = %v, want %v", got, before)
	}
}

func TestSetAppInfo(t *testing.T) {
	SetAppInfo("1.0.0", "firestore", "gcs")
	SetAppInfo("1.0.1", "duckdb", "s3")

	if count := testutil.CollectAndCount(AppInfo); count != 1 {
		t.Errorf("AppInfo series = %d, want 1 after reset", count)
	}
	if got := testutil.ToFloat64(AppInfo.WithLabelValues("1.0.1", "duckdb", "s3")); got != 1 {
		t.Errorf("AppInfo = %v, want 1", got)
	}
}

func TestSetStoreUp(t *testing.T) {
	SetStoreUp("eventstore", true)
	if got := testutil.ToFloat64(StoreUp.WithLabelValues("eventstore")); got != 1 {
		t.Errorf("StoreUp = %v, want 1", got)
	}
	SetStoreUp("eventstore", false)
	if got := testutil.ToFloat64(StoreUp.WithLabelValues("eventstore")); got != 0 {
		t.Errorf("StoreUp = %v, want 0", got)
	}
}
