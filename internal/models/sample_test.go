// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package models

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestSampleMarshalJSON(t *testing.T) {
	tests := []struct {
		name   string
		sample Sample
		want   string
	}{
		{
			name:   "people count",
			sample: Sample{ID: "a1", Value: 42, InsertedAt: Timestamp{Seconds: 1700000000, Nanoseconds: 5}, Field: FieldSum},
			want:   `{"id":"a1","sum":42,"timeAdded":{"_seconds":1700000000,"_nanoseconds":5}}`,
		},
		{
			name:   "speed",
			sample: Sample{ID: "b2", Value: 61.5, InsertedAt: Timestamp{Seconds: 10}, Field: FieldSpeed},
			want:   `{"id":"b2","speed":61.5,"timeAdded":{"_seconds":10,"_nanoseconds":0}}`,
		},
		{
			name:   "field defaults to sum",
			sample: Sample{ID: "c3", Value: 1},
			want:   `{"id":"c3","sum":1,"timeAdded":{"_seconds":0,"_nanoseconds":0}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.sample)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Marshal() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSampleUnmarshalJSON(t *testing.T) {
	var s Sample
	if err := json.Unmarshal([]byte(`{"id":"x","speed":80,"timeAdded":{"_seconds":3,"_nanoseconds":250000000}}`), &s); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if s.Field != FieldSpeed || s.Value != 80 || s.ID != "x" {
		t.Errorf("Unmarshal() = %+v", s)
	}
	if got := s.InsertedAt.UnixMilli(); got != 3250 {
		t.Errorf("UnixMilli() = %d, want 3250", got)
	}

	if err := json.Unmarshal([]byte(`{"id":"y","timeAdded":{"_seconds":1}}`), &s); err == nil {
		t.Error("Unmarshal() without value field should fail")
	}
}

func TestTimestamp(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 30, 0, 123456789, time.UTC)
	ts := NewTimestamp(now)

	if !ts.Time().Equal(now) {
		t.Errorf("Time() = %v, want %v", ts.Time(), now)
	}
	if got, want := ts.UnixMilli(), now.UnixMilli(); got != want {
		t.Errorf("UnixMilli() = %d, want %d", got, want)
	}

	earlier := Timestamp{Seconds: ts.Seconds, Nanoseconds: ts.Nanoseconds - 1}
	if !earlier.Before(ts) || ts.Before(earlier) {
		t.Error("Before() ordering within the same second is wrong")
	}
	if !(Timestamp{Seconds: 1, Nanoseconds: 999}).Before(Timestamp{Seconds: 2}) {
		t.Error("Before() ordering across seconds is wrong")
	}
}
