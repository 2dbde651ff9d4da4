// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package models

import (
	"bytes"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Value field names used on the wire.
const (
	FieldSum   = "sum"
	FieldSpeed = "speed"
)

// Timestamp mirrors the store-native timestamp shape {_seconds, _nanoseconds}.
type Timestamp struct {
	Seconds     int64 `json:"_seconds"`
	Nanoseconds int32 `json:"_nanoseconds"`
}

// NewTimestamp converts t to a Timestamp.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Seconds: t.Unix(), Nanoseconds: int32(t.Nanosecond())}
}

// Time returns the timestamp as a UTC time.Time.
func (ts Timestamp) Time() time.Time {
	return time.Unix(ts.Seconds, int64(ts.Nanoseconds)).UTC()
}

// UnixMilli returns milliseconds since the epoch (_seconds*1000 plus the
// millisecond part of _nanoseconds).
func (ts Timestamp) UnixMilli() int64 {
	return ts.Seconds*1000 + int64(ts.Nanoseconds)/int64(time.Millisecond)
}

// Before reports whether ts is earlier than other.
func (ts Timestamp) Before(other Timestamp) bool {
	if ts.Seconds != other.Seconds {
		return ts.Seconds < other.Seconds
	}
	return ts.Nanoseconds < other.Nanoseconds
}

// Sample is one timestamped measurement: a person count or a speed in km/h.
//
// Field names the JSON key carrying Value ("sum" or "speed") and is set by
// the event store from the stream the sample was read from.
type Sample struct {
	ID         string
	Value      float64
	InsertedAt Timestamp
	Field      string
}

// MarshalJSON encodes the sample as {"id", "<field>", "timeAdded"} in that order.
func (s Sample) MarshalJSON() ([]byte, error) {
	field := s.Field
	if field == "" {
		field = FieldSum
	}

	id, err := json.Marshal(s.ID)
	if err != nil {
		return nil, err
	}
	value, err := json.Marshal(s.Value)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", field, err)
	}
	ts, err := json.Marshal(s.InsertedAt)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(`{"id":`)
	buf.Write(id)
	buf.WriteString(`,"`)
	buf.WriteString(field)
	buf.WriteString(`":`)
	buf.Write(value)
	buf.WriteString(`,"timeAdded":`)
	buf.Write(ts)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes either wire form, detecting the value field.
func (s *Sample) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        string    `json:"id"`
		Sum       *float64  `json:"sum"`
		Speed     *float64  `json:"speed"`
		TimeAdded Timestamp `json:"timeAdded"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.ID = raw.ID
	s.InsertedAt = raw.TimeAdded
	switch {
	case raw.Sum != nil:
		s.Field, s.Value = FieldSum, *raw.Sum
	case raw.Speed != nil:
		s.Field, s.Value = FieldSpeed, *raw.Speed
	default:
		return fmt.Errorf("sample %q has neither %q nor %q", raw.ID, FieldSum, FieldSpeed)
	}
	return nil
}
