// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package eventstore

import (
	"errors"
	"fmt"

	"github.com/tomtom215/crowdwatch/internal/models"
)

// Sentinel errors returned by Accessor.Query.
var (
	ErrNotFound         = errors.New("no samples found")
	ErrStoreUnavailable = errors.New("event store unavailable")
	ErrInvalidQuery     = errors.New("invalid query")
)

// Stream identifies one of the two sample collections.
type Stream int

const (
	PeopleCount Stream = iota + 1
	SpeedViolation
)

func (s Stream) String() string {
	switch s {
	case PeopleCount:
		return "people_count"
	case SpeedViolation:
		return "speed_violation"
	default:
		return fmt.Sprintf("stream(%d)", int(s))
	}
}

// ValueField returns the document field holding the stream's value.
func (s Stream) ValueField() string {
	if s == SpeedViolation {
		return models.FieldSpeed
	}
	return models.FieldSum
}

// SortField selects the field a query orders by.
type SortField int

const (
	InsertedAt SortField = iota + 1
	Value
)

// FieldTimeAdded is the document field holding the insertion timestamp.
const FieldTimeAdded = "timeAdded"

// Direction is the sort direction.
type Direction int

const (
	Descending Direction = iota + 1
	Ascending
)

func (d Direction) String() string {
	if d == Ascending {
		return "asc"
	}
	return "desc"
}

// MaxLimit bounds the number of samples a single query may return.
const MaxLimit = 1000

// Query describes one sorted, limited read.
type Query struct {
	Stream    Stream
	SortField SortField
	Direction Direction
	Limit     int
}

// Validate reports ErrInvalidQuery for unknown enums or an out-of-range limit.
func (q Query) Validate() error {
	switch {
	case q.Stream != PeopleCount && q.Stream != SpeedViolation:
		return fmt.Errorf("%w: unknown stream %d", ErrInvalidQuery, q.Stream)
	case q.SortField != InsertedAt && q.SortField != Value:
		return fmt.Errorf("%w: unknown sort field %d", ErrInvalidQuery, q.SortField)
	case q.Direction != Ascending && q.Direction != Descending:
		return fmt.Errorf("%w: unknown direction %d", ErrInvalidQuery, q.Direction)
	case q.Limit < 1 || q.Limit > MaxLimit:
		return fmt.Errorf("%w: limit %d out of range [1, %d]", ErrInvalidQuery, q.Limit, MaxLimit)
	}
	return nil
}

// FindSpec is a query resolved to store names, as passed to a Backend.
type FindSpec struct {
	Collection string
	ValueField string
	OrderBy    string // FieldTimeAdded or ValueField
	Descending bool
	Limit      int
}
