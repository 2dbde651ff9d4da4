// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package eventstore

import (
	"fmt"
	"time"

	"github.com/tomtom215/crowdwatch/internal/models"
)

// sampleFromFields builds a Sample from a decoded document. Document stores
// hand back numbers as int64 or float64 depending on how they were written.
func sampleFromFields(id string, fields map[string]interface{}, valueField string) (models.Sample, error) {
	value, err := toFloat(fields[valueField])
	if err != nil {
		return models.Sample{}, fmt.Errorf("document %s field %s: %w", id, valueField, err)
	}
	ts, err := toTimestamp(fields[FieldTimeAdded])
	if err != nil {
		return models.Sample{}, fmt.Errorf("document %s field %s: %w", id, FieldTimeAdded, err)
	}
	return models.Sample{ID: id, Value: value, InsertedAt: ts, Field: valueField}, nil
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case nil:
		return 0, fmt.Errorf("missing value")
	default:
		return 0, fmt.Errorf("unsupported value type %T", v)
	}
}

// timeConverter is satisfied by BSON datetimes.
type timeConverter interface {
	Time() time.Time
}

func toTimestamp(v interface{}) (models.Timestamp, error) {
	switch t := v.(type) {
	case time.Time:
		return models.NewTimestamp(t), nil
	case timeConverter:
		return models.NewTimestamp(t.Time()), nil
	case nil:
		return models.Timestamp{}, fmt.Errorf("missing timestamp")
	default:
		return models.Timestamp{}, fmt.Errorf("unsupported timestamp type %T", v)
	}
}
