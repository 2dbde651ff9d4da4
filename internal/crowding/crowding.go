// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

// Package crowding decides whether the bus stop is crowded by comparing the
// newest people count against the highest count ever recorded.
//
//	c := crowding.Classifier{Threshold: 0.7}
//	a := c.Classify(&newest, &max) // 71/100 -> Crowded
package crowding

import "math"

// DefaultThreshold is the ratio above which the stop counts as crowded.
const DefaultThreshold = 0.7

// Verdict is the outcome of a classification.
type Verdict string

const (
	Crowded       Verdict = "Crowded"
	NotCrowded    Verdict = "Not Crowded"
	Indeterminate Verdict = "Indeterminate"
)

// Assessment is the classification result with its inputs. Ratio is nil
// whenever the verdict is Indeterminate.
type Assessment struct {
	Newest      *float64 `json:"newest"`
	HistoricMax *float64 `json:"historicMax"`
	Ratio       *float64 `json:"ratio,omitempty"`
	Threshold   float64  `json:"threshold"`
	Verdict     Verdict  `json:"verdict"`
}

// Classifier applies the ratio rule. The zero value uses DefaultThreshold.
type Classifier struct {
	Threshold float64
}

// Classify compares newest/historicMax against the threshold. A nil input,
// a non-positive maximum or a non-finite value yields Indeterminate.
func (c Classifier) Classify(newest, historicMax *float64) Assessment {
	threshold := c.Threshold
	if threshold <= 0 || !isFinite(threshold) {
		threshold = DefaultThreshold
	}

	a := Assessment{
		Newest:      newest,
		HistoricMax: historicMax,
		Threshold:   threshold,
		Verdict:     Indeterminate,
	}

	if newest == nil || historicMax == nil {
		return a
	}
	if !isFinite(*newest) || !isFinite(*historicMax) || *historicMax <= 0 {
		return a
	}

	ratio := *newest / *historicMax
	a.Ratio = &ratio
	if ratio > threshold {
		a.Verdict = Crowded
	} else {
		a.Verdict = NotCrowded
	}
	return a
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
