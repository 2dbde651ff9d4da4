// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tomtom215/crowdwatch/internal/crowding"
	"github.com/tomtom215/crowdwatch/internal/logging"
	"github.com/tomtom215/crowdwatch/internal/models"
)

// StateKind is the render state of a widget.
type StateKind int

const (
	Loading StateKind = iota
	Error
	Data
)

func (k StateKind) String() string {
	switch k {
	case Error:
		return "error"
	case Data:
		return "data"
	default:
		return "loading"
	}
}

// MsgNoData is the Error message shown for a 404.
const MsgNoData = "No data"

// State is the single state a widget holds. Message is set for Error,
// Payload for Data.
type State struct {
	Kind    StateKind
	Message string
	Payload interface{}
}

// Point is one sample on a chart.
type Point struct {
	Time  time.Time
	Value float64
}

// Series is the payload of the graph widgets, newest first.
type Series []Point

// Reading is the payload of the single-value cards.
type Reading struct {
	Value float64
	Time  time.Time
}

// ImageCard is the payload of the newest image widget.
type ImageCard struct {
	URL       string
	CreatedAt time.Time
}

// FetchFunc loads a widget payload.
type FetchFunc func(ctx context.Context, c *Client) (interface{}, error)

// Widget is one dashboard card.
type Widget struct {
	Name  string
	fetch FetchFunc

	mu    sync.Mutex
	state State
}

// NewWidget creates a widget in the Loading state.
func NewWidget(name string, fetch FetchFunc) *Widget {
	return &Widget{Name: name, fetch: fetch}
}

// State returns the current state.
func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Widget) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

// Refresh fetches once and records the outcome. Nothing is recorded if ctx
// is canceled before the fetch returns.
func (w *Widget) Refresh(ctx context.Context, c *Client) {
	payload, err := w.fetch(ctx, c)
	if ctx.Err() != nil {
		return
	}

	switch {
	case err == nil:
		w.setState(State{Kind: Data, Payload: payload})
	case errors.Is(err, ErrNoData):
		w.setState(State{Kind: Error, Message: MsgNoData})
	default:
		logging.Ctx(ctx).Warn().Err(err).Str("widget", w.Name).Msg("Widget fetch failed")
		w.setState(State{Kind: Error, Message: errorMessage(err)})
	}
}

func errorMessage(err error) string {
	var se *StatusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return "Error loading data"
}

func fetchSamples(ctx context.Context, c *Client, path string) ([]models.Sample, error) {
	var samples []models.Sample
	if err := c.Get(ctx, path, &samples); err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, ErrNoData
	}
	return samples, nil
}

// sampleTime converts a wire timestamp at millisecond precision.
func sampleTime(ts models.Timestamp, loc *time.Location) time.Time {
	return time.UnixMilli(ts.UnixMilli()).In(loc)
}

func seriesWidget(name, path string, loc *time.Location) *Widget {
	return NewWidget(name, func(ctx context.Context, c *Client) (interface{}, error) {
		samples, err := fetchSamples(ctx, c, path)
		if err != nil {
			return nil, err
		}
		series := make(Series, 0, len(samples))
		for _, s := range samples {
			series = append(series, Point{Time: sampleTime(s.InsertedAt, loc), Value: s.Value})
		}
		return series, nil
	})
}

func readingWidget(name, path string, loc *time.Location) *Widget {
	return NewWidget(name, func(ctx context.Context, c *Client) (interface{}, error) {
		samples, err := fetchSamples(ctx, c, path)
		if err != nil {
			return nil, err
		}
		return Reading{Value: samples[0].Value, Time: sampleTime(samples[0].InsertedAt, loc)}, nil
	})
}

// decisionWidget fetches the newest and highest counts concurrently and
// classifies them locally. A missing input yields Indeterminate.
func decisionWidget(classifier crowding.Classifier) *Widget {
	return NewWidget("Decision", func(ctx context.Context, c *Client) (interface{}, error) {
		var (
			wg                    sync.WaitGroup
			newest, highest       *float64
			newestErr, highestErr error
		)
		first := func(path string, v **float64, errp *error) {
			defer wg.Done()
			samples, err := fetchSamples(ctx, c, path)
			if err != nil {
				*errp = err
				return
			}
			*v = &samples[0].Value
		}

		wg.Add(2)
		go first("/newest-sum", &newest, &newestErr)
		go first("/highest", &highest, &highestErr)
		wg.Wait()

		for _, err := range []error{newestErr, highestErr} {
			if err != nil && !errors.Is(err, ErrNoData) {
				return nil, err
			}
		}
		return classifier.Classify(newest, highest), nil
	})
}

func imageWidget(loc *time.Location) *Widget {
	return NewWidget("NewestImage", func(ctx context.Context, c *Client) (interface{}, error) {
		var img models.NewestImage
		if err := c.Get(ctx, "/newest-image", &img); err != nil {
			return nil, err
		}
		return ImageCard{URL: img.ImageURL, CreatedAt: img.MetaData.TimeCreated.In(loc)}, nil
	})
}
