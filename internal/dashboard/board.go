// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package dashboard

import (
	"context"
	"fmt"
	"io"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/tomtom215/crowdwatch/internal/crowding"
	"github.com/tomtom215/crowdwatch/internal/logging"
)

const displayTimeFormat = "2006-01-02 15:04:05 MST"

// Board is the set of widgets rendered together.
type Board struct {
	client  *Client
	loc     *time.Location
	widgets []*Widget
}

// NewBoard creates the standard widget set. Times are shown in UTC shifted
// by offsetHours; the Decision card classifies with threshold, the same
// crowding.threshold the server uses for /crowding.
func NewBoard(client *Client, offsetHours int, threshold float64) *Board {
	loc := time.FixedZone(fmt.Sprintf("UTC%+d", offsetHours), offsetHours*3600)
	return &Board{
		client: client,
		loc:    loc,
		widgets: []*Widget{
			seriesWidget("PeopleGraph", "/result", loc),
			seriesWidget("SpeedGraph", "/ethic-count", loc),
			readingWidget("HighestCount", "/highest", loc),
			readingWidget("EthicCard", "/ethic-highest", loc),
			decisionWidget(crowding.Classifier{Threshold: threshold}),
			imageWidget(loc),
		},
	}
}

// Widgets returns the board's widgets in render order.
func (b *Board) Widgets() []*Widget {
	return b.widgets
}

// Refresh runs every widget concurrently, each under its own context, and
// waits for all of them.
func (b *Board) Refresh(ctx context.Context) {
	var wg sync.WaitGroup
	for _, w := range b.widgets {
		wg.Add(1)
		go func(w *Widget) {
			defer wg.Done()
			wctx, cancel := context.WithCancel(ctx)
			defer cancel()
			w.Refresh(wctx, b.client)
		}(w)
	}
	wg.Wait()
}

// Run refreshes and renders to out. With a zero interval it renders once;
// otherwise it repeats until ctx is canceled.
func (b *Board) Run(ctx context.Context, out io.Writer, interval time.Duration) error {
	logging.Info().Str("api", b.client.BaseURL()).Dur("interval", interval).Msg("Dashboard started")

	for {
		b.Refresh(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := b.Render(out); err != nil {
			return err
		}
		if interval <= 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

// Render writes one card per widget.
func (b *Board) Render(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "CrowdWatch\t%s\n", time.Now().In(b.loc).Format(displayTimeFormat))
	for _, w := range b.widgets {
		fmt.Fprintf(tw, "\n[%s]\t\n", w.Name)
		renderState(tw, w.State())
	}
	return tw.Flush()
}

func renderState(w io.Writer, s State) {
	switch s.Kind {
	case Loading:
		fmt.Fprintln(w, "  Loading...\t")
	case Error:
		fmt.Fprintf(w, "  %s\t\n", s.Message)
	case Data:
		renderPayload(w, s.Payload)
	}
}

func renderPayload(w io.Writer, payload interface{}) {
	switch p := payload.(type) {
	case Series:
		for _, pt := range p {
			fmt.Fprintf(w, "  %s\t%g\n", pt.Time.Format(displayTimeFormat), pt.Value)
		}
	case Reading:
		fmt.Fprintf(w, "  %g\tat %s\n", p.Value, p.Time.Format(displayTimeFormat))
	case crowding.Assessment:
		fmt.Fprintf(w, "  %s\t%s\n", p.Verdict, describeRatio(p))
	case ImageCard:
		fmt.Fprintf(w, "  %s\t%s\n", p.CreatedAt.Format(displayTimeFormat), p.URL)
	default:
		fmt.Fprintf(w, "  %v\t\n", p)
	}
}

func describeRatio(a crowding.Assessment) string {
	if a.Ratio == nil {
		return "not enough data"
	}
	return fmt.Sprintf("%.0f%% of historic max (threshold %.0f%%)", *a.Ratio*100, a.Threshold*100)
}
