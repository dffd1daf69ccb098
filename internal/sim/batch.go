package sim

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomz197/ricochet/internal/scene"
)

// Result is the outcome of running one scene headless.
type Result struct {
	Name   string
	Stats  Stats
	Events []Event
	Balls  []Ball
}

// RunBatch runs each layout in its own world for ticks steps of dt, at most
// limit worlds at a time (limit <= 0 means no limit). Results keep the order
// of layouts. The first error, including context cancellation, stops the batch.
func RunBatch(ctx context.Context, layouts []*scene.Layout, ticks int, dt time.Duration, limit int, opts ...Option) ([]Result, error) {
	results := make([]Result, len(layouts))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, layout := range layouts {
		i, layout := i, layout
		g.Go(func() error {
			w := New(layout, opts...)
			var events []Event
			for n := 0; n < ticks; n++ {
				if err := ctx.Err(); err != nil {
					return fmt.Errorf("scene %q at tick %d: %w", layout.Name, w.Tick(), err)
				}
				events = append(events, w.Step(dt)...)
			}
			results[i] = Result{
				Name:   layout.Name,
				Stats:  w.Stats(),
				Events: events,
				Balls:  append([]Ball(nil), w.Balls()...),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
