// Command trace runs scenes headless and prints collision statistics.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/tomz197/ricochet/internal/collision"
	"github.com/tomz197/ricochet/internal/config"
	"github.com/tomz197/ricochet/internal/scene"
	"github.com/tomz197/ricochet/internal/sim"
)

func main() {
	ticks := flag.Int("ticks", 1200, "ticks to run each scene")
	hz := flag.Int("hz", 120, "ticks per simulated second")
	parallel := flag.Int("parallel", runtime.GOMAXPROCS(0), "scenes run at once")
	maxBounces := flag.Int("max-bounces", config.GetEnvInt("RICOCHET_MAX_BOUNCES", sim.DefaultMaxBounces), "bounces per ball per tick")
	events := flag.Bool("events", false, "print every event")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: trace [flags] [scene.yaml ...]\n\nWith no scenes, the built-in arena is run.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := config.NewLogger(os.Stderr, "trace")

	paths := flag.Args()
	if len(paths) == 0 {
		paths = []string{""}
	}

	layouts := make([]*scene.Layout, 0, len(paths))
	for _, path := range paths {
		layout, err := scene.LoadLayout(path)
		if err != nil {
			logger.Fatal("failed to load scene", "path", path, "err", err)
		}
		layouts = append(layouts, layout)
	}

	dt, err := tickDuration(*hz)
	if err != nil {
		logger.Fatal("bad -hz", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	results, err := sim.RunBatch(ctx, layouts, *ticks, dt, *parallel,
		sim.WithLogger(logger), sim.WithMaxBounces(*maxBounces))
	if err != nil {
		logger.Fatal("run failed", "err", err)
	}
	logger.Info("done", "scenes", len(results), "ticks", *ticks, "elapsed", time.Since(start).Round(time.Millisecond))

	if err := report(os.Stdout, results, *events); err != nil {
		logger.Fatal("write report", "err", err)
	}
}

// tickDuration converts a tick rate to a step length. Rates above one tick
// per nanosecond would round the step to zero.
func tickDuration(hz int) (time.Duration, error) {
	if hz <= 0 {
		return 0, fmt.Errorf("hz must be positive, got %d", hz)
	}
	dt := time.Second / time.Duration(hz)
	if dt == 0 {
		return 0, fmt.Errorf("hz %d gives a zero tick", hz)
	}
	return dt, nil
}

var outcomeOrder = []collision.Outcome{
	collision.Hit,
	collision.NoHit,
	collision.Straddling,
	collision.NoEdgeCheck,
	collision.DegenerateInput,
}

// report writes one stats row per scene, then optionally every event.
func report(w io.Writer, results []sim.Result, withEvents bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprint(tw, "scene\tticks\twall hits\tpillar hits\tcontacts\tunhandled\tdegenerate\tcapped")
	for _, o := range outcomeOrder {
		fmt.Fprintf(tw, "\t%s", o)
	}
	fmt.Fprintln(tw)

	for _, r := range results {
		s := r.Stats
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d",
			r.Name, s.Ticks, s.WallHits, s.PillarHits, s.BallContacts, s.Unhandled, s.Degenerate, s.Capped)
		for _, o := range outcomeOrder {
			fmt.Fprintf(tw, "\t%d", s.Outcomes[o])
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if !withEvents {
		return nil
	}
	for _, r := range results {
		fmt.Fprintf(w, "\n# %s\n", r.Name)
		for _, e := range r.Events {
			fmt.Fprintln(w, e)
		}
		for i, b := range r.Balls {
			fmt.Fprintf(w, "ball %d at (%.3f, %.3f) vel (%.3f, %.3f)\n",
				i, b.Circle.Center.X, b.Circle.Center.Y, b.Vel.X, b.Vel.Y)
		}
	}
	return nil
}
