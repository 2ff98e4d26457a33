// Package batch runs many independent simulation instances concurrently —
// the Monte Carlo batch mode the spec's engine query surface implies but
// does not itself implement (SPEC_FULL §5+ "Batch / across-simulation
// parallelism"). Each goroutine
// owns exactly one engine.Engine exclusively for its entire run, so the
// single-threaded, lock-free invariant inside a simulation instance
// (spec §9 "Global mutable state") is never crossed: concurrency exists only
// *across* instances, never within one.
package batch

import (
	"context"

	"golang.org/x/sync/errgroup"

	"rtgssim/internal/config"
	"rtgssim/internal/engine"
)

// Result is one replication's outcome: its final metrics snapshot and the
// index into configs that produced it (so results can be re-sorted after a
// concurrent run without depending on completion order).
type Result struct {
	Replication   int
	Metrics       engine.SystemMetrics
	TickSummaries []engine.TickSummary
}

// Run executes one replication per entry in configs concurrently, each
// running every tick of its own engine.Engine to completion, and returns
// their results ordered to match configs regardless of finishing order. The
// first replication to return an error cancels the rest via ctx. The only
// error a replication can return is engine.New's config validation error:
// engine.Tick returns no error and runs no runtime invariant checks, so no
// InvariantViolation reaches this function. A config error aborts the whole
// batch, since a miscalibrated config is almost always shared across every
// replication.
func Run(ctx context.Context, configs []config.Config) ([]Result, error) {
	results := make([]Result, len(configs))

	g, ctx := errgroup.WithContext(ctx)
	for i, cfg := range configs {
		i, cfg := i, cfg
		g.Go(func() error {
			e, err := engine.New(cfg)
			if err != nil {
				return err
			}

			ticks := cfg.Simulation.TicksPerDay * cfg.Simulation.NumDays
			summaries := make([]engine.TickSummary, 0, ticks)
			for t := 0; t < ticks; t++ {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				summaries = append(summaries, e.Tick())
			}

			results[i] = Result{
				Replication:   i,
				Metrics:       e.GetSystemMetrics(),
				TickSummaries: summaries,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
