// Package batch runs many independent simulations of one scenario and
// aggregates their outcomes.
package batch

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/nstehr/vimy/vimy-resolve/dice"
	"github.com/nstehr/vimy/vimy-resolve/scenario"
	"github.com/nstehr/vimy/vimy-resolve/sim"
	"golang.org/x/sync/errgroup"
)

var ErrNoRuns = errors.New("batch needs at least one run")

// Config controls a batch. Run i uses seed SeedBase+i+1, so a batch is
// reproducible from its base alone. A zero SeedBase draws a random one;
// zero Workers uses GOMAXPROCS.
type Config struct {
	Runs     int   `json:"runs"`
	Workers  int   `json:"workers,omitempty"`
	SeedBase int64 `json:"seed_base,omitempty"`
}

// Outcome is the digest of one run.
type Outcome struct {
	Seed    int64 `json:"seed"`
	Rounds  int   `json:"rounds"`
	Draw    bool  `json:"draw"`
	Forced  bool  `json:"forced,omitempty"`
	Players []int `json:"players,omitempty"` // winning players
	Teams   []int `json:"teams,omitempty"`   // winning teams
}

// Run simulates s cfg.Runs times, at most cfg.Workers at once. Runs always
// suppress per-action logging. The first failing run cancels the rest and
// its error is returned.
func Run(ctx context.Context, s *scenario.Scenario, cfg Config, opts ...sim.Option) (*Summary, error) {
	if cfg.Runs <= 0 {
		return nil, ErrNoRuns
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	base := cfg.SeedBase
	if base == 0 {
		seed, err := dice.NewSeed()
		if err != nil {
			return nil, fmt.Errorf("seed batch: %w", err)
		}
		base = seed & math.MaxInt32
	}

	outcomes := make([]Outcome, cfg.Runs)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range cfg.Runs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			run := *s
			run.Seed = base + int64(i) + 1
			run.Options.SuppressLogging = true
			c, err := scenario.Setup(&run, opts...)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			out, err := sim.New(c).Run(gctx)
			if err != nil {
				return fmt.Errorf("run %d (seed %d): %w", i, run.Seed, err)
			}
			players, teams := out.Result.Winners()
			outcomes[i] = Outcome{
				Seed:    run.Seed,
				Rounds:  out.Rounds,
				Draw:    out.Result.Draw,
				Forced:  out.Forced,
				Players: players,
				Teams:   teams,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summarize(s, base, outcomes), nil
}
