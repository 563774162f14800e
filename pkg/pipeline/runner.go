package pipeline

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/latticetile/pkg/cache"
	errs "github.com/matzehuels/latticetile/pkg/errors"
	"github.com/matzehuels/latticetile/pkg/lattice"
	"github.com/matzehuels/latticetile/pkg/observability"
	"github.com/matzehuels/latticetile/pkg/solver"
)

// Runner executes searches with caching.
//
// The Runner is stateless except for the cache and logger. Every Execute
// call builds its own lattice and pieces, so multiple goroutines can share
// one Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// cachedRun is the stored form of a complete run.
type cachedRun struct {
	Solutions []solver.Solution `json:"solutions"`
	Stats     solver.Result     `json:"stats"`
}

// Execute solves opts.Puzzle, streaming solutions to opts.Sink.
//
// When the search is interrupted by the timeout or by ctx, Execute returns
// the partial result together with an error coded TIMEOUT or CANCELED.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = r.Logger
	}

	hash := opts.Puzzle.Hash()
	result := &Result{
		RunID:  opts.RunID,
		Puzzle: opts.Puzzle.Name,
		Hash:   hash,
	}
	key := r.Keyer.SolveKey(hash, cache.SolveKeyOpts{Limit: opts.Limit})

	if !opts.Refresh {
		if run, ok := r.lookup(ctx, key); ok {
			logger.Debug("cache hit", "puzzle", opts.Puzzle.Name, "solutions", run.Stats.Solutions)
			result.Solutions = run.Solutions
			result.Stats = run.Stats
			result.CacheHit = true
			if err := replay(ctx, opts, run.Solutions); err != nil {
				return result, err
			}
			return result, nil
		}
	}

	lat, pieces, err := opts.Puzzle.Build()
	if err != nil {
		return nil, err
	}

	if cells, sites := opts.Puzzle.CellBalance(); cells < sites {
		logger.Warn("pieces cannot cover the lattice", "cells", cells, "sites", sites)
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	every := opts.ProgressEvery
	if every <= 0 {
		every = DefaultProgressEvery
	}
	s := &solver.Solver{
		Lattice: lat,
		Pieces:  pieces,
		Options: solver.Options{
			Limit:         opts.Limit,
			Progress:      opts.Progress,
			ProgressEvery: every,
			Logger:        logger,
			OnSolution: func(sol solver.Solution) error {
				if len(result.Solutions) < MaxCachedSolutions {
					result.Solutions = append(result.Solutions, sol)
				} else {
					result.Truncated = true
				}
				if opts.Sink == nil {
					return nil
				}
				if err := opts.Sink.Write(ctx, sol); err != nil {
					return errs.Wrap(errs.ErrCodeStorage, err, "write solution %d", sol.Index)
				}
				return nil
			},
		},
	}

	stats, err := s.Solve(ctx)
	result.Stats = stats
	logger.Info("search finished",
		"puzzle", opts.Puzzle.Name,
		"solutions", stats.Solutions,
		"placements", stats.Placements,
		"stopped", stats.Stopped,
		"duration", stats.Duration)

	if err != nil {
		return result, classify(err)
	}
	if !result.Truncated {
		r.store(ctx, key, cachedRun{Solutions: result.Solutions, Stats: stats})
	}
	return result, nil
}

func (r *Runner) lookup(ctx context.Context, key string) (cachedRun, bool) {
	var run cachedRun
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		if err != nil {
			r.Logger.Warn("cache read failed", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, "solve")
		return run, false
	}
	if err := json.Unmarshal(data, &run); err != nil {
		observability.Cache().OnCacheMiss(ctx, "solve")
		return run, false
	}
	observability.Cache().OnCacheHit(ctx, "solve")
	return run, true
}

func (r *Runner) store(ctx context.Context, key string, run cachedRun) {
	data, err := json.Marshal(run)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLSolve); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "solve", len(data))
}

// replay sends cached solutions to the sink.
func replay(ctx context.Context, opts Options, sols []solver.Solution) error {
	if opts.Sink == nil {
		return nil
	}
	for _, sol := range sols {
		if err := ctx.Err(); err != nil {
			return classify(err)
		}
		if err := opts.Sink.Write(ctx, sol); err != nil {
			return errs.Wrap(errs.ErrCodeStorage, err, "write solution %d", sol.Index)
		}
	}
	return nil
}

// classify maps solver errors to error codes. Sink failures arrive already
// coded; anything else uncoded is a bug.
func classify(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return errs.Wrap(errs.ErrCodeTimeout, err, "search timed out")
	case errors.Is(err, context.Canceled):
		return errs.Wrap(errs.ErrCodeCanceled, err, "search canceled")
	case errors.Is(err, lattice.ErrMalformedLattice):
		return errs.Wrap(errs.ErrCodeMalformedLattice, err, "search aborted")
	case errs.GetCode(err) != "":
		return err
	default:
		return errs.Wrap(errs.ErrCodeInternal, err, "search failed")
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
