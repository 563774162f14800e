// Package pipeline runs puzzle searches for the CLI and the HTTP server.
//
// A [Runner] resolves a puzzle definition into a lattice and pieces, looks
// the search up in its cache, runs the solver on a miss, streams every
// solution to the caller's sink and stores complete runs for next time.
// Centralizing this keeps cache keys, limits and error codes identical for
// every entry point.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	def, _ := puzzle.Builtin("domino-2x2")
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Puzzle: def,
//	    Sink:   sink.NewText(os.Stdout),
//	})
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/latticetile/pkg/errors"
	"github.com/matzehuels/latticetile/pkg/puzzle"
	"github.com/matzehuels/latticetile/pkg/sink"
	"github.com/matzehuels/latticetile/pkg/solver"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// MaxCachedSolutions is the largest run that is stored in the cache.
	// Bigger runs are streamed but not kept.
	MaxCachedSolutions = 10000

	// DefaultProgressEvery is the number of placement attempts between two
	// progress log lines.
	DefaultProgressEvery = 1 << 22
)

// Format constants for solution output.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatGrid = "grid"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatText: true,
	FormatJSON: true,
	FormatGrid: true,
}

// ValidateFormat checks an output format name.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format %q (want text, json or grid)", format)
	}
	return nil
}

// =============================================================================
// Options - Search Configuration
// =============================================================================

// Options configures one search.
type Options struct {
	// Puzzle is the definition to solve. Required.
	Puzzle *puzzle.Definition

	// Limit stops after this many solutions. Zero means all.
	Limit int

	// Timeout bounds the search. Zero means no timeout.
	Timeout time.Duration

	// Refresh ignores cached results.
	Refresh bool

	// Sink receives every solution as it is found. Optional.
	Sink sink.Sink

	// RunID tags this run in sinks and responses.
	RunID string

	// Progress receives solver statistics periodically. Optional.
	Progress func(solver.Stats)

	// ProgressEvery defaults to DefaultProgressEvery.
	ProgressEvery int64

	// Logger defaults to the runner's logger.
	Logger *log.Logger
}

// Validate checks the options.
func (o *Options) Validate() error {
	if o.Puzzle == nil {
		return errs.New(errs.ErrCodeInvalidInput, "no puzzle")
	}
	if o.Limit < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "limit must not be negative, got %d", o.Limit)
	}
	if o.Timeout < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "timeout must not be negative, got %s", o.Timeout)
	}
	return o.Puzzle.Validate()
}

// =============================================================================
// Result
// =============================================================================

// Result describes a finished run.
type Result struct {
	RunID  string `json:"id,omitempty"`
	Puzzle string `json:"puzzle"`
	Hash   string `json:"hash"`

	// Solutions holds the run's solutions when the run is small enough to
	// keep, at most MaxCachedSolutions. Truncated reports when it is not.
	Solutions []solver.Solution `json:"solutions"`
	Truncated bool              `json:"truncated,omitempty"`

	Stats    solver.Result `json:"stats"`
	CacheHit bool          `json:"cache_hit"`
}

// Count returns the number of solutions found.
func (r *Result) Count() int { return r.Stats.Solutions }
