package solver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/latticetile/pkg/lattice"
	"github.com/matzehuels/latticetile/pkg/observability"
	"github.com/matzehuels/latticetile/pkg/piece"
)

// DefaultProgressEvery is the number of placement attempts between two
// Progress calls when Options.ProgressEvery is zero.
const DefaultProgressEvery = 1 << 20

// StopReason tells why a search returned.
type StopReason string

const (
	// StopExhausted means the whole search tree was explored.
	StopExhausted StopReason = "exhausted"
	// StopLimit means Options.Limit solutions were found.
	StopLimit StopReason = "limit"
	// StopCanceled means the context was canceled or its deadline passed.
	StopCanceled StopReason = "canceled"
	// StopError means a callback or a malformed lattice aborted the search.
	StopError StopReason = "error"
)

// errLimit unwinds the recursion once the solution limit is reached.
var errLimit = errors.New("solution limit reached")

// Options configures a search.
type Options struct {
	// OnSolution receives every solution in the order found. Returning an
	// error aborts the search with that error.
	OnSolution func(Solution) error

	// Limit stops the search after this many solutions. Zero means no limit.
	Limit int

	// Progress is called every ProgressEvery placement attempts.
	Progress func(Stats)

	// ProgressEvery defaults to DefaultProgressEvery.
	ProgressEvery int64

	// Logger receives debug output. Nil disables logging.
	Logger *log.Logger
}

// Placement records where one piece sits in a solution.
type Placement struct {
	Symbol byte
	Name   string
	Anchor int   // site of the seed
	Config int   // index into the piece's configurations
	Sites  []int // covered sites, seed first
}

type placementJSON struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name,omitempty"`
	Anchor int    `json:"anchor"`
	Config int    `json:"config"`
	Sites  []int  `json:"sites"`
}

// MarshalJSON encodes the symbol as a one-character string.
func (p Placement) MarshalJSON() ([]byte, error) {
	return json.Marshal(placementJSON{
		Symbol: string(p.Symbol),
		Name:   p.Name,
		Anchor: p.Anchor,
		Config: p.Config,
		Sites:  p.Sites,
	})
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (p *Placement) UnmarshalJSON(data []byte) error {
	var v placementJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if len(v.Symbol) != 1 {
		return fmt.Errorf("placement symbol %q must be one character", v.Symbol)
	}
	*p = Placement{Symbol: v.Symbol[0], Name: v.Name, Anchor: v.Anchor, Config: v.Config, Sites: v.Sites}
	return nil
}

// Solution is one complete tiling.
type Solution struct {
	// Index is 1-based, in the order solutions were found.
	Index int `json:"index"`

	// Text holds the symbol of every site in scan order.
	Text string `json:"text"`

	// Placements lists the placed pieces in piece list order.
	Placements []Placement `json:"placements"`
}

// Stats is a snapshot of a running search.
type Stats struct {
	Placements int64
	Solutions  int
	Depth      int
	Elapsed    time.Duration
}

// Result summarizes a finished search.
type Result struct {
	Solutions  int           `json:"solutions"`
	Placements int64         `json:"placements"`
	Duration   time.Duration `json:"duration"`
	Stopped    StopReason    `json:"stopped"`
}

// Solver runs the backtracking search of Pieces over Lattice.
type Solver struct {
	Lattice *lattice.Lattice
	Pieces  []*piece.Piece
	Options Options

	start      time.Time
	solutions  int
	placements int64
	nextReport int64
}

// Solve explores the search tree and reports every solution to
// Options.OnSolution. Finding no solution is not an error.
//
// The lattice and the pieces are validated first; a lattice that breaks the
// structural contract yields an error wrapping [lattice.ErrMalformedLattice].
// When ctx is done the search unwinds, retracting every placement, and Solve
// returns the partial Result together with ctx.Err().
func (s *Solver) Solve(ctx context.Context) (Result, error) {
	if s.Lattice == nil {
		return Result{}, fmt.Errorf("solve: %w: no lattice", lattice.ErrMalformedLattice)
	}
	if err := s.Lattice.Validate(); err != nil {
		return Result{}, fmt.Errorf("solve: %w", err)
	}
	if err := piece.Validate(s.Pieces, lattice.Free); err != nil {
		return Result{}, fmt.Errorf("solve: %w", err)
	}

	s.Lattice.Reset()
	for _, p := range s.Pieces {
		p.Reset()
	}
	s.start = time.Now()
	s.solutions = 0
	s.placements = 0
	s.nextReport = s.progressEvery()

	hooks := observability.Solver()
	hooks.OnSolveStart(ctx, s.Lattice.Len(), len(s.Pieces))
	s.debug("search started", "sites", s.Lattice.Len(), "pieces", len(s.Pieces), "cells", piece.TotalCells(s.Pieces))

	err := s.step(ctx)

	res := Result{
		Solutions:  s.solutions,
		Placements: s.placements,
		Duration:   time.Since(s.start),
		Stopped:    StopExhausted,
	}
	switch {
	case err == nil:
	case errors.Is(err, errLimit):
		res.Stopped = StopLimit
		err = nil
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		res.Stopped = StopCanceled
	default:
		res.Stopped = StopError
	}

	hooks.OnSolveComplete(ctx, res.Solutions, res.Placements, res.Duration, err)
	s.debug("search finished", "solutions", res.Solutions, "placements", res.Placements,
		"stopped", res.Stopped, "duration", res.Duration)
	return res, err
}

// step is one level of the recursion: fill the lowest free site or emit.
func (s *Solver) step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	site, err := s.Lattice.NextFreeSite()
	if err != nil {
		return err
	}
	if site == lattice.NoSite {
		return s.emit(ctx)
	}

	for _, p := range s.Pieces {
		if p.InUse() {
			continue
		}
		p.ResetConfigMarker()
		for cfg := p.NextConfig(); cfg != nil; cfg = p.NextConfig() {
			s.placements++
			if s.placements == s.nextReport {
				s.report()
			}

			var err error
			if s.Lattice.Place(site, cfg, p.Symbol) {
				p.Use(site)
				err = s.step(ctx)
				p.Release()
			}
			s.Lattice.Remove(site, cfg)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Solver) emit(ctx context.Context) error {
	s.solutions++
	observability.Solver().OnSolution(ctx, s.solutions)

	if s.Options.OnSolution != nil {
		if err := s.Options.OnSolution(s.snapshot()); err != nil {
			return fmt.Errorf("solution %d: %w", s.solutions, err)
		}
	}
	if s.Options.Limit > 0 && s.solutions >= s.Options.Limit {
		return errLimit
	}
	return nil
}

// snapshot captures the current filling as a Solution.
func (s *Solver) snapshot() Solution {
	sol := Solution{
		Index: s.solutions,
		Text:  s.Lattice.Lightweight(),
	}
	for _, p := range s.Pieces {
		if !p.InUse() {
			continue
		}
		sites, _ := s.Lattice.Claimed(p.Anchor(), p.Current())
		sol.Placements = append(sol.Placements, Placement{
			Symbol: p.Symbol,
			Name:   p.Name,
			Anchor: p.Anchor(),
			Config: p.ConfigIndex(),
			Sites:  sites,
		})
	}
	return sol
}

func (s *Solver) report() {
	s.nextReport += s.progressEvery()
	if s.Options.Progress == nil {
		return
	}
	s.Options.Progress(Stats{
		Placements: s.placements,
		Solutions:  s.solutions,
		Depth:      s.Lattice.Depth(),
		Elapsed:    time.Since(s.start),
	})
}

func (s *Solver) progressEvery() int64 {
	if s.Options.ProgressEvery > 0 {
		return s.Options.ProgressEvery
	}
	return DefaultProgressEvery
}

func (s *Solver) debug(msg string, keyvals ...any) {
	if s.Options.Logger != nil {
		s.Options.Logger.Debug(msg, keyvals...)
	}
}
