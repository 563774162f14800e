// Package sink writes solutions as a search produces them.
//
// A [Sink] receives every solution in the order found. [Text] writes the
// plain solution lines, [JSON] writes one JSON object per line, [Grid] lays
// the symbols out by layer and row, and [Mongo] stores solutions as
// documents. [Multi] fans out to several sinks.
package sink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/latticetile/pkg/lattice"
	"github.com/matzehuels/latticetile/pkg/solver"
)

// Sink consumes solutions.
type Sink interface {
	Write(ctx context.Context, sol solver.Solution) error
	Close() error
}

// Text writes each solution's symbol string on its own line.
type Text struct {
	w io.Writer
}

// NewText creates a text sink.
func NewText(w io.Writer) *Text { return &Text{w: w} }

func (s *Text) Write(_ context.Context, sol solver.Solution) error {
	_, err := fmt.Fprintln(s.w, sol.Text)
	return err
}

func (s *Text) Close() error { return nil }

// JSON writes one JSON object per solution.
type JSON struct {
	enc   *json.Encoder
	runID string
}

// NewJSON creates a JSON lines sink. A non-empty runID is added to every
// record.
func NewJSON(w io.Writer, runID string) *JSON {
	return &JSON{enc: json.NewEncoder(w), runID: runID}
}

type jsonRecord struct {
	RunID string `json:"run_id,omitempty"`
	solver.Solution
}

func (s *JSON) Write(_ context.Context, sol solver.Solution) error {
	return s.enc.Encode(jsonRecord{RunID: s.runID, Solution: sol})
}

func (s *JSON) Close() error { return nil }

// Grid writes each solution as rows of symbols, one block per layer.
type Grid struct {
	w   io.Writer
	lat *lattice.Lattice
}

// NewGrid creates a grid sink for solutions of lat.
func NewGrid(w io.Writer, lat *lattice.Lattice) *Grid {
	return &Grid{w: w, lat: lat}
}

func (s *Grid) Write(_ context.Context, sol solver.Solution) error {
	_, err := fmt.Fprintf(s.w, "# %d\n%s\n", sol.Index, FormatGrid(s.lat, sol.Text))
	return err
}

func (s *Grid) Close() error { return nil }

// FormatGrid lays out a solution string along the lattice rows: one line per
// row with symbols separated by spaces, layers separated by an empty line.
func FormatGrid(lat *lattice.Lattice, text string) string {
	var b strings.Builder
	pos := 0
	for z, ly := range lat.Layers {
		if z > 0 {
			b.WriteByte('\n')
		}
		for _, r := range ly.Rows {
			for k := range r.Sites {
				if k > 0 {
					b.WriteByte(' ')
				}
				if pos < len(text) {
					b.WriteByte(text[pos])
				}
				pos++
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Multi writes to every sink in order and stops at the first error.
type Multi []Sink

func (m Multi) Write(ctx context.Context, sol solver.Solution) error {
	for _, s := range m {
		if err := s.Write(ctx, sol); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink and joins their errors.
func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Collect keeps solutions in memory, up to Max when Max is positive.
type Collect struct {
	Max       int
	Solutions []solver.Solution
}

func (c *Collect) Write(_ context.Context, sol solver.Solution) error {
	if c.Max <= 0 || len(c.Solutions) < c.Max {
		c.Solutions = append(c.Solutions, sol)
	}
	return nil
}

func (c *Collect) Close() error { return nil }
