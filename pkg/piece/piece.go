// Package piece holds puzzle pieces: a symbol, the list of configurations the
// piece may be placed in, and the transient state the search keeps per piece.
//
// The configuration cursor lets the search iterate over all configurations
// with a produce-until-nil loop and restart cheaply at every level:
//
//	p.ResetConfigMarker()
//	for cfg := p.NextConfig(); cfg != nil; cfg = p.NextConfig() {
//	    // try cfg
//	}
package piece

import (
	"errors"
	"fmt"

	"github.com/matzehuels/latticetile/pkg/shape"
)

var (
	// ErrNoConfigs is returned by [Validate] for a piece without configurations.
	ErrNoConfigs = errors.New("piece has no configurations")

	// ErrDuplicateSymbol is returned by [Validate] when two pieces share a symbol.
	ErrDuplicateSymbol = errors.New("duplicate piece symbol")

	// ErrReservedSymbol is returned by [Validate] when a piece uses the
	// lattice's free-site symbol or a non-printable byte.
	ErrReservedSymbol = errors.New("reserved piece symbol")
)

// NoSite is the anchor of a piece that is not placed.
const NoSite = -1

// Piece is a named shape with its alternative configurations.
//
// Symbol, Name and Configs are set by the caller and not modified afterwards.
// The remaining state belongs to the search and is only meaningful while a
// search runs.
type Piece struct {
	Symbol  byte
	Name    string
	Configs []*shape.Junction

	used   bool
	anchor int
	cursor int
}

// New creates a piece with the given configurations.
func New(symbol byte, name string, configs ...*shape.Junction) *Piece {
	return &Piece{Symbol: symbol, Name: name, Configs: configs, anchor: NoSite}
}

// ResetConfigMarker rewinds the configuration cursor to the first configuration.
func (p *Piece) ResetConfigMarker() {
	p.cursor = 0
}

// NextConfig returns the configuration at the cursor and advances it. Once
// all configurations were produced it returns nil; the cursor keeps advancing
// but has no further effect.
func (p *Piece) NextConfig() *shape.Junction {
	i := p.cursor
	p.cursor++
	if i < len(p.Configs) {
		return p.Configs[i]
	}
	return nil
}

// ConfigIndex returns the index of the configuration most recently produced
// by NextConfig, or -1 if none was produced since the last reset or the
// configurations are exhausted.
func (p *Piece) ConfigIndex() int {
	if p.cursor == 0 || p.cursor > len(p.Configs) {
		return -1
	}
	return p.cursor - 1
}

// Current returns the configuration most recently produced by NextConfig,
// or nil.
func (p *Piece) Current() *shape.Junction {
	if i := p.ConfigIndex(); i >= 0 {
		return p.Configs[i]
	}
	return nil
}

// Use marks the piece as placed with its seed anchored at site.
func (p *Piece) Use(site int) {
	p.used = true
	p.anchor = site
}

// Release marks the piece as not placed.
func (p *Piece) Release() {
	p.used = false
	p.anchor = NoSite
}

// InUse reports whether the piece is currently placed.
func (p *Piece) InUse() bool { return p.used }

// Anchor returns the lattice site of the placed seed, or [NoSite].
func (p *Piece) Anchor() int {
	if !p.used {
		return NoSite
	}
	return p.anchor
}

// Reset clears all search state.
func (p *Piece) Reset() {
	p.Release()
	p.cursor = 0
}

// Size returns the number of cells of the first configuration.
func (p *Piece) Size() int {
	if len(p.Configs) == 0 {
		return 0
	}
	return p.Configs[0].Size()
}

// String renders the current configuration, or "unused".
func (p *Piece) String() string {
	if c := p.Current(); c != nil {
		return c.String()
	}
	return "unused"
}

// Validate checks a piece set before a search: every piece needs at least
// one valid configuration, symbols must be printable, unique and differ from
// free.
func Validate(pieces []*Piece, free byte) error {
	seen := make(map[byte]string, len(pieces))
	for i, p := range pieces {
		if p == nil {
			return fmt.Errorf("piece %d: nil piece", i)
		}
		label := fmt.Sprintf("piece %q", p.Symbol)
		if p.Symbol == free || p.Symbol < '!' || p.Symbol > '~' {
			return fmt.Errorf("%s: %w", label, ErrReservedSymbol)
		}
		if prev, ok := seen[p.Symbol]; ok {
			return fmt.Errorf("%s (%s): %w with %s", label, p.Name, ErrDuplicateSymbol, prev)
		}
		seen[p.Symbol] = p.Name
		if len(p.Configs) == 0 {
			return fmt.Errorf("%s: %w", label, ErrNoConfigs)
		}
		for k, c := range p.Configs {
			if err := c.Validate(); err != nil {
				return fmt.Errorf("%s: config %d: %w", label, k, err)
			}
		}
	}
	return nil
}

// TotalCells sums the sizes of all pieces.
func TotalCells(pieces []*Piece) int {
	n := 0
	for _, p := range pieces {
		n += p.Size()
	}
	return n
}
