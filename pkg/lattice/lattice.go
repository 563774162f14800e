package lattice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/latticetile/pkg/geom"
	"github.com/matzehuels/latticetile/pkg/shape"
)

// Free is the symbol of a site no piece occupies.
const Free byte = '0'

// NoSite is returned by [Lattice.NextFreeSite] when every site is occupied.
const NoSite = -1

var (
	// ErrMalformedLattice is returned when the container hierarchy or the link
	// structure violates the lattice contract, for example a nil layer met
	// while scanning for a free site. It is a precondition violation; a search
	// cannot continue on such a lattice.
	ErrMalformedLattice = errors.New("malformed lattice")

	// ErrSiteRange is returned by the link methods for an unknown site index.
	ErrSiteRange = errors.New("site index out of range")
)

// Site is one cell of the lattice.
type Site struct {
	X, Y, Z int

	occupied  int
	symbol    byte
	links     []geom.Direction
	neighbors []int

	// placement and shape node that claimed the site
	claimGen  uint64
	claimNode *shape.Junction
}

// Occupied returns the occupancy counter: 0 free, 1 occupied, 2 overlap.
func (s *Site) Occupied() int { return s.occupied }

// Symbol returns the symbol of the occupying piece, or [Free].
func (s *Site) Symbol() byte { return s.symbol }

// Links returns the directions of the outgoing links. The slice must not be
// modified.
func (s *Site) Links() []geom.Direction { return s.links }

// Neighbors returns the sites reached by the outgoing links, in link order.
// The slice must not be modified.
func (s *Site) Neighbors() []int { return s.neighbors }

// Neighbor returns the site reached via d, or [NoSite].
func (s *Site) Neighbor(d geom.Direction) int {
	for k, link := range s.links {
		if link == d {
			return s.neighbors[k]
		}
	}
	return NoSite
}

// Row is an ordered list of site indices.
type Row struct {
	Sites []int
}

// Layer is an ordered list of rows.
type Layer struct {
	Rows []*Row
}

// AddRow appends an empty row to the layer.
func (ly *Layer) AddRow() *Row {
	r := &Row{}
	ly.Rows = append(ly.Rows, r)
	return r
}

// Lattice owns the site arena and the layer hierarchy.
type Lattice struct {
	Layers []*Layer

	sites []Site
	index map[[3]int]int

	gen   uint64
	stack []placement
}

// New returns an empty lattice.
func New() *Lattice {
	return &Lattice{index: make(map[[3]int]int)}
}

// AddLayer appends an empty layer.
func (l *Lattice) AddLayer() *Layer {
	ly := &Layer{}
	l.Layers = append(l.Layers, ly)
	return ly
}

// AddSite creates a free site at the given coordinates, appends it to row and
// returns its index.
func (l *Lattice) AddSite(row *Row, x, y, z int) int {
	i := len(l.sites)
	l.sites = append(l.sites, Site{X: x, Y: y, Z: z, symbol: Free})
	if l.index == nil {
		l.index = make(map[[3]int]int)
	}
	l.index[[3]int{x, y, z}] = i
	row.Sites = append(row.Sites, i)
	return i
}

// Link adds a directed link from site a to site b labeled d.
func (l *Lattice) Link(a, b int, d geom.Direction) error {
	if a < 0 || a >= len(l.sites) {
		return fmt.Errorf("link %d -> %d: %w: %d", a, b, ErrSiteRange, a)
	}
	if b < 0 || b >= len(l.sites) {
		return fmt.Errorf("link %d -> %d: %w: %d", a, b, ErrSiteRange, b)
	}
	s := &l.sites[a]
	s.links = append(s.links, d)
	s.neighbors = append(s.neighbors, b)
	return nil
}

// LinkBoth links a to b via d and b to a via the reverse of d.
func (l *Lattice) LinkBoth(a, b int, d geom.Direction) error {
	if err := l.Link(a, b, d); err != nil {
		return err
	}
	return l.Link(b, a, d.Neg())
}

// Len returns the number of sites.
func (l *Lattice) Len() int { return len(l.sites) }

// Site returns the site with index i. The pointer stays valid until the next
// AddSite call.
func (l *Lattice) Site(i int) *Site { return &l.sites[i] }

// SiteAt returns the index of the site with the given coordinates.
func (l *Lattice) SiteAt(x, y, z int) (int, bool) {
	i, ok := l.index[[3]int{x, y, z}]
	return i, ok
}

// Occupancy returns the occupancy counter of site i.
func (l *Lattice) Occupancy(i int) int { return l.sites[i].occupied }

// Symbol returns the occupying symbol of site i.
func (l *Lattice) Symbol(i int) byte { return l.sites[i].symbol }

// FreeCount returns the number of sites with occupancy 0.
func (l *Lattice) FreeCount() int {
	n := 0
	for i := range l.sites {
		if l.sites[i].occupied == 0 {
			n++
		}
	}
	return n
}

// Reset frees every site.
func (l *Lattice) Reset() {
	for i := range l.sites {
		s := &l.sites[i]
		s.occupied = 0
		s.symbol = Free
		s.claimGen, s.claimNode = 0, nil
	}
	l.stack = l.stack[:0]
}

// Depth returns the number of placements not yet retracted.
func (l *Lattice) Depth() int { return len(l.stack) }

// NextFreeSite returns the first site in scan order whose occupancy is 0, or
// [NoSite] when the lattice is full. A nil layer or row is reported as
// [ErrMalformedLattice].
func (l *Lattice) NextFreeSite() (int, error) {
	for z, ly := range l.Layers {
		if ly == nil {
			return NoSite, fmt.Errorf("%w: layer %d is nil", ErrMalformedLattice, z)
		}
		for y, r := range ly.Rows {
			if r == nil {
				return NoSite, fmt.Errorf("%w: layer %d row %d is nil", ErrMalformedLattice, z, y)
			}
			for _, i := range r.Sites {
				if l.sites[i].occupied == 0 {
					return i, nil
				}
			}
		}
	}
	return NoSite, nil
}

// Validate checks the lattice contract: every site belongs to exactly one
// row, links and neighbors agree, neighbors exist, and no site has two links
// with the same direction or a zero direction.
func (l *Lattice) Validate() error {
	seen := make([]bool, len(l.sites))
	for z, ly := range l.Layers {
		if ly == nil {
			return fmt.Errorf("%w: layer %d is nil", ErrMalformedLattice, z)
		}
		for y, r := range ly.Rows {
			if r == nil {
				return fmt.Errorf("%w: layer %d row %d is nil", ErrMalformedLattice, z, y)
			}
			for _, i := range r.Sites {
				if i < 0 || i >= len(l.sites) {
					return fmt.Errorf("%w: layer %d row %d references unknown site %d", ErrMalformedLattice, z, y, i)
				}
				if seen[i] {
					return fmt.Errorf("%w: site %d appears in more than one row", ErrMalformedLattice, i)
				}
				seen[i] = true
			}
		}
	}

	for i := range l.sites {
		s := &l.sites[i]
		if !seen[i] {
			return fmt.Errorf("%w: site %d %s is not in any row", ErrMalformedLattice, i, s.coord())
		}
		if len(s.links) != len(s.neighbors) {
			return fmt.Errorf("%w: site %s has %d links but %d neighbors", ErrMalformedLattice, s.coord(), len(s.links), len(s.neighbors))
		}
		for k, d := range s.links {
			if d.IsZero() {
				return fmt.Errorf("%w: site %s has a zero link", ErrMalformedLattice, s.coord())
			}
			if n := s.neighbors[k]; n < 0 || n >= len(l.sites) {
				return fmt.Errorf("%w: site %s links to unknown site %d", ErrMalformedLattice, s.coord(), n)
			}
			for _, e := range s.links[:k] {
				if e == d {
					return fmt.Errorf("%w: site %s has two links in direction %s", ErrMalformedLattice, s.coord(), d)
				}
			}
		}
	}
	return nil
}

func (s *Site) coord() string {
	return fmt.Sprintf("(%d,%d,%d)", s.X, s.Y, s.Z)
}

// String renders the occupancy counters: one line per row, layers separated
// by an empty line.
func (l *Lattice) String() string {
	var b strings.Builder
	for _, ly := range l.Layers {
		for _, r := range ly.Rows {
			for k, i := range r.Sites {
				if k > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(strconv.Itoa(l.sites[i].occupied))
			}
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Lightweight renders the occupying symbol of every site in scan order
// without separators. This is the solution format.
func (l *Lattice) Lightweight() string {
	b := make([]byte, 0, len(l.sites))
	for _, ly := range l.Layers {
		for _, r := range ly.Rows {
			for _, i := range r.Sites {
				b = append(b, l.sites[i].symbol)
			}
		}
	}
	return string(b)
}
