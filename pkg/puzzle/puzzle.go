package puzzle

import (
	"bytes"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/latticetile/pkg/cache"
	errs "github.com/matzehuels/latticetile/pkg/errors"
	"github.com/matzehuels/latticetile/pkg/lattice"
	"github.com/matzehuels/latticetile/pkg/piece"
	"github.com/matzehuels/latticetile/pkg/shape"
)

// Lattice kinds.
const (
	KindBox     = "box"
	KindPyramid = "pyramid"
)

// MaxSites bounds the lattice size a definition may ask for.
const MaxSites = 4096

// Definition is a parsed puzzle file.
type Definition struct {
	Name        string      `toml:"name" json:"name"`
	Description string      `toml:"description,omitempty" json:"description,omitempty"`
	Dedupe      bool        `toml:"dedupe,omitempty" json:"dedupe,omitempty"`
	Lattice     LatticeSpec `toml:"lattice" json:"lattice"`
	Pieces      []PieceSpec `toml:"pieces" json:"pieces"`
}

// LatticeSpec selects and sizes the lattice.
type LatticeSpec struct {
	Kind   string `toml:"kind" json:"kind"`
	X      int    `toml:"x,omitempty" json:"x,omitempty"`
	Y      int    `toml:"y,omitempty" json:"y,omitempty"`
	Z      int    `toml:"z,omitempty" json:"z,omitempty"`
	Levels int    `toml:"levels,omitempty" json:"levels,omitempty"`
}

// PieceSpec describes one piece.
type PieceSpec struct {
	Symbol      string   `toml:"symbol" json:"symbol"`
	Name        string   `toml:"name,omitempty" json:"name,omitempty"`
	Orientation string   `toml:"orientation,omitempty" json:"orientation,omitempty"`
	Shapes      []string `toml:"shapes" json:"shapes"`
}

// Parse decodes and validates a TOML definition.
func Parse(data []byte) (*Definition, error) {
	var d Definition
	md, err := toml.Decode(string(data), &d)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidPuzzle, err, "decode puzzle")
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return nil, errs.New(errs.ErrCodeInvalidPuzzle, "unknown keys: %s", strings.Join(names, ", "))
	}
	if d.Lattice.Kind == KindBox && d.Lattice.Z == 0 {
		d.Lattice.Z = 1
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Load reads and parses a definition file.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "puzzle file %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "read %s", path)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, errs.Wrap(errs.GetCode(err), err, "%s", path)
	}
	return d, nil
}

// Resolve returns the built-in puzzle named arg, or loads arg as a file.
func Resolve(arg string) (*Definition, error) {
	if d, err := Builtin(arg); err == nil {
		return d, nil
	}
	if _, err := os.Stat(arg); err != nil {
		return nil, errs.New(errs.ErrCodePuzzleNotFound, "%q is neither a built-in puzzle nor a readable file", arg)
	}
	return Load(arg)
}

// Validate checks the definition without building it.
func (d *Definition) Validate() error {
	if err := errs.ValidatePuzzleName(d.Name); err != nil {
		return err
	}

	switch d.Lattice.Kind {
	case KindBox:
		l := d.Lattice
		if l.X <= 0 || l.Y <= 0 || l.Z <= 0 {
			return errs.New(errs.ErrCodeInvalidLattice, "box dimensions must be positive, got %dx%dx%d", l.X, l.Y, l.Z)
		}
		if l.Levels != 0 {
			return errs.New(errs.ErrCodeInvalidLattice, "levels is only valid for kind %q", KindPyramid)
		}
	case KindPyramid:
		l := d.Lattice
		if l.Levels <= 0 {
			return errs.New(errs.ErrCodeInvalidLattice, "pyramid levels must be positive, got %d", l.Levels)
		}
		if l.X != 0 || l.Y != 0 || l.Z != 0 {
			return errs.New(errs.ErrCodeInvalidLattice, "x, y and z are only valid for kind %q", KindBox)
		}
	case "":
		return errs.New(errs.ErrCodeInvalidLattice, "lattice kind is required")
	default:
		return errs.New(errs.ErrCodeInvalidLattice, "unknown lattice kind %q (want %s or %s)", d.Lattice.Kind, KindBox, KindPyramid)
	}
	if d.Sites() > MaxSites {
		return errs.New(errs.ErrCodeInvalidLattice, "lattice has more than %d sites", MaxSites)
	}

	if len(d.Pieces) == 0 {
		return errs.New(errs.ErrCodeInvalidPuzzle, "no pieces")
	}
	seen := make(map[string]bool, len(d.Pieces))
	for i, p := range d.Pieces {
		if err := errs.ValidateSymbol(p.Symbol, lattice.Free); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidPuzzle, err, "piece %d", i+1)
		}
		if seen[p.Symbol] {
			return errs.New(errs.ErrCodeInvalidPuzzle, "piece %d: symbol %q used twice", i+1, p.Symbol)
		}
		seen[p.Symbol] = true
		if _, err := shape.ParseMode(p.Orientation); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidPuzzle, err, "piece %s", p.Symbol)
		}
		if len(p.Shapes) == 0 {
			return errs.New(errs.ErrCodeInvalidPuzzle, "piece %s has no shapes", p.Symbol)
		}
		for k, s := range p.Shapes {
			if _, err := shape.Parse(s); err != nil {
				return errs.Wrap(errs.ErrCodeInvalidShape, err, "piece %s shape %d", p.Symbol, k+1)
			}
		}
	}
	return nil
}

// Sites returns the number of lattice sites the definition describes. Counts
// above MaxSites are reported as MaxSites+1 so oversized dimensions can
// neither overflow nor take long to count.
func (d *Definition) Sites() int {
	const over = MaxSites + 1
	switch d.Lattice.Kind {
	case KindBox:
		n := 1
		for _, dim := range []int{d.Lattice.X, d.Lattice.Y, d.Lattice.Z} {
			if dim <= 0 {
				return 0
			}
			if dim > MaxSites || n > MaxSites/dim {
				return over
			}
			n *= dim
		}
		return n
	case KindPyramid:
		n := 0
		for z := 1; z <= d.Lattice.Levels; z++ {
			if z > MaxSites || n+z*z > MaxSites {
				return over
			}
			n += z * z
		}
		return n
	}
	return 0
}

// CellBalance returns the total cell count of all pieces and the number of
// lattice sites. A tiling may leave pieces unused, so a surplus is allowed;
// a deficit means the search cannot succeed.
func (d *Definition) CellBalance() (cells, sites int) {
	for _, p := range d.Pieces {
		if len(p.Shapes) == 0 {
			continue
		}
		if j, err := shape.Parse(p.Shapes[0]); err == nil {
			cells += j.Size()
		}
	}
	return cells, d.Sites()
}

// BuildLattice constructs the lattice.
func (d *Definition) BuildLattice() (*lattice.Lattice, error) {
	var (
		l   *lattice.Lattice
		err error
	)
	switch d.Lattice.Kind {
	case KindBox:
		l, err = lattice.Box(d.Lattice.X, d.Lattice.Y, d.Lattice.Z)
	case KindPyramid:
		l, err = lattice.Pyramid(d.Lattice.Levels)
	default:
		return nil, errs.New(errs.ErrCodeInvalidLattice, "unknown lattice kind %q", d.Lattice.Kind)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidLattice, err, "build lattice")
	}
	return l, nil
}

// BuildPieces expands every piece into its configurations.
func (d *Definition) BuildPieces() ([]*piece.Piece, error) {
	pieces := make([]*piece.Piece, 0, len(d.Pieces))
	for _, p := range d.Pieces {
		mode, err := shape.ParseMode(p.Orientation)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidPuzzle, err, "piece %s", p.Symbol)
		}
		var configs []*shape.Junction
		for k, s := range p.Shapes {
			j, err := shape.Parse(s)
			if err != nil {
				return nil, errs.Wrap(errs.ErrCodeInvalidShape, err, "piece %s shape %d", p.Symbol, k+1)
			}
			variants, err := shape.Orientations(j, mode)
			if err != nil {
				return nil, errs.Wrap(errs.ErrCodeInvalidPuzzle, err, "piece %s", p.Symbol)
			}
			configs = append(configs, variants...)
		}
		if d.Dedupe {
			configs = shape.Unique(configs)
		}
		pieces = append(pieces, piece.New(p.Symbol[0], p.Name, configs...))
	}
	if err := piece.Validate(pieces, lattice.Free); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidPuzzle, err, "pieces")
	}
	return pieces, nil
}

// Build constructs the lattice and the pieces, ready for a search.
func (d *Definition) Build() (*lattice.Lattice, []*piece.Piece, error) {
	l, err := d.BuildLattice()
	if err != nil {
		return nil, nil, err
	}
	pieces, err := d.BuildPieces()
	if err != nil {
		return nil, nil, err
	}
	return l, pieces, nil
}

// Encode renders the definition as TOML.
func (d *Definition) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(d); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "encode puzzle %s", d.Name)
	}
	return buf.Bytes(), nil
}

// Hash identifies the search a definition describes. Name and description
// do not contribute, so renaming a puzzle keeps its cached results.
func (d *Definition) Hash() string {
	key := *d
	key.Name, key.Description = "", ""
	data, err := key.Encode()
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}
