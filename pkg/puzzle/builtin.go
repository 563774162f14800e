package puzzle

import (
	"embed"
	"path"
	"slices"
	"strings"
	"sync"

	errs "github.com/matzehuels/latticetile/pkg/errors"
)

//go:embed builtin/*.toml
var builtinFS embed.FS

var (
	builtins     map[string]*Definition
	builtinNames []string
	builtinErr   error
	builtinOnce  sync.Once
)

func loadBuiltins() {
	builtinOnce.Do(func() {
		entries, err := builtinFS.ReadDir("builtin")
		if err != nil {
			builtinErr = err
			return
		}
		builtins = make(map[string]*Definition, len(entries))
		for _, e := range entries {
			data, err := builtinFS.ReadFile(path.Join("builtin", e.Name()))
			if err != nil {
				builtinErr = err
				return
			}
			d, err := Parse(data)
			if err != nil {
				builtinErr = errs.Wrap(errs.ErrCodeInternal, err, "built-in puzzle %s", e.Name())
				return
			}
			if want := strings.TrimSuffix(e.Name(), ".toml"); d.Name != want {
				builtinErr = errs.New(errs.ErrCodeInternal, "built-in puzzle %s is named %q", e.Name(), d.Name)
				return
			}
			builtins[d.Name] = d
			builtinNames = append(builtinNames, d.Name)
		}
		slices.Sort(builtinNames)
	})
}

// Builtin returns a copy of the built-in puzzle with the given name.
func Builtin(name string) (*Definition, error) {
	loadBuiltins()
	if builtinErr != nil {
		return nil, builtinErr
	}
	d, ok := builtins[name]
	if !ok {
		return nil, errs.New(errs.ErrCodePuzzleNotFound, "no built-in puzzle %q", name)
	}
	return d.clone(), nil
}

// Builtins returns copies of all built-in puzzles, sorted by name.
func Builtins() ([]*Definition, error) {
	loadBuiltins()
	if builtinErr != nil {
		return nil, builtinErr
	}
	out := make([]*Definition, len(builtinNames))
	for i, name := range builtinNames {
		out[i] = builtins[name].clone()
	}
	return out, nil
}

func (d *Definition) clone() *Definition {
	c := *d
	c.Pieces = make([]PieceSpec, len(d.Pieces))
	for i, p := range d.Pieces {
		p.Shapes = slices.Clone(p.Shapes)
		c.Pieces[i] = p
	}
	return &c
}
