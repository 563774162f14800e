package solver

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/matzehuels/latticetile/pkg/geom"
	"github.com/matzehuels/latticetile/pkg/lattice"
	"github.com/matzehuels/latticetile/pkg/piece"
	"github.com/matzehuels/latticetile/pkg/shape"
)

func box(t *testing.T, nx, ny, nz int) *lattice.Lattice {
	t.Helper()
	l, err := lattice.Box(nx, ny, nz)
	if err != nil {
		t.Fatal(err)
	}
	return l
}

// collect runs a search and returns every solution.
func collect(t *testing.T, l *lattice.Lattice, pieces []*piece.Piece, opts Options) ([]Solution, Result) {
	t.Helper()
	var sols []Solution
	opts.OnSolution = func(s Solution) error {
		verifySolution(t, l, pieces, s)
		sols = append(sols, s)
		return nil
	}
	s := &Solver{Lattice: l, Pieces: pieces, Options: opts}
	res, err := s.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	assertRetracted(t, l, pieces)
	return sols, res
}

// verifySolution checks an emitted solution against the live lattice: all
// sites are claimed exactly once and every piece covers the cells of its
// configuration mapped from its anchor.
func verifySolution(t *testing.T, l *lattice.Lattice, pieces []*piece.Piece, s Solution) {
	t.Helper()
	for i := range l.Len() {
		if l.Occupancy(i) != 1 {
			t.Errorf("solution %d: site %d counter %d", s.Index, i, l.Occupancy(i))
		}
		if l.Symbol(i) == lattice.Free {
			t.Errorf("solution %d: site %d is free", s.Index, i)
		}
	}

	owner := make(map[int]byte)
	for _, pl := range s.Placements {
		var p *piece.Piece
		for _, q := range pieces {
			if q.Symbol == pl.Symbol {
				p = q
			}
		}
		if p == nil || !p.InUse() || p.Anchor() != pl.Anchor {
			t.Fatalf("solution %d: placement %c does not match piece state", s.Index, pl.Symbol)
		}
		cfg := p.Configs[pl.Config]
		a := l.Site(pl.Anchor)
		cells := cfg.Cells()
		if len(cells) != len(pl.Sites) {
			t.Fatalf("solution %d: %c covers %d sites, shape has %d cells", s.Index, pl.Symbol, len(pl.Sites), len(cells))
		}
		for k, off := range cells {
			if axisAligned(l) {
				want, ok := l.SiteAt(a.X+off.DX, a.Y+off.DY, a.Z+off.DZ)
				if !ok || want != pl.Sites[k] {
					t.Errorf("solution %d: %c cell %d at site %d, want %d", s.Index, pl.Symbol, k, pl.Sites[k], want)
				}
			}
			if prev, dup := owner[pl.Sites[k]]; dup {
				t.Errorf("solution %d: site %d claimed by %c and %c", s.Index, pl.Sites[k], prev, pl.Symbol)
			}
			owner[pl.Sites[k]] = pl.Symbol
			if s.Text[scanPos(l, pl.Sites[k])] != pl.Symbol {
				t.Errorf("solution %d: text disagrees at site %d", s.Index, pl.Sites[k])
			}
		}
	}
	if len(owner) != l.Len() {
		t.Errorf("solution %d: placements cover %d of %d sites", s.Index, len(owner), l.Len())
	}
}

// axisAligned reports whether every link is a unit step along one axis, so
// that link directions equal coordinate offsets.
func axisAligned(l *lattice.Lattice) bool {
	for i := range l.Len() {
		for _, d := range l.Site(i).Links() {
			if abs(d.DX)+abs(d.DY)+abs(d.DZ) != 1 {
				return false
			}
		}
	}
	return true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func scanPos(l *lattice.Lattice, site int) int {
	pos := 0
	for _, ly := range l.Layers {
		for _, r := range ly.Rows {
			for _, i := range r.Sites {
				if i == site {
					return pos
				}
				pos++
			}
		}
	}
	return -1
}

func assertRetracted(t *testing.T, l *lattice.Lattice, pieces []*piece.Piece) {
	t.Helper()
	if l.FreeCount() != l.Len() || l.Depth() != 0 {
		t.Errorf("lattice not retracted: %d of %d free, depth %d", l.FreeCount(), l.Len(), l.Depth())
	}
	for i := range l.Len() {
		if l.Symbol(i) != lattice.Free {
			t.Errorf("site %d keeps symbol %c", i, l.Symbol(i))
		}
	}
	for _, p := range pieces {
		if p.InUse() {
			t.Errorf("piece %c still in use", p.Symbol)
		}
	}
}

func texts(sols []Solution) []string {
	out := make([]string, len(sols))
	for i, s := range sols {
		out[i] = s.Text
	}
	return out
}

func rotatedPiece(symbol byte, notation string) *piece.Piece {
	configs, err := shape.Orientations(shape.MustParse(notation), shape.ModeFlatRotations)
	if err != nil {
		panic(err)
	}
	return piece.New(symbol, "", configs...)
}

func TestScenarios(t *testing.T) {
	t.Run("single site single cell", func(t *testing.T) {
		l := lattice.New()
		l.AddSite(l.AddLayer().AddRow(), 0, 0, 0)
		sols, res := collect(t, l, []*piece.Piece{piece.New('A', "", shape.Leaf())}, Options{})
		if !slices.Equal(texts(sols), []string{"A"}) {
			t.Errorf("solutions = %v, want [A]", texts(sols))
		}
		if res.Solutions != 1 || res.Stopped != StopExhausted {
			t.Errorf("result = %+v", res)
		}
	})

	t.Run("two linked sites one domino", func(t *testing.T) {
		l := lattice.New()
		r := l.AddLayer().AddRow()
		a := l.AddSite(r, 0, 0, 0)
		b := l.AddSite(r, 1, 0, 0)
		if err := l.LinkBoth(a, b, geom.Right); err != nil {
			t.Fatal(err)
		}
		sols, _ := collect(t, l, []*piece.Piece{piece.New('A', "", shape.Chain(geom.Right))}, Options{})
		if !slices.Equal(texts(sols), []string{"AA"}) {
			t.Errorf("solutions = %v, want [AA]", texts(sols))
		}
	})

	t.Run("missing direction", func(t *testing.T) {
		l := lattice.New()
		r := l.AddLayer().AddRow()
		l.AddSite(r, 0, 0, 0)
		l.AddSite(r, 1, 0, 0)
		sols, res := collect(t, l, []*piece.Piece{piece.New('A', "", shape.Chain(geom.Right))}, Options{})
		if len(sols) != 0 || res.Solutions != 0 {
			t.Errorf("solutions = %v, want none", texts(sols))
		}
		if res.Placements != 1 {
			t.Errorf("placements = %d, want 1", res.Placements)
		}
	})

	t.Run("two single cells", func(t *testing.T) {
		l := box(t, 2, 1, 1)
		pieces := []*piece.Piece{piece.New('A', "", shape.Leaf()), piece.New('B', "", shape.Leaf())}
		sols, _ := collect(t, l, pieces, Options{})
		if !slices.Equal(texts(sols), []string{"AB", "BA"}) {
			t.Errorf("solutions = %v, want [AB BA]", texts(sols))
		}
	})

	t.Run("two dominoes on 2x2", func(t *testing.T) {
		l := box(t, 2, 2, 1)
		pieces := []*piece.Piece{
			piece.New('A', "", shape.Chain(geom.Right), shape.Chain(geom.Down)),
			piece.New('B', "", shape.Chain(geom.Right), shape.Chain(geom.Down)),
		}
		sols, _ := collect(t, l, pieces, Options{})
		want := []string{"AABB", "ABAB", "BBAA", "BABA"}
		if !slices.Equal(texts(sols), want) {
			t.Errorf("solutions = %v, want %v", texts(sols), want)
		}
		for i, s := range sols {
			if s.Index != i+1 {
				t.Errorf("solution %d has index %d", i, s.Index)
			}
		}
	})

	t.Run("pyramid", func(t *testing.T) {
		l, err := lattice.Pyramid(2)
		if err != nil {
			t.Fatal(err)
		}
		pieces := []*piece.Piece{
			piece.New('A', "", shape.Chain(geom.D(-1, -1, 1))),
			piece.New('B', "", shape.Leaf()),
			piece.New('C', "", shape.Leaf()),
			piece.New('D', "", shape.Leaf()),
		}
		sols, _ := collect(t, l, pieces, Options{})
		if len(sols) != 6 {
			t.Errorf("got %d solutions, want 6", len(sols))
		}
		for _, s := range sols {
			if s.Text[0] != 'A' || s.Text[1] != 'A' {
				t.Errorf("solution %q: A should hold the apex and the site below", s.Text)
			}
		}
	})
}

// referenceCount counts tilings of an nx×ny×nz box by set arithmetic on
// cell offsets, independently of the lattice placement protocol.
func referenceCount(nx, ny, nz int, pieces []*piece.Piece) int {
	occupied := make(map[[3]int]bool)
	used := make([]bool, len(pieces))
	inBox := func(c [3]int) bool {
		return c[0] >= 0 && c[0] < nx && c[1] >= 0 && c[1] < ny && c[2] >= 0 && c[2] < nz
	}

	var count func() int
	count = func() int {
		var anchor [3]int
		found := false
		for z := 0; z < nz && !found; z++ {
			for y := 0; y < ny && !found; y++ {
				for x := 0; x < nx && !found; x++ {
					if !occupied[[3]int{x, y, z}] {
						anchor, found = [3]int{x, y, z}, true
					}
				}
			}
		}
		if !found {
			return 1
		}

		n := 0
		for i, p := range pieces {
			if used[i] {
				continue
			}
			for _, cfg := range p.Configs {
				var cells [][3]int
				ok := true
				for _, off := range cfg.Cells() {
					c := [3]int{anchor[0] + off.DX, anchor[1] + off.DY, anchor[2] + off.DZ}
					if !inBox(c) || occupied[c] || slices.Contains(cells, c) {
						ok = false
						break
					}
					cells = append(cells, c)
				}
				if !ok {
					continue
				}
				for _, c := range cells {
					occupied[c] = true
				}
				used[i] = true
				n += count()
				used[i] = false
				for _, c := range cells {
					delete(occupied, c)
				}
			}
		}
		return n
	}
	return count()
}

func TestAgainstReference(t *testing.T) {
	tests := []struct {
		name       string
		nx, ny, nz int
		shapes     []string
		want       int
	}{
		{"dominoes 3x2", 3, 2, 1, []string{"[ (1,0,0) ]", "[ (1,0,0) ]", "[ (1,0,0) ]"}, 18},
		{"trominoes 3x2", 3, 2, 1, []string{"[ (1,0,0), (0,1,0) ]", "[ (1,0,0), (1,0,0) ]"}, -1},
		{"mixed 2x2x2", 2, 2, 2, []string{"[ (1,0,0), (0,1,0) ]", "[ (1,0,0) ]", "[ (0,1,0), (0,0,1) ]", "[ ]"}, -1},
		{"fork 3x3", 3, 3, 1, []string{"[ (1,0,0), [[ (1,0,0) ], [ (0,1,0) ]] ]", "[ (0,1,0), (1,0,0), (1,0,0) ]", "[ ]"}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var pieces []*piece.Piece
			for i, s := range tt.shapes {
				pieces = append(pieces, rotatedPiece(byte('A'+i), s))
			}
			want := referenceCount(tt.nx, tt.ny, tt.nz, pieces)
			if tt.want >= 0 && want != tt.want {
				t.Fatalf("reference count = %d, want %d", want, tt.want)
			}
			sols, res := collect(t, box(t, tt.nx, tt.ny, tt.nz), pieces, Options{})
			if len(sols) != want || res.Solutions != want {
				t.Errorf("solver found %d solutions, reference %d", len(sols), want)
			}
		})
	}
}

func TestOrderingInvariance(t *testing.T) {
	build := func() []*piece.Piece {
		return []*piece.Piece{
			rotatedPiece('A', "[ (1,0,0), (0,1,0) ]"),
			rotatedPiece('B', "[ (1,0,0) ]"),
			rotatedPiece('C', "[ (0,1,0) ]"),
			piece.New('D', "", shape.Leaf()),
		}
	}

	base, _ := collect(t, box(t, 3, 3, 1), build(), Options{})
	if len(base) == 0 {
		t.Fatal("expected solutions")
	}

	reordered := build()
	slices.Reverse(reordered)
	for _, p := range reordered {
		slices.Reverse(p.Configs)
	}
	other, _ := collect(t, box(t, 3, 3, 1), reordered, Options{})

	a, b := texts(base), texts(other)
	slices.Sort(a)
	slices.Sort(b)
	if !slices.Equal(a, b) {
		t.Errorf("reordering changed the solution set: %d vs %d", len(a), len(b))
	}
}

func TestDeterministic(t *testing.T) {
	run := func() []string {
		pieces := []*piece.Piece{
			rotatedPiece('A', "[ (1,0,0) ]"),
			rotatedPiece('B', "[ (1,0,0) ]"),
			rotatedPiece('C', "[ (1,0,0) ]"),
		}
		sols, _ := collect(t, box(t, 3, 2, 1), pieces, Options{})
		return texts(sols)
	}
	if a, b := run(), run(); !slices.Equal(a, b) {
		t.Errorf("two runs differ:\n%v\n%v", a, b)
	}
}

func dominoes3x2() []*piece.Piece {
	return []*piece.Piece{
		rotatedPiece('A', "[ (1,0,0) ]"),
		rotatedPiece('B', "[ (1,0,0) ]"),
		rotatedPiece('C', "[ (1,0,0) ]"),
	}
}

func TestLimit(t *testing.T) {
	pieces := dominoes3x2()
	l := box(t, 3, 2, 1)
	sols, res := collect(t, l, pieces, Options{Limit: 5})
	if len(sols) != 5 || res.Solutions != 5 {
		t.Errorf("got %d solutions, want 5", len(sols))
	}
	if res.Stopped != StopLimit {
		t.Errorf("Stopped = %s, want %s", res.Stopped, StopLimit)
	}
}

func TestCancel(t *testing.T) {
	t.Run("before start", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		l := box(t, 3, 2, 1)
		pieces := dominoes3x2()
		s := &Solver{Lattice: l, Pieces: pieces}
		res, err := s.Solve(ctx)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
		if res.Stopped != StopCanceled || res.Solutions != 0 {
			t.Errorf("result = %+v", res)
		}
		assertRetracted(t, l, pieces)
	})

	t.Run("during search", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		l := box(t, 3, 2, 1)
		pieces := dominoes3x2()
		s := &Solver{Lattice: l, Pieces: pieces, Options: Options{
			OnSolution: func(Solution) error {
				cancel()
				return nil
			},
		}}
		res, err := s.Solve(ctx)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
		if res.Solutions != 1 || res.Stopped != StopCanceled {
			t.Errorf("result = %+v", res)
		}
		assertRetracted(t, l, pieces)
	})

	t.Run("deadline", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
		defer cancel()
		<-ctx.Done()
		s := &Solver{Lattice: box(t, 2, 1, 1), Pieces: []*piece.Piece{piece.New('A', "", shape.Chain(geom.Right))}}
		if _, err := s.Solve(ctx); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("err = %v, want DeadlineExceeded", err)
		}
	})
}

func TestCallbackError(t *testing.T) {
	boom := errors.New("sink full")
	l := box(t, 3, 2, 1)
	pieces := dominoes3x2()
	s := &Solver{Lattice: l, Pieces: pieces, Options: Options{
		OnSolution: func(sol Solution) error {
			if sol.Index == 2 {
				return boom
			}
			return nil
		},
	}}
	res, err := s.Solve(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
	if res.Stopped != StopError || res.Solutions != 2 {
		t.Errorf("result = %+v", res)
	}
	assertRetracted(t, l, pieces)
}

func TestInvalidInput(t *testing.T) {
	t.Run("malformed lattice", func(t *testing.T) {
		l := box(t, 2, 1, 1)
		l.Layers = append(l.Layers, nil)
		s := &Solver{Lattice: l, Pieces: []*piece.Piece{piece.New('A', "", shape.Leaf())}}
		if _, err := s.Solve(context.Background()); !errors.Is(err, lattice.ErrMalformedLattice) {
			t.Errorf("err = %v, want ErrMalformedLattice", err)
		}
	})

	t.Run("no lattice", func(t *testing.T) {
		s := &Solver{}
		if _, err := s.Solve(context.Background()); !errors.Is(err, lattice.ErrMalformedLattice) {
			t.Errorf("err = %v, want ErrMalformedLattice", err)
		}
	})

	t.Run("duplicate symbol", func(t *testing.T) {
		s := &Solver{Lattice: box(t, 2, 1, 1), Pieces: []*piece.Piece{
			piece.New('A', "", shape.Leaf()),
			piece.New('A', "", shape.Leaf()),
		}}
		if _, err := s.Solve(context.Background()); !errors.Is(err, piece.ErrDuplicateSymbol) {
			t.Errorf("err = %v, want ErrDuplicateSymbol", err)
		}
	})
}

func TestProgress(t *testing.T) {
	var calls []Stats
	s := &Solver{Lattice: box(t, 3, 2, 1), Pieces: dominoes3x2(), Options: Options{
		ProgressEvery: 1,
		Progress:      func(st Stats) { calls = append(calls, st) },
	}}
	res, err := s.Solve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if int64(len(calls)) != res.Placements {
		t.Errorf("Progress called %d times for %d placements", len(calls), res.Placements)
	}
	for i, st := range calls {
		if st.Placements != int64(i+1) {
			t.Errorf("call %d reports %d placements", i, st.Placements)
			break
		}
	}
}

func TestSolveTwice(t *testing.T) {
	l := box(t, 3, 2, 1)
	pieces := dominoes3x2()
	first, _ := collect(t, l, pieces, Options{})
	second, _ := collect(t, l, pieces, Options{})
	if !slices.Equal(texts(first), texts(second)) {
		t.Error("a second search on the same inputs should repeat the first")
	}
}

func TestPlacementJSON(t *testing.T) {
	in := Placement{Symbol: 'Q', Name: "queen", Anchor: 4, Config: 2, Sites: []int{4, 5}}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"symbol":"Q","name":"queen","anchor":4,"config":2,"sites":[4,5]}`; string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	var out Placement
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.Symbol != in.Symbol || out.Anchor != in.Anchor || !slices.Equal(out.Sites, in.Sites) {
		t.Errorf("Unmarshal = %+v", out)
	}

	if err := json.Unmarshal([]byte(`{"symbol":"QQ"}`), &out); err == nil {
		t.Error("two-character symbol should fail")
	}
}
