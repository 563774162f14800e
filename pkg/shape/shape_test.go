package shape

import (
	"errors"
	"strings"
	"testing"

	"github.com/matzehuels/latticetile/pkg/geom"
)

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
		size  int
	}{
		{"single cell", "[ ]", 1},
		{"chain", "[ (1,0,0), (0,1,0), (0,1,0) ]", 4},
		{"fork after step", "[ (1,0,0), [[ (1,0,0) ], [ (0,1,0) ]] ]", 4},
		{"fork at seed", "[ [[ (1,0,0), (1,0,0) ], [ (0,1,0) ]] ]", 4},
		{
			"nested forks",
			"[ (1,0,0), [[ (1,0,0), [[ (0,0,1), (0,0,1) ], [ (0,1,0) ]] ], [ (0,1,0) ], [ (0,0,1) ]] ]",
			8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if got := j.Size(); got != tt.size {
				t.Errorf("Size() = %d, want %d", got, tt.size)
			}
			if got := j.String(); got != tt.input {
				t.Errorf("String() = %q, want %q", got, tt.input)
			}
			if err := j.Validate(); err != nil {
				t.Errorf("Validate() error: %v", err)
			}
		})
	}
}

func TestParseCompactInput(t *testing.T) {
	j, err := Parse("[(1,0,0),[[(1,0,0)],[(0,1,0)]]]")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	want := Leaf().Add(geom.Right, Leaf().
		Add(geom.Right, Leaf()).
		Add(geom.Down, Leaf()))
	if !Equal(j, want) {
		t.Errorf("Parse = %s, want %s", j, want)
	}
}

func TestParseSingleBranchFork(t *testing.T) {
	a := MustParse("[ [[ (1,0,0), (0,1,0) ]] ]")
	b := MustParse("[ (1,0,0), (0,1,0) ]")
	if !Equal(a, b) {
		t.Errorf("single-branch fork should equal chain: %s vs %s", a, b)
	}
}

func TestParseErrors(t *testing.T) {
	inputs := []string{
		"",
		"(1,0,0)",
		"[ (1,0,0)",
		"[ (1,0,0) (0,1,0) ]",
		"[ [[ (1,0,0) ], [ (0,1,0) ]], (1,0,0) ]",
		"[ [[ ]] ]",
		"[ (0,0,0) ]",
		"[ (1,0) ]",
		"[ (1,0,0) ] extra",
		"[ x ]",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			if !errors.Is(err, ErrSyntax) {
				t.Errorf("Parse(%q) error = %v, want ErrSyntax", in, err)
			}
		})
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse should panic on invalid input")
		}
	}()
	MustParse("[")
}

func TestValidate(t *testing.T) {
	bad := &Junction{Branches: []*Junction{Leaf()}}
	if err := bad.Validate(); !errors.Is(err, ErrBranchMismatch) {
		t.Errorf("Validate() = %v, want ErrBranchMismatch", err)
	}

	nested := Leaf().Add(geom.Right, &Junction{Directions: []geom.Direction{geom.Down}})
	err := nested.Validate()
	if !errors.Is(err, ErrBranchMismatch) {
		t.Errorf("Validate() = %v, want ErrBranchMismatch", err)
	}
	if err != nil && !strings.Contains(err.Error(), "seed/0") {
		t.Errorf("error should name the path, got %v", err)
	}

	nilBranch := Leaf().Add(geom.Right, nil)
	if err := nilBranch.Validate(); !errors.Is(err, ErrNilBranch) {
		t.Errorf("Validate() = %v, want ErrNilBranch", err)
	}

	zero := Leaf().Add(geom.Direction{}, Leaf())
	if err := zero.Validate(); !errors.Is(err, ErrZeroDirection) {
		t.Errorf("Validate() = %v, want ErrZeroDirection", err)
	}
}

func TestCells(t *testing.T) {
	j := MustParse("[ (1,0,0), [[ (1,0,0) ], [ (0,1,0) ]] ]")
	got := j.Cells()
	want := []geom.Direction{geom.D(0, 0, 0), geom.D(1, 0, 0), geom.D(2, 0, 0), geom.D(1, 1, 0)}
	if len(got) != len(want) {
		t.Fatalf("Cells() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Cells()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestChain(t *testing.T) {
	if got := Chain().Size(); got != 1 {
		t.Errorf("Chain().Size() = %d, want 1", got)
	}
	j := Chain(geom.Right, geom.Down)
	if got := j.String(); got != "[ (1,0,0), (0,1,0) ]" {
		t.Errorf("Chain String() = %q", got)
	}
}

func TestOrientations(t *testing.T) {
	l := MustParse("[ (1,0,0), (0,1,0), (0,1,0) ]")

	tests := []struct {
		mode Mode
		want int
	}{
		{ModeNone, 1},
		{ModeFlatHalf, 2},
		{ModeFlatHalfMirrored, 4},
		{ModeFlatRotations, 4},
		{ModeFlatAll, 8},
		{ModeElevatedAll, 8},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			got, err := Orientations(l, tt.mode)
			if err != nil {
				t.Fatalf("Orientations error: %v", err)
			}
			if len(got) != tt.want {
				t.Fatalf("len = %d, want %d", len(got), tt.want)
			}
			if !Equal(got[0], l) {
				t.Error("first orientation should be the input")
			}
			for _, c := range got {
				if c.Size() != l.Size() {
					t.Errorf("orientation changed size: %s", c)
				}
			}
		})
	}

	if _, err := Orientations(l, Mode("spin")); err == nil {
		t.Error("unknown mode should fail")
	}
}

func TestFlatHalfMirrored(t *testing.T) {
	got, err := Orientations(MustParse("[ (1,-1,0), (1,0,0) ]"), ModeFlatHalfMirrored)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"[ (1,-1,0), (1,0,0) ]",
		"[ (1,1,0), (0,1,0) ]",
		"[ (-1,1,0), (1,0,0) ]",
		"[ (-1,-1,0), (0,1,0) ]",
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, w := range want {
		if !Equal(got[i], MustParse(w)) {
			t.Errorf("orientation %d = %s, want %s", i, got[i], w)
		}
	}
}

func TestRotateDoesNotMutate(t *testing.T) {
	j := MustParse("[ (1,0,0) ]")
	r := RotateZ(j)
	if j.Directions[0] != geom.Right {
		t.Error("RotateZ mutated its input")
	}
	if r.Directions[0] != geom.Down {
		t.Errorf("RotateZ = %s, want down", r)
	}
	if m := MirrorX(j); m.Directions[0] != geom.Left {
		t.Errorf("MirrorX = %s, want left", m)
	}
}

func TestUnique(t *testing.T) {
	// Every quarter turn of a domino covers different cells; a plus sign
	// covers the same cells in all eight orientations.
	domino, _ := Orientations(Chain(geom.Right), ModeFlatRotations)
	if got := len(Unique(domino)); got != 4 {
		t.Errorf("Unique(domino) = %d, want 4", got)
	}

	cross := MustParse("[ [[ (1,0,0) ], [ (-1,0,0) ], [ (0,1,0) ], [ (0,-1,0) ]] ]")
	all, _ := Orientations(cross, ModeFlatAll)
	if got := len(Unique(all)); got != 1 {
		t.Errorf("Unique(cross) = %d, want 1", got)
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode(""); err != nil || m != ModeNone {
		t.Errorf("ParseMode(\"\") = %q, %v", m, err)
	}
	if m, err := ParseMode("flat-all"); err != nil || m != ModeFlatAll {
		t.Errorf("ParseMode(flat-all) = %q, %v", m, err)
	}
	if _, err := ParseMode("sideways"); err == nil {
		t.Error("ParseMode should reject unknown modes")
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(MustParse("[ (1,0,0), [[ (1,0,0) ], [ (0,1,0) ]] ]"), "piece A")
	for _, want := range []string{
		"digraph Shape",
		`label="piece A"`,
		`n0 [label="(0,0,0)", peripheries=2]`,
		`n2 [label="(2,0,0)"]`,
		`n3 [label="(1,1,0)"]`,
		`n1 -> n3 [label="(0,1,0)"]`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}
