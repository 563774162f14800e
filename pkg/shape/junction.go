package shape

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/latticetile/pkg/geom"
)

var (
	// ErrBranchMismatch is returned by [Junction.Validate] when a junction has
	// a different number of branches and directions.
	ErrBranchMismatch = errors.New("branches and directions differ in length")

	// ErrNilBranch is returned by [Junction.Validate] when a branch is nil.
	ErrNilBranch = errors.New("nil branch")

	// ErrZeroDirection is returned by [Junction.Validate] when a branch is
	// labeled with the null displacement.
	ErrZeroDirection = errors.New("zero direction")
)

// Junction is a node of a shape tree. Directions[i] leads to Branches[i].
type Junction struct {
	Branches   []*Junction
	Directions []geom.Direction
}

// Leaf returns a junction without branches.
func Leaf() *Junction {
	return &Junction{}
}

// Chain returns a straight shape that follows dirs one after another.
// Chain() is a single cell.
func Chain(dirs ...geom.Direction) *Junction {
	root := Leaf()
	cur := root
	for _, d := range dirs {
		next := Leaf()
		cur.Add(d, next)
		cur = next
	}
	return root
}

// Add attaches child in direction d and returns j for chaining.
func (j *Junction) Add(d geom.Direction, child *Junction) *Junction {
	j.Branches = append(j.Branches, child)
	j.Directions = append(j.Directions, d)
	return j
}

// IsLeaf reports whether j has no branches.
func (j *Junction) IsLeaf() bool {
	return len(j.Branches) == 0
}

// Size returns the number of cells covered by the tree rooted at j.
func (j *Junction) Size() int {
	n := 1
	for _, b := range j.Branches {
		n += b.Size()
	}
	return n
}

// Validate checks the tree rooted at j: branch and direction lists must have
// equal length at every node, and no branch may be nil or labeled with the
// zero direction. The returned error names the path to the offending node.
func (j *Junction) Validate() error {
	return j.validate("seed")
}

func (j *Junction) validate(path string) error {
	if j == nil {
		return fmt.Errorf("%s: %w", path, ErrNilBranch)
	}
	if len(j.Branches) != len(j.Directions) {
		return fmt.Errorf("%s: %w (%d branches, %d directions)", path, ErrBranchMismatch, len(j.Branches), len(j.Directions))
	}
	for i, b := range j.Branches {
		if j.Directions[i].IsZero() {
			return fmt.Errorf("%s: branch %d: %w", path, i, ErrZeroDirection)
		}
		if err := b.validate(fmt.Sprintf("%s/%d", path, i)); err != nil {
			return err
		}
	}
	return nil
}

// Cells returns the offsets of all cells of the tree relative to the seed,
// in depth-first order. The seed itself is always the first offset (0,0,0).
func (j *Junction) Cells() []geom.Direction {
	var cells []geom.Direction
	var walk func(*Junction, geom.Direction)
	walk = func(n *Junction, at geom.Direction) {
		cells = append(cells, at)
		for i, b := range n.Branches {
			walk(b, at.Add(n.Directions[i]))
		}
	}
	walk(j, geom.Direction{})
	return cells
}

// Equal reports whether a and b are identical trees, with branches in the
// same order.
func Equal(a, b *Junction) bool {
	if len(a.Branches) != len(b.Branches) || len(a.Directions) != len(b.Directions) {
		return false
	}
	for i := range a.Branches {
		if a.Directions[i] != b.Directions[i] || !Equal(a.Branches[i], b.Branches[i]) {
			return false
		}
	}
	return true
}

// String renders the tree in bracket notation (see package documentation).
// A single cell renders as "[ ]".
func (j *Junction) String() string {
	items := elements(j)
	if len(items) == 0 {
		return "[ ]"
	}
	return "[ " + strings.Join(items, ", ") + " ]"
}

// elements lists the notation elements of the branch starting at j: one
// direction per chain step and a trailing fork when j splits.
func elements(j *Junction) []string {
	var items []string
	for len(j.Branches) == 1 {
		items = append(items, j.Directions[0].String())
		j = j.Branches[0]
	}
	if len(j.Branches) > 1 {
		forks := make([]string, len(j.Branches))
		for i, b := range j.Branches {
			sub := append([]string{j.Directions[i].String()}, elements(b)...)
			forks[i] = "[ " + strings.Join(sub, ", ") + " ]"
		}
		items = append(items, "["+strings.Join(forks, ", ")+"]")
	}
	return items
}
