package shape

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/latticetile/pkg/geom"
)

// Mode selects which rotated and mirrored variants [Orientations] produces.
type Mode string

const (
	// ModeNone keeps the configuration as written.
	ModeNone Mode = "none"
	// ModeFlatHalf adds one quarter turn about z (pieces with 180° symmetry).
	ModeFlatHalf Mode = "flat-half"
	// ModeFlatRotations produces the four quarter turns about z.
	ModeFlatRotations Mode = "flat-rotations"
	// ModeFlatAll produces the four quarter turns of the configuration and of
	// its mirror image on the y axis.
	ModeFlatAll Mode = "flat-all"
	// ModeFlatHalfMirrored produces the two configurations of [ModeFlatHalf]
	// for the configuration and for its mirror image on the xy diagonal.
	ModeFlatHalfMirrored Mode = "flat-half-mirrored"
	// ModeElevatedAll produces the four quarter turns of the configuration and
	// of its mirror image on the pyramid diagonal plane.
	ModeElevatedAll Mode = "elevated-all"
)

// Modes lists every supported orientation mode.
var Modes = []Mode{ModeNone, ModeFlatHalf, ModeFlatHalfMirrored, ModeFlatRotations, ModeFlatAll, ModeElevatedAll}

// PlaneNormals are the normals of the plane spanned by (1,1,1) and (1,-1,1),
// used by [ModeElevatedAll].
var PlaneNormals = []geom.Direction{geom.D(1, -1, -1), geom.D(-1, 1, 1)}

// DiagonalNormals are the normals of the vertical plane through (1,1,0),
// used by [ModeFlatHalfMirrored].
var DiagonalNormals = []geom.Direction{geom.D(-1, 1, 0), geom.D(1, -1, 0)}

// ParseMode validates a mode name. The empty string means [ModeNone].
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeNone, nil
	}
	m := Mode(s)
	if !slices.Contains(Modes, m) {
		names := make([]string, len(Modes))
		for i, m := range Modes {
			names[i] = string(m)
		}
		return "", fmt.Errorf("unknown orientation mode %q (want one of %s)", s, strings.Join(names, ", "))
	}
	return m, nil
}

// Transform returns a copy of the tree rooted at j with every direction
// mapped through f. The input tree is not modified.
func Transform(j *Junction, f func(geom.Direction) geom.Direction) *Junction {
	out := &Junction{
		Branches:   make([]*Junction, len(j.Branches)),
		Directions: make([]geom.Direction, len(j.Directions)),
	}
	for i, b := range j.Branches {
		out.Branches[i] = Transform(b, f)
		out.Directions[i] = f(j.Directions[i])
	}
	return out
}

// RotateZ returns j turned a quarter turn about the z axis.
func RotateZ(j *Junction) *Junction {
	return Transform(j, geom.Direction.RotateZ)
}

// MirrorX returns the mirror image of j on the y axis.
func MirrorX(j *Junction) *Junction {
	return Transform(j, geom.Direction.MirrorX)
}

// MirrorPlane returns the mirror image of j on the plane with the given normals.
func MirrorPlane(j *Junction, normals ...geom.Direction) *Junction {
	return Transform(j, func(d geom.Direction) geom.Direction { return d.MirrorPlane(normals...) })
}

// Orientations expands j into the configurations selected by mode, starting
// with j itself. The order is fixed: rotations first, then the rotations of
// the mirror image.
func Orientations(j *Junction, mode Mode) ([]*Junction, error) {
	switch mode {
	case ModeNone, "":
		return []*Junction{j}, nil
	case ModeFlatHalf:
		return rotations(j, 2), nil
	case ModeFlatHalfMirrored:
		return append(rotations(j, 2), rotations(MirrorPlane(j, DiagonalNormals...), 2)...), nil
	case ModeFlatRotations:
		return rotations(j, 4), nil
	case ModeFlatAll:
		return append(rotations(j, 4), rotations(MirrorX(j), 4)...), nil
	case ModeElevatedAll:
		return append(rotations(j, 4), rotations(MirrorPlane(j, PlaneNormals...), 4)...), nil
	}
	return nil, fmt.Errorf("unknown orientation mode %q", mode)
}

func rotations(j *Junction, n int) []*Junction {
	out := make([]*Junction, 0, n)
	cur := j
	for range n {
		out = append(out, cur)
		cur = RotateZ(cur)
	}
	return out
}

// Unique drops configurations that cover the same cells relative to their
// seed as an earlier one. Such duplicates place identically and would only
// repeat solutions.
func Unique(configs []*Junction) []*Junction {
	seen := make(map[string]bool, len(configs))
	out := make([]*Junction, 0, len(configs))
	for _, c := range configs {
		key := cellKey(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

func cellKey(j *Junction) string {
	cells := j.Cells()
	slices.SortFunc(cells, func(a, b geom.Direction) int {
		if a.DZ != b.DZ {
			return a.DZ - b.DZ
		}
		if a.DY != b.DY {
			return a.DY - b.DY
		}
		return a.DX - b.DX
	})
	var b strings.Builder
	for _, c := range cells {
		b.WriteString(c.String())
	}
	return b.String()
}
