package geom

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidDirection is returned by [ParseDirection] when the input is not a
// parenthesized triple of integers.
var ErrInvalidDirection = errors.New("invalid direction")

// Direction is a displacement between two lattice cells. The zero value is
// the null displacement, which never labels a link.
type Direction struct {
	DX, DY, DZ int
}

// Common axis directions.
var (
	Right = Direction{1, 0, 0}
	Left  = Direction{-1, 0, 0}
	Down  = Direction{0, 1, 0}
	Up    = Direction{0, -1, 0}
	Below = Direction{0, 0, 1}
	Above = Direction{0, 0, -1}
)

// D is shorthand for Direction{dx, dy, dz}.
func D(dx, dy, dz int) Direction {
	return Direction{DX: dx, DY: dy, DZ: dz}
}

// IsZero reports whether d is the null displacement.
func (d Direction) IsZero() bool {
	return d == Direction{}
}

// Neg returns the reverse direction.
func (d Direction) Neg() Direction {
	return Direction{-d.DX, -d.DY, -d.DZ}
}

// Add returns the component-wise sum of d and o.
func (d Direction) Add(o Direction) Direction {
	return Direction{d.DX + o.DX, d.DY + o.DY, d.DZ + o.DZ}
}

// RotateZ rotates d by a quarter turn about the z axis: x → -y, y → x.
func (d Direction) RotateZ() Direction {
	return Direction{-d.DY, d.DX, d.DZ}
}

// MirrorX mirrors d on the y axis: x → -x.
func (d Direction) MirrorX() Direction {
	return Direction{-d.DX, d.DY, d.DZ}
}

// MirrorPlane reflects d on the plane whose normals are given. Directions
// equal to one of the normals are reversed; all others lie in the plane and
// are returned unchanged.
func (d Direction) MirrorPlane(normals ...Direction) Direction {
	for _, n := range normals {
		if d == n {
			return d.Neg()
		}
	}
	return d
}

// String renders d as "(dx,dy,dz)".
func (d Direction) String() string {
	return fmt.Sprintf("(%d,%d,%d)", d.DX, d.DY, d.DZ)
}

// ParseDirection parses the "(dx,dy,dz)" form produced by [Direction.String].
// Whitespace around the components is ignored.
func ParseDirection(s string) (Direction, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "(") || !strings.HasSuffix(s, ")") {
		return Direction{}, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
	parts := strings.Split(s[1:len(s)-1], ",")
	if len(parts) != 3 {
		return Direction{}, fmt.Errorf("%w: %q: want 3 components, got %d", ErrInvalidDirection, s, len(parts))
	}
	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Direction{}, fmt.Errorf("%w: %q: component %d: %v", ErrInvalidDirection, s, i, err)
		}
		v[i] = n
	}
	return Direction{v[0], v[1], v[2]}, nil
}
