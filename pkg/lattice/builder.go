package lattice

import (
	"fmt"

	"github.com/matzehuels/latticetile/pkg/geom"
)

// Box builds a rectangular lattice of nx × ny × nz sites. Layer z holds rows
// y = 0..ny-1 of sites x = 0..nx-1. Every site is linked both ways to its
// face neighbors along x, y and z.
func Box(nx, ny, nz int) (*Lattice, error) {
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, fmt.Errorf("box %dx%dx%d: dimensions must be positive", nx, ny, nz)
	}
	l := New()
	for z := range nz {
		ly := l.AddLayer()
		for y := range ny {
			r := ly.AddRow()
			for x := range nx {
				l.AddSite(r, x, y, z)
			}
		}
	}

	for z := range nz {
		for y := range ny {
			for x := range nx {
				a, _ := l.SiteAt(x, y, z)
				for _, d := range []geom.Direction{geom.Down, geom.Right, geom.Below} {
					b, ok := l.SiteAt(x+d.DX, y+d.DY, z+d.DZ)
					if !ok {
						continue
					}
					if err := l.LinkBoth(a, b, d); err != nil {
						return nil, err
					}
				}
			}
		}
	}
	return l, nil
}

// Pyramid builds a square pyramid with the given number of levels, apex
// first. Level z is a (z+1) × (z+1) square whose sites are linked both ways
// to their face neighbors within the level. Site (x, y) of level z also rests
// on the four sites (x, y), (x+1, y), (x, y+1) and (x+1, y+1) of level z+1,
// linked via the diagonals (±1, ±1, 1) and back.
func Pyramid(levels int) (*Lattice, error) {
	if levels <= 0 {
		return nil, fmt.Errorf("pyramid with %d levels: must be positive", levels)
	}
	l := New()
	for z := range levels {
		ly := l.AddLayer()
		for y := range z + 1 {
			r := ly.AddRow()
			for x := range z + 1 {
				l.AddSite(r, x, y, z)
			}
		}
	}

	for z := range levels {
		n := z + 1
		for y := range n {
			for x := range n {
				a, _ := l.SiteAt(x, y, z)
				if y < n-1 {
					b, _ := l.SiteAt(x, y+1, z)
					if err := l.LinkBoth(a, b, geom.Down); err != nil {
						return nil, err
					}
				}
				if x < n-1 {
					b, _ := l.SiteAt(x+1, y, z)
					if err := l.LinkBoth(a, b, geom.Right); err != nil {
						return nil, err
					}
				}
				if z == levels-1 {
					continue
				}
				for _, y2 := range []int{y, y + 1} {
					for _, x2 := range []int{x, x + 1} {
						b, _ := l.SiteAt(x2, y2, z+1)
						if err := l.LinkBoth(a, b, diagonal(x2-x, y2-y)); err != nil {
							return nil, err
						}
					}
				}
			}
		}
	}
	return l, nil
}

// diagonal maps the offset to a supporting site one level down to its link
// direction: an offset of 0 along an axis becomes -1, an offset of 1 stays.
func diagonal(dx, dy int) geom.Direction {
	if dx == 0 {
		dx = -1
	}
	if dy == 0 {
		dy = -1
	}
	return geom.D(dx, dy, 1)
}
