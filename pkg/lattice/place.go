package lattice

import "github.com/matzehuels/latticetile/pkg/shape"

// placement identifies one top-level Place call.
type placement struct {
	site int
	gen  uint64
}

// Place anchors the shape tree rooted at j on site i and walks it through the
// lattice links, marking every visited site with symbol.
//
// At each node the site's counter is incremented. If the site was already
// occupied the visit is an overlap and the node fails without going further.
// Otherwise the node's branch directions are resolved against the site's
// links; if any direction is missing the node fails without placing its
// branches. Else every branch is placed, even after one of them failed, and
// the node succeeds only if all branches did.
//
// Whatever the result, every Place must be matched by exactly one
// [Lattice.Remove] with the same site and tree, in last-in first-out order.
func (l *Lattice) Place(i int, j *shape.Junction, symbol byte) bool {
	l.gen++
	l.stack = append(l.stack, placement{site: i, gen: l.gen})
	return l.place(i, j, symbol, l.gen)
}

func (l *Lattice) place(i int, j *shape.Junction, symbol byte, gen uint64) bool {
	s := &l.sites[i]
	s.occupied++
	if s.occupied > 1 {
		return false
	}
	s.symbol = symbol
	s.claimGen, s.claimNode = gen, j

	if !l.hasLinks(s, j) {
		return false
	}
	ok := true
	for k, b := range j.Branches {
		ok = l.place(s.Neighbor(j.Directions[k]), b, symbol, gen) && ok
	}
	return ok
}

// Remove retracts the most recent placement, which must have been made with
// the same site and tree. It mirrors the walk of [Lattice.Place]: every
// visited site is decremented once; a site the placement claimed is reset to
// [Free] and the walk continues into its branches, while an overlapped site is
// left to its owner and the walk stops there. Afterwards every counter and
// symbol is back at its value before the placement, whether it succeeded or
// failed part way.
//
// Remove panics if it does not match the most recent unretracted Place.
func (l *Lattice) Remove(i int, j *shape.Junction) {
	n := len(l.stack)
	if n == 0 || l.stack[n-1].site != i {
		panic("lattice: Remove does not match the most recent Place")
	}
	gen := l.stack[n-1].gen
	l.stack = l.stack[:n-1]
	l.remove(i, j, gen)
}

func (l *Lattice) remove(i int, j *shape.Junction, gen uint64) {
	s := &l.sites[i]
	s.occupied--
	if s.claimGen != gen || s.claimNode != j {
		return // overlap visit
	}
	s.symbol = Free
	s.claimGen, s.claimNode = 0, nil

	if l.hasLinks(s, j) {
		for k, b := range j.Branches {
			l.remove(s.Neighbor(j.Directions[k]), b, gen)
		}
	}
}

// hasLinks reports whether s has a link for every branch direction of j.
func (l *Lattice) hasLinks(s *Site, j *shape.Junction) bool {
	for _, d := range j.Directions {
		if s.Neighbor(d) == NoSite {
			return false
		}
	}
	return true
}

// Claimed returns the sites the tree rooted at j covers when anchored at
// site i, in the order Place visits them, and whether every branch direction
// resolved. It does not touch occupancy.
func (l *Lattice) Claimed(i int, j *shape.Junction) ([]int, bool) {
	var sites []int
	ok := true
	var walk func(int, *shape.Junction)
	walk = func(i int, j *shape.Junction) {
		sites = append(sites, i)
		s := &l.sites[i]
		if !l.hasLinks(s, j) {
			ok = false
			return
		}
		for k, b := range j.Branches {
			walk(s.Neighbor(j.Directions[k]), b)
		}
	}
	walk(i, j)
	return sites, ok
}
