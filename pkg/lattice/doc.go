// Package lattice models the board of a tiling puzzle as a graph of sites.
//
// # Sites and links
//
// Every cell of the board is a site stored in an arena inside [Lattice] and
// addressed by a stable integer index. A site lists its outgoing links: the
// direction of each link and the index of the site it reaches. Adjacency is
// purely graph based; the X, Y and Z coordinates of a site are only used to
// identify and print it. Links are directed, so a builder that wants two
// sites to reach each other adds both links (see [Lattice.LinkBoth]).
//
// # Scan order
//
// Sites are grouped into rows and rows into layers. The grouping carries no
// adjacency; it fixes the total order in which [Lattice.NextFreeSite] looks
// for the next cell to fill: layer by layer, row by row, site by site.
//
// # Placement protocol
//
// [Lattice.Place] walks a piece's shape tree in lock-step with the links of
// the lattice, starting at an anchor site, and increments an occupancy
// counter on every site it visits. A counter of 2 marks an overlap. A shape
// that needs a link the site does not have (a piece reaching past the edge of
// the board) fails at that node. [Lattice.Remove] undoes exactly what the
// matching Place did, whether the placement succeeded or not:
//
//	ok := l.Place(site, seed, 'A')
//	if ok {
//	    // search deeper
//	}
//	l.Remove(site, seed) // always, even when ok is false
//
// Only occupancy mutates during a search; the link structure is fixed once
// the lattice is built. A Lattice is not safe for concurrent use.
//
// # Builders
//
// [Box] and [Pyramid] build the rectangular and pyramidal boards used by the
// bundled puzzles. Other geometries are built with [New], [Lattice.AddLayer],
// [Layer.AddRow], [Lattice.AddSite] and the link methods.
package lattice
