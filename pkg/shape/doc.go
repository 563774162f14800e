// Package shape models rigid piece configurations as trees of junctions.
//
// # Junctions
//
// A [Junction] is one cell of a piece. Its Branches are the cells directly
// connected to it and Directions holds, index for index, the displacement that
// leads to each branch. A junction without branches is a single cell. The root
// of a tree is the seed: during a placement attempt the seed is anchored on a
// lattice site and the rest of the tree is walked through the lattice links.
//
// Shape trees are built once and never mutated afterwards, so configurations
// may be shared freely between pieces and goroutines.
//
// # Notation
//
// [Parse] reads the bracket notation the puzzle files use. A branch is a
// bracketed list whose elements are either directions, which extend the
// chain, or a fork, which splits the current cell into several branches:
//
//	[ (1,0,0), [[ (1,0,0) ], [ (0,1,0) ]] ]
//
// reads as: go right; from there go right again, and also go down. A fork is
// always the last element of its branch. [Junction.String] produces the same
// notation, so Parse(j.String()) rebuilds an equal tree.
//
// # Orientations
//
// [Orientations] expands one configuration into the rotated and mirrored
// variants selected by a [Mode].
package shape
