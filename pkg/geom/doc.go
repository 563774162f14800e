// Package geom provides the integer direction vectors shared by lattices and
// piece shapes.
//
// A [Direction] labels both sides of a placement: lattice sites store the
// directions of their outgoing links, and shape trees store the directions of
// their branches. A branch fits a site exactly when the site has a link with
// an equal direction, so Direction is a plain comparable value and equality is
// the only matching rule.
//
// # Orientations
//
// Puzzle pieces are usually described once and then rotated and mirrored into
// every orientation they may take on the board. The transforms in this package
// ([Direction.RotateZ], [Direction.MirrorX], [Direction.MirrorPlane]) operate on
// single directions; package shape lifts them to whole shape trees.
package geom
