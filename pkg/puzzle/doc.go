// Package puzzle loads puzzle definitions: a lattice and the pieces to tile
// it with, written as TOML.
//
// # File format
//
//	name = "domino-2x2"
//	description = "Two dominoes on a 2x2 board"
//
//	[lattice]
//	kind = "box"   # or "pyramid"
//	x = 2
//	y = 2
//	z = 1          # box only, defaults to 1
//	# levels = 3   # pyramid only
//
//	[[pieces]]
//	symbol = "A"
//	name = "domino"
//	orientation = "flat-rotations"
//	shapes = ["[ (1,0,0) ]"]
//
// Shapes use the bracket notation of [shape.Parse]. Every shape of a piece is
// expanded into the configurations its orientation mode produces (see
// [shape.Orientations]); setting dedupe = true at the top level drops
// configurations that cover the same cells.
//
// A handful of small puzzles ship with the binary; see [Builtins].
package puzzle
