// Package pkg provides the libraries behind latticetile, an exhaustive
// tiling search over 3D lattices.
//
// # Overview
//
// A puzzle is a lattice of sites joined by directional links and a set of
// pieces, each a tree of cells in one or more orientations. The search
// places pieces at the first free site in scan order until the lattice is
// full, then backtracks, reporting every complete tiling.
//
//  1. [geom] - Directions and their rotations and mirrors
//  2. [shape] - Piece shapes as junction trees, bracket notation, orientations
//  3. [piece] - Pieces with their configurations and search state
//  4. [lattice] - Sites, links, placement and retraction
//  5. [solver] - The backtracking search
//  6. [puzzle] - TOML puzzle definitions and the built-in puzzles
//  7. [pipeline] - Cached search runs shared by the CLI and the server
//
// Supporting packages: [cache] (file, Redis and null result caches), [sink]
// (text, JSON, grid and MongoDB solution output), [server] (HTTP API),
// [observability] (hooks), [errors] (coded errors) and [buildinfo].
//
// # Data flow
//
//	puzzle.Definition (TOML)
//	         ↓
//	    Build → lattice.Lattice + []*piece.Piece
//	         ↓
//	    solver.Solver.Solve
//	         ↓
//	    sink.Sink (stdout, MongoDB) and cache.Cache
package pkg
