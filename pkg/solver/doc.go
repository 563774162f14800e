// Package solver enumerates every tiling of a lattice by a set of pieces.
//
// The search is a depth-first backtracking over the lowest free site: at
// each step the first free site in scan order becomes the anchor, and every
// unused piece is tried there in every configuration, in the order supplied.
// A configuration that places cleanly recurses one level deeper; every
// attempt, successful or not, is retracted before the next one. When no free
// site remains the current filling is emitted as a solution.
//
// Because the anchor is always the lowest free site and pieces and
// configurations are tried in list order, the solutions of a given input are
// produced in a fixed order. Symmetric solutions are not merged; a board
// with rotational symmetry reports each symmetric variant.
//
// # Usage
//
//	s := &solver.Solver{
//	    Lattice: lat,
//	    Pieces:  pieces,
//	    Options: solver.Options{
//	        OnSolution: func(sol solver.Solution) error {
//	            fmt.Println(sol.Text)
//	            return nil
//	        },
//	    },
//	}
//	res, err := s.Solve(ctx)
//
// A Solver mutates its lattice and pieces while it runs and is not safe for
// concurrent use. After Solve returns, every site is free again, including
// when the search was stopped early.
package solver
