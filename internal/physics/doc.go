// Package physics implements the rope: a chain of particles joined by
// springs and the solvers that advance it.
//
//   - [Chain]: fixed-length particle sequence, anchor at index 0, controlled
//     end at the last index
//   - [SpringSolver]: sequential pairwise update, the default model
//   - [JacobiSolver]: simultaneous variant kept for comparison
//
// # Stepping
//
//	chain, _ := physics.NewChainAt(dynamo.V(300, 100), 20, 1)
//	solver := physics.NewSpringSolver()
//	for frame := 0; frame < 600; frame++ {
//	    if dragging {
//	        chain.SetControlledPosition(cursor)
//	    }
//	    if err := solver.Step(chain, params); err != nil {
//	        return err
//	    }
//	    draw(chain.Positions())
//	}
//
// Only parameter or chain validation can fail. A zero-length segment
// normalizes to a zero direction, so the arithmetic never yields NaN from
// finite input.
package physics
