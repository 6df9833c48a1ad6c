// Package dynamo provides the shared primitives of the rope simulator.
//
// The package defines the value types and contracts every other package
// speaks in:
//
//   - [Vec2]: 2-D vector with a zero-safe [Vec2.Normalize]
//   - [Params]: per-step solver parameters with domain validation
//   - [Driver]: source of the controlled particle's target position
//   - [Config]: run length and recording options for the simulator
//
// # Example
//
//	p := dynamo.DefaultParams()
//	if err := p.Validate(); err != nil {
//	    return err
//	}
//	chain, _ := physics.NewChain(20, p.RestLength)
//	_ = physics.SpringSolver{}.Step(chain, p)
//
// # Errors
//
// Input validation failures wrap [ErrInvalidConfiguration] or
// [ErrInvalidParameter]; test with errors.Is.
package dynamo
