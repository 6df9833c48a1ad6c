// Package control provides drivers for the rope's controlled end.
//
// Drivers implement [dynamo.Driver] and decide, once per step, whether
// something holds the free end and where:
//
//   - [None]: nothing holds the end, it swings freely
//   - [Manual]: a host sets the position (mouse drag)
//   - [Orbit]: the end is walked around a circle
//   - [PID]: a hand chases a target point under a PID law
//
// # Usage
//
//	drv := control.NewOrbit(dynamo.V(300, 130), 40, 2.0)
//	sim := sim.New(chain, physics.NewSpringSolver(), params, drv)
//	// Driver.Target is called before every step
//
// Drivers implementing Configurable support live tuning.
package control
