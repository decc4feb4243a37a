// Package dynamo defines the shared types of the integrator.
//
//   - [Particle]: position, velocity, charge and mass
//   - [Accelerator]: maps a particle and time to its acceleration
//   - [Stepper]: advances a particle by one time step
//   - [TimeConfig]: duration, step and output stride of a run
//   - [Frame] and [Result]: recorded samples and run output
//   - [Metric]: diagnostics accumulated over frames
//
// # Example
//
//	model := physics.NewLorentz(field.EM{B: field.Dipole{Moment: 1}})
//	s := sim.New(integrators.NewRK4(model))
//	frames := s.Run(dynamo.Ion.Apply(r0, v0), dynamo.TimeConfig{Duration: 10, Dt: 0.01, Stride: 10})
//
// All values are plain data; a Particle is never modified in place.
package dynamo
