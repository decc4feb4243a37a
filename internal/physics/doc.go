// Package physics provides the force model for a charged particle.
//
// [Lorentz] turns an [field.EM] pair into the right-hand side of the
// equations of motion:
//
//	dr/dt = v
//	dv/dt = (q/m)(E(r, t) + v × B(r, t))
//
// It holds no state between calls. [Gyration] gives the analytic Larmor
// radius and cyclotron period used to check trajectories in uniform fields.
package physics
