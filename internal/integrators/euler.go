package integrators

import "github.com/san-kum/lorentz/internal/dynamo"

// Euler is the explicit first-order scheme. It does not conserve energy in a
// pure magnetic field and is kept as a baseline for comparisons against RK4.
type Euler struct {
	Model dynamo.Accelerator
}

func NewEuler(model dynamo.Accelerator) *Euler {
	return &Euler{Model: model}
}

func (e *Euler) Advance(p dynamo.Particle, t, dt float64) dynamo.Particle {
	a := e.Model.Acceleration(p, t)
	return p.Offset(p.Velocity.Scale(dt), a.Scale(dt))
}
