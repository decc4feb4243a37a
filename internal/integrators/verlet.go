package integrators

import "github.com/san-kum/lorentz/internal/dynamo"

// Verlet is velocity Verlet. The second force evaluation uses the updated
// position with the old velocity, so the v × B term is only first-order
// accurate; it is offered for comparison runs.
type Verlet struct {
	Model dynamo.Accelerator
}

func NewVerlet(model dynamo.Accelerator) *Verlet {
	return &Verlet{Model: model}
}

func (v *Verlet) Advance(p dynamo.Particle, t, dt float64) dynamo.Particle {
	a := v.Model.Acceleration(p, t)

	next := p
	next.Position = p.Position.Add(p.Velocity.Scale(dt)).Add(a.Scale(0.5 * dt * dt))

	aNew := v.Model.Acceleration(next, t+dt)
	next.Velocity = p.Velocity.Add(a.Add(aNew).Scale(0.5 * dt))

	return next
}
