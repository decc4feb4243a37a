package integrators

import (
	"github.com/san-kum/lorentz/internal/dynamo"
	"github.com/san-kum/lorentz/internal/vec"
)

// RK4 is the classical fixed-step Runge-Kutta scheme applied to the coupled
// position/velocity system, with Model supplying dv/dt and the velocity
// itself supplying dr/dt.
type RK4 struct {
	Model dynamo.Accelerator
}

func NewRK4(model dynamo.Accelerator) *RK4 {
	return &RK4{Model: model}
}

// Advance returns the state one step of size dt after p, which is at time t.
// Every stage evaluates a fresh trial state built from p; p itself is never
// modified. Non-finite accelerations propagate into the result.
func (r *RK4) Advance(p dynamo.Particle, t, dt float64) dynamo.Particle {
	half := 0.5 * dt

	k1 := r.Model.Acceleration(p, t).Scale(dt)
	l1 := p.Velocity.Scale(dt)

	s2 := p.Offset(l1.Scale(0.5), k1.Scale(0.5))
	k2 := r.Model.Acceleration(s2, t+half).Scale(dt)
	l2 := s2.Velocity.Scale(dt)

	s3 := p.Offset(l2.Scale(0.5), k2.Scale(0.5))
	k3 := r.Model.Acceleration(s3, t+half).Scale(dt)
	l3 := s3.Velocity.Scale(dt)

	s4 := p.Offset(l3, k3)
	k4 := r.Model.Acceleration(s4, t+dt).Scale(dt)
	l4 := s4.Velocity.Scale(dt)

	dv := weighted(k1, k2, k3, k4)
	dr := weighted(l1, l2, l3, l4)

	return p.Offset(dr, dv)
}

// weighted returns (a + 2b + 2c + d)/6.
func weighted(a, b, c, d vec.Vector3) vec.Vector3 {
	return a.Add(b.Add(c).Scale(2)).Add(d).Scale(1.0 / 6.0)
}
