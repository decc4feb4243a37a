package physics

import (
	"math"

	"github.com/san-kum/lorentz/internal/dynamo"
	"github.com/san-kum/lorentz/internal/field"
	"github.com/san-kum/lorentz/internal/vec"
)

// Lorentz evaluates the force on a point charge in the fields it carries.
type Lorentz struct {
	Fields field.EM
}

func NewLorentz(fields field.EM) *Lorentz {
	return &Lorentz{Fields: fields}
}

// Force returns q(E + v × B) at the particle's position and time t.
func (l *Lorentz) Force(p dynamo.Particle, t float64) vec.Vector3 {
	return l.fieldTerm(p, t).Scale(p.Charge)
}

// Acceleration is the velocity right-hand side of the equations of motion,
// (q/m)(E + v × B). Mass must be positive.
func (l *Lorentz) Acceleration(p dynamo.Particle, t float64) vec.Vector3 {
	return l.fieldTerm(p, t).Scale(p.Charge / p.Mass)
}

// fieldTerm is E + v × B.
func (l *Lorentz) fieldTerm(p dynamo.Particle, t float64) vec.Vector3 {
	e := l.Fields.Electric(p.Position, t)
	b := l.Fields.Magnetic(p.Position, t)
	return e.Add(p.Velocity.Cross(b))
}

// Gyration returns the Larmor radius and cyclotron period for motion in a
// local field b, using the velocity component perpendicular to b.
func Gyration(p dynamo.Particle, b vec.Vector3) (radius, period float64) {
	bmag := b.Norm()
	if bmag == 0 || p.Charge == 0 {
		return 0, 0
	}
	vpar := p.Velocity.Dot(b) / bmag
	vperp2 := p.Velocity.Norm2() - vpar*vpar
	if vperp2 < 0 {
		vperp2 = 0
	}
	omega := math.Abs(p.Charge) * bmag / p.Mass
	return math.Sqrt(vperp2) / omega, 2 * math.Pi / omega
}
