// Package field provides electric and magnetic field evaluators.
//
// A [Field] is a pure function of position and time. Evaluators hold no
// mutable state and may be called in any order from any goroutine. The
// force model receives fields through [EM], so alternative configurations
// can be substituted without touching the integrator:
//
//	em := field.EM{E: field.Zero{}, B: field.Dipole{Moment: 1}}
//	model := physics.NewLorentz(em)
package field

import (
	"math"

	"github.com/san-kum/lorentz/internal/vec"
)

type Field interface {
	At(r vec.Vector3, t float64) vec.Vector3
}

// Func adapts an ordinary function to the Field interface.
type Func func(r vec.Vector3, t float64) vec.Vector3

func (f Func) At(r vec.Vector3, t float64) vec.Vector3 { return f(r, t) }

// EM pairs the electric and magnetic fields acting on a particle.
// A nil member is treated as a zero field.
type EM struct {
	E Field
	B Field
}

func (em EM) Electric(r vec.Vector3, t float64) vec.Vector3 {
	if em.E == nil {
		return vec.Vector3{}
	}
	return em.E.At(r, t)
}

func (em EM) Magnetic(r vec.Vector3, t float64) vec.Vector3 {
	if em.B == nil {
		return vec.Vector3{}
	}
	return em.B.At(r, t)
}

type Zero struct{}

func (Zero) At(vec.Vector3, float64) vec.Vector3 { return vec.Vector3{} }

// Uniform is constant in space and time.
type Uniform struct {
	V vec.Vector3
}

func (u Uniform) At(vec.Vector3, float64) vec.Vector3 { return u.V }

// Dipole is the field of a point magnetic dipole at the origin, aligned with
// -z and scaled by Moment:
//
//	Bx = -3xz/r^5, By = -3yz/r^5, Bz = -(2z^2 - x^2 - y^2)/r^5
//
// The field is singular at the origin. It is not guarded: evaluating at r = 0
// yields NaN components, which propagate through the integrator so the
// stability diagnostics can report the blow-up. Callers choose initial
// conditions that keep the particle away from the origin.
type Dipole struct {
	Moment float64
}

func (d Dipole) At(r vec.Vector3, _ float64) vec.Vector3 {
	inv5 := d.Moment / math.Pow(r.Norm(), 5)
	return vec.Vector3{
		X: -inv5 * 3 * r.X * r.Z,
		Y: -inv5 * 3 * r.Y * r.Z,
		Z: -inv5 * (2*r.Z*r.Z - r.X*r.X - r.Y*r.Y),
	}
}

// Sum superposes fields.
func Sum(fields ...Field) Field {
	return Func(func(r vec.Vector3, t float64) vec.Vector3 {
		var total vec.Vector3
		for _, f := range fields {
			total = total.Add(f.At(r, t))
		}
		return total
	})
}

// Negate reverses the direction of f everywhere.
func Negate(f Field) Field {
	return Func(func(r vec.Vector3, t float64) vec.Vector3 {
		return f.At(r, t).Scale(-1)
	})
}
