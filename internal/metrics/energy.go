package metrics

import (
	"math"

	"github.com/san-kum/lorentz/internal/dynamo"
)

// KineticEnergy returns ½·m·|v|².
func KineticEnergy(p dynamo.Particle) float64 {
	return 0.5 * p.Mass * p.Velocity.Norm2()
}

// Energy reports the mean kinetic energy over the observed frames.
type Energy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(f dynamo.Frame) {
	e.totalEnergy += f.Energy
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift reports the largest relative deviation |E - E0|/|E0| from the
// first observed frame. In a pure magnetic field it measures integration
// error, since the magnetic force does no work.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(f dynamo.Frame) {
	if e.samples == 0 {
		e.initialEnergy = f.Energy
	}

	e.currentEnergy = f.Energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(f.Energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		if math.IsNaN(drift) {
			drift = math.Inf(1)
		}
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
