package dynamo

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/lorentz/internal/vec"
)

// Particle is the integrated state. It is passed by value; steppers return a
// successor instead of modifying their argument.
type Particle struct {
	Position vec.Vector3
	Velocity vec.Vector3
	Charge   float64
	Mass     float64
}

func (p Particle) IsValid() bool {
	return p.Position.IsFinite() && p.Velocity.IsFinite()
}

// Offset returns p displaced by dr in position and dv in velocity.
func (p Particle) Offset(dr, dv vec.Vector3) Particle {
	p.Position = p.Position.Add(dr)
	p.Velocity = p.Velocity.Add(dv)
	return p
}

// Accelerator is the velocity right-hand side of the equations of motion.
type Accelerator interface {
	Acceleration(p Particle, t float64) vec.Vector3
}

// Stepper advances a particle by one fixed step of size dt starting at time t.
type Stepper interface {
	Advance(p Particle, t, dt float64) Particle
}

// Metric observes recorded frames.
type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Species int

const (
	Ion Species = iota
	Electron
)

func (s Species) String() string {
	switch s {
	case Electron:
		return "electron"
	default:
		return "ion"
	}
}

// ChargeMass returns the (charge, mass) pair of the species in code units.
func (s Species) ChargeMass() (float64, float64) {
	switch s {
	case Electron:
		return -1.0, 1.0
	default:
		return 1.0, 1.0
	}
}

func (s Species) Apply(position, velocity vec.Vector3) Particle {
	q, m := s.ChargeMass()
	return Particle{Position: position, Velocity: velocity, Charge: q, Mass: m}
}

func ParseSpecies(code string) (Species, error) {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "i", "ion":
		return Ion, nil
	case "e", "electron":
		return Electron, nil
	}
	return Ion, fmt.Errorf("%w: %q", ErrUnknownSpecies, code)
}

// Upper bounds on the integration grid. A run records every frame in memory,
// so the frame cap bounds the result size as well.
const (
	MaxSteps  = 1 << 40
	MaxFrames = 1 << 26
)

type TimeConfig struct {
	Duration float64 `json:"duration" yaml:"duration"`
	Dt       float64 `json:"dt" yaml:"dt"`
	Stride   int     `json:"stride" yaml:"stride"`
}

// TotalSteps is floor(Duration/Dt).
func (c TimeConfig) TotalSteps() int {
	return int(math.Floor(c.Duration / c.Dt))
}

// FrameCount includes the initial frame recorded before any step.
func (c TimeConfig) FrameCount() int {
	return c.TotalSteps()/c.Stride + 1
}

func (c TimeConfig) Validate() error {
	if !(c.Dt > 0) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidTimeConfig, c.Dt)
	}
	if !(c.Duration >= 0) || math.IsInf(c.Duration, 0) {
		return fmt.Errorf("%w: duration must be non-negative, got %g", ErrInvalidTimeConfig, c.Duration)
	}
	if c.Stride < 1 {
		return fmt.Errorf("%w: stride must be at least 1, got %d", ErrInvalidTimeConfig, c.Stride)
	}
	if steps := math.Floor(c.Duration / c.Dt); !(steps <= MaxSteps) {
		return fmt.Errorf("%w: duration/dt gives %g steps, limit is %d", ErrInvalidTimeConfig, steps, MaxSteps)
	}
	if frames := c.FrameCount(); frames > MaxFrames {
		return fmt.Errorf("%w: %d frames requested, limit is %d; raise the stride", ErrInvalidTimeConfig, frames, MaxFrames)
	}
	return nil
}

// Frame is one recorded sample of a trajectory.
type Frame struct {
	Time     float64
	Position vec.Vector3
	Velocity vec.Vector3
	Energy   float64
}

// Row returns the output columns: time, position, velocity.
func (f Frame) Row() [7]float64 {
	return [7]float64{
		f.Time,
		f.Position.X, f.Position.Y, f.Position.Z,
		f.Velocity.X, f.Velocity.Y, f.Velocity.Z,
	}
}

func (f Frame) IsValid() bool {
	return f.Position.IsFinite() && f.Velocity.IsFinite() &&
		!math.IsNaN(f.Energy) && !math.IsInf(f.Energy, 0)
}

type Result struct {
	Species Species
	Initial Particle
	Time    TimeConfig
	Frames  []Frame
	Metrics map[string]float64
}

// Energies returns the (time, energy) series of the frames.
func (r *Result) Energies() ([]float64, []float64) {
	times := make([]float64, len(r.Frames))
	energies := make([]float64, len(r.Frames))
	for i, f := range r.Frames {
		times[i] = f.Time
		energies[i] = f.Energy
	}
	return times, energies
}
