package metrics

import (
	"math"

	"github.com/san-kum/lorentz/internal/dynamo"
	"gonum.org/v1/gonum/stat"
)

// Summary condenses a trajectory's diagnostics.
type Summary struct {
	Frames       int     `json:"frames"`
	EnergyMean   float64 `json:"energy_mean"`
	EnergyStdDev float64 `json:"energy_stddev"`
	EnergyDrift  float64 `json:"energy_drift"`
	MaxRadius    float64 `json:"max_radius"`
	MinRadius    float64 `json:"min_radius"`
	Stability    float64 `json:"stability"`
	BlowUpTime   float64 `json:"blow_up_time,omitempty"`
	Finite       bool    `json:"finite"`
}

// Default returns the metrics recorded for every run.
func Default() []dynamo.Metric {
	return []dynamo.Metric{NewEnergy(), NewEnergyDrift(), NewStability()}
}

// Summarize computes statistics over frames. Energy statistics only use the
// finite prefix of the trajectory.
func Summarize(frames []dynamo.Frame) Summary {
	s := Summary{Frames: len(frames), Finite: true, MinRadius: math.Inf(1)}
	if len(frames) == 0 {
		s.MinRadius = 0
		return s
	}

	drift := NewEnergyDrift()
	stability := NewStability()
	energies := make([]float64, 0, len(frames))

	for i, f := range frames {
		stability.Observe(f)
		if !f.IsValid() {
			if s.Finite {
				s.Finite = false
				s.BlowUpTime = frames[i].Time
			}
			continue
		}
		if s.Finite {
			drift.Observe(f)
			energies = append(energies, f.Energy)
			r := f.Position.Norm()
			s.MaxRadius = math.Max(s.MaxRadius, r)
			s.MinRadius = math.Min(s.MinRadius, r)
		}
	}

	if len(energies) > 0 {
		s.EnergyMean, s.EnergyStdDev = stat.MeanStdDev(energies, nil)
	} else {
		s.MinRadius = 0
	}
	if math.IsNaN(s.EnergyStdDev) {
		s.EnergyStdDev = 0
	}
	s.EnergyDrift = drift.Value()
	s.Stability = stability.Value()
	return s
}
