package analysis

import (
	"errors"
	"math"

	"github.com/san-kum/lorentz/internal/dynamo"
	"github.com/san-kum/lorentz/internal/vec"
	"gonum.org/v1/gonum/stat"
)

var ErrTooShort = errors.New("analysis: trajectory covers fewer than two gyrations")

// Gyration describes motion about a field direction, measured from frames.
type Gyration struct {
	Period       float64     `json:"period"`
	PeriodStdDev float64     `json:"period_stddev"`
	Radius       float64     `json:"radius"`
	RadiusStdDev float64     `json:"radius_stddev"`
	Parallel     float64     `json:"parallel_velocity"`
	Drift        vec.Vector3 `json:"drift"`
	Cycles       int         `json:"cycles"`
}

// EstimateGyration measures the gyration about axis. Cycles are delimited by
// upward zero crossings of one perpendicular velocity component after its mean
// is removed, so a steady drift does not hide the oscillation. Frames must be
// equally spaced in time and finite.
func EstimateGyration(frames []dynamo.Frame, axis vec.Vector3) (Gyration, error) {
	var g Gyration
	if axis.Norm() == 0 || len(frames) < 3 {
		return g, ErrTooShort
	}
	b := axis.Scale(1 / axis.Norm())
	u := perpendicular(b)

	vu := make([]float64, len(frames))
	par := make([]float64, len(frames))
	for i, f := range frames {
		vu[i] = f.Velocity.Dot(u)
		par[i] = f.Velocity.Dot(b)
	}
	mean := stat.Mean(vu, nil)

	// crossing times and the frame index just after each crossing
	var times []float64
	var index []int
	for i := 1; i < len(frames); i++ {
		a, c := vu[i-1]-mean, vu[i]-mean
		if a < 0 && c >= 0 {
			frac := -a / (c - a)
			times = append(times, frames[i-1].Time+frac*(frames[i].Time-frames[i-1].Time))
			index = append(index, i)
		}
	}
	if len(times) < 3 {
		return g, ErrTooShort
	}

	periods := make([]float64, len(times)-1)
	for i := range periods {
		periods[i] = times[i+1] - times[i]
	}
	g.Period, g.PeriodStdDev = stat.MeanStdDev(periods, nil)
	g.Cycles = len(periods)
	g.Parallel = stat.Mean(par, nil)

	// guiding centre of each complete cycle
	centres := make([]vec.Vector3, g.Cycles)
	mids := make([]float64, g.Cycles)
	for c := range centres {
		span := frames[index[c]:index[c+1]]
		for _, f := range span {
			centres[c] = centres[c].Add(f.Position)
			mids[c] += f.Time
		}
		centres[c] = centres[c].Scale(1 / float64(len(span)))
		mids[c] /= float64(len(span))
	}

	last := len(centres) - 1
	shift := centres[last].Sub(centres[0])
	shift = shift.Sub(b.Scale(shift.Dot(b)))
	g.Drift = shift.Scale(1 / (mids[last] - mids[0]))

	radii := make([]float64, 0, len(frames))
	for c := range centres {
		for _, f := range frames[index[c]:index[c+1]] {
			centre := centres[c].Add(g.Drift.Scale(f.Time - mids[c]))
			d := f.Position.Sub(centre)
			d = d.Sub(b.Scale(d.Dot(b)))
			radii = append(radii, d.Norm())
		}
	}
	g.Radius, g.RadiusStdDev = stat.MeanStdDev(radii, nil)
	return g, nil
}

// perpendicular returns a unit vector orthogonal to the unit vector b.
func perpendicular(b vec.Vector3) vec.Vector3 {
	ref := vec.New(1, 0, 0)
	if math.Abs(b.X) > 0.9 {
		ref = vec.New(0, 1, 0)
	}
	p := b.Cross(ref)
	return p.Scale(1 / p.Norm())
}
