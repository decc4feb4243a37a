package metrics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/lorentz/internal/dynamo"
	"github.com/san-kum/lorentz/internal/vec"
)

func TestKineticEnergy(t *testing.T) {
	tests := []struct {
		name     string
		p        dynamo.Particle
		expected float64
	}{
		{"at rest", dynamo.Particle{Mass: 1}, 0},
		{"unit mass", dynamo.Particle{Velocity: vec.New(3, 4, 0), Mass: 1}, 12.5},
		{"heavy", dynamo.Particle{Velocity: vec.New(1, 2, 2), Mass: 4}, 18},
		{"charge ignored", dynamo.Particle{Velocity: vec.New(0, 0, 2), Mass: 1, Charge: -1}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KineticEnergy(tt.p); math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestEnergyReset(t *testing.T) {
	m := NewEnergy()

	m.Observe(dynamo.Frame{Energy: 2})
	m.Observe(dynamo.Frame{Energy: 4})
	if m.Value() != 3 {
		t.Errorf("expected mean energy 3, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift()

	for _, e := range []float64{2, 2.1, 1.8, 2} {
		m.Observe(dynamo.Frame{Energy: e})
	}
	if math.Abs(m.Value()-0.1) > 1e-12 {
		t.Errorf("expected max drift 0.1, got %f", m.Value())
	}

	m.Observe(dynamo.Frame{Energy: math.NaN()})
	if !math.IsInf(m.Value(), 1) {
		t.Errorf("expected infinite drift after NaN, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestStability(t *testing.T) {
	m := NewStability()
	if m.Value() != 1 {
		t.Errorf("expected 1 with no samples, got %f", m.Value())
	}

	m.Observe(dynamo.Frame{Time: 0})
	m.Observe(dynamo.Frame{Time: 0.1, Position: vec.New(math.Inf(1), 0, 0)})
	m.Observe(dynamo.Frame{Time: 0.2, Velocity: vec.New(math.NaN(), 0, 0)})
	m.Observe(dynamo.Frame{Time: 0.3})

	if m.Value() != 0.5 {
		t.Errorf("expected stability 0.5, got %f", m.Value())
	}

	var fe *dynamo.FrameError
	err := m.Err()
	if !errors.As(err, &fe) {
		t.Fatalf("expected FrameError, got %v", err)
	}
	if fe.Index != 1 || fe.Time != 0.1 {
		t.Errorf("expected first blow-up at frame 1 t=0.1, got frame %d t=%g", fe.Index, fe.Time)
	}
	if !errors.Is(err, dynamo.ErrNonFinite) {
		t.Error("expected error to wrap ErrNonFinite")
	}

	m.Reset()
	if m.Err() != nil {
		t.Error("expected no error after reset")
	}
}

func TestSummarize(t *testing.T) {
	frames := []dynamo.Frame{
		{Time: 0, Position: vec.New(1, 0, 0), Energy: 1},
		{Time: 1, Position: vec.New(0, 2, 0), Energy: 1.5},
		{Time: 2, Position: vec.New(0, 0, 3), Energy: 1},
	}

	s := Summarize(frames)
	if s.Frames != 3 || !s.Finite {
		t.Fatalf("unexpected summary %+v", s)
	}
	if math.Abs(s.EnergyMean-3.5/3) > 1e-12 {
		t.Errorf("expected mean %f, got %f", 3.5/3, s.EnergyMean)
	}
	if math.Abs(s.EnergyDrift-0.5) > 1e-12 {
		t.Errorf("expected drift 0.5, got %f", s.EnergyDrift)
	}
	if s.MinRadius != 1 || s.MaxRadius != 3 {
		t.Errorf("expected radius range [1, 3], got [%f, %f]", s.MinRadius, s.MaxRadius)
	}

	frames = append(frames, dynamo.Frame{Time: 3, Position: vec.New(math.NaN(), 0, 0), Energy: math.NaN()})
	s = Summarize(frames)
	if s.Finite || s.BlowUpTime != 3 {
		t.Errorf("expected blow-up at t=3, got %+v", s)
	}
	if s.Stability != 0.75 {
		t.Errorf("expected stability 0.75, got %f", s.Stability)
	}
	if math.IsNaN(s.EnergyMean) {
		t.Error("energy statistics should ignore non-finite frames")
	}
}
