package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/lorentz/internal/dynamo"
	"github.com/san-kum/lorentz/internal/metrics"
	"github.com/san-kum/lorentz/internal/vec"
)

// countingStepper moves the particle one unit along x per step and records
// the times it was called with.
type countingStepper struct {
	times []float64
}

func (c *countingStepper) Advance(p dynamo.Particle, t, dt float64) dynamo.Particle {
	c.times = append(c.times, t)
	p.Position.X++
	return p
}

func TestSamplerRun(t *testing.T) {
	stepper := &countingStepper{}
	s := New(stepper)

	tc := dynamo.TimeConfig{Duration: 1.0, Dt: 0.1, Stride: 3}
	p0 := dynamo.Ion.Apply(vec.Vector3{}, vec.New(0, 2, 0))

	frames := s.Run(p0, tc)

	if len(frames) != 4 {
		t.Fatalf("expected 4 frames, got %d", len(frames))
	}

	// 3 frames of 3 sub-steps each; no stepping after the final frame.
	if len(stepper.times) != 9 {
		t.Errorf("expected 9 steps, got %d", len(stepper.times))
	}
	for k, got := range stepper.times {
		if want := float64(k) * 0.1; got != want {
			t.Errorf("step %d: expected t=%g, got %g", k, want, got)
		}
	}

	for i, f := range frames {
		if want := float64(i*3) * 0.1; f.Time != want {
			t.Errorf("frame %d: expected t=%g, got %g", i, want, f.Time)
		}
		if want := float64(i * 3); f.Position.X != want {
			t.Errorf("frame %d: expected x=%g, got %g", i, want, f.Position.X)
		}
		if f.Energy != 2 {
			t.Errorf("frame %d: expected energy 2, got %g", i, f.Energy)
		}
	}
}

func TestSamplerInvalidConfig(t *testing.T) {
	s := New(&countingStepper{})
	p0 := dynamo.Ion.Apply(vec.New(1, 0, 0), vec.Vector3{})

	tests := []struct {
		name string
		cfg  dynamo.TimeConfig
	}{
		{"zero dt", dynamo.TimeConfig{Dt: 0, Duration: 1.0, Stride: 1}},
		{"negative dt", dynamo.TimeConfig{Dt: -0.1, Duration: 1.0, Stride: 1}},
		{"negative duration", dynamo.TimeConfig{Dt: 0.1, Duration: -1.0, Stride: 1}},
		{"zero stride", dynamo.TimeConfig{Dt: 0.1, Duration: 1.0, Stride: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Simulate(context.Background(), p0, tt.cfg)
			if !errors.Is(err, dynamo.ErrInvalidTimeConfig) {
				t.Errorf("expected ErrInvalidTimeConfig, got %v", err)
			}
		})
	}

	bad := p0
	bad.Mass = -1
	_, err := s.Simulate(context.Background(), bad, dynamo.TimeConfig{Dt: 0.1, Duration: 1, Stride: 1})
	if !errors.Is(err, dynamo.ErrInvalidMass) {
		t.Errorf("expected ErrInvalidMass, got %v", err)
	}
}

func TestSamplerMetrics(t *testing.T) {
	s := New(&countingStepper{})
	for _, m := range metrics.Default() {
		s.AddMetric(m)
	}

	p0 := dynamo.Ion.Apply(vec.New(1, 0, 0), vec.New(1, 0, 0))
	result, err := s.Simulate(context.Background(), p0, dynamo.TimeConfig{Dt: 0.1, Duration: 1.0, Stride: 2})
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}

	if len(result.Frames) != 6 {
		t.Errorf("expected 6 frames, got %d", len(result.Frames))
	}
	for _, name := range []string{"energy", "energy_drift", "stability"} {
		if _, ok := result.Metrics[name]; !ok {
			t.Errorf("metric %s not found in result", name)
		}
	}
	if result.Metrics["energy"] != 0.5 {
		t.Errorf("expected mean energy 0.5, got %f", result.Metrics["energy"])
	}
	if result.Metrics["stability"] != 1 {
		t.Errorf("expected stability 1, got %f", result.Metrics["stability"])
	}
}

func TestSamplerStreamStops(t *testing.T) {
	s := New(&countingStepper{})
	p0 := dynamo.Ion.Apply(vec.Vector3{}, vec.Vector3{})
	tc := dynamo.TimeConfig{Dt: 0.1, Duration: 1.0, Stride: 1}

	stop := errors.New("stop")
	seen := 0
	err := s.Stream(context.Background(), p0, tc, func(f dynamo.Frame) error {
		seen++
		if seen == 3 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Errorf("expected emit error, got %v", err)
	}
	if seen != 3 {
		t.Errorf("expected 3 frames before stopping, got %d", seen)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	seen = 0
	err = s.Stream(ctx, p0, tc, func(dynamo.Frame) error {
		seen++
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if seen != 0 {
		t.Errorf("expected no frames after cancel, got %d", seen)
	}
}

// cancelStepper cancels its context after a fixed number of steps.
type cancelStepper struct {
	after  int
	steps  int
	cancel context.CancelFunc
}

func (c *cancelStepper) Advance(p dynamo.Particle, t, dt float64) dynamo.Particle {
	c.steps++
	if c.steps == c.after {
		c.cancel()
	}
	return p
}

func TestSamplerStreamStopsMidStride(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stepper := &cancelStepper{after: 5, cancel: cancel}
	s := New(stepper)

	// one stride of a million steps between the two frames
	tc := dynamo.TimeConfig{Dt: 1, Duration: 1e6, Stride: 1000000}
	p0 := dynamo.Ion.Apply(vec.Vector3{}, vec.Vector3{})

	seen := 0
	err := s.Stream(ctx, p0, tc, func(dynamo.Frame) error {
		seen++
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if seen != 1 {
		t.Errorf("expected only the initial frame, got %d", seen)
	}
	if stepper.steps != 5 {
		t.Errorf("expected stepping to stop at the cancel, got %d steps", stepper.steps)
	}
}

func TestSimulateToTeesFrames(t *testing.T) {
	s := New(&countingStepper{})
	tc := dynamo.TimeConfig{Duration: 1.0, Dt: 0.1, Stride: 2}
	p0 := dynamo.Ion.Apply(vec.Vector3{}, vec.New(1, 0, 0))

	var seen []dynamo.Frame
	result, err := s.SimulateTo(context.Background(), p0, tc, func(f dynamo.Frame) error {
		seen = append(seen, f)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(seen) != len(result.Frames) || len(seen) != tc.FrameCount() {
		t.Fatalf("expected %d teed frames, got %d (result %d)", tc.FrameCount(), len(seen), len(result.Frames))
	}

	stop := errors.New("disk full")
	_, err = s.SimulateTo(context.Background(), p0, tc, func(dynamo.Frame) error { return stop })
	if !errors.Is(err, stop) {
		t.Errorf("expected emit error to surface, got %v", err)
	}
}
