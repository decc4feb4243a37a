package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/lorentz/internal/dynamo"
	"github.com/san-kum/lorentz/internal/metrics"
)

// Sampler drives a stepper over a time horizon and records frames every
// Stride steps. The recurrence is strictly sequential.
type Sampler struct {
	stepper dynamo.Stepper
	metrics []dynamo.Metric
}

func New(stepper dynamo.Stepper) *Sampler {
	return &Sampler{
		stepper: stepper,
		metrics: make([]dynamo.Metric, 0),
	}
}

func (s *Sampler) AddMetric(m dynamo.Metric) { s.metrics = append(s.metrics, m) }

// Run returns exactly tc.FrameCount() frames starting from p0. It assumes tc
// and p0 have been validated.
func (s *Sampler) Run(p0 dynamo.Particle, tc dynamo.TimeConfig) []dynamo.Frame {
	frames := make([]dynamo.Frame, 0, tc.FrameCount())
	_ = s.sample(context.Background(), p0, tc, func(f dynamo.Frame) error {
		frames = append(frames, f)
		return nil
	})
	return frames
}

// Stream hands each frame to emit as soon as it is recorded, so writing can
// proceed while integration continues. It stops early if ctx is done, checked
// before every step, or if emit returns an error.
func (s *Sampler) Stream(ctx context.Context, p0 dynamo.Particle, tc dynamo.TimeConfig, emit func(dynamo.Frame) error) error {
	return s.sample(ctx, p0, tc, emit)
}

// Simulate validates its inputs, runs the trajectory and collects the
// registered metrics.
func (s *Sampler) Simulate(ctx context.Context, p0 dynamo.Particle, tc dynamo.TimeConfig) (*dynamo.Result, error) {
	return s.SimulateTo(ctx, p0, tc, nil)
}

// SimulateTo is Simulate with every frame also handed to emit as it is
// recorded. A nil emit is allowed.
func (s *Sampler) SimulateTo(ctx context.Context, p0 dynamo.Particle, tc dynamo.TimeConfig, emit func(dynamo.Frame) error) (*dynamo.Result, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	if err := dynamo.ValidateParticle(p0); err != nil {
		return nil, err
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result := &dynamo.Result{
		Initial: p0,
		Time:    tc,
		Frames:  make([]dynamo.Frame, 0, tc.FrameCount()),
		Metrics: make(map[string]float64),
	}

	err := s.Stream(ctx, p0, tc, func(f dynamo.Frame) error {
		for _, m := range s.metrics {
			m.Observe(f)
		}
		result.Frames = append(result.Frames, f)
		if emit != nil {
			return emit(f)
		}
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("simulation interrupted after %d frames: %w", len(result.Frames), err)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Sampler) sample(ctx context.Context, p dynamo.Particle, tc dynamo.TimeConfig, record func(dynamo.Frame) error) error {
	n := tc.FrameCount()
	dt := tc.Dt

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		f := dynamo.Frame{
			Time:     float64(i*tc.Stride) * dt,
			Position: p.Position,
			Velocity: p.Velocity,
			Energy:   metrics.KineticEnergy(p),
		}
		if err := record(f); err != nil {
			return err
		}
		if i == n-1 {
			break
		}
		for j := 0; j < tc.Stride; j++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			t := float64(i*tc.Stride+j) * dt
			p = s.stepper.Advance(p, t, dt)
		}
	}
	return nil
}
