package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/lorentz/internal/config"
	"github.com/san-kum/lorentz/internal/dynamo"
	"github.com/san-kum/lorentz/internal/metrics"
	"github.com/san-kum/lorentz/internal/physics"
	"github.com/san-kum/lorentz/internal/sim"
)

// Experiment is a fully resolved run: particle, fields, scheme and horizon.
type Experiment struct {
	Config   config.Config
	Species  dynamo.Species
	Particle dynamo.Particle
	Time     dynamo.TimeConfig
	Fields   *physics.Lorentz
	sampler  *sim.Sampler
}

// New resolves cfg against the registry. When cfg carries no explicit initial
// state the position and velocity are read from cfg.Input.
func New(r *Registry, cfg config.Config) (*Experiment, error) {
	species, err := dynamo.ParseSpecies(cfg.Species)
	if err != nil {
		return nil, err
	}

	tc := cfg.TimeConfig()
	if err := tc.Validate(); err != nil {
		return nil, err
	}

	pos, vel, ok := cfg.GetInitState()
	if !ok {
		ic, err := config.LoadInitialConditions(cfg.Input)
		if err != nil {
			return nil, err
		}
		pos, vel = ic.Position, ic.Velocity
	}
	particle := species.Apply(pos, vel)
	if err := dynamo.ValidateParticle(particle); err != nil {
		return nil, err
	}

	em, err := r.GetField(cfg.Field)
	if err != nil {
		return nil, err
	}
	model := physics.NewLorentz(em)

	stepper, err := r.GetIntegrator(cfg.Integrator, model)
	if err != nil {
		return nil, err
	}

	s := sim.New(stepper)
	for _, m := range metrics.Default() {
		s.AddMetric(m)
	}

	return &Experiment{
		Config:   cfg,
		Species:  species,
		Particle: particle,
		Time:     tc,
		Fields:   model,
		sampler:  s,
	}, nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	return e.RunTo(ctx, nil)
}

// RunTo runs the experiment, handing each frame to emit as it is recorded.
func (e *Experiment) RunTo(ctx context.Context, emit func(dynamo.Frame) error) (*dynamo.Result, error) {
	if e.sampler == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	result, err := e.sampler.SimulateTo(ctx, e.Particle, e.Time, emit)
	if err != nil {
		return result, err
	}
	result.Species = e.Species
	return result, nil
}

// Stream emits frames without collecting them.
func (e *Experiment) Stream(ctx context.Context, emit func(dynamo.Frame) error) error {
	return e.sampler.Stream(ctx, e.Particle, e.Time, emit)
}
