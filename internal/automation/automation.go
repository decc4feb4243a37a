package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sync/atomic"
	"time"

	"github.com/san-kum/lorentz/internal/config"
	"github.com/san-kum/lorentz/internal/dynamo"
	"github.com/san-kum/lorentz/internal/experiment"
	"github.com/san-kum/lorentz/internal/metrics"
	"github.com/san-kum/lorentz/internal/vec"
	"github.com/san-kum/lorentz/internal/viz"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string
	Description string
	Steps       []ScenarioStep
}

// ScenarioStep is one run of a scenario. Its configuration starts from the
// named preset, or the defaults, and is overlaid with the step's own keys.
type ScenarioStep struct {
	Name   string
	Config config.Config
}

type scenarioFile struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Steps       []yaml.Node `yaml:"steps"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var file scenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	sc := &Scenario{Name: file.Name, Description: file.Description}
	for i, node := range file.Steps {
		var head struct {
			Name   string `yaml:"name"`
			Preset string `yaml:"preset"`
		}
		if err := node.Decode(&head); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}

		base := config.DefaultConfig()
		if head.Preset != "" {
			if base = config.GetPreset(head.Preset); base == nil {
				return nil, fmt.Errorf("step %d: unknown preset %q", i+1, head.Preset)
			}
		}
		if err := node.Decode(base); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}

		name := head.Name
		if name == "" {
			name = fmt.Sprintf("step-%d", i+1)
		}
		sc.Steps = append(sc.Steps, ScenarioStep{Name: name, Config: *base})
	}
	return sc, nil
}

// RunScenario executes all steps in order, handing each result to done.
// It stops at the first failing step.
func RunScenario(ctx context.Context, sc *Scenario, registry *experiment.Registry, done func(ScenarioStep, *dynamo.Result) error) ([]*dynamo.Result, error) {
	results := make([]*dynamo.Result, 0, len(sc.Steps))

	for i, step := range sc.Steps {
		viz.Logger.Info("running scenario step", "step", i+1, "of", len(sc.Steps), "name", step.Name)

		exp, err := experiment.New(registry, step.Config)
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, step.Name, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d (%s) run: %w", i+1, step.Name, err)
		}
		if done != nil {
			if err := done(step, result); err != nil {
				return results, fmt.Errorf("step %d (%s): %w", i+1, step.Name, err)
			}
		}
		results = append(results, result)
	}

	return results, nil
}

// sweepParams set one parameter on a config. A setter fails when the config
// would ignore the parameter, so a sweep never reports identical points.
var sweepParams = map[string]func(*config.Config, float64) error{
	"dt": func(c *config.Config, v float64) error {
		c.Dt = v
		return nil
	},
	"moment": func(c *config.Config, v float64) error {
		if c.Field.Model != "dipole" {
			return fmt.Errorf("moment only applies to the dipole field, not %q", c.Field.Model)
		}
		c.Field.Moment = v
		return nil
	},
	"bz": func(c *config.Config, v float64) error {
		if c.Field.Model != "uniform" {
			return fmt.Errorf("bz only applies to the uniform field, not %q", c.Field.Model)
		}
		c.Field.Magnetic[2] = v
		return nil
	},
	"ex": func(c *config.Config, v float64) error {
		if c.Field.Model == "none" {
			return fmt.Errorf("ex has no effect with field %q", c.Field.Model)
		}
		c.Field.Electric[0] = v
		return nil
	},
	"speed": func(c *config.Config, v float64) error {
		vel := vec.New(c.InitState.Velocity[0], c.InitState.Velocity[1], c.InitState.Velocity[2])
		if !c.InitState.Set || vel.Norm() == 0 {
			return fmt.Errorf("speed needs a configured non-zero initial velocity")
		}
		c.InitState.Velocity = vel.Scale(v / vel.Norm()).Array()
		return nil
	},
}

// ParameterSweep runs simulations across a range of parameter values
type ParameterSweep struct {
	Base      config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult holds one point of a sweep. A point whose configuration is
// rejected carries Err instead of metrics.
type SweepResult struct {
	ParamValue float64
	Metrics    map[string]float64
	Summary    metrics.Summary
	Final      dynamo.Frame
	Err        error
}

// SweepParams lists the parameters RunSweep accepts.
func SweepParams() []string {
	return []string{"bz", "dt", "ex", "moment", "speed"}
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry) ([]SweepResult, error) {
	set, ok := sweepParams[sweep.ParamName]
	if !ok {
		return nil, fmt.Errorf("unknown sweep parameter %q (available: %v)", sweep.ParamName, SweepParams())
	}
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}

	check := sweep.Base
	if err := set(&check, sweep.ParamMin); err != nil {
		return nil, fmt.Errorf("sweep %s: %w", sweep.ParamName, err)
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		paramVal := sweep.ParamMin + float64(i)*paramStep
		cfg := sweep.Base
		if err := set(&cfg, paramVal); err != nil {
			return results, err
		}

		res := SweepResult{ParamValue: paramVal}
		exp, err := experiment.New(registry, cfg)
		if err == nil {
			var result *dynamo.Result
			if result, err = exp.Run(ctx); err == nil {
				res.Metrics = result.Metrics
				res.Summary = metrics.Summarize(result.Frames)
				res.Final = result.Frames[len(result.Frames)-1]
			}
		}
		res.Err = err
		results = append(results, res)

		viz.Logger.Debug("sweep point", "param", sweep.ParamName, "value", paramVal, "err", err)
	}

	return results, nil
}

// LargestWithin returns the sweep point with the largest parameter value whose
// metric is finite and no greater than tol.
func LargestWithin(results []SweepResult, metric string, tol float64) (SweepResult, bool) {
	var best SweepResult
	found := false
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		v, ok := r.Metrics[metric]
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) || v > tol {
			continue
		}
		if !found || r.ParamValue > best.ParamValue {
			best, found = r, true
		}
	}
	return best, found
}

// MonteCarloConfig perturbs the initial velocity of Base and checks whether
// the particle stays trapped.
type MonteCarloConfig struct {
	Base         config.Config
	Perturbation float64
	NumTrials    int
	EscapeRadius float64
	Seed         int64
}

// MonteCarloResult holds the outcome of one trial
type MonteCarloResult struct {
	TrialID   int
	Velocity  vec.Vector3
	Final     dynamo.Frame
	MaxRadius float64
	Trapped   bool // finite and never beyond EscapeRadius
}

// RunMonteCarlo executes multiple trials with random perturbations
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry) ([]MonteCarloResult, error) {
	if cfg.NumTrials < 1 {
		return nil, fmt.Errorf("monte carlo needs at least one trial, got %d", cfg.NumTrials)
	}
	base, err := experiment.New(registry, cfg.Base)
	if err != nil {
		return nil, err
	}
	p0 := base.Particle

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	perturb := func() float64 { return (rng.Float64() - 0.5) * 2 * cfg.Perturbation }

	// trial i always gets the i-th draw, whatever the goroutine schedule
	velocities := make([]vec.Vector3, cfg.NumTrials)
	for i := range velocities {
		velocities[i] = p0.Velocity.Add(vec.New(perturb(), perturb(), perturb()))
	}

	results := make([]MonteCarloResult, cfg.NumTrials)
	errs := make([]error, cfg.NumTrials)
	var done atomic.Int64

	dynamo.ParallelFor(cfg.NumTrials, 1, func(start, end int) {
		for trial := start; trial < end; trial++ {
			results[trial], errs[trial] = runTrial(ctx, registry, cfg, trial, p0.Position, velocities[trial])
			if n := done.Add(1); n%10 == 0 {
				viz.Logger.Info("monte carlo progress", "done", n, "of", cfg.NumTrials)
			}
		}
	})

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func runTrial(ctx context.Context, registry *experiment.Registry, cfg *MonteCarloConfig, trial int, r, v vec.Vector3) (MonteCarloResult, error) {
	trialCfg := cfg.Base
	trialCfg.InitState = config.InitStateConfig{Set: true, Position: r.Array(), Velocity: v.Array()}

	exp, err := experiment.New(registry, trialCfg)
	if err != nil {
		return MonteCarloResult{}, err
	}
	result, err := exp.Run(ctx)
	if err != nil {
		return MonteCarloResult{}, fmt.Errorf("trial %d: %w", trial, err)
	}

	s := metrics.Summarize(result.Frames)
	return MonteCarloResult{
		TrialID:   trial,
		Velocity:  v,
		Final:     result.Frames[len(result.Frames)-1],
		MaxRadius: s.MaxRadius,
		Trapped:   s.Finite && (cfg.EscapeRadius <= 0 || s.MaxRadius < cfg.EscapeRadius),
	}, nil
}

// MonteCarloStats counts trapped and escaped trials
func MonteCarloStats(results []MonteCarloResult) (trapped int, escaped int) {
	for _, r := range results {
		if r.Trapped {
			trapped++
		} else {
			escaped++
		}
	}
	return
}
