package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/lorentz/internal/config"
	"github.com/san-kum/lorentz/internal/dynamo"
	"github.com/san-kum/lorentz/internal/experiment"
	"github.com/san-kum/lorentz/internal/metrics"
	"github.com/san-kum/lorentz/internal/storage"
	"github.com/san-kum/lorentz/internal/vec"
	"github.com/san-kum/lorentz/internal/viz"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// resolveConfig layers defaults, preset, config file, positional arguments
// and explicitly set flags, later sources winning.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if len(args) == 4 {
		if err := applyArgs(cfg, args); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input = inputFile
		cfg.InitState.Set = false
	}
	if flags.Changed("field") {
		cfg.Field.Model = fieldModel
	}
	if flags.Changed("moment") {
		cfg.Field.Moment = moment
	}
	if flags.Changed("b") {
		b, err := triple("b", bField)
		if err != nil {
			return nil, err
		}
		cfg.Field.Magnetic = b
	}
	if flags.Changed("e") {
		e, err := triple("e", eField)
		if err != nil {
			return nil, err
		}
		cfg.Field.Electric = e
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	return cfg, nil
}

// applyArgs reads <i|e> <time> <dt> <stride>. An unknown particle code is
// not fatal: it is reported and the run proceeds with an ion.
func applyArgs(cfg *config.Config, args []string) error {
	species, err := dynamo.ParseSpecies(args[0])
	if err != nil {
		viz.Logger.Warn("unknown particle type, defaulting to ion", "code", args[0])
		species = dynamo.Ion
	}
	cfg.Species = species.String()

	if cfg.Duration, err = strconv.ParseFloat(args[1], 64); err != nil {
		return fmt.Errorf("invalid time %q: %w", args[1], err)
	}
	if cfg.Dt, err = strconv.ParseFloat(args[2], 64); err != nil {
		return fmt.Errorf("invalid dt %q: %w", args[2], err)
	}
	if cfg.Stride, err = strconv.Atoi(args[3]); err != nil {
		return fmt.Errorf("invalid stride %q: %w", args[3], err)
	}
	return nil
}

func triple(name string, v []float64) ([3]float64, error) {
	if len(v) != 3 {
		return [3]float64{}, fmt.Errorf("--%s needs three components, got %d", name, len(v))
	}
	return [3]float64{v[0], v[1], v[2]}, nil
}

func newExperiment(cmd *cobra.Command, args []string) (*experiment.Experiment, error) {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return nil, err
	}
	exp, err := experiment.New(experiment.NewRegistry(), *cfg)
	if err != nil {
		return nil, err
	}
	viz.Logger.Debug("experiment resolved",
		"species", exp.Species,
		"field", cfg.Field.Model,
		"integrator", cfg.Integrator,
		"frames", exp.Time.FrameCount(),
	)
	return exp, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	exp, err := newExperiment(cmd, args)
	if err != nil {
		return err
	}
	cfg := exp.Config

	fmt.Println(viz.Banner(exp.Particle, exp.Time, cfg.Field.Model, cfg.Integrator))

	var w *storage.FrameWriter
	var emit func(dynamo.Frame) error
	out := viper.GetString("out")
	if out != "" {
		if w, err = storage.CreateFrameFiles(out); err != nil {
			return err
		}
		emit = w.WriteFrame
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println("\nrunning...")
	start := time.Now()
	result, err := exp.RunTo(ctx, emit)
	if w != nil {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	viz.Logger.Debug("integration finished", "frames", len(result.Frames), "elapsed", elapsed)

	fmt.Printf("completed in %v\n", elapsed)
	if out != "" {
		fmt.Printf("wrote %s and %s\n", filepath.Join(out, storage.OutputFile), filepath.Join(out, storage.EnergyFile))
	}

	if !noSave {
		st := storage.New(viper.GetString("data"))
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(storage.RunInfo{Field: cfg.Field.Model, Integrator: cfg.Integrator}, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	printMetrics(result)
	return nil
}

func printMetrics(result *dynamo.Result) {
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("frames: %d\n", len(result.Frames))
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, result.Metrics[name])
	}

	if s := metrics.Summarize(result.Frames); !s.Finite {
		viz.Logger.Warn("trajectory became non-finite", "t", s.BlowUpTime)
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	exp, err := newExperiment(cmd, args)
	if err != nil {
		return err
	}
	title := fmt.Sprintf("%s in %s field", exp.Species, exp.Config.Field.Model)
	return viz.RunLive(context.Background(), title, exp.Time.FrameCount(), exp.Stream)
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, nil)
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()

	fmt.Printf("comparing integrators for %s in %s field (dt=%g, duration=%g)\n\n", cfg.Species, cfg.Field.Model, cfg.Dt, cfg.Duration)
	fmt.Printf("%-10s  %-12s  %-12s  %-10s  %s\n", "integrator", "final_r", "energy_drift", "time_ms", "energy")
	fmt.Println(strings.Repeat("-", 50+2+sparkWidth))

	for _, name := range integratorNames(registry, args) {
		c := *cfg
		c.Integrator = name
		exp, err := experiment.New(registry, c)
		if err != nil {
			fmt.Printf("%-10s  error: %v\n", name, err)
			continue
		}

		start := time.Now()
		result, err := exp.Run(context.Background())
		elapsed := time.Since(start)
		if err != nil {
			fmt.Printf("%-10s  error: %v\n", name, err)
			continue
		}

		last := result.Frames[len(result.Frames)-1]
		_, energies := result.Energies()
		fmt.Printf("%-10s  %12.6f  %12.2e  %10.2f  %s\n", name, last.Position.Norm(), result.Metrics["energy_drift"],
			float64(elapsed.Microseconds())/1000, viz.SparklineChart(energies, sparkWidth))
	}
	return nil
}

const sparkWidth = 24

// integratorNames returns the requested integrators, or every registered one
// when none are named.
func integratorNames(r *experiment.Registry, args []string) []string {
	if len(args) == 0 {
		return r.ListIntegrators()
	}
	return args
}

func listPresets(cmd *cobra.Command, args []string) error {
	fmt.Println("presets:")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Printf("  %-16s %-8s %-8s t=%g dt=%g stride=%d\n", name, p.Species, p.Field.Model, p.Duration, p.Dt, p.Stride)
	}
	return nil
}

func writeInput(cmd *cobra.Command, args []string) error {
	r, err := triple("r", initR)
	if err != nil {
		return err
	}
	v, err := triple("v", initV)
	if err != nil {
		return err
	}

	path := config.DefaultInput
	if len(args) == 1 {
		path = args[0]
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	ic := config.InitialConditions{
		Position: vec.New(r[0], r[1], r[2]),
		Velocity: vec.New(v[0], v[1], v[2]),
	}
	if err := config.WriteInitialConditions(f, ic); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
