package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/san-kum/lorentz/internal/analysis"
	"github.com/san-kum/lorentz/internal/automation"
	"github.com/san-kum/lorentz/internal/dynamo"
	"github.com/san-kum/lorentz/internal/experiment"
	"github.com/san-kum/lorentz/internal/export"
	"github.com/san-kum/lorentz/internal/storage"
	"github.com/spf13/cobra"
)

var (
	sweepParam   string
	sweepMin     float64
	sweepMax     float64
	sweepSteps   int
	sweepMetric  string
	sweepTol     float64
	trials       int
	perturbation float64
	escapeRadius float64
	seed         int64
	svgOut       string
	svgSection   bool
)

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := openStore()
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("scenario %s: %d steps\n", sc.Name, len(sc.Steps))
	_, err = automation.RunScenario(ctx, sc, experiment.NewRegistry(), func(step automation.ScenarioStep, result *dynamo.Result) error {
		runID, err := st.Save(storage.RunInfo{Field: step.Config.Field.Model, Integrator: step.Config.Integrator}, result)
		if err != nil {
			return err
		}
		fmt.Printf("  %-16s %s  energy_drift=%.3e\n", step.Name, runID, result.Metrics["energy_drift"])
		return nil
	})
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, nil)
	if err != nil {
		return err
	}

	sweep := &automation.ParameterSweep{
		Base:      *cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
	}
	results, err := automation.RunSweep(context.Background(), sweep, experiment.NewRegistry())
	if err != nil {
		return err
	}

	fmt.Printf("%-12s  %-12s  %-12s  %-8s\n", sweepParam, sweepMetric, "max_radius", "finite")
	fmt.Println(strings.Repeat("-", 50))
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("%-12g  error: %v\n", r.ParamValue, r.Err)
			continue
		}
		fmt.Printf("%-12g  %12.3e  %12.4f  %-8t\n", r.ParamValue, r.Metrics[sweepMetric], r.Summary.MaxRadius, r.Summary.Finite)
	}

	if best, ok := automation.LargestWithin(results, sweepMetric, sweepTol); ok {
		fmt.Printf("\nlargest %s with %s <= %g: %g\n", sweepParam, sweepMetric, sweepTol, best.ParamValue)
	} else {
		fmt.Printf("\nno %s keeps %s <= %g\n", sweepParam, sweepMetric, sweepTol)
	}
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, nil)
	if err != nil {
		return err
	}

	mc := &automation.MonteCarloConfig{
		Base:         *cfg,
		Perturbation: perturbation,
		NumTrials:    trials,
		EscapeRadius: escapeRadius,
		Seed:         seed,
	}
	results, err := automation.RunMonteCarlo(context.Background(), mc, experiment.NewRegistry())
	if err != nil {
		return err
	}

	trapped, escaped := automation.MonteCarloStats(results)
	fmt.Printf("%d trials, velocity perturbation ±%g\n", len(results), perturbation)
	fmt.Printf("  trapped: %d\n  escaped: %d\n", trapped, escaped)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	cols := phase
	if len(cols) == 0 {
		cols = []string{"x", "y"}
	}
	if len(cols) != 2 {
		return fmt.Errorf("--phase needs two columns, got %d", len(cols))
	}
	x, err := analysis.ParseColumn(cols[0])
	if err != nil {
		return err
	}
	y, err := analysis.ParseColumn(cols[1])
	if err != nil {
		return err
	}

	w := os.Stdout
	if svgOut != "" {
		f, err := os.Create(svgOut)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if svgSection {
		section := analysis.Section(frames, analysis.ColZ, 0, x, y)
		return export.SectionToSVG(w, section, 800, 800, "#ff00ff")
	}
	return export.TrajectoryToSVG(w, analysis.Project(frames, x, y), 800, 800, "#00ffff")
}
