package main

import (
	"fmt"
	"os"

	"github.com/san-kum/lorentz/internal/viz"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	dataDir    string
	outDir     string
	verbose    bool
	theme      string
	configFile string
	preset     string
	inputFile  string
	fieldModel string
	moment     float64
	bField     []float64
	eField     []float64
	integrator string
	noSave     bool
	// plot and analyze
	columns []string
	axis    []float64
	phase   []string
	// input
	initR []float64
	initV []float64
)

// main registers the commands and exits with status 1 if any of them fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "lorentz",
		Short:         "charged particle motion in electromagnetic fields",
		SilenceErrors: true,
	}
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".lorentz", "run store directory (LORENTZ_DATA)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging (LORENTZ_VERBOSE)")
	_ = viper.BindPFlag("data", rootCmd.PersistentFlags().Lookup("data"))
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "aurora", "color theme: aurora, retro, minimal (LORENTZ_THEME)")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("theme", rootCmd.PersistentFlags().Lookup("theme"))

	runCmd := &cobra.Command{
		Use:   "run <i|e> <time> <dt> <stride>",
		Short: "integrate a trajectory and write output.txt and energy.txt",
		Long: `Integrate an ion (i) or electron (e) for <time> time units with step <dt>,
recording one frame every <stride> steps. The positional arguments may be
omitted when --preset or --config supplies them.`,
		Args: trajectoryArgs,
		RunE: runSimulation,
	}
	addTrajectoryFlags(runCmd)
	runCmd.Flags().StringVar(&outDir, "out", "output", "directory for output.txt and energy.txt, empty to skip (LORENTZ_OUT)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not record the run in the store")
	_ = viper.BindPFlag("out", runCmd.Flags().Lookup("out"))

	liveCmd := &cobra.Command{
		Use:   "live <i|e> <time> <dt> <stride>",
		Short: "integrate with a live terminal view",
		Args:  trajectoryArgs,
		RunE:  runLive,
	}
	addTrajectoryFlags(liveCmd)

	compareCmd := &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "compare integrators on the same configuration, all of them by default",
		RunE:  compareIntegrators,
	}
	addTrajectoryFlags(compareCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot <run_id>",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&columns, "column", []string{"x", "y", "z", "energy"}, "columns to plot (t, x, y, z, vx, vy, vz, energy)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze <run_id>",
		Short: "estimate gyration, bounce and drift",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().Float64SliceVar(&axis, "axis", []float64{0, 0, 1}, "field direction for gyration estimates")
	analyzeCmd.Flags().StringSliceVar(&phase, "phase", nil, "two columns for a phase portrait, e.g. x,y")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json <run_id>",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	inputCmd := &cobra.Command{
		Use:   "input [file]",
		Short: "write an initial-condition file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  writeInput,
	}
	inputCmd.Flags().Float64SliceVar(&initR, "r", []float64{1, 0, 0}, "initial position")
	inputCmd.Flags().Float64SliceVar(&initV, "v", []float64{0, 0.05, 0.02}, "initial velocity")

	scenarioCmd := &cobra.Command{
		Use:   "scenario <file.yaml>",
		Short: "run and store every step of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one parameter and report a metric",
		RunE:  runSweep,
	}
	addTrajectoryFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "dt", "parameter to sweep (bz, dt, ex, moment, speed)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.001, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "energy_drift", "metric to report")
	sweepCmd.Flags().Float64Var(&sweepTol, "tol", 1e-6, "tolerance for the metric")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "perturb the initial velocity and count trapped trajectories",
		RunE:  runMonteCarlo,
	}
	addTrajectoryFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturbation, "perturb", 0.01, "maximum velocity perturbation per component")
	monteCarloCmd.Flags().Float64Var(&escapeRadius, "escape", 10, "radius beyond which a particle counts as escaped")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed, 0 for time based")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg <run_id>",
		Short: "export a projected trajectory or section as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringSliceVar(&phase, "phase", nil, "two columns to project, default x,y")
	exportSVGCmd.Flags().StringVarP(&svgOut, "output", "o", "", "output file, default stdout")
	exportSVGCmd.Flags().BoolVar(&svgSection, "section", false, "draw equatorial crossings instead of the path")

	rootCmd.AddCommand(runCmd, liveCmd, compareCmd, listCmd, plotCmd, analyzeCmd, exportJSONCmd, exportSVGCmd,
		presetsCmd, inputCmd, scenarioCmd, sweepCmd, monteCarloCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("LORENTZ")
	viper.AutomaticEnv()
	viz.SetVerbose(viper.GetBool("verbose"))
	viz.CurrentTheme = viz.GetTheme(viper.GetString("theme"))
}

func addTrajectoryFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&inputFile, "input", "input.txt", "initial-condition file")
	cmd.Flags().StringVar(&fieldModel, "field", "dipole", "field model (dipole, uniform, none)")
	cmd.Flags().Float64Var(&moment, "moment", 1, "dipole moment")
	cmd.Flags().Float64SliceVar(&bField, "b", nil, "uniform magnetic field bx,by,bz")
	cmd.Flags().Float64SliceVar(&eField, "e", nil, "uniform electric field ex,ey,ez")
	cmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator (rk4, euler, verlet)")
}

// trajectoryArgs requires the four positional arguments unless a preset or
// config file provides them.
func trajectoryArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && (preset != "" || configFile != "") {
		return nil
	}
	return cobra.ExactArgs(4)(cmd, args)
}
