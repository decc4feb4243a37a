package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/san-kum/lorentz/internal/analysis"
	"github.com/san-kum/lorentz/internal/dynamo"
	"github.com/san-kum/lorentz/internal/storage"
	"github.com/san-kum/lorentz/internal/vec"
	"github.com/san-kum/lorentz/internal/viz"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func openStore() *storage.Store {
	return storage.New(viper.GetString("data"))
}

func loadRun(runID string) (*storage.RunMetadata, []dynamo.Frame, error) {
	st := openStore()
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, fmt.Errorf("run not found: %s", runID)
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, frames, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := openStore().List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSPECIES\tFIELD\tINTEG\tTIME\tDURATION\tDT\tSTRIDE\tFRAMES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.2f\t%g\t%d\t%d\n",
			run.ID,
			run.Species,
			run.Field,
			run.Integrator,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Time.Duration,
			run.Time.Dt,
			run.Time.Stride,
			run.Frames,
		)
	}

	return w.Flush()
}

// parseColumn accepts the frame columns and "energy".
func parseColumn(name string) (int, error) {
	if strings.EqualFold(name, "energy") || strings.EqualFold(name, "e") {
		return -1, nil
	}
	return analysis.ParseColumn(name)
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s: %s in %s field, %d frames\n\n", meta.ID, meta.Species, meta.Field, len(frames))
	for _, name := range columns {
		col, err := parseColumn(name)
		if err != nil {
			return err
		}
		chart, err := viz.PlotFrames(frames, col, 70, 10)
		if err != nil {
			return err
		}
		fmt.Println(chart)
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	b, err := triple("axis", axis)
	if err != nil {
		return err
	}

	s := meta.Summary
	fmt.Printf("%s: %s in %s field\n\n", meta.ID, meta.Species, meta.Field)
	fmt.Printf("  energy mean:    %.6g (stddev %.3g)\n", s.EnergyMean, s.EnergyStdDev)
	fmt.Printf("  energy drift:   %.3e\n", s.EnergyDrift)
	fmt.Printf("  radius range:   %.4f .. %.4f\n", s.MinRadius, s.MaxRadius)
	if !s.Finite {
		fmt.Printf("  non-finite from t=%g, analysing the finite prefix\n", s.BlowUpTime)
	}

	finite := frames
	for i, f := range frames {
		if !f.IsValid() {
			finite = frames[:i]
			break
		}
	}

	g, err := analysis.EstimateGyration(finite, vec.New(b[0], b[1], b[2]))
	switch {
	case errors.Is(err, analysis.ErrTooShort):
		fmt.Println("\n  gyration: trajectory too short to estimate")
	case err != nil:
		return err
	default:
		fmt.Println("\ngyration:")
		fmt.Printf("  period:         %.6f (stddev %.2e, %d cycles)\n", g.Period, g.PeriodStdDev, g.Cycles)
		fmt.Printf("  radius:         %.6f (stddev %.2e)\n", g.Radius, g.RadiusStdDev)
		fmt.Printf("  parallel speed: %.6f\n", g.Parallel)
		fmt.Printf("  drift:          (%.3e, %.3e, %.3e)\n", g.Drift.X, g.Drift.Y, g.Drift.Z)
	}

	if len(finite) > 1 {
		frameDt := finite[1].Time - finite[0].Time
		xs := make([]float64, len(finite))
		zs := make([]float64, len(finite))
		for i, f := range finite {
			xs[i], zs[i] = f.Position.X, f.Position.Z
		}
		fmt.Println("\nspectrum:")
		fmt.Printf("  dominant period in x: %.4f\n", analysis.DominantPeriod(xs, frameDt))
		fmt.Printf("  dominant period in z: %.4f\n", analysis.DominantPeriod(zs, frameDt))
	}

	section := analysis.Section(finite, analysis.ColZ, 0, analysis.ColX, analysis.ColY)
	fmt.Printf("\nequatorial crossings (z = 0 upward): %d\n", len(section.Points))
	if n := len(section.Times); n > 1 {
		fmt.Printf("  mean bounce period: %.4f\n", (section.Times[n-1]-section.Times[0])/float64(n-1))
	}

	if len(phase) > 0 {
		if len(phase) != 2 {
			return fmt.Errorf("--phase needs two columns, got %d", len(phase))
		}
		x, err := analysis.ParseColumn(phase[0])
		if err != nil {
			return err
		}
		y, err := analysis.ParseColumn(phase[1])
		if err != nil {
			return err
		}
		fmt.Printf("\nphase portrait %s vs %s:\n", phase[1], phase[0])
		fmt.Print(analysis.PhasePortraitToASCII(analysis.Project(finite, x, y), 70, 24))
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, frames)
}
