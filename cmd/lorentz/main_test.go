package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/lorentz/internal/config"
	"github.com/san-kum/lorentz/internal/experiment"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCommand(t *testing.T, flags ...string) *cobra.Command {
	t.Helper()
	preset, configFile = "", ""
	cmd := &cobra.Command{Use: "run"}
	addTrajectoryFlags(cmd)
	require.NoError(t, cmd.ParseFlags(flags))
	return cmd
}

func TestResolveConfigArgs(t *testing.T) {
	cmd := newTestCommand(t)
	cfg, err := resolveConfig(cmd, []string{"e", "5", "0.001", "20"})
	require.NoError(t, err)

	assert.Equal(t, "electron", cfg.Species)
	assert.Equal(t, 5.0, cfg.Duration)
	assert.Equal(t, 0.001, cfg.Dt)
	assert.Equal(t, 20, cfg.Stride)
	assert.Equal(t, "dipole", cfg.Field.Model)
}

func TestResolveConfigUnknownSpecies(t *testing.T) {
	cmd := newTestCommand(t)
	cfg, err := resolveConfig(cmd, []string{"x", "1", "0.01", "1"})
	require.NoError(t, err)
	assert.Equal(t, "ion", cfg.Species)
}

func TestResolveConfigBadNumbers(t *testing.T) {
	cmd := newTestCommand(t)
	_, err := resolveConfig(cmd, []string{"i", "ten", "0.01", "1"})
	assert.Error(t, err)
	_, err = resolveConfig(cmd, []string{"i", "1", "0.01", "1.5"})
	assert.Error(t, err)
}

func TestResolveConfigFlagsOverridePreset(t *testing.T) {
	cmd := newTestCommand(t, "--preset", "cyclotron", "--b", "0,0,2", "--integrator", "verlet")
	cfg, err := resolveConfig(cmd, nil)
	require.NoError(t, err)

	assert.Equal(t, [3]float64{0, 0, 2}, cfg.Field.Magnetic)
	assert.Equal(t, "verlet", cfg.Integrator)
	assert.Equal(t, "uniform", cfg.Field.Model)
	assert.True(t, cfg.InitState.Set)

	cmd = newTestCommand(t, "--preset", "nope")
	_, err = resolveConfig(cmd, nil)
	assert.Error(t, err)

	cmd = newTestCommand(t, "--b", "1,2")
	_, err = resolveConfig(cmd, nil)
	assert.Error(t, err)
}

func TestResolveConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := config.GetPreset("helix")
	require.NoError(t, config.Save(path, cfg))

	cmd := newTestCommand(t, "--config", path, "--input", "elsewhere.txt")
	got, err := resolveConfig(cmd, []string{"i", "2", "0.01", "5"})
	require.NoError(t, err)

	assert.Equal(t, "uniform", got.Field.Model)
	assert.Equal(t, 2.0, got.Duration)
	assert.Equal(t, "elsewhere.txt", got.Input)
	assert.False(t, got.InitState.Set, "--input replaces the configured initial state")
}

func TestResolveConfigFileOverlaysPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dt: 0.002\nduration: 3\n"), 0644))

	cmd := newTestCommand(t, "--preset", "cyclotron", "--config", path)
	cfg, err := resolveConfig(cmd, nil)
	require.NoError(t, err)

	assert.Equal(t, 0.002, cfg.Dt)
	assert.Equal(t, 3.0, cfg.Duration)
	assert.Equal(t, "uniform", cfg.Field.Model, "preset field survives the overlay")
	assert.Equal(t, [3]float64{0, 0, 1}, cfg.Field.Magnetic)
	assert.True(t, cfg.InitState.Set)
	assert.Equal(t, [3]float64{0, 1, 0}, cfg.InitState.Velocity)
}

func TestTrajectoryArgs(t *testing.T) {
	cmd := newTestCommand(t)
	assert.Error(t, trajectoryArgs(cmd, nil))
	assert.Error(t, trajectoryArgs(cmd, []string{"i", "1", "0.1"}))
	assert.NoError(t, trajectoryArgs(cmd, []string{"i", "1", "0.1", "1"}))

	cmd = newTestCommand(t, "--preset", "free")
	assert.NoError(t, trajectoryArgs(cmd, nil))
}

func TestWriteInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	initR, initV = []float64{1, 2, 3}, []float64{0, 0.5, 0}

	require.NoError(t, writeInput(nil, []string{path}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	ic, err := config.ParseInitialConditions(f)
	require.NoError(t, err)
	assert.Equal(t, 2.0, ic.Position.Y)
	assert.Equal(t, 0.5, ic.Velocity.Y)
}

func TestIntegratorNames(t *testing.T) {
	r := experiment.NewRegistry()
	assert.Equal(t, []string{"euler", "rk4", "verlet"}, integratorNames(r, nil))
	assert.Equal(t, []string{"rk4"}, integratorNames(r, []string{"rk4"}))
}
