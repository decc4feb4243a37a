package config

import "sort"

var Presets = map[string]*Config{
	// Reproduces the reference setup: an ion bouncing in the dipole field.
	"dipole-ion": {
		Species: "ion", Integrator: "rk4", Dt: 0.01, Duration: 100.0, Stride: 10,
		Field:     FieldConfig{Model: "dipole", Moment: 1},
		InitState: InitStateConfig{Set: true, Position: [3]float64{1, 0, 0}, Velocity: [3]float64{0, 0.05, 0.02}},
	},
	"dipole-electron": {
		Species: "electron", Integrator: "rk4", Dt: 0.01, Duration: 100.0, Stride: 10,
		Field:     FieldConfig{Model: "dipole", Moment: 1},
		InitState: InitStateConfig{Set: true, Position: [3]float64{1, 0, 0}, Velocity: [3]float64{0, 0.05, 0.02}},
	},
	"cyclotron": {
		Species: "ion", Integrator: "rk4", Dt: 0.001, Duration: 10.0, Stride: 10,
		Field:     FieldConfig{Model: "uniform", Magnetic: [3]float64{0, 0, 1}},
		InitState: InitStateConfig{Set: true, Position: [3]float64{0, 0, 0}, Velocity: [3]float64{0, 1, 0}},
	},
	"helix": {
		Species: "ion", Integrator: "rk4", Dt: 0.001, Duration: 20.0, Stride: 20,
		Field:     FieldConfig{Model: "uniform", Magnetic: [3]float64{0, 0, 1}},
		InitState: InitStateConfig{Set: true, Position: [3]float64{0, 0, 0}, Velocity: [3]float64{0, 1, 0.2}},
	},
	"exb-drift": {
		Species: "ion", Integrator: "rk4", Dt: 0.001, Duration: 20.0, Stride: 20,
		Field:     FieldConfig{Model: "uniform", Electric: [3]float64{0.1, 0, 0}, Magnetic: [3]float64{0, 0, 1}},
		InitState: InitStateConfig{Set: true, Position: [3]float64{0, 0, 0}, Velocity: [3]float64{0, 0, 0}},
	},
	"free": {
		Species: "ion", Integrator: "rk4", Dt: 0.01, Duration: 10.0, Stride: 10,
		Field:     FieldConfig{Model: "none"},
		InitState: InitStateConfig{Set: true, Position: [3]float64{0, 0, 0}, Velocity: [3]float64{1, 0.5, 0}},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
