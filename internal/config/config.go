package config

import (
	"fmt"
	"os"

	"github.com/san-kum/lorentz/internal/dynamo"
	"github.com/san-kum/lorentz/internal/vec"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 10.0
	DefaultStride   = 10
	DefaultMoment   = 1.0
	DefaultInput    = "input.txt"
)

type Config struct {
	Species    string          `yaml:"species"`
	Integrator string          `yaml:"integrator"`
	Dt         float64         `yaml:"dt"`
	Duration   float64         `yaml:"duration"`
	Stride     int             `yaml:"stride"`
	Input      string          `yaml:"input,omitempty"`
	Field      FieldConfig     `yaml:"field"`
	InitState  InitStateConfig `yaml:"init_state"`
}

type FieldConfig struct {
	Model    string     `yaml:"model"`
	Moment   float64    `yaml:"moment"`
	Electric [3]float64 `yaml:"electric"`
	Magnetic [3]float64 `yaml:"magnetic"`
}

// InitStateConfig overrides the initial-condition file when Set is true.
type InitStateConfig struct {
	Set      bool       `yaml:"set"`
	Position [3]float64 `yaml:"position"`
	Velocity [3]float64 `yaml:"velocity"`
}

func DefaultConfig() *Config {
	return &Config{
		Species:    "ion",
		Integrator: "rk4",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Stride:     DefaultStride,
		Input:      DefaultInput,
		Field: FieldConfig{
			Model:  "dipole",
			Moment: DefaultMoment,
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto overlays the YAML file at path onto cfg. Keys the file does not
// set keep their current values.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) TimeConfig() dynamo.TimeConfig {
	return dynamo.TimeConfig{Duration: c.Duration, Dt: c.Dt, Stride: c.Stride}
}

// GetInitState returns the configured initial position and velocity, or false
// when they should be read from the initial-condition file.
func (c *Config) GetInitState() (vec.Vector3, vec.Vector3, bool) {
	if !c.InitState.Set {
		return vec.Vector3{}, vec.Vector3{}, false
	}
	r, v := c.InitState.Position, c.InitState.Velocity
	return vec.New(r[0], r[1], r[2]), vec.New(v[0], v[1], v[2]), true
}
