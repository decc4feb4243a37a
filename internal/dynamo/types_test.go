package dynamo

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/lorentz/internal/vec"
)

func TestTimeConfigCounts(t *testing.T) {
	tests := []struct {
		name   string
		cfg    TimeConfig
		steps  int
		frames int
	}{
		{"reference", TimeConfig{Duration: 10, Dt: 0.01, Stride: 10}, 1000, 101},
		{"stride one", TimeConfig{Duration: 1, Dt: 0.1, Stride: 1}, 10, 11},
		{"single interval", TimeConfig{Duration: 2, Dt: 0.5, Stride: 4}, 4, 2},
		{"remainder dropped", TimeConfig{Duration: 1, Dt: 0.3, Stride: 2}, 3, 2},
		{"zero duration", TimeConfig{Duration: 0, Dt: 0.1, Stride: 5}, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.TotalSteps(); got != tt.steps {
				t.Errorf("expected %d steps, got %d", tt.steps, got)
			}
			if got := tt.cfg.FrameCount(); got != tt.frames {
				t.Errorf("expected %d frames, got %d", tt.frames, got)
			}
		})
	}
}

func TestTimeConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  TimeConfig
	}{
		{"zero dt", TimeConfig{Duration: 1, Dt: 0, Stride: 1}},
		{"negative dt", TimeConfig{Duration: 1, Dt: -0.1, Stride: 1}},
		{"nan dt", TimeConfig{Duration: 1, Dt: math.NaN(), Stride: 1}},
		{"negative duration", TimeConfig{Duration: -1, Dt: 0.1, Stride: 1}},
		{"zero stride", TimeConfig{Duration: 1, Dt: 0.1, Stride: 0}},
		{"step count overflows", TimeConfig{Duration: 1e300, Dt: 1e-300, Stride: 1}},
		{"infinite step count", TimeConfig{Duration: 1e300, Dt: 1e-10, Stride: 1}},
		{"too many steps", TimeConfig{Duration: 2e12, Dt: 1, Stride: 1 << 30}},
		{"too many frames", TimeConfig{Duration: 1e9, Dt: 1, Stride: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if !errors.Is(err, ErrInvalidTimeConfig) {
				t.Errorf("expected ErrInvalidTimeConfig, got %v", err)
			}
		})
	}

	if err := (TimeConfig{Duration: 10, Dt: 0.01, Stride: 10}).Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
	// many steps are fine as long as the stride keeps the frame count bounded
	if err := (TimeConfig{Duration: 1e9, Dt: 1, Stride: 1000}).Validate(); err != nil {
		t.Errorf("expected valid long config, got %v", err)
	}
}

func TestSpecies(t *testing.T) {
	tests := []struct {
		code   string
		want   Species
		charge float64
	}{
		{"i", Ion, 1},
		{"ion", Ion, 1},
		{"e", Electron, -1},
		{"Electron", Electron, -1},
	}

	for _, tt := range tests {
		s, err := ParseSpecies(tt.code)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.code, err)
		}
		if s != tt.want {
			t.Errorf("code %q: expected %v, got %v", tt.code, tt.want, s)
		}
		p := s.Apply(vec.New(1, 0, 0), vec.New(0, 1, 0))
		if p.Charge != tt.charge || p.Mass != 1 {
			t.Errorf("code %q: expected q=%g m=1, got q=%g m=%g", tt.code, tt.charge, p.Charge, p.Mass)
		}
	}

	if _, err := ParseSpecies("x"); !errors.Is(err, ErrUnknownSpecies) {
		t.Errorf("expected ErrUnknownSpecies, got %v", err)
	}
}

func TestOffsetLeavesReceiver(t *testing.T) {
	p := Ion.Apply(vec.New(1, 2, 3), vec.New(4, 5, 6))
	q := p.Offset(vec.New(1, 1, 1), vec.New(-1, -1, -1))

	if p.Position != vec.New(1, 2, 3) || p.Velocity != vec.New(4, 5, 6) {
		t.Error("offset modified the original particle")
	}
	if q.Position != vec.New(2, 3, 4) || q.Velocity != vec.New(3, 4, 5) {
		t.Errorf("unexpected offset result %+v", q)
	}
}

func TestValidateParticle(t *testing.T) {
	p := Ion.Apply(vec.New(1, 0, 0), vec.New(0, 1, 0))
	if err := ValidateParticle(p); err != nil {
		t.Errorf("expected valid particle, got %v", err)
	}

	p.Mass = 0
	if err := ValidateParticle(p); !errors.Is(err, ErrInvalidMass) {
		t.Errorf("expected ErrInvalidMass, got %v", err)
	}
}

func TestFrameRow(t *testing.T) {
	f := Frame{Time: 0.5, Position: vec.New(1, 2, 3), Velocity: vec.New(4, 5, 6), Energy: 38.5}
	want := [7]float64{0.5, 1, 2, 3, 4, 5, 6}
	if f.Row() != want {
		t.Errorf("expected %v, got %v", want, f.Row())
	}
}

func TestResultEnergies(t *testing.T) {
	r := &Result{Frames: []Frame{{Time: 0, Energy: 1}, {Time: 0.5, Energy: 1.5}}}
	times, energies := r.Energies()
	if len(times) != 2 || times[1] != 0.5 || energies[1] != 1.5 {
		t.Errorf("unexpected series %v %v", times, energies)
	}
}
