package dynamo

import (
	"errors"
	"fmt"
)

// Validation errors raised before a run starts. The integrator itself never
// returns errors.
var (
	// ErrInvalidTimeConfig indicates a non-positive dt, negative duration or stride below one.
	ErrInvalidTimeConfig = errors.New("dynamo: invalid time configuration")

	// ErrInvalidMass indicates a particle mass that is not strictly positive.
	ErrInvalidMass = errors.New("dynamo: particle mass must be positive")

	// ErrInitialConditions indicates a missing or malformed initial-condition entry.
	ErrInitialConditions = errors.New("dynamo: malformed initial conditions")

	// ErrUnknownSpecies indicates a particle code other than ion or electron.
	ErrUnknownSpecies = errors.New("dynamo: unknown particle species")

	// ErrUnknownField indicates a field model name with no registered constructor.
	ErrUnknownField = errors.New("dynamo: unknown field model")

	// ErrNonFinite indicates the trajectory produced NaN or Inf values.
	ErrNonFinite = errors.New("dynamo: trajectory became non-finite")
)

// FrameError locates a diagnostic failure within a trajectory.
type FrameError struct {
	Index   int
	Time    float64
	Wrapped error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f): %v", e.Index, e.Time, e.Wrapped)
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}

// ValidateParticle checks the preconditions the integrator assumes.
func ValidateParticle(p Particle) error {
	if !(p.Mass > 0) {
		return fmt.Errorf("%w, got %g", ErrInvalidMass, p.Mass)
	}
	if !p.IsValid() {
		return fmt.Errorf("%w: non-finite position or velocity", ErrInitialConditions)
	}
	return nil
}
