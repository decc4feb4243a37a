package metrics

import (
	"github.com/san-kum/lorentz/internal/dynamo"
)

// Stability is the fraction of frames whose values are all finite. It also
// remembers the first frame that blew up.
type Stability struct {
	name       string
	violations int
	samples    int
	firstBad   *dynamo.FrameError
}

func NewStability() *Stability {
	return &Stability{name: "stability"}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f dynamo.Frame) {
	if !f.IsValid() {
		s.violations++
		if s.firstBad == nil {
			s.firstBad = &dynamo.FrameError{Index: s.samples, Time: f.Time, Wrapped: dynamo.ErrNonFinite}
		}
	}
	s.samples++
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

// Err returns a *dynamo.FrameError for the first non-finite frame, or nil.
func (s *Stability) Err() error {
	if s.firstBad == nil {
		return nil
	}
	return s.firstBad
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
	s.firstBad = nil
}
