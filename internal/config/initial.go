package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/lorentz/internal/dynamo"
	"github.com/san-kum/lorentz/internal/vec"
)

// InitialConditions is the content of an initial-condition file:
//
//	r 1.0 0.0 0.0
//	v 0.0 0.05 0.02
//
// Lines starting with 'r' give the position and lines starting with 'v' the
// velocity; anything else is ignored. A later line overrides an earlier one.
type InitialConditions struct {
	Position vec.Vector3
	Velocity vec.Vector3
}

func LoadInitialConditions(path string) (*InitialConditions, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dynamo.ErrInitialConditions, err)
	}
	defer f.Close()

	ic, err := ParseInitialConditions(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ic, nil
}

func ParseInitialConditions(r io.Reader) (*InitialConditions, error) {
	var (
		ic           InitialConditions
		haveR, haveV bool
	)

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}

		switch text[0] {
		case 'r':
			v, err := parseVector(text)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", dynamo.ErrInitialConditions, line, err)
			}
			ic.Position, haveR = v, true
		case 'v':
			v, err := parseVector(text)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", dynamo.ErrInitialConditions, line, err)
			}
			ic.Velocity, haveV = v, true
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", dynamo.ErrInitialConditions, err)
	}

	if !haveR {
		return nil, fmt.Errorf("%w: missing position line (r x y z)", dynamo.ErrInitialConditions)
	}
	if !haveV {
		return nil, fmt.Errorf("%w: missing velocity line (v x y z)", dynamo.ErrInitialConditions)
	}
	return &ic, nil
}

func WriteInitialConditions(w io.Writer, ic InitialConditions) error {
	_, err := fmt.Fprintf(w, "r %g %g %g\nv %g %g %g\n",
		ic.Position.X, ic.Position.Y, ic.Position.Z,
		ic.Velocity.X, ic.Velocity.Y, ic.Velocity.Z)
	return err
}

func parseVector(text string) (vec.Vector3, error) {
	fields := strings.Fields(text[1:])
	if len(fields) < 3 {
		return vec.Vector3{}, fmt.Errorf("expected 3 components, got %d", len(fields))
	}
	var c [3]float64
	for i := range c {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return vec.Vector3{}, err
		}
		c[i] = f
	}
	return vec.New(c[0], c[1], c[2]), nil
}
