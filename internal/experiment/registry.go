package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/lorentz/internal/config"
	"github.com/san-kum/lorentz/internal/dynamo"
	"github.com/san-kum/lorentz/internal/field"
	"github.com/san-kum/lorentz/internal/integrators"
	"github.com/san-kum/lorentz/internal/vec"
)

type Registry struct {
	fields      map[string]func(config.FieldConfig) field.EM
	integrators map[string]func(dynamo.Accelerator) dynamo.Stepper
}

func NewRegistry() *Registry {
	r := &Registry{
		fields:      make(map[string]func(config.FieldConfig) field.EM),
		integrators: make(map[string]func(dynamo.Accelerator) dynamo.Stepper),
	}

	r.fields["dipole"] = func(c config.FieldConfig) field.EM {
		var e field.Field = field.Zero{}
		if c.Electric != [3]float64{} {
			e = field.Uniform{V: toVec(c.Electric)}
		}
		return field.EM{E: e, B: field.Dipole{Moment: c.Moment}}
	}
	r.fields["uniform"] = func(c config.FieldConfig) field.EM {
		return field.EM{E: field.Uniform{V: toVec(c.Electric)}, B: field.Uniform{V: toVec(c.Magnetic)}}
	}
	r.fields["none"] = func(config.FieldConfig) field.EM {
		return field.EM{E: field.Zero{}, B: field.Zero{}}
	}

	r.integrators["rk4"] = func(a dynamo.Accelerator) dynamo.Stepper { return integrators.NewRK4(a) }
	r.integrators["euler"] = func(a dynamo.Accelerator) dynamo.Stepper { return integrators.NewEuler(a) }
	r.integrators["verlet"] = func(a dynamo.Accelerator) dynamo.Stepper { return integrators.NewVerlet(a) }

	return r
}

// RegisterField adds or replaces a named field configuration.
func (r *Registry) RegisterField(name string, fn func(config.FieldConfig) field.EM) {
	r.fields[name] = fn
}

func (r *Registry) GetField(cfg config.FieldConfig) (field.EM, error) {
	fn, ok := r.fields[cfg.Model]
	if !ok {
		return field.EM{}, fmt.Errorf("%w: %s (available: %v)", dynamo.ErrUnknownField, cfg.Model, r.ListFields())
	}
	return fn(cfg), nil
}

func (r *Registry) GetIntegrator(name string, model dynamo.Accelerator) (dynamo.Stepper, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(model), nil
}

func (r *Registry) ListFields() []string {
	return sortedKeys(r.fields)
}

func (r *Registry) ListIntegrators() []string {
	return sortedKeys(r.integrators)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func toVec(c [3]float64) vec.Vector3 {
	return vec.New(c[0], c[1], c[2])
}
