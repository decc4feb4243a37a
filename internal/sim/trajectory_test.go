package sim_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lorentz/internal/dynamo"
	"github.com/san-kum/lorentz/internal/field"
	"github.com/san-kum/lorentz/internal/integrators"
	"github.com/san-kum/lorentz/internal/physics"
	"github.com/san-kum/lorentz/internal/sim"
	"github.com/san-kum/lorentz/internal/vec"
)

func sampler(em field.EM) *sim.Sampler {
	return sim.New(integrators.NewRK4(physics.NewLorentz(em)))
}

var uniformZ = field.EM{E: field.Zero{}, B: field.Uniform{V: vec.New(0, 0, 1)}}

var _ = Describe("Sampler", func() {
	Describe("frame count", func() {
		p0 := dynamo.Ion.Apply(vec.New(1, 0, 0), vec.New(0, 1, 0))

		It("matches totalSteps/stride + 1", func() {
			tc := dynamo.TimeConfig{Duration: 10, Dt: 0.01, Stride: 10}
			Expect(tc.TotalSteps()).To(Equal(1000))
			Expect(sampler(uniformZ).Run(p0, tc)).To(HaveLen(101))
		})

		It("records initial and final frames when stride equals the step count", func() {
			tc := dynamo.TimeConfig{Duration: 1, Dt: 0.01, Stride: 100}
			frames := sampler(uniformZ).Run(p0, tc)
			Expect(frames).To(HaveLen(2))
			Expect(frames[0].Time).To(Equal(0.0))
			Expect(frames[1].Time).To(BeNumerically("~", 1.0, 1e-12))
		})

		It("records every step when stride is one", func() {
			tc := dynamo.TimeConfig{Duration: 0.5, Dt: 0.01, Stride: 1}
			Expect(sampler(uniformZ).Run(p0, tc)).To(HaveLen(tc.TotalSteps() + 1))
		})

		It("records only the initial frame for a zero horizon", func() {
			tc := dynamo.TimeConfig{Duration: 0, Dt: 0.01, Stride: 5}
			frames := sampler(uniformZ).Run(p0, tc)
			Expect(frames).To(HaveLen(1))
			Expect(frames[0].Position).To(Equal(p0.Position))
		})
	})

	Describe("in a field-free region", func() {
		It("moves in a straight line at constant velocity", func() {
			p0 := dynamo.Electron.Apply(vec.New(1, -2, 0.5), vec.New(0.3, 0.7, -1.1))
			tc := dynamo.TimeConfig{Duration: 5, Dt: 0.01, Stride: 25}

			frames := sampler(field.EM{E: field.Zero{}, B: field.Zero{}}).Run(p0, tc)
			Expect(frames).To(HaveLen(tc.FrameCount()))

			for _, f := range frames {
				want := p0.Position.Add(p0.Velocity.Scale(f.Time))
				Expect(f.Position.Sub(want).Norm()).To(BeNumerically("<", 1e-12))
				Expect(f.Velocity).To(Equal(p0.Velocity))
			}
		})
	})

	Describe("in a uniform magnetic field", func() {
		p0 := dynamo.Ion.Apply(vec.New(0, 0, 0), vec.New(0, 1, 0))
		tc := dynamo.TimeConfig{Duration: 1, Dt: 0.001, Stride: 10}

		It("conserves kinetic energy", func() {
			frames := sampler(uniformZ).Run(p0, tc)
			e0 := frames[0].Energy
			Expect(e0).To(Equal(0.5))
			for _, f := range frames {
				Expect(math.Abs(f.Energy-e0) / e0).To(BeNumerically("<", 1e-6))
			}
		})

		It("gyrates on the Larmor circle", func() {
			radius, _ := physics.Gyration(p0, vec.New(0, 0, 1))
			// Positive charge with v along y and B along z is pushed toward +x.
			centre := vec.New(radius, 0, 0)
			for _, f := range sampler(uniformZ).Run(p0, tc) {
				Expect(f.Position.Sub(centre).Norm()).To(BeNumerically("~", radius, 1e-9))
			}
		})

		It("reverses the sense of gyration for the opposite charge", func() {
			ion := sampler(uniformZ).Run(p0, tc)
			electron := sampler(uniformZ).Run(dynamo.Electron.Apply(p0.Position, p0.Velocity), tc)

			Expect(electron).To(HaveLen(len(ion)))
			for i := range ion {
				Expect(electron[i].Position.X).To(BeNumerically("~", -ion[i].Position.X, 1e-12))
				Expect(electron[i].Position.Y).To(BeNumerically("~", ion[i].Position.Y, 1e-12))
				Expect(electron[i].Velocity.Norm()).To(BeNumerically("~", ion[i].Velocity.Norm(), 1e-12))
			}
			Expect(ion[len(ion)-1].Position.X).To(BeNumerically(">", 0))
			Expect(electron[len(electron)-1].Position.X).To(BeNumerically("<", 0))
		})

		It("reverses the sense of gyration for the opposite field", func() {
			flipped := field.EM{E: field.Zero{}, B: field.Negate(uniformZ.B)}
			ion := sampler(uniformZ).Run(p0, tc)
			mirrored := sampler(flipped).Run(p0, tc)

			for i := range ion {
				Expect(mirrored[i].Position.X).To(BeNumerically("~", -ion[i].Position.X, 1e-12))
				Expect(mirrored[i].Position.Y).To(BeNumerically("~", ion[i].Position.Y, 1e-12))
			}
		})

		It("is unchanged when both charge and field are reversed", func() {
			flipped := field.EM{E: field.Zero{}, B: field.Negate(uniformZ.B)}
			ion := sampler(uniformZ).Run(p0, tc)
			electron := sampler(flipped).Run(dynamo.Electron.Apply(p0.Position, p0.Velocity), tc)

			for i := range ion {
				Expect(electron[i].Position.Sub(ion[i].Position).Norm()).To(BeNumerically("<", 1e-12))
				Expect(electron[i].Energy).To(BeNumerically("~", ion[i].Energy, 1e-12))
			}
		})
	})

	Describe("in a constant electric field", func() {
		It("reproduces uniformly accelerated motion", func() {
			e := vec.New(0, 0, -2)
			p0 := dynamo.Ion.Apply(vec.New(0, 0, 10), vec.New(1, 0, 3))
			tc := dynamo.TimeConfig{Duration: 2, Dt: 0.05, Stride: 4}

			frames := sampler(field.EM{E: field.Uniform{V: e}, B: field.Zero{}}).Run(p0, tc)
			for _, f := range frames {
				want := p0.Position.Add(p0.Velocity.Scale(f.Time)).Add(e.Scale(0.5 * f.Time * f.Time))
				Expect(f.Position.Sub(want).Norm()).To(BeNumerically("<", 1e-10))
				Expect(f.Velocity.Sub(p0.Velocity.Add(e.Scale(f.Time))).Norm()).To(BeNumerically("<", 1e-10))
			}
		})
	})

	Describe("in the dipole field", func() {
		em := field.EM{E: field.Zero{}, B: field.Dipole{Moment: 1}}
		p0 := dynamo.Electron.Apply(vec.New(1, 0, 0), vec.New(0, 0.05, 0.02))
		tc := dynamo.TimeConfig{Duration: 2, Dt: 0.001, Stride: 50}

		It("is deterministic", func() {
			Expect(sampler(em).Run(p0, tc)).To(Equal(sampler(em).Run(p0, tc)))
		})

		It("surfaces the singularity as non-finite output", func() {
			frames := sampler(em).Run(dynamo.Ion.Apply(vec.Vector3{}, vec.New(0, 0, 1)), tc)
			Expect(frames).To(HaveLen(tc.FrameCount()))
			Expect(frames[0].IsValid()).To(BeTrue())
			Expect(frames[1].IsValid()).To(BeFalse())
		})
	})
})
