package physics_test

import (
	"math"
	"math/cmplx"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lessonlab/internal/physics"
)

var _ = Describe("SeriesRLC", func() {
	c := physics.SeriesRLC{R: 10, L: 1e-3, C: 10e-6}

	It("derives the resonance and damping", func() {
		Expect(c.Omega0()).To(BeNumerically("~", 1e4, 1e-6))
		Expect(c.Damping()).To(BeNumerically("~", 0.5, 1e-12))
		Expect(c.QualityFactor()).To(BeNumerically("~", 1, 1e-12))
	})

	Describe("Step", func() {
		It("starts from a charged capacitor and no current", func() {
			vc, vr, vl := c.Step(0)
			Expect(vc).To(BeNumerically("~", 1, 1e-12))
			Expect(vr).To(BeNumerically("~", 0, 1e-12))
			Expect(vl).To(BeNumerically("~", -1, 1e-12))
		})

		It("relaxes to zero", func() {
			vc, vr, vl := c.Step(1e-2)
			Expect(math.Abs(vc)).To(BeNumerically("<", 1e-6))
			Expect(math.Abs(vr)).To(BeNumerically("<", 1e-6))
			Expect(math.Abs(vl)).To(BeNumerically("<", 1e-6))
		})

		It("uses the repeated root at critical damping", func() {
			crit := physics.SeriesRLC{R: 2, L: 1, C: 1}
			Expect(crit.Damping()).To(Equal(1.0))

			vc, vr, _ := crit.Step(1)
			Expect(vc).To(BeNumerically("~", 2/math.E, 1e-12))
			Expect(vr).To(BeNumerically("~", -2/math.E, 1e-12))

			near := physics.SeriesRLC{R: 2 * (1 + 1e-6), L: 1, C: 1}
			nvc, nvr, _ := near.Step(1)
			Expect(nvc).To(BeNumerically("~", vc, 1e-5))
			Expect(nvr).To(BeNumerically("~", vr, 1e-5))
		})

		It("overdamps without oscillating", func() {
			over := physics.SeriesRLC{R: 100, L: 1e-3, C: 10e-6}
			prev := 2.0
			for _, t := range []float64{0, 1e-4, 2e-4, 5e-4, 1e-3} {
				vc, _, _ := over.Step(t)
				Expect(vc).To(BeNumerically("<", prev))
				Expect(vc).To(BeNumerically(">", 0))
				prev = vc
			}
		})
	})

	Describe("Transfer", func() {
		It("splits the source voltage over the components", func() {
			for _, f := range []float64{10, 500, 1591.5, 10000} {
				hr, hl, hc := c.Transfer(f)
				Expect(cmplx.Abs(hr + hl + hc - 1)).To(BeNumerically("<", 1e-12))
			}
		})

		It("is purely resistive at resonance", func() {
			f0 := c.Omega0() / (2 * math.Pi)
			hr, _, hc := c.Transfer(f0)
			Expect(cmplx.Abs(hr)).To(BeNumerically("~", 1, 1e-9))
			Expect(physics.PhaseDeg(hr)).To(BeNumerically("~", 0, 1e-6))
			Expect(physics.PhaseDeg(hc)).To(BeNumerically("~", -90, 1e-6))
		})
	})
})
