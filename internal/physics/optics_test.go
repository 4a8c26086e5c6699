package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lessonlab/internal/physics"
)

var _ = Describe("Optics", func() {
	Describe("Sinc", func() {
		It("is 1 at the origin and vanishes at integers", func() {
			Expect(physics.Sinc(0)).To(Equal(1.0))
			Expect(physics.Sinc(1)).To(BeNumerically("~", 0, 1e-15))
			Expect(physics.Sinc(-3)).To(BeNumerically("~", 0, 1e-15))
		})
	})

	Describe("Grating", func() {
		var g physics.Grating

		BeforeEach(func() {
			g = physics.Grating{N: 5, A: 2e-6, B: 1e-6, Lambda: 0.633e-6, D: 1}
		})

		It("has unit intensity on axis", func() {
			Expect(g.Intensity(0)).To(BeNumerically("~", 1, 1e-12))
		})

		It("returns the limit at principal maxima", func() {
			x := g.Lambda * g.D / g.A
			Expect(g.StructureFactor(x)).To(BeNumerically("~", 1, 1e-6))
		})

		It("vanishes between principal maxima", func() {
			x := g.Lambda * g.D / (float64(g.N) * g.A)
			Expect(g.StructureFactor(x)).To(BeNumerically("~", 0, 1e-12))
		})

		It("never exceeds the form factor", func() {
			for _, x := range []float64{-0.7, -0.2, 0.05, 0.33, 0.9} {
				Expect(g.Intensity(x)).To(BeNumerically("<=", g.FormFactor(x)+1e-12))
			}
		})
	})

	Describe("YoungSlits", func() {
		y := physics.YoungSlits{Lambda: 633e-9, A: 1e-3, W: 100e-6, L: 1}

		It("has fringes spaced by λL/a", func() {
			i := y.Interfringe()
			Expect(i).To(BeNumerically("~", 633e-6, 1e-12))
			Expect(y.Intensity(i)).To(BeNumerically("~", y.Envelope(i), 1e-9))
			Expect(y.Intensity(i / 2)).To(BeNumerically("~", 0, 1e-12))
		})
	})

	Describe("Superpose", func() {
		It("doubles in phase and cancels in opposition", func() {
			Expect(physics.Superpose(0, 1, 0)).To(BeNumerically("~", 2, 1e-12))
			Expect(physics.Superpose(0.3, 1, math.Pi)).To(BeNumerically("~", 0, 1e-12))
		})
	})
})
