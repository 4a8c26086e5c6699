package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lessonlab/internal/dynamo"
	"github.com/san-kum/lessonlab/internal/physics"
)

var _ = Describe("Radiation", func() {
	const T = 5800.0

	It("peaks at the Wien wavelength", func() {
		lambdas := dynamo.Linspace(1e-7, 3e-6, 30000)
		best, bestB := 0.0, 0.0
		for _, l := range lambdas {
			if b := physics.PlanckLambda(T, l); b > bestB {
				best, bestB = l, b
			}
		}
		Expect(best).To(BeNumerically("~", physics.WienPeak(T), physics.WienPeak(T)*5e-3))
	})

	It("matches Wien at high frequency", func() {
		nu := 20 * physics.K * T / physics.H
		Expect(physics.PlanckNu(T, nu) / physics.WienNu(T, nu)).To(BeNumerically("~", 1, 1e-8))
	})

	It("matches Rayleigh-Jeans at low frequency", func() {
		nu := 1e-4 * physics.K * T / physics.H
		Expect(physics.PlanckNu(T, nu) / physics.RayleighJeansNu(T, nu)).To(BeNumerically("~", 1, 1e-3))
	})

	Describe("Diffusion", func() {
		d := physics.Diffusion{Sigma0: 0.1, D: 1, Amount: 500}

		It("spreads as √(σ0² + D t)", func() {
			Expect(d.Sigma(0)).To(BeNumerically("~", 0.1, 1e-15))
			Expect(d.Sigma(99.99)).To(BeNumerically("~", 10, 1e-12))
		})

		It("is centred and decays over time", func() {
			Expect(d.Density(0, 1)).To(BeNumerically(">", d.Density(0.5, 1)))
			Expect(d.Density(0, 10)).To(BeNumerically("<", d.Density(0, 1)))
			Expect(d.Density(-2, 3)).To(BeNumerically("~", d.Density(2, 3), 1e-15))
		})
	})

	It("keeps every law positive", func() {
		for _, l := range []float64{2e-7, 5e-7, 1e-6, 1e-5} {
			Expect(physics.PlanckLambda(T, l)).To(BeNumerically(">", 0))
			Expect(physics.WienLambda(T, l)).To(BeNumerically(">", 0))
			Expect(physics.RayleighJeansLambda(T, l)).To(BeNumerically(">", physics.PlanckLambda(T, l)))
			Expect(math.IsInf(physics.PlanckLambda(T, l), 0)).To(BeFalse())
		}
	})
})
