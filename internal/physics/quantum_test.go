package physics_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lessonlab/internal/physics"
)

var _ = Describe("Barrier", func() {
	b := physics.Barrier{V: 6, D: 2}

	It("stays a probability", func() {
		for _, e := range []float64{0.5, 2, 5.9, 6.1, 9, 12} {
			t := b.Transmission(e)
			Expect(t).To(BeNumerically(">=", 0))
			Expect(t).To(BeNumerically("<=", 1+1e-12))
		}
	})

	It("uses the limit at the barrier top", func() {
		Expect(b.Transmission(6)).To(BeNumerically("~", 1.0/13, 1e-12))
	})

	It("is fully transparent without a barrier", func() {
		Expect(physics.Barrier{V: 6, D: 0}.Transmission(2)).To(BeNumerically("~", 1, 1e-12))
	})

	It("drops with barrier width", func() {
		thin := physics.Barrier{V: 6, D: 0.5}
		Expect(b.Transmission(3)).To(BeNumerically("<", thin.Transmission(3)))
	})

	It("switches classically at V", func() {
		Expect(b.Classical(5.99)).To(Equal(0.0))
		Expect(b.Classical(6.01)).To(Equal(1.0))
	})

	It("approximates thick barriers", func() {
		wide := physics.Barrier{V: 6, D: 4}
		t, ok := wide.WideBarrier(1)
		Expect(ok).To(BeTrue())
		Expect(t / wide.Transmission(1)).To(BeNumerically("~", 1, 1e-6))

		_, ok = wide.WideBarrier(7)
		Expect(ok).To(BeFalse())
		_, ok = physics.Barrier{V: 6, D: 0.1}.WideBarrier(1)
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("SquareWell", func() {
	well := physics.NewSquareWell()

	It("has a flat bottom and walls at ±L", func() {
		Expect(well.Potential(0)).To(Equal(0.0))
		Expect(well.Potential(0.99)).To(Equal(0.0))
		Expect(well.Potential(1.5)).To(Equal(well.Vo))
		Expect(well.Potential(-1.5)).To(Equal(well.Vo))
	})

	It("finds ordered bound states below the well depth", func() {
		energies, err := well.Eigenenergies(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(len(energies)).To(BeNumerically(">=", 4))
		Expect(energies[0]).To(BeNumerically(">", 0.5))
		Expect(energies[0]).To(BeNumerically("<", 1.5))
		for i := 1; i < len(energies); i++ {
			Expect(energies[i]).To(BeNumerically(">", energies[i-1]))
			Expect(energies[i]).To(BeNumerically("<", well.Vo))
		}
	})

	It("normalizes wave functions", func() {
		energies, err := well.Eigenenergies(context.Background())
		Expect(err).NotTo(HaveOccurred())
		psi, err := well.WaveFunction(context.Background(), energies[0])
		Expect(err).NotTo(HaveOccurred())
		Expect(psi).To(HaveLen(well.N))

		grid := well.Grid()
		dx := grid[1] - grid[0]
		norm := physics.Normalize(psi, dx)
		sum := 0.0
		for _, v := range norm {
			sum += v * v * dx
		}
		Expect(sum).To(BeNumerically("~", 1, 1e-9))
	})

	It("returns zeros for a null wave function", func() {
		Expect(physics.Normalize([]float64{0, 0}, 0.1)).To(Equal([]float64{0, 0}))
	})

	It("stops when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := well.WaveFunction(ctx, 1)
		Expect(err).To(MatchError(context.Canceled))
	})

	It("keeps ψ finite inside the well", func() {
		psi, err := well.WaveFunction(context.Background(), 3)
		Expect(err).NotTo(HaveOccurred())
		for _, v := range psi {
			Expect(math.IsNaN(v)).To(BeFalse())
		}
	})
})
