package physics_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lessonlab/internal/dynamo"
	"github.com/san-kum/lessonlab/internal/integrators"
	"github.com/san-kum/lessonlab/internal/physics"
)

var _ = Describe("Pendulum", func() {
	p := physics.NewPendulum()

	It("rests at the bottom", func() {
		d := p.Derive(dynamo.State{0, 0}, 0)
		Expect(d).To(Equal(dynamo.State{0, 0}))
	})

	It("conserves energy", func() {
		x0 := dynamo.State{0.5, 0}
		states, err := integrators.Odeint(context.Background(), p, x0, dynamo.Linspace(0, 5, 101), integrators.Options{})
		Expect(err).NotTo(HaveOccurred())
		e0 := p.Energy(x0)
		for _, s := range states {
			Expect(p.Energy(s)).To(BeNumerically("~", e0, 1e-5))
		}
	})

	It("turns over above the separatrix", func() {
		Expect(p.Separatrix()).To(Equal(8.0))
		x := dynamo.State{0, p.Separatrix() * 1.01}
		Expect(p.Energy(x)).To(BeNumerically(">", 2*p.Omega0*p.Omega0))
	})
})

var _ = Describe("Orbit", func() {
	It("is a circle of radius a when e = 0", func() {
		o := physics.Orbit{M1: physics.Msun, M2: physics.Mearth, A: physics.AU}
		for _, th := range []float64{0, 1, 2, 4} {
			Expect(o.Radius(th)).To(BeNumerically("~", physics.AU, physics.AU*1e-12))
		}
	})

	It("keeps the centre of mass fixed", func() {
		o := physics.Orbit{M1: 10 * physics.Msun, M2: physics.Msun, A: physics.AU, Ecc: 0.5, Theta0: 0.3}
		_, _, x1, y1, x2, y2 := o.Positions(1.2)
		Expect(o.M1 * x1 / (o.M2 * x2)).To(BeNumerically("~", -1, 1e-12))
		Expect(o.M1 * y1 / (o.M2 * y2)).To(BeNumerically("~", -1, 1e-12))
	})

	It("reaches perihelion at θ0", func() {
		o := physics.Orbit{M1: physics.Msun, M2: physics.Msun, A: physics.AU, Ecc: 0.6, Theta0: math.Pi / 4}
		Expect(o.Radius(math.Pi / 4)).To(BeNumerically("~", physics.AU*0.4, physics.AU*1e-9))
		Expect(o.Radius(math.Pi/4 + math.Pi)).To(BeNumerically("~", physics.AU*1.6, physics.AU*1e-9))
	})

	It("gives the Earth a year", func() {
		o := physics.Orbit{M1: physics.Msun, M2: physics.Mearth, A: physics.AU}
		Expect(o.Period()).To(BeNumerically("~", physics.Year, physics.Year*5e-3))
	})
})
