package physics_test

import (
	"bytes"
	"math"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lessonlab/internal/dynamo"
	"github.com/san-kum/lessonlab/internal/physics"
)

var _ = Describe("Van der Waals", func() {
	It("passes through the critical point", func() {
		Expect(physics.VdWPressure(1, 1)).To(BeNumerically("~", 1, 1e-15))
	})

	It("finds the spinodal extrema below Tc", func() {
		vs, ps, err := physics.Spinodal(0.9)
		Expect(err).NotTo(HaveOccurred())
		Expect(vs).To(HaveLen(2))
		for i, v := range vs {
			Expect(v).To(BeNumerically(">", 1.0/3))
			Expect(ps[i]).To(BeNumerically("~", physics.VdWPressure(0.9, v), 1e-12))
			h := 1e-6
			slope := (physics.VdWPressure(0.9, v+h) - physics.VdWPressure(0.9, v-h)) / (2 * h)
			Expect(slope).To(BeNumerically("~", 0, 1e-4))
		}
	})

	It("has no spinodal above Tc", func() {
		vs, _, err := physics.Spinodal(1.1)
		Expect(err).NotTo(HaveOccurred())
		Expect(vs).To(BeEmpty())
	})

	Describe("Maxwell", func() {
		It("balances the areas", func() {
			const t = 0.9
			p, vl, vg, err := physics.Maxwell(t)
			Expect(err).NotTo(HaveOccurred())
			Expect(p).To(BeNumerically("~", 0.647, 5e-3))
			Expect(vl).To(BeNumerically("<", 1))
			Expect(vg).To(BeNumerically(">", 1))
			Expect(physics.VdWPressure(t, vl)).To(BeNumerically("~", p, 1e-8))
			Expect(physics.VdWPressure(t, vg)).To(BeNumerically("~", p, 1e-8))

			area := 8*t/3*math.Log((3*vg-1)/(3*vl-1)) + 3/vg - 3/vl - p*(vg-vl)
			Expect(area).To(BeNumerically("~", 0, 1e-8))
		})

		It("rejects supercritical temperatures", func() {
			_, _, _, err := physics.Maxwell(1.1)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		})
	})

	Describe("Coexistence", func() {
		var data *physics.CoexistenceData

		BeforeEach(func() {
			var err error
			data, err = physics.Coexistence(0.85, 40, 300)
			Expect(err).NotTo(HaveOccurred())
		})

		It("builds a dome topped by the critical point", func() {
			Expect(data.Validate()).To(Succeed())
			top := 0.0
			for _, p := range data.PSat {
				top = math.Max(top, p)
			}
			Expect(top).To(BeNumerically("~", 1, 1e-9))
			Expect(data.SaturationAt(1)).To(BeNumerically("~", 1, 1e-2))
			Expect(math.IsNaN(data.SaturationAt(0.2))).To(BeTrue())
		})

		It("locates an isotherm's saturation points", func() {
			_, vl, vg, err := physics.Maxwell(0.9)
			Expect(err).NotTo(HaveOccurred())

			v, _, ok := physics.Saturation(0.9, data.VSat, data.PSat)
			Expect(ok).To(BeTrue())
			Expect(v[0]).To(BeNumerically("~", vl, 0.05))
			Expect(v[1]).To(BeNumerically("~", vg, 0.1))

			_, _, ok = physics.Saturation(1.1, data.VSat, data.PSat)
			Expect(ok).To(BeFalse())
		})

		It("round-trips through JSON", func() {
			var buf bytes.Buffer
			Expect(data.Save(&buf)).To(Succeed())
			Expect(buf.String()).To(ContainSubstring(`"v_sat"`))
			Expect(buf.String()).To(ContainSubstring(`"p_spin"`))

			loaded, err := physics.LoadCoexistence(&buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.VSat).To(Equal(data.VSat))
			Expect(loaded.PSpin).To(Equal(data.PSpin))
		})
	})

	It("rejects malformed data files", func() {
		_, err := physics.LoadCoexistence(strings.NewReader(`{"v_sat":[1,2],"p_sat":[1]}`))
		Expect(err).To(MatchError(dynamo.ErrDataFormat))

		_, err = physics.LoadCoexistence(strings.NewReader(`not json`))
		Expect(err).To(MatchError(dynamo.ErrDataFormat))
	})
})
