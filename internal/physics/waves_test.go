package physics_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lessonlab/internal/physics"
)

var _ = Describe("Waves", func() {
	Describe("Sample", func() {
		It("takes int(fs·Tacq)+1 samples", func() {
			ts, ys := physics.Sample(31, 10, 1, 1)
			Expect(ts).To(HaveLen(32))
			Expect(ys[0]).To(Equal(1.0))
			Expect(ts[31]).To(BeNumerically("~", 1, 1e-12))
		})

		DescribeTable("aliases above Nyquist",
			func(fe, fs, want float64) {
				Expect(physics.AliasFrequency(fe, fs)).To(BeNumerically("~", want, 1e-12))
			},
			Entry("well sampled", 10.0, 31.0, 10.0),
			Entry("just above the tone", 10.0, 12.0, 2.0),
			Entry("at the tone", 10.0, 10.0, 0.0),
			Entry("below Nyquist", 10.0, 15.0, 5.0),
		)
	})

	It("damps with a quality factor πfτ", func() {
		o := physics.DampedOscillator{F: 5, Amp: 5, Tau: 0.5}
		Expect(o.At(0)).To(Equal(5.0))
		Expect(o.Envelope(0.5)).To(BeNumerically("~", 5/2.718281828459045, 1e-12))
		Expect(o.QualityFactor()).To(BeNumerically("~", 7.853981633974483, 1e-12))
	})

	It("moves a dispersive packet at the group velocity", func() {
		p := physics.NewDispersivePacket()
		Expect(p.VGroup()).To(BeNumerically("~", 1/1.1, 1e-15))
		Expect(p.Envelope(0, 0)).To(Equal(1.0))
		Expect(p.Envelope(5, 5*p.VGroup())).To(BeNumerically("~", 1/p.Attenuation(5), 1e-12))
	})

	Describe("Reflection", func() {
		It("is continuous at the interface", func() {
			r := physics.Reflection{Speed: 340, Freq: 1000, Amp: 4, Z2: 3}
			Expect(r.R()).To(BeNumerically("~", 0.5, 1e-15))
			Expect(r.At(2e-4, -1e-12)).To(BeNumerically("~", r.At(2e-4, 0), 1e-6))
		})

		It("does not reflect on matched impedance", func() {
			r := physics.Reflection{Speed: 340, Freq: 1000, Amp: 4, Z2: 1}
			Expect(r.R()).To(Equal(0.0))
			Expect(r.T()).To(Equal(1.0))
		})
	})

	It("derives sound amplitudes from the level", func() {
		s := physics.NewSound(180)
		Expect(s.PressureAmplitude()).To(BeNumerically("~", 28284.27, 0.01))
		Expect(s.Wavelength()).To(Equal(0.17))
		_, y := s.Particle(0.3, 0.75, 0)
		Expect(y).To(Equal(0.5))
	})
})
