package physics

import (
	"math"
	"math/cmplx"
)

// SeriesRLC is a series RLC circuit (SI units).
type SeriesRLC struct {
	R float64
	L float64
	C float64
}

func (c SeriesRLC) Omega0() float64 {
	return 1 / math.Sqrt(c.L*c.C)
}

// Damping is the reduced damping a = R/(2 L ω0).
func (c SeriesRLC) Damping() float64 {
	return c.R / (2 * c.L * c.Omega0())
}

func (c SeriesRLC) QualityFactor() float64 {
	return 1 / (2 * c.Damping())
}

// characteristic returns the roots of r² + 2aω0 r + ω0² and whether they
// coincide (critical damping).
func (c SeriesRLC) characteristic() (r1, r2 complex128, critical bool) {
	w0 := c.Omega0()
	a := c.Damping()
	delta := a*a - 1
	switch {
	case delta > 0:
		s := math.Sqrt(delta)
		return complex((-a+s)*w0, 0), complex((-a-s)*w0, 0), false
	case delta < 0:
		s := math.Sqrt(-delta)
		return complex(-a*w0, s*w0), complex(-a*w0, -s*w0), false
	}
	return complex(-a*w0, 0), complex(-a*w0, 0), true
}

// Step returns the capacitor, resistor and inductor voltages at time t
// while the capacitor, charged to 1 V, discharges through the loop.
func (c SeriesRLC) Step(t float64) (vc, vr, vl float64) {
	r1, r2, critical := c.characteristic()
	if critical {
		r := real(r1)
		e := math.Exp(r * t)
		vc = (1 - r*t) * e
		vr = -c.R * c.C * r * r * t * e
	} else {
		e1 := cmplx.Exp(r1 * complex(t, 0))
		e2 := cmplx.Exp(r2 * complex(t, 0))
		rc := complex(c.R*c.C, 0)
		vr = real(rc * r1 * r2 / (r2 - r1) * (e1 - e2))
		vc = real((r2*e1 - r1*e2) / (r2 - r1))
	}
	vl = -vr - vc
	return vc, vr, vl
}

// Transfer returns the complex ratio of each component voltage to the
// source voltage at frequency f (Hz).
func (c SeriesRLC) Transfer(f float64) (hr, hl, hc complex128) {
	w := 2 * math.Pi * f
	zl := complex(0, c.L*w)
	zc := 1 / complex(0, c.C*w)
	z := zl + complex(c.R, 0) + zc
	return complex(c.R, 0) / z, zl / z, zc / z
}

// PhaseDeg is the argument of z in degrees.
func PhaseDeg(z complex128) float64 {
	return cmplx.Phase(z) * 180 / math.Pi
}
