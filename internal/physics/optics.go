package physics

import "math"

// Sinc is the normalized sinc, sin(πu)/(πu), with Sinc(0) = 1.
func Sinc(u float64) float64 {
	if u == 0 {
		return 1
	}
	pu := math.Pi * u
	return math.Sin(pu) / pu
}

// Grating describes N slits of width B spaced A apart, lit at wavelength
// Lambda and observed on a screen at distance D. Lengths in metres.
type Grating struct {
	N      int
	A      float64
	B      float64
	Lambda float64
	D      float64
}

// FormFactor is the single slit diffraction envelope sinc²(b x / (λ D)).
func (g Grating) FormFactor(x float64) float64 {
	s := Sinc(g.B * x / (g.D * g.Lambda))
	return s * s
}

// StructureFactor is (sin(Nφ) / (N sin φ))² with φ = π a x / (λ D).
// Where sin φ vanishes the limit 1 is returned.
func (g Grating) StructureFactor(x float64) float64 {
	phi := math.Pi * g.A * x / (g.Lambda * g.D)
	den := float64(g.N) * math.Sin(phi)
	if math.Abs(den) < 1e-12 {
		return 1
	}
	r := math.Sin(float64(g.N)*phi) / den
	return r * r
}

func (g Grating) Intensity(x float64) float64 {
	return g.FormFactor(x) * g.StructureFactor(x)
}

// YoungSlits are two slits of width W at centre distance A, wavenumber
// from Lambda, with the screen at distance L.
type YoungSlits struct {
	Lambda float64
	A      float64
	W      float64
	L      float64
}

func (y YoungSlits) k() float64 { return 2 * math.Pi / y.Lambda }

func (y YoungSlits) Envelope(x float64) float64 {
	s := Sinc(y.k() * y.W * x / (2 * y.L) / math.Pi)
	return s * s
}

func (y YoungSlits) Intensity(x float64) float64 {
	c := math.Cos(y.k() * y.A * x / (2 * y.L))
	return y.Envelope(x) * c * c
}

// Interfringe is the fringe spacing λL/a.
func (y YoungSlits) Interfringe() float64 {
	return y.Lambda * y.L / y.A
}

// Wave is cos(2πx/λ + φ).
func Wave(x, lambda, phi float64) float64 {
	return math.Cos(2*math.Pi*x/lambda + phi)
}

// Superpose returns the sum of an in-phase wave and one shifted by phi.
func Superpose(x, lambda, phi float64) float64 {
	return Wave(x, lambda, 0) + Wave(x, lambda, phi)
}
