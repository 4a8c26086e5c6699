package physics

import "math"

// PlanckNu is the black body spectral radiance per unit frequency.
func PlanckNu(T, nu float64) float64 {
	return 2 * H * nu * nu * nu / (C * C) / math.Expm1(H*nu/(K*T))
}

// WienNu is the high frequency approximation of PlanckNu.
func WienNu(T, nu float64) float64 {
	return 2 * H * nu * nu * nu / (C * C) * math.Exp(-H*nu/(K*T))
}

// RayleighJeansNu is the low frequency approximation of PlanckNu.
func RayleighJeansNu(T, nu float64) float64 {
	return 2 * K * T * nu * nu / (C * C)
}

// PerWavelength converts a per-frequency radiance law to per-wavelength.
func PerWavelength(law func(T, nu float64) float64) func(T, lambda float64) float64 {
	return func(T, lambda float64) float64 {
		return law(T, C/lambda) * C / (lambda * lambda)
	}
}

var (
	PlanckLambda        = PerWavelength(PlanckNu)
	WienLambda          = PerWavelength(WienNu)
	RayleighJeansLambda = PerWavelength(RayleighJeansNu)
)

// WienPeak is the wavelength of maximum emission, b/T.
func WienPeak(T float64) float64 {
	return WienB / T
}

// Diffusion describes a gaussian packet of initial width Sigma0 spreading
// with coefficient D.
type Diffusion struct {
	Sigma0 float64
	D      float64
	Amount float64
}

func (d Diffusion) Sigma(t float64) float64 {
	return math.Sqrt(d.Sigma0*d.Sigma0 + d.D*t)
}

// Density is a·exp(-½(x/σ)²)/√(2πσ) at time t.
func (d Diffusion) Density(x, t float64) float64 {
	s := d.Sigma(t)
	u := x / s
	return d.Amount * math.Exp(-0.5*u*u) / math.Sqrt(2*math.Pi*s)
}
