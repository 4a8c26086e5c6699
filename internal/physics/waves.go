package physics

import (
	"math"
	"math/cmplx"
)

// Sample takes int(fs·tacq)+1 samples of amp·cos(2π fe t) at t = i/fs.
func Sample(fs, fe, tacq, amp float64) (ts, ys []float64) {
	n := int(fs*tacq) + 1
	ts = make([]float64, n)
	ys = make([]float64, n)
	for i := range ts {
		ts[i] = float64(i) / fs
		ys[i] = amp * math.Cos(2*math.Pi*fe*ts[i])
	}
	return ts, ys
}

// AliasFrequency is the apparent frequency of a tone fe sampled at fs.
func AliasFrequency(fe, fs float64) float64 {
	return math.Abs(fe - fs*math.Round(fe/fs))
}

// DampedOscillator is amp·cos(2πft+φ)·exp(-t/τ).
type DampedOscillator struct {
	F   float64
	Amp float64
	Tau float64
	Phi float64
}

func (o DampedOscillator) Envelope(t float64) float64 {
	return o.Amp * math.Exp(-t/o.Tau)
}

func (o DampedOscillator) At(t float64) float64 {
	return o.Envelope(t) * math.Cos(2*math.Pi*o.F*t+o.Phi)
}

// QualityFactor is π f τ.
func (o DampedOscillator) QualityFactor() float64 {
	return math.Pi * o.F * o.Tau
}

// DispersivePacket is a damped wave packet whose phase and group
// velocities differ, vg = c²/vφ.
type DispersivePacket struct {
	Period float64
	C      float64
	VPhi   float64
	Tau    float64
}

func NewDispersivePacket() DispersivePacket {
	return DispersivePacket{Period: 0.25, C: 1, VPhi: 1.1, Tau: 15}
}

func (p DispersivePacket) VGroup() float64 {
	return p.C * p.C / p.VPhi
}

func (p DispersivePacket) Attenuation(t float64) float64 {
	r := t / p.Tau
	return 1 + r*r
}

func (p DispersivePacket) Envelope(t, x float64) float64 {
	att := p.Attenuation(t)
	u := t - x/p.VGroup()
	return math.Exp(-u*u/att) / att
}

func (p DispersivePacket) Amplitude(t, x float64) float64 {
	return p.Envelope(t, x) * math.Cos(2*math.Pi/p.Period*(t-x/p.VPhi))
}

// Reflection is a harmonic plane wave hitting an impedance step at x = 0,
// going from Z1 = 1 to Z2.
type Reflection struct {
	Speed float64
	Freq  float64
	Amp   float64
	Z2    float64
}

// R is the amplitude reflection coefficient (Z2-1)/(Z2+1).
func (r Reflection) R() float64 {
	return (r.Z2 - 1) / (1 + r.Z2)
}

// T is the amplitude transmission coefficient 1+r.
func (r Reflection) T() float64 {
	return 1 + r.R()
}

func (r Reflection) At(t, x float64) float64 {
	w := 2 * math.Pi * r.Freq
	incident := cmplx.Exp(complex(0, w*(t-x/r.Speed)))
	if x < 0 {
		reflected := cmplx.Exp(complex(0, w*(t+x/r.Speed)))
		return real(complex(r.Amp, 0)*incident + complex(r.Amp*r.R(), 0)*reflected)
	}
	return real(complex(r.Amp*r.T(), 0) * incident)
}

// Sound is a plane acoustic wave in air at frequency F0 and level L dB SPL.
type Sound struct {
	Speed   float64
	PRef    float64
	P0      float64
	Rho0    float64
	F0      float64
	LevelDB float64
}

func NewSound(level float64) Sound {
	return Sound{Speed: 340, PRef: 2e-5, P0: 1.01325e5, Rho0: 1.184, F0: 2000, LevelDB: level}
}

func (s Sound) Wavelength() float64 { return s.Speed / s.F0 }

// PressureAmplitude is 10^(L/20)·√2·p_ref.
func (s Sound) PressureAmplitude() float64 {
	return math.Pow(10, s.LevelDB/20) * math.Sqrt2 * s.PRef
}

// DisplacementAmplitude is AP/P0·λ/(2π).
func (s Sound) DisplacementAmplitude() float64 {
	return s.PressureAmplitude() / s.P0 * s.Wavelength() / (2 * math.Pi)
}

// VelocityAmplitude is AP/(ρ0 c).
func (s Sound) VelocityAmplitude() float64 {
	return s.PressureAmplitude() / s.Rho0 / s.Speed
}

// Travelling is amp·sin(2π/λ·(x - c t)).
func (s Sound) Travelling(amp, x, t float64) float64 {
	return amp * math.Sin(2*math.Pi/s.Wavelength()*(x-s.Speed*t))
}

// Particle returns the displaced position of a dust particle at rest
// position (x, y) in the unit square, with y mapped to [-1, 1].
func (s Sound) Particle(x, y, t float64) (float64, float64) {
	a := s.DisplacementAmplitude()
	return x + a*math.Cos(2*math.Pi/s.Wavelength()*(x-s.Speed*t)), 2 * (y - 0.5)
}
