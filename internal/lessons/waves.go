package lessons

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/lessonlab/internal/dynamo"
	"github.com/san-kum/lessonlab/internal/physics"
)

type dispersivePropagation struct {
	base
	packet physics.DispersivePacket
	x      []float64
}

func NewDispersivePropagation() Lesson {
	return &dispersivePropagation{
		base: base{
			name:  "dispersive_propagation",
			title: "Propagation of a wave packet with dispersion",
			description: `This program shows the effect of dispersion on the propagation of a wave,
and in particular the difference between phase velocity and group velocity.`,
			params: []dynamo.Param{
				{Name: "t", Description: "$t$ (ms)", Value: 0, Min: 0, Max: 10},
			},
		},
		packet: physics.NewDispersivePacket(),
		x:      dynamo.Linspace(-2, 10, 3000),
	}
}

func (l *dispersivePropagation) Plot(ctx context.Context, v dynamo.Values) (*Figure, error) {
	t := l.values(v).Get("t")
	pk := l.packet

	p := &Panel{
		XLabel: "x",
		YLabel: `$\psi$`,
		XLim:   [2]float64{-2, 10},
		YLim:   [2]float64{-1.5, 1.5},
		HLines: []RefLine{{At: 1, Color: "grey", Style: Dotted}, {At: -1, Color: "grey", Style: Dotted}},
	}
	wave := line("wave", "cyan", l.x, dynamo.Map(l.x, func(x float64) float64 { return pk.Amplitude(t, x) }))
	wave.Width = 1
	p.Add(wave)
	p.Add(dashed("upper envelope", "red", l.x, dynamo.Map(l.x, func(x float64) float64 { return pk.Envelope(t, x) })))
	p.Add(dashed("lower envelope", "red", l.x, dynamo.Map(l.x, func(x float64) float64 { return -pk.Envelope(t, x) })))

	xg := pk.VGroup() * t
	p.Add(markers("group velocity", "red", []float64{xg}, []float64{1 / pk.Attenuation(t)}))
	xp := pk.VPhi * t
	p.Add(markers("phase velocity", "blue", []float64{xp}, []float64{pk.Amplitude(t, xp)}))
	return NewFigure(l.title, p), nil
}

func (l *dispersivePropagation) Frame(n int) dynamo.Values {
	return dynamo.Values{"t": math.Mod(float64(n)/10, 10)}
}

func (l *dispersivePropagation) Interval() time.Duration { return frameInterval }

func (l *dispersivePropagation) Observe(ctx context.Context, v dynamo.Values) (map[string]float64, error) {
	t := l.values(v).Get("t")
	return readouts(map[string]float64{
		"group_velocity": l.packet.VGroup(),
		"phase_velocity": l.packet.VPhi,
		"attenuation":    l.packet.Attenuation(t),
	}), nil
}

type waveReflection struct {
	base
	x []float64
}

const soundSpeed = 340.0

func NewWaveReflection() Lesson {
	return &waveReflection{
		base: base{
			name:  "wave_reflection",
			title: "Reflection of harmonic plane sound waves",
			description: `This program shows the effect of an impedance step, with amplitude
reflection coefficient $r$, on a harmonic plane sound wave. The reflection is
drawn in space and the time can be varied independently.

$r = \frac{Z_2-Z_1}{Z_2+Z_1}$

$t = 1 + r$`,
			params: []dynamo.Param{
				{Name: "t", Description: "Time -- $t$ (ms)", Unit: "ms", Value: 0, Min: 0, Max: 2},
				{Name: "f", Description: "Frequency -- $f$ (Hz)", Unit: "Hz", Value: 1000, Min: 500, Max: 1500},
				{Name: "A", Description: "Amplitude -- $A$ (V)", Unit: "V", Value: 4, Min: 0, Max: 10},
				{Name: "Z2", Description: "Impedance -- $Z_2$", Value: 1, Min: 0, Max: 10},
			},
		},
		x: dynamo.Linspace(-1, 1, 1001),
	}
}

func (l *waveReflection) model(v dynamo.Values) physics.Reflection {
	return physics.Reflection{Speed: soundSpeed, Freq: v.Get("f"), Amp: v.Get("A"), Z2: v.Get("Z2")}
}

func (l *waveReflection) Plot(ctx context.Context, v dynamo.Values) (*Figure, error) {
	v = l.values(v)
	r := l.model(v)
	t := v.Get("t") * 1e-3

	p := &Panel{
		XLabel: "Position (m)",
		YLabel: "Amplitude (a.u.)",
		XLim:   [2]float64{-1, 1},
		YLim:   [2]float64{-10, 10},
		VLines: []RefLine{{At: 0, Color: "black", Style: Dashed}},
		Notes: []string{
			fmt.Sprintf("r = %4.2f; t = %4.2f", r.R(), r.T()),
			"$Z_1=1$",
			fmt.Sprintf("$Z_2=%4.2f$", r.Z2),
		},
	}
	p.Add(line("wave", "red", l.x, dynamo.Map(l.x, func(x float64) float64 { return r.At(t, x) })))
	return NewFigure(l.title, p), nil
}

func (l *waveReflection) Frame(n int) dynamo.Values {
	return dynamo.Values{"t": math.Mod(float64(n)/50, 1)}
}

func (l *waveReflection) Interval() time.Duration { return frameInterval }

func (l *waveReflection) Observe(ctx context.Context, v dynamo.Values) (map[string]float64, error) {
	r := l.model(l.values(v))
	return readouts(map[string]float64{"r": r.R(), "t": r.T()}), nil
}

type soundPropagation struct {
	base
	dustX, dustY []float64
	x            []float64
}

const (
	dustParticles = 500
	dustSeed      = 1
)

func NewSoundPropagation() Lesson {
	rng := rand.New(rand.NewSource(dustSeed))
	l := &soundPropagation{
		base: base{
			name:        "sound_propagation",
			title:       "Dust particles in a sound wave",
			description: `This program shows the positions of dust particles moved by a 2 kHz sound wave of adjustable level.`,
			params: []dynamo.Param{
				{Name: "L", Description: "Sound level (dB SPL)", Unit: "dB", Value: 180, Min: 160, Max: 190},
				{Name: "T", Description: "Time t (ms)", Unit: "ms", Value: 0, Min: 0, Max: 1},
			},
		},
		dustX: make([]float64, dustParticles),
		dustY: make([]float64, dustParticles),
		x:     dynamo.Linspace(0, 1, 1001),
	}
	for i := range l.dustX {
		l.dustX[i] = rng.Float64()
	}
	for i := range l.dustY {
		l.dustY[i] = rng.Float64()
	}
	return l
}

func (l *soundPropagation) Plot(ctx context.Context, v dynamo.Values) (*Figure, error) {
	v = l.values(v)
	s := physics.NewSound(v.Get("L"))
	t := v.Get("T") / 1000

	px, py := make([]float64, len(l.dustX)), make([]float64, len(l.dustX))
	for i := range l.dustX {
		px[i], py[i] = s.Particle(l.dustX[i], l.dustY[i], t)
	}
	rx, ry := s.Particle(0.5, 0.5, t)

	dust := &Panel{XLim: [2]float64{0, 1}, YLim: [2]float64{-1, 1}}
	dust.Add(markers("dust", "blue", px, py))
	dust.Add(markers("tracer", "red", []float64{rx}, []float64{ry}))

	zero := []RefLine{{At: 0, Color: "black"}}
	pressure := &Panel{YLabel: "Overpressure (Pa)", XLim: [2]float64{0, 1}, YLim: [2]float64{-1e5, 1e5}, HLines: zero}
	pressure.Add(line("pressure", "red", l.x, dynamo.Map(l.x, func(x float64) float64 {
		return s.Travelling(s.PressureAmplitude(), x, t)
	})))
	velocity := &Panel{XLabel: "Position (m)", YLabel: "Velocity (m/s)", XLim: [2]float64{0, 1}, YLim: [2]float64{-1e2, 1e2}, HLines: zero}
	velocity.Add(line("velocity", "black", l.x, dynamo.Map(l.x, func(x float64) float64 {
		return s.Travelling(s.VelocityAmplitude(), x, t)
	})))
	return NewFigure(l.title, dust, pressure, velocity), nil
}

func (l *soundPropagation) Frame(n int) dynamo.Values {
	return dynamo.Values{"T": math.Mod(float64(n)/100, 1)}
}

func (l *soundPropagation) Interval() time.Duration { return frameInterval }

func (l *soundPropagation) Observe(ctx context.Context, v dynamo.Values) (map[string]float64, error) {
	s := physics.NewSound(l.values(v).Get("L"))
	return readouts(map[string]float64{
		"pressure_amplitude":     s.PressureAmplitude(),
		"displacement_amplitude": s.DisplacementAmplitude(),
		"velocity_amplitude":     s.VelocityAmplitude(),
		"wavelength":             s.Wavelength(),
	}), nil
}
