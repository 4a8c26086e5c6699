package lessons

import (
	"context"
	"math"

	"github.com/san-kum/lessonlab/internal/dynamo"
	"github.com/san-kum/lessonlab/internal/metrics"
	"github.com/san-kum/lessonlab/internal/physics"
)

type nSlitDiffraction struct {
	base
	eachSeries
}

func NewNSlitDiffraction() Lesson {
	return &nSlitDiffraction{base: base{
		name:  "n_slit_diffraction",
		title: "Diffraction pattern of N slits",
		description: `This program shows the interference pattern obtained when a monochromatic
plane wave of wavelength $\lambda$ goes through $N$ slits regularly spaced by a
distance $a$ (centre to centre), each of width $b$. The screen sits at a
distance $D$ from the slits. The intensity is normalized so that situations
can be compared.

$\frac{I}{I_0} = \mathrm{sinc}^2\left(\frac{\pi bx}{\lambda D}\right)\times\frac{\sin^2(N\pi a x/\lambda D)}{N^2\sin^2(\pi ax/\lambda D)}$`,
		params: []dynamo.Param{
			{Name: "N", Description: "Number of slits -- N", Value: 2, Min: 2, Max: 30, Integer: true},
			{Name: "a", Description: "Grating pitch -- a (µm)", Unit: "µm", Value: 2, Min: 0.1, Max: 10},
			{Name: "b", Description: "Slit width -- b (µm)", Unit: "µm", Value: 1, Min: 0.1, Max: 2},
			{Name: "lambda", Description: `Wavelength -- $\lambda_0$ (µm)`, Unit: "µm", Value: 0.633, Min: 0.1, Max: 3},
			{Name: "D", Description: "Slit to screen distance -- $D$ (m)", Unit: "m", Value: 1, Min: 0.3, Max: 2},
		},
	}}
}

func (l *nSlitDiffraction) grating(v dynamo.Values) physics.Grating {
	return physics.Grating{
		N:      int(v.Get("N")),
		A:      v.Get("a") * 1e-6,
		B:      v.Get("b") * 1e-6,
		Lambda: v.Get("lambda") * 1e-6,
		D:      v.Get("D"),
	}
}

func (l *nSlitDiffraction) Plot(ctx context.Context, v dynamo.Values) (*Figure, error) {
	g := l.grating(l.values(v))
	x := dynamo.Linspace(-1, 1, 1001)

	p := &Panel{
		XLabel: "Position on the screen $x$",
		YLabel: "Normalized intensity",
		XLim:   [2]float64{-1, 1},
		YLim:   [2]float64{-0.1, 1.2},
	}
	p.Add(line("intensity", "red", x, dynamo.Map(x, g.Intensity)))
	p.Add(hidden(dashed("form factor", "blue", x, dynamo.Map(x, g.FormFactor))))
	p.Add(hidden(dashed("structure factor", "green", x, dynamo.Map(x, g.StructureFactor))))
	return NewFigure(l.title, p), nil
}

func (l *nSlitDiffraction) Observe(ctx context.Context, v dynamo.Values) (map[string]float64, error) {
	g := l.grating(l.values(v))
	x := dynamo.Linspace(-1, 1, 20001)
	return readouts(map[string]float64{
		"principal_spacing": g.Lambda * g.D / g.A,
		"central_fwhm":      metrics.FWHM(x, dynamo.Map(x, g.Intensity)),
	}), nil
}

type youngSlits struct {
	base
	eachSeries
}

func NewYoungSlits() Lesson {
	return &youngSlits{base: base{
		name:  "young_slits",
		title: "Interference through Young's slits",
		description: `This program shows the interference pattern obtained when a
monochromatic plane wave of wavelength $\lambda$ goes through two Young's slits
separated by a distance $a$ (centre to centre) and of width $w$. The screen
sits at a distance $L$ from the slits.

$I = \mathrm{sinc}\left(\frac{kwx}{2L}\right)^2 \cos\left(\frac{kax}{2L}\right)^2$`,
		params: []dynamo.Param{
			{Name: "lambda", Description: `Wavelength -- $\lambda$ (nm)`, Unit: "nm", Value: 633, Min: 400, Max: 800},
			{Name: "a", Description: "Slit separation -- $a$ (mm)", Unit: "mm", Value: 1, Min: 0.5, Max: 3},
			{Name: "w", Description: `Slit width -- $w$ ($\mu$m)`, Unit: "µm", Value: 100, Min: 10, Max: 300},
			{Name: "L", Description: "Slit to screen distance -- $L$ (m)", Unit: "m", Value: 1, Min: 0.3, Max: 2},
		},
	}}
}

func (l *youngSlits) slits(v dynamo.Values) physics.YoungSlits {
	return physics.YoungSlits{
		Lambda: v.Get("lambda") * 1e-9,
		A:      v.Get("a") * 1e-3,
		W:      v.Get("w") * 1e-6,
		L:      v.Get("L"),
	}
}

func (l *youngSlits) Plot(ctx context.Context, v dynamo.Values) (*Figure, error) {
	y := l.slits(l.values(v))
	x := dynamo.Linspace(-0.01, 0.01, 1001)

	p := &Panel{
		XLabel: "Position on the screen (m)",
		YLabel: "Intensity (a.u.)",
		XLim:   [2]float64{-0.01, 0.01},
		YLim:   [2]float64{0, 1},
	}
	p.Add(line("fringes", "red", x, dynamo.Map(x, y.Intensity)))
	env := hidden(dashed("envelope", "red", x, dynamo.Map(x, y.Envelope)))
	env.Width = 1
	p.Add(env)
	return NewFigure(l.title, p), nil
}

func (l *youngSlits) Observe(ctx context.Context, v dynamo.Values) (map[string]float64, error) {
	y := l.slits(l.values(v))
	return readouts(map[string]float64{
		"interfringe":         y.Interfringe(),
		"envelope_half_width": y.Lambda * y.L / y.W,
	}), nil
}

type twoWaveInterference struct {
	base
}

func NewTwoWaveInterference() Lesson {
	return &twoWaveInterference{base: base{
		name:  "two_wave_interference",
		title: "Interference of two harmonic waves",
		description: `This program illustrates the elementary principle of the interference of
two monochromatic harmonic waves.

Both waves are assumed plane and scalar. They interfere along their
propagation as in a Michelson interferometer, not as behind Young's slits.

The sum of both waves is drawn in the bottom panel.`,
		params: []dynamo.Param{
			{Name: "lambda", Description: `Wavelength -- $\lambda$ (nm)`, Unit: "nm", Value: 633, Min: 400, Max: 800},
			{Name: "phi", Description: `Phase shift -- $\phi$ (rad)`, Unit: "rad", Value: 0, Min: -math.Pi, Max: math.Pi},
		},
	}}
}

func (l *twoWaveInterference) Plot(ctx context.Context, v dynamo.Values) (*Figure, error) {
	v = l.values(v)
	lambda := v.Get("lambda") * 1e-9
	phi := v.Get("phi")

	x := dynamo.Linspace(-1e-6, 1e-6, 1001)
	xnm := dynamo.ScaleAll(x, 1e9)
	panel := func(s *Series) *Panel {
		p := &Panel{XLim: [2]float64{-1000, 1000}, YLim: [2]float64{-2.1, 2.1}}
		p.Add(s)
		return p
	}

	a := panel(line("wave 1", "blue", xnm, dynamo.Map(x, func(x float64) float64 { return physics.Wave(x, lambda, 0) })))
	b := panel(line("wave 2", "red", xnm, dynamo.Map(x, func(x float64) float64 { return physics.Wave(x, lambda, phi) })))
	sum := panel(line("sum", "black", xnm, dynamo.Map(x, func(x float64) float64 { return physics.Superpose(x, lambda, phi) })))
	sum.XLabel = "Position (nm)"
	return NewFigure(l.title, a, b, sum), nil
}

func (l *twoWaveInterference) Observe(ctx context.Context, v dynamo.Values) (map[string]float64, error) {
	v = l.values(v)
	return readouts(map[string]float64{
		"sum_amplitude": 2 * math.Abs(math.Cos(v.Get("phi")/2)),
	}), nil
}
