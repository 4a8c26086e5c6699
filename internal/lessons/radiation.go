package lessons

import (
	"context"

	"github.com/san-kum/lessonlab/internal/dynamo"
	"github.com/san-kum/lessonlab/internal/metrics"
	"github.com/san-kum/lessonlab/internal/physics"
)

type planckLaw struct {
	base
	lambdas []float64
}

func NewPlanckLaw() Lesson {
	return &planckLaw{
		base: base{
			name:  "planck_law",
			title: "Planck's law",
			description: `This program draws Planck's black body law against the wavelength of the
radiation.

The Rayleigh-Jeans and Wien laws are drawn as well.

Planck : $\frac{2hc^2}{\lambda^5 (e^{hc/(\lambda kT)} -1)}$

Wien : $\frac{2hc^2}{\lambda^5 e^{hc/(\lambda kT)}}$

Rayleigh-Jeans: $\frac{2kTc}{\lambda^4}$`,
			params: []dynamo.Param{
				{Name: "T", Description: "Temperature -- $T$ (K)", Unit: "K", Value: 5800, Min: 1, Max: 10000},
			},
		},
		lambdas: dynamo.Logspace(-7, -5.5, 1001),
	}
}

func (l *planckLaw) curve(law func(T, lambda float64) float64, T float64) []float64 {
	return dynamo.Map(l.lambdas, func(lambda float64) float64 { return law(T, lambda) * 1e-12 })
}

func (l *planckLaw) Plot(ctx context.Context, v dynamo.Values) (*Figure, error) {
	T := l.values(v).Get("T")
	um := dynamo.ScaleAll(l.lambdas, 1e6)

	planck := l.curve(physics.PlanckLambda, T)
	wien := l.curve(physics.WienLambda, T)
	rj := l.curve(physics.RayleighJeansLambda, T)

	p := &Panel{
		XLabel: `$\lambda$ [$\mathrm{\mu m}$]`,
		YLabel: `$B_\lambda$ [$\mathrm{kW.m^{-2}.nm^{-1}.sr^{-1}}$]`,
		XLim:   [2]float64{um[0], um[len(um)-1]},
		YLim:   l.YLimits(false),
		VLines: []RefLine{
			{At: physics.C / 6.7e14 * 1e6, Color: "purple", Label: "violet: 425 nm"},
			{At: physics.C / 5.7e14 * 1e6, Color: "green", Label: "green: 525 nm"},
			{At: physics.C / 4.6e14 * 1e6, Color: "red", Label: "red: 633 nm"},
		},
	}
	p.Add(line("Planck", "blue", um, planck))
	p.Add(hidden(line("Wien", "black", um, wien)))
	p.Add(hidden(line("Rayleigh-Jeans", "brown", um, rj)))

	i, _ := metrics.ArgMax(planck)
	p.Add(markers("max", "blue", []float64{um[i]}, []float64{planck[i]}))
	i, _ = metrics.ArgMax(wien)
	p.Add(hidden(markers("max Wien", "black", []float64{um[i]}, []float64{wien[i]})))

	return NewFigure(l.title, p), nil
}

func (l *planckLaw) Groups() []Group {
	return []Group{
		{Name: "Planck", Series: []string{"Planck", "max"}, Visible: true},
		{Name: "Wien", Series: []string{"Wien", "max Wien"}},
		{Name: "Rayleigh-Jeans", Series: []string{"Rayleigh-Jeans"}},
	}
}

func (l *planckLaw) LogPanel() int { return 0 }

func (l *planckLaw) YLimits(log bool) [2]float64 {
	if log {
		return [2]float64{1e-3, 1e3}
	}
	return [2]float64{0, 30}
}

func (l *planckLaw) Observe(ctx context.Context, v dynamo.Values) (map[string]float64, error) {
	T := l.values(v).Get("T")
	planck := l.curve(physics.PlanckLambda, T)
	i, peak := metrics.ArgMax(planck)
	return readouts(map[string]float64{
		"peak_wavelength_um": l.lambdas[i] * 1e6,
		"wien_peak_um":       physics.WienPeak(T) * 1e6,
		"peak_radiance":      peak,
	}), nil
}

type particleDiffusion struct {
	base
}

func NewParticleDiffusion() Lesson {
	return &particleDiffusion{base: base{
		name:  "particle_diffusion",
		title: "Particle diffusion",
		description: `This program shows how the spatial density of particles evolves during 1D
diffusion. The time, the number of particles initially present (the problem
is conservative) and the diffusion coefficient $D$ can be varied.`,
		params: []dynamo.Param{
			{Name: "t", Description: "Time (s)", Unit: "s", Value: 0, Min: 0, Max: 100},
			{Name: "a", Description: "Number of particles", Value: 500, Min: 0.1, Max: 1000},
			{Name: "D", Description: "Diffusion coefficient -- $D$ (m^2.s^-1)", Unit: "m²/s", Value: 1, Min: 0, Max: 5},
		},
	}}
}

func (l *particleDiffusion) model(v dynamo.Values) physics.Diffusion {
	return physics.Diffusion{Sigma0: 0.1, D: v.Get("D"), Amount: v.Get("a")}
}

func (l *particleDiffusion) Plot(ctx context.Context, v dynamo.Values) (*Figure, error) {
	v = l.values(v)
	d := l.model(v)
	t := v.Get("t")
	x := dynamo.Linspace(-10, 10, 1001)

	p := &Panel{
		XLabel: "Position (m)",
		YLabel: "Particle density (#$.m^{-1}$)",
		XLim:   [2]float64{-10, 10},
		YLim:   [2]float64{0, 1500},
	}
	p.Add(line("density", "red", x, dynamo.Map(x, func(x float64) float64 { return d.Density(x, t) })))
	return NewFigure(l.title, p), nil
}

func (l *particleDiffusion) Observe(ctx context.Context, v dynamo.Values) (map[string]float64, error) {
	v = l.values(v)
	d := l.model(v)
	t := v.Get("t")
	return readouts(map[string]float64{
		"sigma":        d.Sigma(t),
		"peak_density": d.Density(0, t),
	}), nil
}
