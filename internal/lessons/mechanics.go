package lessons

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/lessonlab/internal/analysis"
	"github.com/san-kum/lessonlab/internal/dynamo"
	"github.com/san-kum/lessonlab/internal/metrics"
	"github.com/san-kum/lessonlab/internal/physics"
)

type keplerOrbits struct {
	base
	eachSeries
	theta []float64
}

func NewKeplerOrbits() Lesson {
	return &keplerOrbits{
		base: base{
			name:  "kepler_orbits",
			title: "Kepler orbits",
			description: `This program shows the orbits of two bodies whose masses can be changed.
The trajectories of both bodies are drawn in red and blue. The eccentricity e,
the semi-major axis a and the initial angle theta_0 can be changed.`,
			params: []dynamo.Param{
				{Name: "theta0", Description: `$\theta_0$`, Unit: "°", Value: 0, Min: 0, Max: 180},
				{Name: "mass_ratio", Description: `$\log_{10}(M_1/M_2)$`, Value: 1, Min: -2, Max: 2},
				{Name: "a", Description: "Semi-major axis -- $a$ (AU)", Unit: "AU", Value: 1, Min: 0.1, Max: 10},
				{Name: "e", Description: "Eccentricity -- $e$", Value: 0, Min: 0, Max: 0.9999999},
			},
		},
		theta: dynamo.Linspace(1e-6, 2*math.Pi-1e-6, 1000),
	}
}

func (l *keplerOrbits) orbit(v dynamo.Values) physics.Orbit {
	m2 := physics.Msun
	return physics.Orbit{
		M1:     math.Pow(10, v.Get("mass_ratio")) * m2,
		M2:     m2,
		A:      v.Get("a") * physics.AU,
		Ecc:    v.Get("e"),
		Theta0: v.Get("theta0") / 180 * math.Pi,
	}
}

func (l *keplerOrbits) Plot(ctx context.Context, v dynamo.Values) (*Figure, error) {
	o := l.orbit(l.values(v))
	n := len(l.theta)
	x, y := make([]float64, n), make([]float64, n)
	x1, y1 := make([]float64, n), make([]float64, n)
	x2, y2 := make([]float64, n), make([]float64, n)
	for i, th := range l.theta {
		px, py, ax, ay, bx, by := o.Positions(th)
		x[i], y[i] = px/physics.AU, py/physics.AU
		x1[i], y1[i] = ax/physics.AU, ay/physics.AU
		x2[i], y2[i] = bx/physics.AU, by/physics.AU
	}

	p := &Panel{
		XLim:  [2]float64{-3, 3},
		YLim:  [2]float64{-3, 3},
		Equal: true,
	}
	p.Add(hidden(line("reduced mass", "black", x, y)))
	p.Add(line("M1", "red", x1, y1))
	p.Add(line("M2", "blue", x2, y2))
	return NewFigure(l.title, p), nil
}

func (l *keplerOrbits) Observe(ctx context.Context, v dynamo.Values) (map[string]float64, error) {
	o := l.orbit(l.values(v))
	return readouts(map[string]float64{
		"period_years": o.Period() / physics.Year,
		"perihelion":   o.A * (1 - o.Ecc) / physics.AU,
		"aphelion":     o.A * (1 + o.Ecc) / physics.AU,
	}), nil
}

type phasePortrait struct {
	base
}

const trajectories = 20

func NewPhasePortrait() Lesson {
	return &phasePortrait{base: base{
		name:  "phase_portrait",
		title: "Phase portrait of the simple pendulum",
		description: `This program draws the phase portrait of the simple pendulum
$\ddot\theta = -\omega_0^2\sin\theta$ for twenty initial angular velocities.
Closed curves are oscillations, open ones are revolutions.`,
		params: []dynamo.Param{
			{Name: "omega0", Description: `Natural pulsation -- $\omega_0$`, Value: 4, Min: 1, Max: 10},
		},
	}}
}

func (l *phasePortrait) trajectories(ctx context.Context, v dynamo.Values) (*physics.Pendulum, []analysis.Trajectory, error) {
	p := &physics.Pendulum{Omega0: v.Get("omega0")}
	var inits []dynamo.State
	for _, d := range dynamo.Linspace(-50, 50, trajectories) {
		inits = append(inits, dynamo.State{0, d / p.Omega0})
	}
	trajs, err := analysis.PhasePortrait(ctx, p, inits, dynamo.Linspace(0, 5, 100), 0, 1)
	return p, trajs, err
}

func (l *phasePortrait) Plot(ctx context.Context, v dynamo.Values) (*Figure, error) {
	_, trajs, err := l.trajectories(ctx, l.values(v))
	if err != nil {
		return nil, err
	}

	p := &Panel{
		XLabel: `$\theta$`,
		YLabel: `$\dot \theta$`,
		XLim:   [2]float64{-8, 8},
		YLim:   [2]float64{-15, 15},
	}
	for i, tr := range trajs {
		m := tr.Mirror()
		a := line(fmt.Sprintf("trajectory %d", i), "red", tr.X, tr.Y)
		b := line(fmt.Sprintf("mirror %d", i), "red", m.X, m.Y)
		a.Width, b.Width = 1, 1
		p.Add(a)
		p.Add(b)
	}
	return NewFigure(l.title, p), nil
}

func (l *phasePortrait) Observe(ctx context.Context, v dynamo.Values) (map[string]float64, error) {
	p, trajs, err := l.trajectories(ctx, l.values(v))
	if err != nil {
		return nil, err
	}
	worst := 0.0
	for _, tr := range trajs {
		worst = math.Max(worst, metrics.PhaseDrift(tr.X, tr.Y, p.Energy))
	}
	return readouts(map[string]float64{
		"separatrix":   p.Separatrix(),
		"energy_drift": worst,
	}), nil
}
