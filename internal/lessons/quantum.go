package lessons

import (
	"context"
	"fmt"
	"strconv"

	"github.com/san-kum/lessonlab/internal/dynamo"
	"github.com/san-kum/lessonlab/internal/metrics"
	"github.com/san-kum/lessonlab/internal/physics"
)

type tunnelEffect struct {
	base
	eachSeries
}

// barrierHeight is the energy unit of the tunnel effect lesson.
const barrierHeight = 1.0

func NewTunnelEffect() Lesson {
	return &tunnelEffect{base: base{
		name:  "tunnel_effect",
		title: "Tunnel effect",
		description: fmt.Sprintf(`This program computes the transmission of a potential barrier for an
incident matter wave of variable energy $E$. It shows in particular the
tunnel effect.

The transmission is drawn against the energy of the incident particle. The
classical equivalent and the usual wide barrier approximation, within its
range of validity ($Kd > %g$), are drawn as well.

$T = \frac{4K^2k^2}{(K^2+k^2)^2\mathrm{sh}^2(Kd)+4K^2k^2}$

$K = \sqrt{2m(V_0-E)}/\hbar$

$k = \sqrt{2mE}/\hbar$`, physics.WideBarrierThreshold),
		params: []dynamo.Param{
			{Name: "E_max", Description: "Maximum energy -- E_max", Value: 6, Min: 0, Max: 12},
			{Name: "d", Description: "Barrier thickness -- d", Value: 2, Min: 0, Max: 6},
		},
	}}
}

func (l *tunnelEffect) curves(v dynamo.Values) (e, exact, classical, we, wt []float64) {
	b := physics.Barrier{V: barrierHeight, D: v.Get("d")}
	e = dynamo.Linspace(0, v.Get("E_max"), 200)
	exact = dynamo.Map(e, b.Transmission)
	classical = dynamo.Map(e, b.Classical)
	for _, x := range e {
		if t, ok := b.WideBarrier(x); ok {
			we = append(we, x)
			wt = append(wt, t)
		}
	}
	return e, exact, classical, we, wt
}

func (l *tunnelEffect) Plot(ctx context.Context, v dynamo.Values) (*Figure, error) {
	v = l.values(v)
	e, exact, classical, we, wt := l.curves(v)

	p := &Panel{
		XLabel: "Energy (in units of $V_0$)",
		YLabel: "Transmission",
		XLim:   [2]float64{0, v.Get("E_max")},
		YLim:   [2]float64{0, 1.2 * barrierHeight},
	}
	p.Add(line("quantum", "red", e, exact))
	p.Add(dashed("classical", "blue", e, classical))
	wide := dashed(fmt.Sprintf("wide barrier: Kd>%g", physics.WideBarrierThreshold), "green", we, wt)
	wide.Width = 3
	p.Add(wide)
	return NewFigure(l.title, p), nil
}

func (l *tunnelEffect) Observe(ctx context.Context, v dynamo.Values) (map[string]float64, error) {
	v = l.values(v)
	e, exact, _, _, _ := l.curves(v)
	b := physics.Barrier{V: barrierHeight, D: v.Get("d")}
	out := map[string]float64{
		"transmission_at_barrier_top": b.Transmission(barrierHeight),
	}
	// no barrier or no energy range: the transmission never crosses 1/2
	if xs := metrics.Crossings(e, exact, 0.5); len(xs) > 0 {
		out["half_transmission_energy"] = xs[0]
	}
	return readouts(out), nil
}

type quantumWell struct {
	base
}

func NewQuantumWell() Lesson {
	return &quantumWell{base: base{
		name:  "quantum_well",
		title: "Quantum well",
		description: `This program shows the energy levels of a finite quantum well and the
matching wave functions.`,
		params: []dynamo.Param{
			{Name: "L", Description: "Well half width -- L", Value: 1, Min: 0.5, Max: 1.5},
			{Name: "Vo", Description: "Well depth -- $V_0$", Value: 30, Min: 5, Max: 60},
		},
	}}
}

func (l *quantumWell) well(v dynamo.Values) physics.SquareWell {
	w := physics.NewSquareWell()
	w.L = v.Get("L")
	w.Vo = v.Get("Vo")
	return w
}

func (l *quantumWell) Plot(ctx context.Context, v dynamo.Values) (*Figure, error) {
	w := l.well(l.values(v))
	energies, err := w.Eigenenergies(ctx)
	if err != nil {
		return nil, err
	}

	x := w.Grid()
	dx := x[1] - x[0]
	walls := []RefLine{{At: -w.L, Color: "black", Style: Dashed}, {At: w.L, Color: "black", Style: Dashed}}

	psi := &Panel{
		Title:  "Eigenfunctions",
		YLabel: `$\Psi(x)$`,
		XLim:   [2]float64{-w.B, w.B},
		YLim:   [2]float64{-0.5, 1},
		VLines: walls,
	}
	levels := &Panel{
		Title:  "Eigenenergies",
		XLabel: "$x/L$",
		YLabel: "$E$",
		XLim:   [2]float64{-w.B, w.B},
		YLim:   [2]float64{-0.1 * w.Vo, 1.2 * w.Vo},
		VLines: walls,
	}
	levels.Add(line("potential", "black", x, dynamo.Map(x, w.Potential)))

	inside := dynamo.Linspace(-w.L, w.L, 50)
	for _, e := range energies {
		name := fmt.Sprintf("E = %.2f", e)
		wave, err := w.WaveFunction(ctx, e)
		if err != nil {
			return nil, err
		}
		psi.Add(&Series{Name: name, X: x, Y: physics.Normalize(wave, dx), Width: 1.5, Color: palette(len(psi.Series))})
		levels.Add(&Series{
			Name:  name + " level",
			X:     inside,
			Y:     dynamo.Map(inside, func(float64) float64 { return e }),
			Width: 1.5,
			Color: palette(len(levels.Series) - 1),
		})
	}
	return NewFigure(l.title, psi, levels), nil
}

func (l *quantumWell) Observe(ctx context.Context, v dynamo.Values) (map[string]float64, error) {
	w := l.well(l.values(v))
	energies, err := w.Eigenenergies(ctx)
	if err != nil {
		return nil, err
	}
	out := map[string]float64{"levels": float64(len(energies))}
	for i, e := range energies {
		out["E"+strconv.Itoa(i)] = e
	}
	return readouts(out), nil
}

var cycle = []string{"blue", "orange", "green", "red", "purple", "brown", "pink", "grey", "olive", "cyan"}

// palette is the default colour cycle for lessons with a variable number of
// curves.
func palette(i int) string {
	return cycle[i%len(cycle)]
}
