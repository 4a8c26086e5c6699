package lessons

import (
	"context"
	"math"
	"math/cmplx"

	"github.com/san-kum/lessonlab/internal/dynamo"
	"github.com/san-kum/lessonlab/internal/metrics"
	"github.com/san-kum/lessonlab/internal/physics"
)

func rlcParams() []dynamo.Param {
	return []dynamo.Param{
		{Name: "R", Description: `Resistance -- $R$ ($\Omega$)`, Unit: "Ω", Value: 10, Min: 1, Max: 30},
		{Name: "L", Description: "Inductance -- $L$ ($mH$)", Unit: "mH", Value: 1, Min: 0.01, Max: 3},
		{Name: "C", Description: `Capacitance -- $C$ ($\mu F$)`, Unit: "µF", Value: 10, Min: 0.1, Max: 30},
	}
}

func rlcCircuit(v dynamo.Values) physics.SeriesRLC {
	return physics.SeriesRLC{R: v.Get("R"), L: v.Get("L") * 1e-3, C: v.Get("C") * 1e-6}
}

func rlcObservables(c physics.SeriesRLC) map[string]float64 {
	return map[string]float64{
		"omega0":         c.Omega0(),
		"resonance_hz":   c.Omega0() / (2 * math.Pi),
		"damping":        c.Damping(),
		"quality_factor": c.QualityFactor(),
	}
}

type rlcStepResponse struct {
	base
	eachSeries
	t []float64
}

func NewRLCStepResponse() Lesson {
	return &rlcStepResponse{
		base: base{
			name:  "rlc_step_response",
			title: "Step response of a series RLC circuit",
			description: `This program shows the time response of a series RLC oscillator to a voltage
step applied at t=0.

The left panel selects the component whose voltage is observed. Choosing the
resistance R shows, up to a factor, the current response of the circuit.`,
			params: rlcParams(),
		},
		t: dynamo.Linspace(0, 1e-3, 1001),
	}
}

func (l *rlcStepResponse) Plot(ctx context.Context, v dynamo.Values) (*Figure, error) {
	c := rlcCircuit(l.values(v))
	n := len(l.t)
	vr, vl, vc := make([]float64, n), make([]float64, n), make([]float64, n)
	for i, t := range l.t {
		vc[i], vr[i], vl[i] = c.Step(t)
	}
	ms := dynamo.ScaleAll(l.t, 1e3)

	p := &Panel{
		XLabel: "time (ms)",
		YLabel: "Amplitude (V)",
		XLim:   [2]float64{0, 1},
		YLim:   [2]float64{-1.1, 1.1},
		HLines: []RefLine{{At: 0, Color: "black"}},
	}
	p.Add(hidden(line("V_R", "red", ms, vr)))
	p.Add(hidden(line("V_L", "blue", ms, vl)))
	p.Add(line("V_C", "green", ms, vc))
	return NewFigure(l.title, p), nil
}

func (l *rlcStepResponse) Observe(ctx context.Context, v dynamo.Values) (map[string]float64, error) {
	return readouts(rlcObservables(rlcCircuit(l.values(v)))), nil
}

type rlcFrequencyResponse struct {
	base
	freq []float64
}

func NewRLCFrequencyResponse() Lesson {
	return &rlcFrequencyResponse{
		base: base{
			name:  "rlc_frequency_response",
			title: "Voltage resonance of a series RLC circuit",
			description: `This program shows the frequency response of a series RLC oscillator driven
by a sinusoidal voltage of 1 Vpp.

The left panel selects the component whose voltage is observed. Choosing the
resistance R shows, up to a factor, the current response of the circuit.`,
			params: rlcParams(),
		},
		freq: dynamo.Linspace(10, 10000, 1001),
	}
}

func (l *rlcFrequencyResponse) transfer(c physics.SeriesRLC) (hr, hl, hc []complex128) {
	n := len(l.freq)
	hr, hl, hc = make([]complex128, n), make([]complex128, n), make([]complex128, n)
	for i, f := range l.freq {
		hr[i], hl[i], hc[i] = c.Transfer(f)
	}
	return hr, hl, hc
}

func magnitude(h []complex128) []float64 {
	out := make([]float64, len(h))
	for i, z := range h {
		out[i] = cmplx.Abs(z)
	}
	return out
}

func phase(h []complex128) []float64 {
	out := make([]float64, len(h))
	for i, z := range h {
		out[i] = physics.PhaseDeg(z)
	}
	return out
}

func (l *rlcFrequencyResponse) Plot(ctx context.Context, v dynamo.Values) (*Figure, error) {
	hr, hl, hc := l.transfer(rlcCircuit(l.values(v)))
	xlim := [2]float64{l.freq[0], l.freq[len(l.freq)-1]}

	amp := &Panel{
		YLabel: "Amplitude (V)",
		XLim:   xlim,
		YLim:   l.YLimits(false),
		HLines: []RefLine{{At: 0, Color: "black"}},
	}
	amp.Add(hidden(line("R", "red", l.freq, magnitude(hr))))
	amp.Add(hidden(line("L", "blue", l.freq, magnitude(hl))))
	amp.Add(line("C", "green", l.freq, magnitude(hc)))

	ph := &Panel{
		XLabel: "Frequency (Hz)",
		YLabel: "Phase (°)",
		XLim:   xlim,
		YLim:   [2]float64{-180, 180},
	}
	ph.Add(hidden(dashed("R phase", "red", l.freq, phase(hr))))
	ph.Add(hidden(dashed("L phase", "blue", l.freq, phase(hl))))
	ph.Add(dashed("C phase", "green", l.freq, phase(hc)))

	return NewFigure(l.title, amp, ph), nil
}

func (l *rlcFrequencyResponse) Groups() []Group {
	return []Group{
		{Name: "R (current)", Series: []string{"R", "R phase"}},
		{Name: "L", Series: []string{"L", "L phase"}},
		{Name: "C", Series: []string{"C", "C phase"}, Visible: true},
	}
}

func (l *rlcFrequencyResponse) LogPanel() int { return 0 }

func (l *rlcFrequencyResponse) YLimits(log bool) [2]float64 {
	if log {
		return [2]float64{5e-2, 1e1}
	}
	return [2]float64{0.05, 5}
}

func (l *rlcFrequencyResponse) Observe(ctx context.Context, v dynamo.Values) (map[string]float64, error) {
	c := rlcCircuit(l.values(v))
	out := rlcObservables(c)
	_, _, hc := l.transfer(c)
	i, peak := metrics.ArgMax(magnitude(hc))
	out["capacitor_peak"] = peak
	out["capacitor_peak_hz"] = l.freq[i]
	return readouts(out), nil
}
