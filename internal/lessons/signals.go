package lessons

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/lessonlab/internal/analysis"
	"github.com/san-kum/lessonlab/internal/dynamo"
	"github.com/san-kum/lessonlab/internal/physics"
)

const (
	toneFrequency   = 10.0
	acquisitionTime = 1.0
)

type sampling struct {
	base
}

func NewSampling() Lesson {
	return &sampling{base: base{
		name:  "sampling",
		title: "Sampling",
		description: fmt.Sprintf(`This program shows the effect of sampling an analog signal.

Signal frequency: %g Hz`, toneFrequency),
		params: []dynamo.Param{
			{Name: "fs", Description: `Sampling rate -- $f_\mathrm{ech}$ (Ech/s)`, Unit: "Hz", Value: 31, Min: 5, Max: 60},
		},
	}}
}

func (l *sampling) Plot(ctx context.Context, v dynamo.Values) (*Figure, error) {
	fs := l.values(v).Get("fs")

	at, ay := physics.Sample(200*toneFrequency, toneFrequency, acquisitionTime, 1)
	st, sy := physics.Sample(fs, toneFrequency, acquisitionTime, 1)

	p := &Panel{
		XLabel: "t(s)",
		YLabel: "a.u.",
		XLim:   [2]float64{0, acquisitionTime},
		YLim:   [2]float64{-1.3, 1.4},
	}
	analog := line("analog", "blue", at, ay)
	analog.Width = 1
	p.Add(analog)
	samples := &Series{Name: "samples", X: st, Y: sy, Style: LineMarkers, Color: "red", Width: 2}
	p.Add(samples)
	return NewFigure(l.title, p), nil
}

func (l *sampling) Groups() []Group {
	return []Group{{Name: "analog", Series: []string{"analog"}, Visible: true}}
}

func (l *sampling) Observe(ctx context.Context, v dynamo.Values) (map[string]float64, error) {
	fs := l.values(v).Get("fs")
	_, sy := physics.Sample(fs, toneFrequency, acquisitionTime, 1)
	spectrum, err := analysis.NewSpectrum(sy, fs)
	if err != nil {
		return nil, err
	}
	return readouts(map[string]float64{
		"nyquist":         fs / 2,
		"alias_frequency": physics.AliasFrequency(toneFrequency, fs),
		"spectrum_peak":   spectrum.Dominant(),
	}), nil
}

type dampedOscillator struct {
	base
	eachSeries
}

func NewDampedOscillator() Lesson {
	return &dampedOscillator{base: base{
		name:        "damped_oscillator",
		title:       "Damped oscillator",
		description: `This program shows the time response of a generic damped oscillator to a step applied at t=0.`,
		params: []dynamo.Param{
			{Name: "f", Description: "Natural frequency -- $f$ (Hz)", Unit: "Hz", Value: 5, Min: 1, Max: 30},
			{Name: "amp", Description: "Step amplitude -- $A$ (V)", Unit: "V", Value: 5, Min: 0.1, Max: 10},
			{Name: "tau", Description: `Decay time -- $\tau$ (s)`, Unit: "s", Value: 0.5, Min: 0.1, Max: 2},
			{Name: "phi", Description: `Response phase -- $\phi$ (rad)`, Unit: "rad", Value: 0, Min: -math.Pi, Max: math.Pi},
		},
	}}
}

func (l *dampedOscillator) model(v dynamo.Values) physics.DampedOscillator {
	return physics.DampedOscillator{F: v.Get("f"), Amp: v.Get("amp"), Tau: v.Get("tau"), Phi: v.Get("phi")}
}

func (l *dampedOscillator) Plot(ctx context.Context, v dynamo.Values) (*Figure, error) {
	o := l.model(l.values(v))
	t := dynamo.Arange(0, 1, 0.001)

	p := &Panel{
		XLabel: "time (s)",
		YLabel: "Amplitude (V)",
		XLim:   [2]float64{t[0], t[len(t)-1]},
		YLim:   [2]float64{-10, 10},
	}
	p.Add(line("signal", "red", t, dynamo.Map(t, o.At)))
	up := hidden(dashed("upper envelope", "red", t, dynamo.Map(t, o.Envelope)))
	low := hidden(dashed("lower envelope", "red", t, dynamo.Map(t, func(t float64) float64 { return -o.Envelope(t) })))
	up.Width, low.Width = 1, 1
	p.Add(up)
	p.Add(low)
	return NewFigure(l.title, p), nil
}

func (l *dampedOscillator) Observe(ctx context.Context, v dynamo.Values) (map[string]float64, error) {
	o := l.model(l.values(v))
	return readouts(map[string]float64{
		"quality_factor": o.QualityFactor(),
		"period":         1 / o.F,
		"envelope_at_1s": o.Envelope(1),
	}), nil
}
