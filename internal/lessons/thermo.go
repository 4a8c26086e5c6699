package lessons

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/san-kum/lessonlab/internal/dynamo"
	"github.com/san-kum/lessonlab/internal/physics"
)

// Coexistence curves are generated from this temperature up to the
// critical point when no data file is given.
const (
	coexistenceTmin  = 0.8
	coexistenceTemps = 200
	coexistencePts   = 1000
)

type vanDerWaals struct {
	base
	dataPath string

	once sync.Once
	data *physics.CoexistenceData
	err  error
}

// NewVanDerWaals reads the precomputed coexistence curves from dataPath, or
// computes them on first use when dataPath is empty.
func NewVanDerWaals(dataPath string) Lesson {
	return &vanDerWaals{
		base: base{
			name:  "van_der_waals",
			title: "Liquid-vapour transition of a van der Waals fluid",
			description: `This program draws the PV diagram, in reduced units, of a fluid following
the van der Waals equation of state. Temperature, pressure and volume are
referred to the critical point.`,
			params: []dynamo.Param{
				{Name: "Tr", Description: "Reduced temperature -- $T_r$", Value: 0.9, Min: 0.85, Max: 1.15},
			},
		},
		dataPath: dataPath,
	}
}

func (l *vanDerWaals) coexistence() (*physics.CoexistenceData, error) {
	l.once.Do(func() {
		if l.dataPath == "" {
			l.data, l.err = physics.Coexistence(coexistenceTmin, coexistenceTemps, coexistencePts)
			return
		}
		f, err := os.Open(l.dataPath)
		if err != nil {
			l.err = fmt.Errorf("failed to open coexistence data: %w", err)
			return
		}
		defer f.Close()
		l.data, l.err = physics.LoadCoexistence(f)
	})
	return l.data, l.err
}

func (l *vanDerWaals) Plot(ctx context.Context, v dynamo.Values) (*Figure, error) {
	data, err := l.coexistence()
	if err != nil {
		return nil, err
	}
	tr := l.values(v).Get("Tr")

	p := &Panel{
		XLabel: "Reduced volume $V_r$",
		YLabel: "Reduced pressure $P_r$",
		XLim:   [2]float64{0.4, 3},
		YLim:   [2]float64{0, 2.5},
	}
	p.Add(dashed("spinodal curve", "black", data.VSpin, data.PSpin))
	p.Add(dashed("saturation curve", "blue", data.VSat, data.PSat))
	p.Add(markers("critical point", "green", []float64{1}, []float64{1}))

	iso := line("isotherm", "red", data.VSat, dynamo.Map(data.VSat, func(v float64) float64 {
		return physics.VdWPressure(tr, v)
	}))
	iso.Width = 4
	p.Add(iso)

	spin := markers("spinodal points", "black", nil, nil)
	sat := &Series{Name: "saturation points", Style: LineMarkers, Color: "blue", Width: 4}
	if tr < 1 {
		vs, ps, err := physics.Spinodal(tr)
		if err != nil {
			return nil, err
		}
		spin.X, spin.Y = vs, ps
		if v, pr, ok := physics.Saturation(tr, data.VSat, data.PSat); ok {
			sat.X, sat.Y = v[:], pr[:]
		}
	} else {
		spin.Hidden = true
		sat.Hidden = true
	}
	p.Add(spin)
	p.Add(sat)
	return NewFigure(l.title, p), nil
}

func (l *vanDerWaals) Observe(ctx context.Context, v dynamo.Values) (map[string]float64, error) {
	tr := l.values(v).Get("Tr")
	out := map[string]float64{"pressure_at_critical_volume": physics.VdWPressure(tr, 1)}
	if tr >= 1 {
		return readouts(out), nil
	}
	p, vl, vg, err := physics.Maxwell(tr)
	if err != nil {
		return nil, err
	}
	out["saturation_pressure"] = p
	out["liquid_volume"] = vl
	out["gas_volume"] = vg
	return readouts(out), nil
}

// WriteVdWData computes the coexistence curves once and writes them in the
// format WithVdWData reads.
func WriteVdWData(w io.Writer) error {
	data, err := physics.Coexistence(coexistenceTmin, coexistenceTemps, coexistencePts)
	if err != nil {
		return err
	}
	return data.Save(w)
}
