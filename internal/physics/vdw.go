package physics

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/san-kum/lessonlab/internal/dynamo"
	"github.com/san-kum/lessonlab/internal/roots"
)

// VdWPressure is the reduced van der Waals equation of state.
func VdWPressure(t, v float64) float64 {
	return 8*t/(3*v-1) - 3/(v*v)
}

// Spinodal returns the volumes and pressures where the isotherm has a
// horizontal tangent, keeping v > 1/3 and P > 0.
func Spinodal(t float64) (vs, ps []float64, err error) {
	candidates, err := roots.RealRoots([]float64{4 * t, -9, 6, -1}, 1e-9)
	if err != nil {
		return nil, nil, err
	}
	for _, v := range candidates {
		if v <= 1.0/3.0 {
			continue
		}
		if p := VdWPressure(t, v); p > 0 {
			vs = append(vs, v)
			ps = append(ps, p)
		}
	}
	return vs, ps, nil
}

// Saturation returns the first and last volume in vs where the isotherm lies
// below the saturation pressure pSat[i], and the matching pressures. ok is
// false when the isotherm never enters the coexistence region.
func Saturation(t float64, vs, pSat []float64) (v, p [2]float64, ok bool) {
	first, last := -1, -1
	for i, vi := range vs {
		if i >= len(pSat) || math.IsNaN(pSat[i]) {
			continue
		}
		if VdWPressure(t, vi) < pSat[i] {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return v, p, false
	}
	v = [2]float64{vs[first], vs[last]}
	p = [2]float64{VdWPressure(t, vs[first]), VdWPressure(t, vs[last])}
	return v, p, true
}

// isobarVolumes returns the outer roots (liquid, gas) of P(t, v) = p.
func isobarVolumes(t, p float64) (vl, vg float64, err error) {
	// 3p v³ - (p + 8t) v² + 9v - 3 = 0
	vs, err := roots.RealRoots([]float64{3 * p, -(p + 8*t), 9, -3}, 1e-6)
	if err != nil {
		return 0, 0, err
	}
	var kept []float64
	for _, v := range vs {
		if v > 1.0/3.0 {
			kept = append(kept, v)
		}
	}
	if len(kept) < 2 {
		return 0, 0, fmt.Errorf("%w: isobar p=%g crosses isotherm t=%g %d times", dynamo.ErrNoBracket, p, t, len(kept))
	}
	return kept[0], kept[len(kept)-1], nil
}

func primitive(t, v float64) float64 {
	return 8*t/3*math.Log(3*v-1) + 3/v
}

// Maxwell finds the saturation pressure at reduced temperature t < 1 by the
// equal area construction, with the liquid and gas volumes.
func Maxwell(t float64) (p, vl, vg float64, err error) {
	if t >= 1 || t <= 0 {
		return 0, 0, 0, fmt.Errorf("%w: reduced temperature %g outside (0, 1)", dynamo.ErrParameterBounds, t)
	}
	_, ps, err := Spinodal(t)
	if err != nil {
		return 0, 0, 0, err
	}
	lo, hi := 1e-9, 0.0
	for _, pp := range ps {
		hi = math.Max(hi, pp)
	}
	if vsAll, err := roots.RealRoots([]float64{4 * t, -9, 6, -1}, 1e-9); err == nil {
		for _, v := range vsAll {
			if v > 1.0/3.0 {
				lo = math.Max(lo, VdWPressure(t, v))
				break
			}
		}
	}
	if hi <= lo {
		return 0, 0, 0, fmt.Errorf("%w: no metastable region at t=%g", dynamo.ErrNoBracket, t)
	}

	area := func(pp float64) float64 {
		l, g, err := isobarVolumes(t, pp)
		if err != nil {
			return math.NaN()
		}
		return primitive(t, g) - primitive(t, l) - pp*(g-l)
	}
	eps := (hi - lo) * 1e-6
	p, err = roots.Brent(area, lo+eps, hi-eps, roots.Options{})
	if err != nil {
		return 0, 0, 0, fmt.Errorf("maxwell construction at t=%g: %w", t, err)
	}
	vl, vg, err = isobarVolumes(t, p)
	return p, vl, vg, err
}

// CoexistenceData is the precomputed spinodal and saturation curves.
type CoexistenceData struct {
	PSpin []float64 `json:"p_spin"`
	PSat  []float64 `json:"p_sat"`
	VSpin []float64 `json:"v_spin"`
	VSat  []float64 `json:"v_sat"`
}

// Coexistence builds the spinodal and saturation curves from temperatures
// tmin to 1 and resamples the saturation dome on n volumes.
func Coexistence(tmin float64, temps, n int) (*CoexistenceData, error) {
	type point struct{ v, p float64 }
	var sat, spin []point

	for _, t := range dynamo.Linspace(tmin, 1, temps+1)[:temps] {
		p, vl, vg, err := Maxwell(t)
		if err != nil {
			return nil, err
		}
		sat = append(sat, point{vl, p}, point{vg, p})

		vs, ps, err := Spinodal(t)
		if err != nil {
			return nil, err
		}
		for i := range vs {
			spin = append(spin, point{vs[i], ps[i]})
		}
	}
	sat = append(sat, point{1, 1})
	spin = append(spin, point{1, 1})

	byVolume := func(pts []point) {
		sort.Slice(pts, func(i, j int) bool { return pts[i].v < pts[j].v })
	}
	byVolume(sat)
	byVolume(spin)

	data := &CoexistenceData{}
	for _, pt := range spin {
		data.VSpin = append(data.VSpin, pt.v)
		data.PSpin = append(data.PSpin, pt.p)
	}

	vmin, vmax := sat[0].v, sat[len(sat)-1].v
	data.VSat = dynamo.Linspace(vmin, vmax, n)
	data.PSat = make([]float64, n)
	j := 0
	for i, v := range data.VSat {
		for j+1 < len(sat)-1 && sat[j+1].v < v {
			j++
		}
		a, b := sat[j], sat[j+1]
		if b.v == a.v {
			data.PSat[i] = a.p
			continue
		}
		data.PSat[i] = a.p + (b.p-a.p)*(v-a.v)/(b.v-a.v)
	}
	return data, nil
}

// SaturationAt interpolates the saturation dome at volume v, NaN outside.
func (d *CoexistenceData) SaturationAt(v float64) float64 {
	n := len(d.VSat)
	if n == 0 || v < d.VSat[0] || v > d.VSat[n-1] {
		return math.NaN()
	}
	i := sort.SearchFloat64s(d.VSat, v)
	if i == 0 {
		return d.PSat[0]
	}
	a, b := i-1, i
	return d.PSat[a] + (d.PSat[b]-d.PSat[a])*(v-d.VSat[a])/(d.VSat[b]-d.VSat[a])
}

func (d *CoexistenceData) Validate() error {
	if len(d.PSat) != len(d.VSat) || len(d.PSpin) != len(d.VSpin) {
		return fmt.Errorf("%w: coexistence arrays have mismatched lengths", dynamo.ErrDataFormat)
	}
	if len(d.VSat) < 2 {
		return fmt.Errorf("%w: saturation curve needs at least two points", dynamo.ErrDataFormat)
	}
	if !sort.Float64sAreSorted(d.VSat) {
		return fmt.Errorf("%w: v_sat must be increasing", dynamo.ErrDataFormat)
	}
	return nil
}

func LoadCoexistence(r io.Reader) (*CoexistenceData, error) {
	var d CoexistenceData
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("%w: %v", dynamo.ErrDataFormat, err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (d *CoexistenceData) Save(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}
