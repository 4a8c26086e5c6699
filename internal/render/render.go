// Package render draws lesson figures: as text for terminals, as images
// through gonum/plot or go-chart, and as a markdown card describing the
// lesson parameters.
package render

import (
	"errors"
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/san-kum/lessonlab/internal/lessons"
)

var (
	ErrEmptyFigure = errors.New("render: figure has nothing to draw")
	ErrFormat      = errors.New("render: unsupported output format")
)

var palette = map[string]color.RGBA{
	"black":   {A: 255},
	"red":     {R: 214, G: 39, B: 40, A: 255},
	"blue":    {R: 31, G: 119, B: 180, A: 255},
	"green":   {R: 44, G: 160, B: 44, A: 255},
	"orange":  {R: 255, G: 127, B: 14, A: 255},
	"purple":  {R: 148, G: 103, B: 189, A: 255},
	"brown":   {R: 140, G: 86, B: 75, A: 255},
	"pink":    {R: 227, G: 119, B: 194, A: 255},
	"grey":    {R: 127, G: 127, B: 127, A: 255},
	"gray":    {R: 127, G: 127, B: 127, A: 255},
	"olive":   {R: 188, G: 189, B: 34, A: 255},
	"cyan":    {R: 23, G: 190, B: 207, A: 255},
	"magenta": {R: 255, B: 255, A: 255},
	"yellow":  {R: 230, G: 200, A: 255},
}

// rgba resolves a colour name, or a #rrggbb value.
func rgba(name string) (color.RGBA, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if c, ok := palette[name]; ok {
		return c, true
	}
	if len(name) == 7 && name[0] == '#' {
		var c color.RGBA
		for i, dst := range []*uint8{&c.R, &c.G, &c.B} {
			hi, ok1 := hexDigit(name[1+2*i])
			lo, ok2 := hexDigit(name[2+2*i])
			if !ok1 || !ok2 {
				return color.RGBA{}, false
			}
			*dst = hi<<4 | lo
		}
		c.A = 255
		return c, true
	}
	return color.RGBA{}, false
}

func hexDigit(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	}
	return 0, false
}

func hasLimits(l [2]float64) bool {
	return l[0] < l[1]
}

// xRange is the panel's x limits, or the extent of its visible data.
func xRange(p *lessons.Panel) (float64, float64, bool) {
	if hasLimits(p.XLim) {
		return p.XLim[0], p.XLim[1], true
	}
	xmin, xmax, _, _ := p.Bounds()
	for _, a := range p.Arrows {
		xmin, xmax = math.Min(xmin, a.X), math.Max(xmax, a.X)
	}
	if !finite(xmin) || !finite(xmax) {
		return 0, 0, false
	}
	if xmin == xmax {
		xmin, xmax = xmin-0.5, xmax+0.5
	}
	return xmin, xmax, true
}

func yRange(p *lessons.Panel) (float64, float64, bool) {
	if hasLimits(p.YLim) && (!p.LogY || p.YLim[0] > 0) {
		return p.YLim[0], p.YLim[1], true
	}
	_, _, ymin, ymax := p.Bounds()
	for _, a := range p.Arrows {
		ymin, ymax = math.Min(ymin, a.Y), math.Max(ymax, a.Y)
	}
	if !finite(ymin) || !finite(ymax) {
		return 0, 0, false
	}
	if ymin == ymax {
		ymin, ymax = ymin-0.5, ymax+0.5
	}
	return ymin, ymax, true
}

// quiverScale stretches the arrows so that the longest one spans nine
// tenths of the anchor spacing.
func quiverScale(arrows []lessons.Arrow) float64 {
	longest := 0.0
	xs := make([]float64, 0, len(arrows))
	ys := make([]float64, 0, len(arrows))
	for _, a := range arrows {
		longest = math.Max(longest, math.Hypot(a.U, a.V))
		xs = append(xs, a.X)
		ys = append(ys, a.Y)
	}
	if longest == 0 {
		return 0
	}
	spacing := math.Min(minGap(xs), minGap(ys))
	if math.IsInf(spacing, 1) {
		spacing = 1
	}
	return 0.9 * spacing / longest
}

func minGap(vs []float64) float64 {
	sort.Float64s(vs)
	gap := math.Inf(1)
	for i := 1; i < len(vs); i++ {
		if d := vs[i] - vs[i-1]; d > 1e-12 {
			gap = math.Min(gap, d)
		}
	}
	return gap
}

func panelTitle(fig *lessons.Figure, i int) string {
	p := fig.Panels[i]
	title := p.Title
	if title == "" && i == 0 {
		title = fig.Title
	}
	return title
}
