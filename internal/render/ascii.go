package render

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/lessonlab/internal/lessons"
)

const (
	defaultWidth  = 80
	defaultHeight = 15
	minWidth      = 10
)

// ASCII writes every panel of fig as a terminal plot.
func ASCII(w io.Writer, fig *lessons.Figure, width, height int) error {
	if fig == nil || len(fig.Panels) == 0 {
		return ErrEmptyFigure
	}
	_, err := io.WriteString(w, Text(fig, width, height))
	return err
}

// Text renders fig the way ASCII does and returns the result.
func Text(fig *lessons.Figure, width, height int) string {
	if width <= 0 {
		width = defaultWidth
	}
	width = max(width, minWidth)
	if height <= 0 {
		height = defaultHeight
	}

	var b strings.Builder
	if fig.Title != "" {
		b.WriteString(fig.Title + "\n\n")
	}
	for i, p := range fig.Panels {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(asciiPanel(p, width, height))
		b.WriteString("\n")
		for _, n := range p.Notes {
			b.WriteString("  " + n + "\n")
		}
	}
	return b.String()
}

func asciiPanel(p *lessons.Panel, width, height int) string {
	xmin, xmax, ok := xRange(p)
	if !ok {
		return fmt.Sprintf("%s\n(no data)", p.Title)
	}
	if needsCanvas(p) {
		return braille(p, xmin, xmax, width, height)
	}

	lo, hi := math.Inf(-1), math.Inf(1)
	if hasLimits(p.YLim) {
		lo, hi = p.YLim[0], p.YLim[1]
		if p.LogY {
			lo, hi = logOrInf(lo, -1), logOrInf(hi, 1)
		}
	}

	var (
		data    [][]float64
		colors  []asciigraph.AnsiColor
		legends []string
	)
	add := func(col []float64, name, color string) {
		for i, v := range col {
			if v < lo || v > hi || !finite(v) {
				col[i] = math.NaN()
			}
		}
		if allNaN(col) {
			return
		}
		data = append(data, col)
		colors = append(colors, ansi(color))
		legends = append(legends, name)
	}

	for _, s := range p.Visible() {
		add(resample(s, xmin, xmax, width, p.LogY), s.Name, s.Color)
	}
	for _, r := range p.HLines {
		at := r.At
		if p.LogY {
			if at <= 0 {
				continue
			}
			at = math.Log10(at)
		}
		col := make([]float64, width)
		for i := range col {
			col[i] = at
		}
		name := r.Label
		if name == "" {
			name = fmt.Sprintf("y = %g", r.At)
		}
		add(col, name, r.Color)
	}
	if len(data) == 0 {
		return fmt.Sprintf("%s\n(no data in range)", caption(p, xmin, xmax))
	}

	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption(p, xmin, xmax)),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(legends...),
	}
	if !finite(lo) || !finite(hi) {
		lo, hi = flatBounds(data)
	}
	if finite(lo) && finite(hi) {
		opts = append(opts, asciigraph.LowerBound(lo), asciigraph.UpperBound(hi))
	}
	return asciigraph.PlotMany(data, opts...)
}

// flatBounds widens the y axis of nearly constant data, which asciigraph
// would otherwise stretch over its rounding noise.
func flatBounds(data [][]float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, col := range data {
		for _, v := range col {
			if finite(v) {
				lo, hi = math.Min(lo, v), math.Max(hi, v)
			}
		}
	}
	scale := math.Max(math.Abs(lo), math.Abs(hi))
	if hi-lo > 1e-9*scale {
		return math.Inf(-1), math.Inf(1)
	}
	if scale == 0 {
		return -1, 1
	}
	return lo - scale/2, hi + scale/2
}

func caption(p *lessons.Panel, xmin, xmax float64) string {
	var parts []string
	if p.Title != "" {
		parts = append(parts, p.Title)
	}
	x := p.XLabel
	if x == "" {
		x = "x"
	}
	parts = append(parts, fmt.Sprintf("%s in [%.4g, %.4g]", x, xmin, xmax))
	if p.YLabel != "" {
		y := p.YLabel
		if p.LogY {
			y = "log10 " + y
		}
		parts = append(parts, y)
	}
	return strings.Join(parts, "  ")
}

// needsCanvas reports panels asciigraph cannot draw: quivers, equal
// aspect plots and curves that are not functions of x.
func needsCanvas(p *lessons.Panel) bool {
	if len(p.Arrows) > 0 || p.Equal {
		return true
	}
	for _, s := range p.Visible() {
		if !increasing(s.X) {
			return true
		}
	}
	return false
}

func increasing(xs []float64) bool {
	for i := 1; i < len(xs); i++ {
		if !(xs[i] >= xs[i-1]) {
			return false
		}
	}
	return true
}

// resample interpolates s onto n evenly spaced columns over [xmin, xmax].
// Columns outside the series are NaN. Marker series are placed on their
// nearest column without joining the points.
func resample(s *lessons.Series, xmin, xmax float64, n int, logY bool) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	ys := yValues(s.Y, logY)
	m := min(len(s.X), len(ys))
	if m == 0 || xmax <= xmin {
		return out
	}

	if m == 1 || s.Style == lessons.Markers {
		for i := 0; i < m; i++ {
			if !finite(s.X[i]) || !finite(ys[i]) {
				continue
			}
			c := int(math.Round((s.X[i] - xmin) / (xmax - xmin) * float64(n-1)))
			if c >= 0 && c < n {
				out[c] = ys[i]
			}
		}
		return out
	}

	xs := s.X[:m]
	for c := range out {
		x := xmin + (xmax-xmin)*float64(c)/float64(n-1)
		if x < xs[0] || x > xs[m-1] {
			continue
		}
		j := sort.SearchFloat64s(xs, x)
		if j == 0 {
			out[c] = ys[0]
			continue
		}
		x0, x1 := xs[j-1], xs[j]
		y0, y1 := ys[j-1], ys[j]
		if x1 == x0 || x == x1 {
			out[c] = y1
			continue
		}
		out[c] = y0 + (y1-y0)*(x-x0)/(x1-x0)
	}
	return out
}

func yValues(ys []float64, logY bool) []float64 {
	out := make([]float64, len(ys))
	for i, y := range ys {
		switch {
		case !logY:
			out[i] = y
		case y > 0:
			out[i] = math.Log10(y)
		default:
			out[i] = math.NaN()
		}
	}
	return out
}

func logOrInf(v float64, sign int) float64 {
	if v <= 0 {
		return math.Inf(sign)
	}
	return math.Log10(v)
}

func allNaN(vs []float64) bool {
	for _, v := range vs {
		if !math.IsNaN(v) {
			return false
		}
	}
	return true
}

func ansi(name string) asciigraph.AnsiColor {
	name = strings.ToLower(name)
	if name == "grey" {
		name = "gray"
	}
	if c, ok := asciigraph.ColorNames[name]; ok {
		return c
	}
	return asciigraph.Default
}

func braille(p *lessons.Panel, xmin, xmax float64, width, height int) string {
	ymin, ymax, ok := yRange(p)
	if !ok {
		return fmt.Sprintf("%s\n(no data)", p.Title)
	}
	if p.LogY {
		if ymin <= 0 {
			ymin = ymax * 1e-6
		}
		ymin, ymax = math.Log10(ymin), math.Log10(ymax)
	}
	if p.Equal {
		// one braille dot is roughly square on a terminal
		scale := math.Max((xmax-xmin)/float64(2*width), (ymax-ymin)/float64(4*height))
		cx, cy := (xmin+xmax)/2, (ymin+ymax)/2
		xmin, xmax = cx-scale*float64(width), cx+scale*float64(width)
		ymin, ymax = cy-scale*float64(2*height), cy+scale*float64(2*height)
	}

	g := newBrailleGrid(width, height, xmin, xmax, ymin, ymax)
	for _, r := range p.HLines {
		at := r.At
		if p.LogY {
			at = logOrInf(at, -1)
		}
		g.segment(xmin, at, xmax, at)
	}
	for _, r := range p.VLines {
		g.segment(r.At, ymin, r.At, ymax)
	}

	var names []string
	for _, s := range p.Visible() {
		names = append(names, s.Name)
		ys := yValues(s.Y, p.LogY)
		m := min(len(s.X), len(ys))
		for i := 0; i < m; i++ {
			if i == 0 || s.Style == lessons.Markers {
				g.point(s.X[i], ys[i])
				continue
			}
			g.segment(s.X[i-1], ys[i-1], s.X[i], ys[i])
		}
	}

	scale := quiverScale(p.Arrows)
	for _, a := range p.Arrows {
		g.segment(a.X, a.Y, a.X+scale*a.U, a.Y+scale*a.V)
	}

	var b strings.Builder
	b.WriteString(g.String())
	fmt.Fprintf(&b, "%s  y in [%.4g, %.4g]", caption(p, xmin, xmax), ymin, ymax)
	if len(names) > 0 {
		b.WriteString("\n" + strings.Join(names, ", "))
	}
	return b.String()
}
