package render

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/san-kum/lessonlab/internal/lessons"
)

const dpi = 96

func pixels(n int) vg.Length {
	return vg.Length(n) * vg.Inch / dpi
}

// Image draws fig to path with gonum/plot, one row per panel. The format
// follows the file extension: png, jpg, svg, pdf, eps or tif.
func Image(fig *lessons.Figure, path string, width, height int) (err error) {
	if fig == nil || len(fig.Panels) == 0 {
		return ErrEmptyFigure
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format == "" {
		return fmt.Errorf("%w: %s has no extension", ErrFormat, path)
	}

	rows := make([][]*plot.Plot, len(fig.Panels))
	for i := range fig.Panels {
		pl, err := panelPlot(fig, i)
		if err != nil {
			return fmt.Errorf("panel %d: %w", i, err)
		}
		rows[i] = []*plot.Plot{pl}
	}

	img, err := draw.NewFormattedCanvas(pixels(width), pixels(height), format)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFormat, err)
	}
	tiles := draw.Tiles{
		Rows:      len(rows),
		Cols:      1,
		PadX:      vg.Millimeter,
		PadY:      4 * vg.Millimeter,
		PadTop:    2 * vg.Millimeter,
		PadBottom: 2 * vg.Millimeter,
		PadLeft:   2 * vg.Millimeter,
		PadRight:  4 * vg.Millimeter,
	}
	canvases := plot.Align(rows, tiles, draw.New(img))
	for i := range rows {
		rows[i][0].Draw(canvases[i][0])
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	if _, err := img.WriteTo(f); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	return nil
}

func panelPlot(fig *lessons.Figure, i int) (*plot.Plot, error) {
	p := fig.Panels[i]
	pl := plot.New()
	pl.Title.Text = panelTitle(fig, i)
	if len(p.Notes) > 0 {
		pl.Title.Text = strings.TrimSpace(pl.Title.Text + "\n" + strings.Join(p.Notes, "  "))
	}
	pl.X.Label.Text = p.XLabel
	pl.Y.Label.Text = p.YLabel
	pl.Legend.Top = true
	pl.Add(plotter.NewGrid())
	if p.LogY {
		pl.Y.Scale = plot.LogScale{}
		pl.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}

	for j, s := range p.Visible() {
		if err := addSeries(pl, s, j, p.LogY); err != nil {
			return nil, fmt.Errorf("series %q: %w", s.Name, err)
		}
	}
	if len(p.Arrows) > 0 {
		q := &quiver{arrows: p.Arrows, scale: quiverScale(p.Arrows), style: draw.LineStyle{Color: color.Black, Width: vg.Points(1)}}
		pl.Add(q)
	}

	if hasLimits(p.XLim) {
		pl.X.Min, pl.X.Max = p.XLim[0], p.XLim[1]
	}
	if hasLimits(p.YLim) && (!p.LogY || p.YLim[0] > 0) {
		pl.Y.Min, pl.Y.Max = p.YLim[0], p.YLim[1]
	}
	if err := refLines(pl, p); err != nil {
		return nil, err
	}

	if !(pl.X.Min < pl.X.Max) {
		pl.X.Min, pl.X.Max = 0, 1
	}
	if !(pl.Y.Min < pl.Y.Max) || (p.LogY && pl.Y.Min <= 0) {
		if p.LogY {
			pl.Y.Min, pl.Y.Max = 1, 10
		} else {
			pl.Y.Min, pl.Y.Max = 0, 1
		}
	}
	if p.Equal {
		equalAspect(pl)
	}
	return pl, nil
}

func seriesColor(s *lessons.Series, i int) color.Color {
	if c, ok := rgba(s.Color); ok {
		return c
	}
	return plotutil.Color(i)
}

func dashes(st lessons.Style) []vg.Length {
	switch st {
	case lessons.Dashed:
		return []vg.Length{vg.Points(6), vg.Points(3)}
	case lessons.Dotted:
		return []vg.Length{vg.Points(1), vg.Points(3)}
	}
	return nil
}

// points keeps the finite samples of s (positive ones on a log axis) and
// their indices.
func points(s *lessons.Series, logY bool) (plotter.XYs, []int) {
	n := min(len(s.X), len(s.Y))
	xys := make(plotter.XYs, 0, n)
	idx := make([]int, 0, n)
	for i := 0; i < n; i++ {
		x, y := s.X[i], s.Y[i]
		if !finite(x) || !finite(y) || (logY && y <= 0) {
			continue
		}
		xys = append(xys, plotter.XY{X: x, Y: y})
		idx = append(idx, i)
	}
	return xys, idx
}

func addSeries(pl *plot.Plot, s *lessons.Series, i int, logY bool) error {
	xys, idx := points(s, logY)
	if len(xys) == 0 {
		return nil
	}
	c := seriesColor(s, i)
	width := vg.Points(1.5)
	if s.Width > 0 {
		width = vg.Points(s.Width)
	}

	switch s.Style {
	case lessons.Markers:
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return err
		}
		sc.Color = c
		sc.Shape = draw.CircleGlyph{}
		sc.Radius = vg.Points(3)
		pl.Add(sc)
		pl.Legend.Add(s.Name, sc)
	case lessons.LineMarkers:
		l, sc, err := plotter.NewLinePoints(xys)
		if err != nil {
			return err
		}
		l.Color = c
		l.Width = width
		sc.Color = c
		sc.Shape = draw.CircleGlyph{}
		sc.Radius = vg.Points(3)
		pl.Add(l, sc)
		pl.Legend.Add(s.Name, l, sc)
	default:
		l, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		l.Color = c
		l.Width = width
		l.Dashes = dashes(s.Style)
		pl.Add(l)
		pl.Legend.Add(s.Name, l)
	}

	if logY {
		return nil
	}
	if len(s.YErr) == len(s.X) {
		bars, err := plotter.NewYErrorBars(errorPoints{XYs: xys, errs: pick(s.YErr, idx)})
		if err != nil {
			return err
		}
		bars.Color = c
		pl.Add(bars)
	}
	if len(s.XErr) == len(s.X) {
		bars, err := plotter.NewXErrorBars(errorPoints{XYs: xys, errs: pick(s.XErr, idx)})
		if err != nil {
			return err
		}
		bars.Color = c
		pl.Add(bars)
	}
	return nil
}

func pick(vs []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		if finite(vs[j]) {
			out[i] = math.Abs(vs[j])
		}
	}
	return out
}

// errorPoints serves symmetric error bars in either direction.
type errorPoints struct {
	plotter.XYs
	errs []float64
}

func (e errorPoints) XError(i int) (float64, float64) { return e.errs[i], e.errs[i] }
func (e errorPoints) YError(i int) (float64, float64) { return e.errs[i], e.errs[i] }

func refLines(pl *plot.Plot, p *lessons.Panel) error {
	xmin, xmax := pl.X.Min, pl.X.Max
	ymin, ymax := pl.Y.Min, pl.Y.Max
	add := func(r lessons.RefLine, xys plotter.XYs) error {
		l, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		l.Color = color.Gray{Y: 100}
		if c, ok := rgba(r.Color); ok {
			l.Color = c
		}
		l.Width = vg.Points(1)
		l.Dashes = dashes(r.Style)
		pl.Add(l)
		if r.Label != "" {
			pl.Legend.Add(r.Label, l)
		}
		return nil
	}
	if xmin < xmax {
		for _, r := range p.HLines {
			if p.LogY && r.At <= 0 {
				continue
			}
			if err := add(r, plotter.XYs{{X: xmin, Y: r.At}, {X: xmax, Y: r.At}}); err != nil {
				return err
			}
		}
	}
	if ymin < ymax {
		for _, r := range p.VLines {
			if err := add(r, plotter.XYs{{X: r.At, Y: ymin}, {X: r.At, Y: ymax}}); err != nil {
				return err
			}
		}
	}
	return nil
}

// equalAspect widens the narrower axis so both share one scale on a
// roughly square panel.
func equalAspect(pl *plot.Plot) {
	dx, dy := pl.X.Max-pl.X.Min, pl.Y.Max-pl.Y.Min
	switch {
	case dx > dy:
		c := (pl.Y.Min + pl.Y.Max) / 2
		pl.Y.Min, pl.Y.Max = c-dx/2, c+dx/2
	case dy > dx:
		c := (pl.X.Min + pl.X.Max) / 2
		pl.X.Min, pl.X.Max = c-dy/2, c+dy/2
	}
}

// quiver draws arrows from their anchors, stretched by scale.
type quiver struct {
	arrows []lessons.Arrow
	scale  float64
	style  draw.LineStyle
}

func (q *quiver) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	head := float64(vg.Points(4))
	for _, a := range q.arrows {
		x0, y0 := trX(a.X), trY(a.Y)
		x1, y1 := trX(a.X+q.scale*a.U), trY(a.Y+q.scale*a.V)
		c.StrokeLine2(q.style, x0, y0, x1, y1)

		dx, dy := float64(x1-x0), float64(y1-y0)
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		ux, uy := dx/l, dy/l
		for _, side := range []float64{-1, 1} {
			sin, cos := math.Sincos(side * math.Pi / 7)
			hx := -(ux*cos - uy*sin) * head
			hy := -(ux*sin + uy*cos) * head
			c.StrokeLine2(q.style, x1, y1, x1+vg.Length(hx), y1+vg.Length(hy))
		}
	}
}

func (q *quiver) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, ymin = math.Inf(1), math.Inf(1)
	xmax, ymax = math.Inf(-1), math.Inf(-1)
	for _, a := range q.arrows {
		for _, pt := range [2][2]float64{{a.X, a.Y}, {a.X + q.scale*a.U, a.Y + q.scale*a.V}} {
			xmin, xmax = math.Min(xmin, pt[0]), math.Max(xmax, pt[0])
			ymin, ymax = math.Min(ymin, pt[1]), math.Max(ymax, pt[1])
		}
	}
	return xmin, xmax, ymin, ymax
}
