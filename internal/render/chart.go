package render

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/san-kum/lessonlab/internal/lessons"
)

var chartColors = []drawing.Color{
	chart.ColorBlue,
	chart.ColorRed,
	chart.ColorGreen,
	chart.ColorOrange,
	chart.ColorCyan,
	chart.ColorBlack,
}

func chartColor(s *lessons.Series, i int) drawing.Color {
	if c, ok := rgba(s.Color); ok {
		return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
	}
	return chartColors[i%len(chartColors)]
}

func chartStyle(s *lessons.Series, i int) chart.Style {
	c := chartColor(s, i)
	width := 2.0
	if s.Width > 0 {
		width = s.Width
	}
	switch s.Style {
	case lessons.Markers:
		return chart.Style{StrokeWidth: chart.Disabled, DotWidth: 3, DotColor: c}
	case lessons.LineMarkers:
		return chart.Style{StrokeColor: c, StrokeWidth: width, DotWidth: 3, DotColor: c}
	case lessons.Dashed:
		return chart.Style{StrokeColor: c, StrokeWidth: width, StrokeDashArray: []float64{6, 3}}
	case lessons.Dotted:
		return chart.Style{StrokeColor: c, StrokeWidth: width, StrokeDashArray: []float64{1, 3}}
	}
	return chart.Style{StrokeColor: c, StrokeWidth: width}
}

// Chart draws the first panel of fig as a PNG with go-chart. A log y axis
// is drawn as log10 of the values.
func Chart(fig *lessons.Figure, path string, width, height int) (err error) {
	if fig == nil || len(fig.Panels) == 0 {
		return ErrEmptyFigure
	}
	p := fig.Panels[0]

	ylabel := p.YLabel
	if p.LogY {
		ylabel = "log10 " + ylabel
	}
	ch := chart.Chart{
		Title:  panelTitle(fig, 0),
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{Name: p.XLabel},
		YAxis: chart.YAxis{Name: ylabel},
	}

	for i, s := range p.Visible() {
		xs, ys := chartValues(s, p.LogY)
		if len(xs) == 0 {
			continue
		}
		ch.Series = append(ch.Series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style:   chartStyle(s, i),
		})
	}
	if len(ch.Series) == 0 {
		return ErrEmptyFigure
	}

	if hasLimits(p.XLim) {
		ch.XAxis.Range = &chart.ContinuousRange{Min: p.XLim[0], Max: p.XLim[1]}
	}
	if hasLimits(p.YLim) {
		lo, hi := p.YLim[0], p.YLim[1]
		if p.LogY {
			lo, hi = logOrInf(lo, -1), logOrInf(hi, 1)
		}
		if finite(lo) && finite(hi) {
			ch.YAxis.Range = &chart.ContinuousRange{Min: lo, Max: hi}
		}
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	if err := ch.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func chartValues(s *lessons.Series, logY bool) (xs, ys []float64) {
	n := min(len(s.X), len(s.Y))
	for i := 0; i < n; i++ {
		x, y := s.X[i], s.Y[i]
		if logY {
			if y <= 0 {
				continue
			}
			y = math.Log10(y)
		}
		if !finite(x) || !finite(y) {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return xs, ys
}
