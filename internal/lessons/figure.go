package lessons

import "math"

type Style int

const (
	Line Style = iota
	Dashed
	Dotted
	Markers
	// LineMarkers draws the points joined by a line.
	LineMarkers
)

func (s Style) String() string {
	switch s {
	case Dashed:
		return "dashed"
	case Dotted:
		return "dotted"
	case Markers:
		return "markers"
	case LineMarkers:
		return "line+markers"
	}
	return "line"
}

// Series is one named curve. Hidden series are kept in the figure so they
// can be toggled back without re-evaluating the model.
type Series struct {
	Name   string
	X, Y   []float64
	Style  Style
	Color  string
	Width  float64
	Hidden bool
	// XErr and YErr are optional error bar half widths.
	XErr, YErr []float64
}

// Arrow is one quiver vector anchored at (X, Y).
type Arrow struct {
	X, Y float64
	U, V float64
}

// RefLine is a horizontal or vertical reference line.
type RefLine struct {
	At    float64
	Color string
	Label string
	Style Style
}

type Panel struct {
	Title  string
	XLabel string
	YLabel string
	XLim   [2]float64
	YLim   [2]float64
	LogY   bool
	// Equal asks for the same scale on both axes.
	Equal  bool
	Series []*Series
	Arrows []Arrow
	HLines []RefLine
	VLines []RefLine
	Notes  []string
}

func (p *Panel) Add(s *Series) *Series {
	p.Series = append(p.Series, s)
	return s
}

// Visible returns the series that are not hidden.
func (p *Panel) Visible() []*Series {
	var out []*Series
	for _, s := range p.Series {
		if !s.Hidden {
			out = append(out, s)
		}
	}
	return out
}

type Figure struct {
	Title  string
	Panels []*Panel
}

func NewFigure(title string, panels ...*Panel) *Figure {
	return &Figure{Title: title, Panels: panels}
}

// Clone copies the figure, its panels and its series. Data slices are
// shared; a figure's data is never written after Plot returns.
func (f *Figure) Clone() *Figure {
	out := &Figure{Title: f.Title, Panels: make([]*Panel, len(f.Panels))}
	for i, p := range f.Panels {
		cp := *p
		cp.Series = make([]*Series, len(p.Series))
		for j, s := range p.Series {
			cs := *s
			cp.Series[j] = &cs
		}
		out.Panels[i] = &cp
	}
	return out
}

// Series finds a series by name across all panels.
func (f *Figure) Series(name string) *Series {
	for _, p := range f.Panels {
		for _, s := range p.Series {
			if s.Name == name {
				return s
			}
		}
	}
	return nil
}

// SeriesNames lists every series name in panel order.
func (f *Figure) SeriesNames() []string {
	var names []string
	for _, p := range f.Panels {
		for _, s := range p.Series {
			names = append(names, s.Name)
		}
	}
	return names
}

// Bounds returns the data extent of the visible series of a panel, ignoring
// non-finite values.
func (p *Panel) Bounds() (xmin, xmax, ymin, ymax float64) {
	xmin, ymin = math.Inf(1), math.Inf(1)
	xmax, ymax = math.Inf(-1), math.Inf(-1)
	for _, s := range p.Visible() {
		for i := range s.X {
			if i >= len(s.Y) || !finite(s.X[i]) || !finite(s.Y[i]) {
				continue
			}
			xmin, xmax = math.Min(xmin, s.X[i]), math.Max(xmax, s.X[i])
			ymin, ymax = math.Min(ymin, s.Y[i]), math.Max(ymax, s.Y[i])
		}
	}
	return xmin, xmax, ymin, ymax
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func line(name, color string, xs, ys []float64) *Series {
	return &Series{Name: name, X: xs, Y: ys, Color: color, Width: 2}
}

func dashed(name, color string, xs, ys []float64) *Series {
	return &Series{Name: name, X: xs, Y: ys, Style: Dashed, Color: color, Width: 1.5}
}

func markers(name, color string, xs, ys []float64) *Series {
	return &Series{Name: name, X: xs, Y: ys, Style: Markers, Color: color}
}

func hidden(s *Series) *Series {
	s.Hidden = true
	return s
}
