package render

import (
	"math"
	"strings"
)

// dotBits[row][col] is the bit of a braille cell lighting that dot.
var dotBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// brailleGrid is cols x rows braille cells covering the data window
// [xmin, xmax] x [ymin, ymax]. Each cell holds 2x4 dots, so the window
// spans 2*cols x 4*rows dots with y growing upwards.
type brailleGrid struct {
	cols, rows             int
	cells                  []uint8
	xmin, xmax, ymin, ymax float64
}

func newBrailleGrid(cols, rows int, xmin, xmax, ymin, ymax float64) *brailleGrid {
	return &brailleGrid{
		cols: cols, rows: rows,
		cells: make([]uint8, cols*rows),
		xmin:  xmin, xmax: xmax, ymin: ymin, ymax: ymax,
	}
}

func (g *brailleGrid) light(dx, dy int) {
	if dx < 0 || dy < 0 || dx >= 2*g.cols || dy >= 4*g.rows {
		return
	}
	g.cells[(dy/4)*g.cols+dx/2] |= dotBits[dy%4][dx%2]
}

// dots maps a data point to fractional dot coordinates. Points more than
// one window away are refused so that segments stay short.
func (g *brailleGrid) dots(x, y float64) (float64, float64, bool) {
	if !finite(x) || !finite(y) || g.xmax <= g.xmin || g.ymax <= g.ymin {
		return 0, 0, false
	}
	w, h := float64(2*g.cols-1), float64(4*g.rows-1)
	dx := (x - g.xmin) / (g.xmax - g.xmin) * w
	dy := (g.ymax - y) / (g.ymax - g.ymin) * h
	if dx < -w || dx > 2*w || dy < -h || dy > 2*h {
		return 0, 0, false
	}
	return dx, dy, true
}

func (g *brailleGrid) point(x, y float64) {
	if dx, dy, ok := g.dots(x, y); ok {
		g.light(int(math.Round(dx)), int(math.Round(dy)))
	}
}

// segment lights the dots along a straight line, one per dot of its
// longer extent.
func (g *brailleGrid) segment(x0, y0, x1, y1 float64) {
	ax, ay, ok0 := g.dots(x0, y0)
	bx, by, ok1 := g.dots(x1, y1)
	if !ok0 || !ok1 {
		return
	}
	ax, ay, bx, by = math.Round(ax), math.Round(ay), math.Round(bx), math.Round(by)
	n := int(math.Max(math.Abs(bx-ax), math.Abs(by-ay)))
	if n == 0 {
		g.light(int(ax), int(ay))
		return
	}
	for i := 0; i <= n; i++ {
		f := float64(i) / float64(n)
		g.light(int(math.Round(ax+f*(bx-ax))), int(math.Round(ay+f*(by-ay))))
	}
}

func (g *brailleGrid) String() string {
	var b strings.Builder
	for r := 0; r < g.rows; r++ {
		for _, c := range g.cells[r*g.cols : (r+1)*g.cols] {
			b.WriteRune(0x2800 + rune(c))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
