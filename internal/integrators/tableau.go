package integrators

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/lessonlab/internal/dynamo"
)

// tableau is an explicit Runge-Kutta scheme in Butcher form. Schemes with
// an embedded solution carry its weights in bHat.
type tableau struct {
	c    []float64
	a    [][]float64
	b    []float64
	bHat []float64
}

var classical = tableau{
	c: []float64{0, 0.5, 0.5, 1},
	a: [][]float64{nil, {0.5}, {0, 0.5}, {0, 0, 1}},
	b: []float64{1.0 / 6, 1.0 / 3, 1.0 / 3, 1.0 / 6},
}

// dormandPrince is the 5(4) pair. Its last stage is evaluated at the
// fifth order solution and only feeds the error estimate.
var dormandPrince = tableau{
	c: []float64{0, 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9, 1, 1},
	a: [][]float64{
		nil,
		{1.0 / 5},
		{3.0 / 40, 9.0 / 40},
		{44.0 / 45, -56.0 / 15, 32.0 / 9},
		{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
		{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656},
		{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84},
	},
	b:    []float64{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84, 0},
	bHat: []float64{5179.0 / 57600, 0, 7571.0 / 16695, 393.0 / 640, -92097.0 / 339200, 187.0 / 2100, 1.0 / 40},
}

const (
	safety    = 0.9
	minShrink = 0.2
	maxGrowth = 10.0
)

// stepper runs one tableau over states of a fixed dimension, reusing its
// stage buffers between steps.
type stepper struct {
	tab   *tableau
	k     []dynamo.State
	stage dynamo.State
}

func newStepper(tab *tableau, n int) *stepper {
	s := &stepper{tab: tab, k: make([]dynamo.State, len(tab.b)), stage: make(dynamo.State, n)}
	for i := range s.k {
		s.k[i] = make(dynamo.State, n)
	}
	return s
}

// advance returns the state one step of size h after x. x is not modified.
func (s *stepper) advance(sys dynamo.System, x dynamo.State, t, h float64) dynamo.State {
	for i, row := range s.tab.a {
		copy(s.stage, x)
		for j, aij := range row {
			if aij != 0 {
				floats.AddScaled(s.stage, h*aij, s.k[j])
			}
		}
		copy(s.k[i], sys.Derive(s.stage, t+s.tab.c[i]*h))
	}
	next := x.Clone()
	for i, bi := range s.tab.b {
		if bi != 0 {
			floats.AddScaled(next, h*bi, s.k[i])
		}
	}
	return next
}

// errorRatio is the largest local error of the last advance relative to
// tol, scaled per component by the larger magnitude of x and next. Values
// above 1 mean the step should be retried.
func (s *stepper) errorRatio(x, next dynamo.State, h, tol float64) float64 {
	worst := 0.0
	for i := range x {
		e := 0.0
		for j, bj := range s.tab.b {
			e += (bj - s.tab.bHat[j]) * s.k[j][i]
		}
		scale := tol * (1 + math.Max(math.Abs(x[i]), math.Abs(next[i])))
		worst = math.Max(worst, math.Abs(h*e)/scale)
	}
	return worst
}

// resize proposes the next step size after a step of size h left the given
// error ratio.
func resize(h, ratio float64) float64 {
	if ratio == 0 {
		return h * maxGrowth
	}
	return h * math.Min(maxGrowth, math.Max(minShrink, safety*math.Pow(ratio, -0.2)))
}
