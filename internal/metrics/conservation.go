package metrics

import (
	"math"

	"github.com/san-kum/lessonlab/internal/dynamo"
)

// PhaseDrift returns the largest relative change of a conserved quantity
// along a (position, velocity) curve, measured from its first point. A curve
// with no points, or whose quantity starts at zero, reports 0.
func PhaseDrift(xs, ys []float64, quantity func(dynamo.State) float64) float64 {
	n := min(len(xs), len(ys))
	if n == 0 {
		return 0
	}
	q0 := quantity(dynamo.State{xs[0], ys[0]})
	if q0 == 0 {
		return 0
	}
	worst := 0.0
	pt := make(dynamo.State, 2)
	for i := 1; i < n; i++ {
		pt[0], pt[1] = xs[i], ys[i]
		worst = math.Max(worst, math.Abs(quantity(pt)/q0-1))
	}
	return worst
}
