package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// ArgMax returns the index and value of the largest finite element, or
// (-1, NaN) when there is none.
func ArgMax(ys []float64) (int, float64) {
	idx, best := -1, math.NaN()
	for i, y := range ys {
		if math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		if idx < 0 || y > best {
			idx, best = i, y
		}
	}
	return idx, best
}

// Crossings returns the x positions, linearly interpolated, where ys passes
// through level.
func Crossings(xs, ys []float64, level float64) []float64 {
	var out []float64
	n := min(len(xs), len(ys))
	for i := 0; i+1 < n; i++ {
		a, b := ys[i]-level, ys[i+1]-level
		switch {
		case a == 0:
			out = append(out, xs[i])
		case a*b < 0:
			out = append(out, xs[i]+(xs[i+1]-xs[i])*a/(a-b))
		}
	}
	if n > 0 && ys[n-1] == level {
		out = append(out, xs[n-1])
	}
	return out
}

// FWHM is the full width at half maximum of the peak containing the
// maximum of ys. It returns NaN when the peak is not closed on both sides.
func FWHM(xs, ys []float64) float64 {
	peak, top := ArgMax(ys)
	if peak < 0 {
		return math.NaN()
	}
	half := top / 2

	left := math.NaN()
	for i := peak; i > 0; i-- {
		if ys[i-1] < half {
			left = xs[i-1] + (xs[i]-xs[i-1])*(half-ys[i-1])/(ys[i]-ys[i-1])
			break
		}
	}
	right := math.NaN()
	for i := peak; i+1 < len(ys); i++ {
		if ys[i+1] < half {
			right = xs[i] + (xs[i+1]-xs[i])*(ys[i]-half)/(ys[i]-ys[i+1])
			break
		}
	}
	return right - left
}

// MeanSpacing is the average gap between consecutive sorted values.
func MeanSpacing(xs []float64) float64 {
	if len(xs) < 2 {
		return math.NaN()
	}
	return (floats.Max(xs) - floats.Min(xs)) / float64(len(xs)-1)
}
