package dynamo

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Linspace returns n evenly spaced values over [a, b], endpoints included.
func Linspace(a, b float64, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	if n == 1 {
		return []float64{a}
	}
	out := floats.Span(make([]float64, n), a, b)
	out[n-1] = b
	return out
}

// Logspace returns 10**Linspace(a, b, n).
func Logspace(a, b float64, n int) []float64 {
	out := Linspace(a, b, n)
	for i, v := range out {
		out[i] = math.Pow(10, v)
	}
	return out
}

// Arange returns values from a up to, but excluding, b.
func Arange(a, b, step float64) []float64 {
	if step == 0 || (b-a)/step <= 0 {
		return []float64{}
	}
	n := int(math.Ceil((b - a) / step))
	out := make([]float64, n)
	for i := range out {
		out[i] = a + float64(i)*step
	}
	return out
}

// Meshgrid returns X[i][j] = xs[j] and Y[i][j] = ys[i].
func Meshgrid(xs, ys []float64) (X, Y [][]float64) {
	X = make([][]float64, len(ys))
	Y = make([][]float64, len(ys))
	for i, y := range ys {
		X[i] = make([]float64, len(xs))
		Y[i] = make([]float64, len(xs))
		for j, x := range xs {
			X[i][j] = x
			Y[i][j] = y
		}
	}
	return X, Y
}

// Map applies f elementwise.
func Map(xs []float64, f func(float64) float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = f(x)
	}
	return out
}

func ScaleAll(xs []float64, k float64) []float64 {
	return floats.ScaleTo(make([]float64, len(xs)), k, xs)
}
