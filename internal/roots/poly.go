package roots

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/lessonlab/internal/dynamo"
)

// Polynomial returns the complex roots of the polynomial whose coefficients
// are given highest degree first, as the eigenvalues of its companion matrix.
func Polynomial(coeffs []float64) ([]complex128, error) {
	start := 0
	for start < len(coeffs) && coeffs[start] == 0 {
		start++
	}
	coeffs = coeffs[start:]
	if len(coeffs) == 0 {
		return nil, fmt.Errorf("%w: zero polynomial", dynamo.ErrDataFormat)
	}

	zeros := 0
	for len(coeffs) > 1 && coeffs[len(coeffs)-1] == 0 {
		coeffs = coeffs[:len(coeffs)-1]
		zeros++
	}

	n := len(coeffs) - 1
	out := make([]complex128, 0, n+zeros)
	if n >= 1 {
		companion := mat.NewDense(n, n, nil)
		for j := 0; j < n; j++ {
			companion.Set(0, j, -coeffs[j+1]/coeffs[0])
		}
		for i := 1; i < n; i++ {
			companion.Set(i, i-1, 1)
		}

		var eig mat.Eigen
		if ok := eig.Factorize(companion, mat.EigenNone); !ok {
			return nil, fmt.Errorf("%w: eigen decomposition of companion matrix", dynamo.ErrNoConvergence)
		}
		out = append(out, eig.Values(nil)...)
	}
	for i := 0; i < zeros; i++ {
		out = append(out, 0)
	}
	return out, nil
}

// RealRoots keeps the roots whose imaginary part is within tol, sorted.
func RealRoots(coeffs []float64, tol float64) ([]float64, error) {
	all, err := Polynomial(coeffs)
	if err != nil {
		return nil, err
	}
	var out []float64
	for _, z := range all {
		if math.Abs(imag(z)) <= tol*math.Max(1, cmplx.Abs(z)) {
			out = append(out, real(z))
		}
	}
	sort.Float64s(out)
	return out, nil
}

// Bracket returns the index pairs (i, i+1) across which f changes sign.
// A pair counts when sign(f[i]) + sign(f[i+1]) == 0, so two consecutive
// exact zeros form a pair while a single zero between two values of the
// same sign does not.
func Bracket(ys []float64) [][2]int {
	var out [][2]int
	for i := 0; i+1 < len(ys); i++ {
		if math.IsNaN(ys[i]) || math.IsNaN(ys[i+1]) {
			continue
		}
		if sign(ys[i])+sign(ys[i+1]) == 0 {
			out = append(out, [2]int{i, i + 1})
		}
	}
	return out
}

// FindAll evaluates f on xs, brackets sign changes and refines each with Brent.
func FindAll(f func(float64) float64, xs []float64, opts Options) ([]float64, error) {
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = f(x)
	}
	var out []float64
	for _, pair := range Bracket(ys) {
		root, err := Brent(f, xs[pair[0]], xs[pair[1]], opts)
		if err != nil {
			return out, err
		}
		out = append(out, root)
	}
	return out, nil
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
