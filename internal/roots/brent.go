package roots

import (
	"fmt"
	"math"

	"github.com/san-kum/lessonlab/internal/dynamo"
)

// Options bound the Brent iteration. Zero fields take scipy's brentq defaults.
type Options struct {
	XTol    float64
	RTol    float64
	MaxIter int
}

const (
	DefaultXTol    = 2e-12
	DefaultMaxIter = 100
)

var DefaultRTol = 4 * 2.220446049250313e-16

func (o Options) withDefaults() Options {
	if o.XTol <= 0 {
		o.XTol = DefaultXTol
	}
	if o.RTol <= 0 {
		o.RTol = DefaultRTol
	}
	if o.MaxIter <= 0 {
		o.MaxIter = DefaultMaxIter
	}
	return o
}

// Brent finds a root of f in [a, b] by inverse quadratic interpolation with
// bisection fallback. f(a) and f(b) must have opposite signs.
func Brent(f func(float64) float64, a, b float64, opts Options) (float64, error) {
	opts = opts.withDefaults()

	xpre, xcur := a, b
	fpre, fcur := f(xpre), f(xcur)
	if math.IsNaN(fpre) || math.IsNaN(fcur) {
		return math.NaN(), fmt.Errorf("%w: f is NaN at the interval ends", dynamo.ErrNoBracket)
	}
	if fpre*fcur > 0 {
		return math.NaN(), fmt.Errorf("%w: f(%g)=%g, f(%g)=%g", dynamo.ErrNoBracket, a, fpre, b, fcur)
	}
	if fpre == 0 {
		return xpre, nil
	}
	if fcur == 0 {
		return xcur, nil
	}

	var xblk, fblk, spre, scur float64
	for i := 0; i < opts.MaxIter; i++ {
		if fpre != 0 && fcur != 0 && math.Signbit(fpre) != math.Signbit(fcur) {
			xblk = xpre
			fblk = fpre
			spre = xcur - xpre
			scur = spre
		}
		if math.Abs(fblk) < math.Abs(fcur) {
			xpre, xcur, xblk = xcur, xblk, xcur
			fpre, fcur, fblk = fcur, fblk, fcur
		}

		delta := (opts.XTol + opts.RTol*math.Abs(xcur)) / 2
		sbis := (xblk - xcur) / 2
		if fcur == 0 || math.Abs(sbis) < delta {
			return xcur, nil
		}

		if math.Abs(spre) > delta && math.Abs(fcur) < math.Abs(fpre) {
			var stry float64
			if xpre == xblk {
				// secant
				stry = -fcur * (xcur - xpre) / (fcur - fpre)
			} else {
				// inverse quadratic
				dpre := (fpre - fcur) / (xpre - xcur)
				dblk := (fblk - fcur) / (xblk - xcur)
				stry = -fcur * (fblk*dblk - fpre*dpre) / (dblk * dpre * (fblk - fpre))
			}
			if 2*math.Abs(stry) < math.Min(math.Abs(spre), 3*math.Abs(sbis)-delta) {
				spre = scur
				scur = stry
			} else {
				spre = sbis
				scur = sbis
			}
		} else {
			spre = sbis
			scur = sbis
		}

		xpre = xcur
		fpre = fcur
		if math.Abs(scur) > delta {
			xcur += scur
		} else if sbis > 0 {
			xcur += delta
		} else {
			xcur -= delta
		}
		fcur = f(xcur)
	}

	return xcur, fmt.Errorf("%w: brent after %d iterations", dynamo.ErrNoConvergence, opts.MaxIter)
}
