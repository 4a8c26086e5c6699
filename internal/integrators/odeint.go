package integrators

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/lessonlab/internal/dynamo"
)

// Options tune Odeint. Zero fields take the defaults below.
type Options struct {
	Tol       float64
	InitialDt float64
	MinDt     float64
	MaxSteps  int
	// Fixed takes one classical fourth order step per output interval.
	Fixed bool
}

const (
	DefaultTol      = 1e-8
	DefaultMinDt    = 1e-12
	DefaultMaxSteps = 500000
)

func (o Options) withDefaults() Options {
	if o.Tol <= 0 {
		o.Tol = DefaultTol
	}
	if o.MinDt <= 0 {
		o.MinDt = DefaultMinDt
	}
	if o.MaxSteps <= 0 {
		o.MaxSteps = DefaultMaxSteps
	}
	return o
}

// Odeint integrates sys from x0 and returns the state at every time in ts.
// ts must be strictly monotonic; out[0] is a copy of x0.
func Odeint(ctx context.Context, sys dynamo.System, x0 dynamo.State, ts []float64, opts Options) ([]dynamo.State, error) {
	if len(ts) == 0 {
		return nil, nil
	}
	if len(x0) != sys.StateDim() {
		return nil, fmt.Errorf("%w: state has %d components, system expects %d", dynamo.ErrInvalidState, len(x0), sys.StateDim())
	}
	dir, err := direction(ts)
	if err != nil {
		return nil, err
	}

	opts = opts.withDefaults()
	out := make([]dynamo.State, len(ts))
	out[0] = x0.Clone()
	if opts.Fixed {
		return fixed(ctx, sys, out, ts)
	}
	return adaptive(ctx, sys, out, ts, dir, opts)
}

// fixed takes one classical fourth order step per output interval.
func fixed(ctx context.Context, sys dynamo.System, out []dynamo.State, ts []float64) ([]dynamo.State, error) {
	st := newStepper(&classical, len(out[0]))
	x := out[0]
	for i := 1; i < len(ts); i++ {
		if err := ctx.Err(); err != nil {
			return out[:i], err
		}
		x = st.advance(sys, x, ts[i-1], ts[i]-ts[i-1])
		if !x.IsValid() {
			return out[:i], &dynamo.SimulationError{Step: i, Time: ts[i], State: x, Wrapped: dynamo.ErrInvalidState}
		}
		out[i] = x.Clone()
	}
	return out, nil
}

// adaptive sub-steps between output times with the Dormand-Prince pair,
// shortening the last sub-step so that every output time is hit exactly.
func adaptive(ctx context.Context, sys dynamo.System, out []dynamo.State, ts []float64, dir float64, opts Options) ([]dynamo.State, error) {
	st := newStepper(&dormandPrince, len(out[0]))
	x, t := out[0].Clone(), ts[0]
	h := opts.InitialDt
	if h <= 0 && len(ts) > 1 {
		h = math.Abs(ts[1]-ts[0]) / 4
	}
	h = dir * math.Abs(h)

	steps := 0
	for i := 1; i < len(ts); i++ {
		for (ts[i]-t)*dir > 0 {
			if err := ctx.Err(); err != nil {
				return out[:i], err
			}
			if steps >= opts.MaxSteps {
				return out[:i], &dynamo.SimulationError{Step: steps, Time: t, State: x, Wrapped: dynamo.ErrTooManySteps}
			}
			steps++

			step := h
			clipped := (t+step-ts[i])*dir >= 0
			if clipped {
				step = ts[i] - t
			}
			next := st.advance(sys, x, t, step)
			ratio := st.errorRatio(x, next, step, opts.Tol)
			if ratio > 1 {
				h = resize(step, ratio)
				if math.Abs(h) < opts.MinDt {
					return out[:i], &dynamo.SimulationError{Step: steps, Time: t, State: x, Wrapped: dynamo.ErrStepTooSmall}
				}
				continue
			}
			if !next.IsValid() {
				return out[:i], &dynamo.SimulationError{Step: steps, Time: t + step, State: next, Wrapped: dynamo.ErrInvalidState}
			}

			x = next
			if clipped {
				t = ts[i]
			} else {
				t += step
				h = resize(step, ratio)
			}
		}
		out[i] = x.Clone()
	}
	return out, nil
}

func direction(ts []float64) (float64, error) {
	if len(ts) < 2 {
		return 1, nil
	}
	dir := math.Copysign(1, ts[1]-ts[0])
	for i := 1; i < len(ts); i++ {
		d := ts[i] - ts[i-1]
		if d == 0 || math.Copysign(1, d) != dir {
			return 0, fmt.Errorf("%w: output times must be strictly monotonic (index %d)", dynamo.ErrDataFormat, i)
		}
	}
	return dir, nil
}

// Column extracts component k from every state.
func Column(states []dynamo.State, k int) []float64 {
	out := make([]float64, len(states))
	for i, s := range states {
		if k < len(s) {
			out[i] = s[k]
		}
	}
	return out
}
