package analysis

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/lessonlab/internal/dynamo"
	"github.com/san-kum/lessonlab/internal/integrators"
)

// Trajectory is one curve of a phase portrait.
type Trajectory struct {
	Initial dynamo.State
	X, Y    []float64
}

// PhasePortrait integrates sys from every initial condition over ts and
// records components xIdx and yIdx. Trajectories keep the order of inits.
func PhasePortrait(ctx context.Context, sys dynamo.System, inits []dynamo.State, ts []float64, xIdx, yIdx int) ([]Trajectory, error) {
	dim := sys.StateDim()
	if xIdx < 0 || xIdx >= dim || yIdx < 0 || yIdx >= dim {
		return nil, fmt.Errorf("%w: phase components (%d, %d) outside state of size %d", dynamo.ErrInvalidState, xIdx, yIdx, dim)
	}

	out := make([]Trajectory, len(inits))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, x0 := range inits {
		i, x0 := i, x0
		g.Go(func() error {
			states, err := integrators.Odeint(ctx, sys, x0, ts, integrators.Options{})
			if err != nil {
				return fmt.Errorf("trajectory %d: %w", i, err)
			}
			out[i] = Trajectory{
				Initial: x0.Clone(),
				X:       integrators.Column(states, xIdx),
				Y:       integrators.Column(states, yIdx),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Mirror returns the trajectory reflected through the origin in its first
// coordinate, (-x, y).
func (t Trajectory) Mirror() Trajectory {
	m := Trajectory{Initial: t.Initial.Clone(), X: make([]float64, len(t.X)), Y: append([]float64(nil), t.Y...)}
	for i, x := range t.X {
		m.X[i] = -x
	}
	return m
}
