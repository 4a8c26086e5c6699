package lessons

import (
	"context"

	"github.com/san-kum/lessonlab/internal/dynamo"
	"github.com/san-kum/lessonlab/internal/physics"
)

// channelFlow draws a fixed velocity field between two walls at z = ±1.
type channelFlow struct {
	base
	field func() physics.VelocityField
}

func NewCouetteFlow() Lesson {
	return &channelFlow{
		base: base{
			name:        "couette_flow",
			title:       "Plane Couette flow",
			description: "This program shows the velocity field of a plane Couette flow, sheared between a fixed wall and a moving one.",
		},
		field: physics.Couette,
	}
}

func NewPoiseuilleFlow() Lesson {
	return &channelFlow{
		base: base{
			name:        "poiseuille_flow",
			title:       "Poiseuille flow",
			description: "This program shows the velocity field of a Poiseuille flow (pipe).",
		},
		field: physics.Poiseuille,
	}
}

func (l *channelFlow) Plot(ctx context.Context, v dynamo.Values) (*Figure, error) {
	f := l.field()
	p := &Panel{
		XLabel: "Position X (m)",
		YLabel: "Position Z (m)",
		XLim:   [2]float64{0, 3},
		YLim:   [2]float64{-1.5, 1.5},
		HLines: []RefLine{{At: 1, Color: "black"}, {At: -1, Color: "black"}},
	}
	for i := range f.X {
		for j := range f.X[i] {
			p.Arrows = append(p.Arrows, Arrow{X: f.X[i][j], Y: f.Y[i][j], U: f.U[i][j], V: f.V[i][j]})
		}
	}
	return NewFigure(l.title, p), nil
}

func (l *channelFlow) Observe(ctx context.Context, v dynamo.Values) (map[string]float64, error) {
	f := l.field()
	maxU, sum, n := 0.0, 0.0, 0
	for i := range f.U {
		for _, u := range f.U[i] {
			maxU = max(maxU, u)
			sum += u
			n++
		}
	}
	return readouts(map[string]float64{
		"max_velocity":  maxU,
		"mean_velocity": sum / float64(n),
	}), nil
}
