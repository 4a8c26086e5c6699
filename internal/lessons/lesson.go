package lessons

import (
	"context"
	"math"
	"time"

	"github.com/san-kum/lessonlab/internal/dynamo"
)

// Lesson is a slider-driven plot: bounded parameters and a function that
// draws the model for a given set of values.
type Lesson interface {
	Name() string
	Title() string
	// Description may contain $...$ math, kept verbatim.
	Description() string
	// Params returns a fresh set at the default values.
	Params() *dynamo.Params
	Plot(ctx context.Context, v dynamo.Values) (*Figure, error)
}

// Group is a set of series toggled together.
type Group struct {
	Name    string
	Series  []string
	Visible bool
}

// Grouped lessons offer line toggles. A nil result makes every series its
// own group; series outside all groups are never toggled.
type Grouped interface {
	Groups() []Group
}

// LogScaled lessons can switch one panel between linear and log y axes.
type LogScaled interface {
	LogPanel() int
	YLimits(log bool) [2]float64
}

// Animated lessons advance a parameter on a timer.
type Animated interface {
	Frame(n int) dynamo.Values
	Interval() time.Duration
}

// Observable lessons report scalar readouts. A readout that is undefined at
// the given values is left out of the map rather than reported as NaN.
type Observable interface {
	Observe(ctx context.Context, v dynamo.Values) (map[string]float64, error)
}

// readouts drops the non-finite entries of m.
func readouts(m map[string]float64) map[string]float64 {
	for k, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			delete(m, k)
		}
	}
	return m
}

type base struct {
	name        string
	title       string
	description string
	params      []dynamo.Param
}

func (b base) Name() string        { return b.name }
func (b base) Title() string       { return b.title }
func (b base) Description() string { return b.description }

func (b base) Params() *dynamo.Params {
	return dynamo.NewParams(b.params...)
}

// values completes v with defaults for any missing parameter.
func (b base) values(v dynamo.Values) dynamo.Values {
	return b.Params().Defaults().Merge(v)
}

// eachSeries is the Grouped implementation for lessons whose every series
// can be toggled on its own.
type eachSeries struct{}

func (eachSeries) Groups() []Group { return nil }

const frameInterval = 100 * time.Millisecond
