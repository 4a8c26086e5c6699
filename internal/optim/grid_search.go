package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/lessonlab/internal/dynamo"
	"github.com/san-kum/lessonlab/internal/lessons"
)

var ErrNoCandidate = errors.New("optim: no grid point could be evaluated")

// Objective names the observable to optimise. The search minimises unless
// Maximize is set.
type Objective struct {
	Observable string
	Maximize   bool
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search walks the full grid on top of base and returns the best values and
// the objective there. Points whose evaluation fails are skipped.
func (g *GridSearch) Search(
	ctx context.Context,
	lesson lessons.Lesson,
	base dynamo.Values,
	objective Objective,
) (dynamo.Values, float64, error) {
	obs, ok := lesson.(lessons.Observable)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", ErrNotObservable, lesson.Name())
	}
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("%w: %d parameters for %d ranges", dynamo.ErrInvalidParameter, len(g.paramNames), len(g.ranges))
	}
	params := lesson.Params()
	if err := checkValues(params, base); err != nil {
		return nil, 0, err
	}
	for i, name := range g.paramNames {
		for _, val := range g.ranges[i] {
			if err := checkValues(params, dynamo.Values{name: val}); err != nil {
				return nil, 0, err
			}
		}
	}

	sign := 1.0
	if objective.Maximize {
		sign = -1
	}
	best := math.Inf(1)
	var bestParams dynamo.Values

	evaluate := func(current dynamo.Values) {
		m, err := obs.Observe(ctx, current)
		if err != nil {
			return
		}
		val, ok := m[objective.Observable]
		if !ok || math.IsNaN(val) {
			return
		}
		if sign*val < best {
			best = sign * val
			bestParams = current.Clone()
		}
	}

	g.searchRecursive(ctx, 0, params.Defaults().Merge(base), evaluate)
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, fmt.Errorf("%w: objective %s", ErrNoCandidate, objective.Observable)
	}
	return bestParams, sign * best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current dynamo.Values,
	evaluate func(dynamo.Values),
) {
	if ctx.Err() != nil {
		return
	}
	if depth == len(g.paramNames) {
		evaluate(current)
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := current.Clone()
		newParams[paramName] = val

		g.searchRecursive(ctx, depth+1, newParams, evaluate)
	}
}

// checkValues rejects names the lesson does not declare and values outside
// their slider range.
func checkValues(params *dynamo.Params, v dynamo.Values) error {
	scratch := params.Clone()
	for name, val := range v {
		if err := scratch.Set(name, val); err != nil {
			return err
		}
	}
	return nil
}
