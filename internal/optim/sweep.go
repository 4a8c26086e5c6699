package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/lessonlab/internal/dynamo"
	"github.com/san-kum/lessonlab/internal/lessons"
)

var ErrNotObservable = errors.New("optim: lesson reports no observables")

// Sweep evaluates the observables of a lesson over a range of one parameter.
// Min and Max default to the parameter bounds when both are zero.
type Sweep struct {
	Lesson  lessons.Lesson
	Param   string
	Min     float64
	Max     float64
	Steps   int
	Base    dynamo.Values
	Workers int
	Log     *zap.Logger
}

type Row struct {
	Value       float64
	Observables map[string]float64
}

type SweepResult struct {
	Param string
	// Names lists the observables in sorted order.
	Names []string
	Rows  []Row
}

func (r *SweepResult) Header() []string {
	return append([]string{r.Param}, r.Names...)
}

// Table returns one row per point, the swept value first. Missing
// observables are NaN.
func (r *SweepResult) Table() [][]float64 {
	out := make([][]float64, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = append(make([]float64, 0, len(r.Names)+1), row.Value)
		for _, name := range r.Names {
			v, ok := row.Observables[name]
			if !ok {
				v = math.NaN()
			}
			out[i] = append(out[i], v)
		}
	}
	return out
}

// Column returns the swept values and the matching values of one observable.
func (r *SweepResult) Column(name string) (xs, ys []float64) {
	for _, row := range r.Rows {
		v, ok := row.Observables[name]
		if !ok {
			v = math.NaN()
		}
		xs = append(xs, row.Value)
		ys = append(ys, v)
	}
	return xs, ys
}

func (s Sweep) points() ([]float64, error) {
	p, ok := s.Lesson.Params().Lookup(s.Param)
	if !ok {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownParameter, s.Param)
	}
	lo, hi := s.Min, s.Max
	if lo == 0 && hi == 0 {
		lo, hi = p.Min, p.Max
	}
	if lo < p.Min || hi > p.Max || lo > hi {
		return nil, fmt.Errorf("%w: %s sweep [%g, %g] outside [%g, %g]", dynamo.ErrParameterBounds, s.Param, lo, hi, p.Min, p.Max)
	}
	if s.Steps < 1 {
		return nil, fmt.Errorf("%w: steps must be positive, got %d", dynamo.ErrInvalidParameter, s.Steps)
	}
	xs := dynamo.Linspace(lo, hi, s.Steps)
	if p.Integer {
		for i := range xs {
			xs[i] = math.Round(xs[i])
		}
	}
	return xs, nil
}

// Run evaluates every point concurrently and returns the rows in sweep order.
func (s Sweep) Run(ctx context.Context) (*SweepResult, error) {
	obs, ok := s.Lesson.(lessons.Observable)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotObservable, s.Lesson.Name())
	}
	xs, err := s.points()
	if err != nil {
		return nil, err
	}
	if err := checkValues(s.Lesson.Params(), s.Base); err != nil {
		return nil, err
	}
	logger := s.Log
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := s.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	base := s.Lesson.Params().Defaults().Merge(s.Base)
	rows := make([]Row, len(xs))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, x := range xs {
		i, x := i, x
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			v := base.Clone()
			v[s.Param] = x
			m, err := obs.Observe(egCtx, v)
			if err != nil {
				return fmt.Errorf("%s=%g: %w", s.Param, x, err)
			}
			rows[i] = Row{Value: x, Observables: m}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	result := &SweepResult{Param: s.Param, Rows: rows}
	for _, row := range rows {
		for name := range row.Observables {
			if !seen[name] {
				seen[name] = true
				result.Names = append(result.Names, name)
			}
		}
	}
	sort.Strings(result.Names)

	logger.Debug("sweep done",
		zap.String("lesson", s.Lesson.Name()),
		zap.String("param", s.Param),
		zap.Int("points", len(rows)))
	return result, nil
}
