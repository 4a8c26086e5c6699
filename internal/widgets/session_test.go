package widgets_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/lessonlab/internal/dynamo"
	"github.com/san-kum/lessonlab/internal/lessons"
	"github.com/san-kum/lessonlab/internal/widgets"
)

// ramp draws y = k·x and y = -k·x on one panel.
type ramp struct {
	mu    sync.Mutex
	plots int
	fail  bool
}

func (r *ramp) Name() string        { return "ramp" }
func (r *ramp) Title() string       { return "Ramp" }
func (r *ramp) Description() string { return "Two lines." }

func (r *ramp) Params() *dynamo.Params {
	return dynamo.NewParams(
		dynamo.Param{Name: "k", Description: "Slope -- k", Value: 1, Min: 0, Max: 10},
		dynamo.Param{Name: "n", Value: 2, Min: 1, Max: 5, Integer: true},
	)
}

func (r *ramp) Plot(ctx context.Context, v dynamo.Values) (*lessons.Figure, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plots++
	if r.fail {
		return nil, errors.New("boom")
	}
	k := v.Get("k")
	xs := []float64{0, 1, 2}
	p := &lessons.Panel{YLim: [2]float64{-1, 1}}
	p.Add(&lessons.Series{Name: "up", X: xs, Y: []float64{0, k, 2 * k}})
	p.Add(&lessons.Series{Name: "down", X: xs, Y: []float64{0, -k, -2 * k}, Hidden: true})
	p.Add(&lessons.Series{Name: "axis", X: xs, Y: []float64{0, 0, 0}})
	return lessons.NewFigure(r.Title(), p), nil
}

func (r *ramp) Groups() []lessons.Group {
	return []lessons.Group{
		{Name: "up", Series: []string{"up"}, Visible: true},
		{Name: "down", Series: []string{"down"}},
	}
}

func (r *ramp) LogPanel() int { return 0 }

func (r *ramp) YLimits(log bool) [2]float64 {
	if log {
		return [2]float64{0.1, 100}
	}
	return [2]float64{-1, 1}
}

func (r *ramp) Frame(n int) dynamo.Values { return dynamo.Values{"k": float64(n % 10)} }

func (r *ramp) Interval() time.Duration { return time.Millisecond }

func (r *ramp) setFail(fail bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail = fail
}

func newRampSession(t *testing.T) (*ramp, *widgets.Session) {
	t.Helper()
	r := &ramp{}
	s, err := widgets.NewSession(r)
	require.NoError(t, err)
	return r, s
}

func TestNewSessionDrawsOnce(t *testing.T) {
	r, s := newRampSession(t)
	assert.Equal(t, 1, r.plots)
	require.NotNil(t, s.Figure())
	assert.Equal(t, dynamo.Values{"k": 1, "n": 2}, s.Values())
}

func TestNewSessionRejectsBadParams(t *testing.T) {
	_, err := widgets.NewSession(&badLesson{})
	assert.ErrorIs(t, err, dynamo.ErrInvalidParameter)
}

type badLesson struct{ ramp }

func (b *badLesson) Params() *dynamo.Params {
	return dynamo.NewParams(dynamo.Param{Name: "k", Value: 1, Min: 2, Max: 1})
}

func TestSetRedrawsAndNotifies(t *testing.T) {
	_, s := newRampSession(t)
	var got []*lessons.Figure
	s.OnRedraw(func(f *lessons.Figure) { got = append(got, f) })

	require.NoError(t, s.Set("k", 3))
	require.Len(t, got, 1)
	assert.Equal(t, []float64{0, 3, 6}, got[0].Series("up").Y)
	assert.Same(t, got[0], s.Figure())
}

func TestSetOutOfRangeKeepsState(t *testing.T) {
	r, s := newRampSession(t)
	before := s.Figure()

	err := s.Set("k", 11)
	assert.ErrorIs(t, err, dynamo.ErrParameterBounds)
	assert.Equal(t, 1.0, s.Values().Get("k"))
	assert.Same(t, before, s.Figure())
	assert.Equal(t, 1, r.plots)

	assert.ErrorIs(t, s.Set("nope", 1), dynamo.ErrUnknownParameter)
}

func TestFailedPlotRestoresValues(t *testing.T) {
	r, s := newRampSession(t)
	r.setFail(true)
	assert.Error(t, s.Set("k", 5))
	assert.Equal(t, 1.0, s.Values().Get("k"))
}

func TestSetValuesRedrawsOnce(t *testing.T) {
	r, s := newRampSession(t)
	require.NoError(t, s.SetValues(dynamo.Values{"k": 2, "n": 3.6}))
	assert.Equal(t, 2, r.plots)
	assert.Equal(t, dynamo.Values{"k": 2, "n": 4}, s.Values())

	assert.Error(t, s.SetValues(dynamo.Values{"k": 4, "n": 9}))
	assert.Equal(t, dynamo.Values{"k": 2, "n": 4}, s.Values())
}

func TestReset(t *testing.T) {
	_, s := newRampSession(t)
	require.NoError(t, s.Set("k", 7))
	require.NoError(t, s.Reset())
	assert.Equal(t, 1.0, s.Values().Get("k"))
}

func TestNudgeClamps(t *testing.T) {
	_, s := newRampSession(t)
	require.NoError(t, s.Nudge("k", 1000))
	assert.Equal(t, 10.0, s.Values().Get("k"))
}

func TestToggleGroup(t *testing.T) {
	_, s := newRampSession(t)
	fig := s.Figure()
	assert.False(t, fig.Series("up").Hidden)
	assert.True(t, fig.Series("down").Hidden)

	require.NoError(t, s.Toggle("down"))
	assert.False(t, s.Figure().Series("down").Hidden)

	// visibility survives a redraw
	require.NoError(t, s.Set("k", 2))
	assert.False(t, s.Figure().Series("down").Hidden)
	assert.False(t, s.Figure().Series("axis").Hidden)

	require.NoError(t, s.SetGroup("up", false))
	assert.True(t, s.Figure().Series("up").Hidden)

	assert.ErrorIs(t, s.Toggle("axis"), widgets.ErrUnknownGroup)
}

func TestEverySeriesIsAGroup(t *testing.T) {
	s, err := widgets.NewSession(lessons.NewRLCStepResponse())
	require.NoError(t, err)

	names := make([]string, 0)
	for _, g := range s.Groups() {
		names = append(names, g.Name)
	}
	assert.Equal(t, []string{"V_R", "V_L", "V_C"}, names)

	require.NoError(t, s.Toggle("V_R"))
	assert.False(t, s.Figure().Series("V_R").Hidden)
}

func TestToggleLog(t *testing.T) {
	_, s := newRampSession(t)
	require.NoError(t, s.ToggleLog())
	p := s.Figure().Panels[0]
	assert.True(t, p.LogY)
	assert.Equal(t, [2]float64{0.1, 100}, p.YLim)

	require.NoError(t, s.Set("k", 2))
	assert.True(t, s.Figure().Panels[0].LogY)

	require.NoError(t, s.ToggleLog())
	assert.Equal(t, [2]float64{-1, 1}, s.Figure().Panels[0].YLim)

	plain, err := widgets.NewSession(lessons.NewYoungSlits())
	require.NoError(t, err)
	assert.ErrorIs(t, plain.ToggleLog(), widgets.ErrNoLogAxis)
}

func TestStep(t *testing.T) {
	_, s := newRampSession(t)
	require.NoError(t, s.Step())
	require.NoError(t, s.Step())
	assert.Equal(t, 2, s.Frame())
	assert.Equal(t, 2.0, s.Values().Get("k"))

	plain, err := widgets.NewSession(lessons.NewYoungSlits())
	require.NoError(t, err)
	assert.ErrorIs(t, plain.Step(), widgets.ErrNotAnimated)
}

func TestWithValues(t *testing.T) {
	s, err := widgets.NewSession(&ramp{}, widgets.WithValues(dynamo.Values{"k": 4, "bogus": 1}))
	require.NoError(t, err)
	assert.Equal(t, 4.0, s.Values().Get("k"))
}

func TestObserve(t *testing.T) {
	s, err := widgets.NewSession(lessons.NewYoungSlits())
	require.NoError(t, err)
	obs, err := s.Observe(context.Background())
	require.NoError(t, err)
	assert.Contains(t, obs, "interfringe")

	_, rs := newRampSession(t)
	obs, err = rs.Observe(context.Background())
	require.NoError(t, err)
	assert.Empty(t, obs)
}

func TestConcurrentUse(t *testing.T) {
	_, s := newRampSession(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_ = s.Set("k", float64((i+j)%10))
				_ = s.Toggle("down")
				_ = s.ToggleLog()
				_ = s.Figure()
			}
		}(i)
	}
	wg.Wait()
	k := s.Values().Get("k")
	assert.Equal(t, []float64{0, k, 2 * k}, s.Figure().Series("up").Y)
}

func TestToggleLeavesPublishedFigureAlone(t *testing.T) {
	_, s := newRampSession(t)
	before := s.Figure()

	require.NoError(t, s.Toggle("down"))
	require.NoError(t, s.ToggleLog())
	assert.True(t, before.Series("down").Hidden)
	assert.False(t, before.Panels[0].LogY)

	after := s.Figure()
	assert.NotSame(t, before, after)
	assert.False(t, after.Series("down").Hidden)
	assert.True(t, after.Panels[0].LogY)
	assert.Equal(t, before.Series("up").Y, after.Series("up").Y)
}

func TestToggleWhileReading(t *testing.T) {
	_, s := newRampSession(t)
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			fig := s.Figure()
			_ = fig.Series("down").Hidden
			_ = fig.Panels[0].LogY
		}
	}()
	for i := 0; i < 200; i++ {
		require.NoError(t, s.Toggle("down"))
		require.NoError(t, s.ToggleLog())
	}
	close(done)
	wg.Wait()
}

func TestFailedStepKeepsFrame(t *testing.T) {
	r, s := newRampSession(t)
	require.NoError(t, s.Step())

	r.setFail(true)
	assert.Error(t, s.Step())
	assert.Equal(t, 1, s.Frame())
	assert.Equal(t, 1.0, s.Values().Get("k"))

	r.setFail(false)
	require.NoError(t, s.Step())
	assert.Equal(t, 2, s.Frame())
	assert.Equal(t, 2.0, s.Values().Get("k"))
}
