package widgets

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/san-kum/lessonlab/internal/dynamo"
	"github.com/san-kum/lessonlab/internal/lessons"
)

var (
	ErrNotAnimated  = errors.New("widgets: lesson is not animated")
	ErrUnknownGroup = errors.New("widgets: unknown line group")
	ErrNoLogAxis    = errors.New("widgets: lesson has no log axis")
)

// Session is safe for concurrent use.
type Session struct {
	mu        sync.Mutex
	ctx       context.Context
	logger    *zap.Logger
	lesson    lessons.Lesson
	params    *dynamo.Params
	groups    []lessons.Group
	logY      bool
	frame     int
	fig       *lessons.Figure
	observers []func(*lessons.Figure)
}

type Option func(*Session)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithContext sets the context passed to every Plot call.
func WithContext(ctx context.Context) Option {
	return func(s *Session) { s.ctx = ctx }
}

// WithValues starts the session from values other than the defaults.
func WithValues(v dynamo.Values) Option {
	return func(s *Session) {
		for name, val := range v {
			if err := s.params.Set(name, val); err != nil {
				s.logger.Warn("ignoring initial value", zap.String("param", name), zap.Error(err))
			}
		}
	}
}

// NewSession checks the lesson's parameters and draws it once.
func NewSession(lesson lessons.Lesson, opts ...Option) (*Session, error) {
	s := &Session{
		ctx:    context.Background(),
		logger: zap.NewNop(),
		lesson: lesson,
		params: lesson.Params(),
	}
	if err := s.params.Validate(); err != nil {
		return nil, fmt.Errorf("lesson %s: %w", lesson.Name(), err)
	}
	if a, ok := lesson.(lessons.Animated); ok {
		if err := CheckParameters(keys(a.Frame(0)), s.params.Names()); err != nil {
			return nil, fmt.Errorf("lesson %s animation: %w", lesson.Name(), err)
		}
	}
	for _, opt := range opts {
		opt(s)
	}

	fig, err := s.plot()
	if err != nil {
		return nil, err
	}
	s.groups = initialGroups(lesson, fig)
	s.decorate(fig)
	s.fig = fig
	return s, nil
}

func initialGroups(lesson lessons.Lesson, fig *lessons.Figure) []lessons.Group {
	g, ok := lesson.(lessons.Grouped)
	if !ok {
		return nil
	}
	if groups := g.Groups(); groups != nil {
		out := make([]lessons.Group, len(groups))
		copy(out, groups)
		return out
	}
	var out []lessons.Group
	for _, p := range fig.Panels {
		for _, series := range p.Series {
			out = append(out, lessons.Group{Name: series.Name, Series: []string{series.Name}, Visible: !series.Hidden})
		}
	}
	return out
}

func keys(v dynamo.Values) []string {
	out := make([]string, 0, len(v))
	for k := range v {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (s *Session) plot() (*lessons.Figure, error) {
	fig, err := s.lesson.Plot(s.ctx, s.params.Values())
	if err != nil {
		return nil, fmt.Errorf("plot %s: %w", s.lesson.Name(), err)
	}
	return fig, nil
}

// decorate applies the session's visibility and axis state to a fresh figure.
func (s *Session) decorate(fig *lessons.Figure) {
	for _, g := range s.groups {
		for _, name := range g.Series {
			if series := fig.Series(name); series != nil {
				series.Hidden = !g.Visible
			}
		}
	}
	if ls, ok := s.lesson.(lessons.LogScaled); ok {
		if i := ls.LogPanel(); i >= 0 && i < len(fig.Panels) {
			fig.Panels[i].LogY = s.logY
			fig.Panels[i].YLim = ls.YLimits(s.logY)
		}
	}
}

// republish must be called with mu held. It decorates a copy of the current
// figure so figures already handed out are never written.
func (s *Session) republish() *lessons.Figure {
	fig := s.fig.Clone()
	s.decorate(fig)
	s.fig = fig
	return fig
}

// redraw must be called with mu held. It returns the observers to notify
// once the lock is released.
func (s *Session) redraw() ([]func(*lessons.Figure), error) {
	fig, err := s.plot()
	if err != nil {
		return nil, err
	}
	s.decorate(fig)
	s.fig = fig
	s.logger.Debug("redraw", zap.String("lesson", s.lesson.Name()), zap.Int("frame", s.frame))
	return slices.Clone(s.observers), nil
}

func notify(observers []func(*lessons.Figure), fig *lessons.Figure) {
	for _, fn := range observers {
		fn(fig)
	}
}

// update runs change under the lock and redraws. If either fails the
// parameters and the frame are restored.
func (s *Session) update(change func() error) error {
	s.mu.Lock()
	saved, frame := s.params.Clone(), s.frame
	if err := change(); err != nil {
		s.params, s.frame = saved, frame
		s.mu.Unlock()
		return err
	}
	observers, err := s.redraw()
	if err != nil {
		s.params, s.frame = saved, frame
		s.mu.Unlock()
		return err
	}
	fig := s.fig
	s.mu.Unlock()
	notify(observers, fig)
	return nil
}

func (s *Session) Lesson() lessons.Lesson { return s.lesson }

// Figure returns the last drawn figure.
func (s *Session) Figure() *lessons.Figure {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fig
}

func (s *Session) Values() dynamo.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.Values()
}

// Params returns a copy of the current parameters.
func (s *Session) Params() *dynamo.Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.Clone()
}

// OnRedraw registers fn to receive every new figure.
func (s *Session) OnRedraw(fn func(*lessons.Figure)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Set is the slider callback.
func (s *Session) Set(name string, value float64) error {
	return s.update(func() error { return s.params.Set(name, value) })
}

// SetValues assigns several values and redraws once.
func (s *Session) SetValues(v dynamo.Values) error {
	return s.update(func() error {
		for _, name := range keys(v) {
			if err := s.params.Set(name, v[name]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Nudge moves a parameter by steps increments, clamped to its range.
func (s *Session) Nudge(name string, steps float64) error {
	return s.update(func() error { return s.params.Nudge(name, steps) })
}

// Reset restores the default values.
func (s *Session) Reset() error {
	return s.update(func() error {
		s.params.Reset()
		return nil
	})
}

// Groups lists the line groups with their current visibility.
func (s *Session) Groups() []lessons.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]lessons.Group, len(s.groups))
	copy(out, s.groups)
	return out
}

// Toggle flips the visibility of every series of a group.
func (s *Session) Toggle(group string) error {
	return s.setGroup(group, func(v bool) bool { return !v })
}

func (s *Session) SetGroup(group string, visible bool) error {
	return s.setGroup(group, func(bool) bool { return visible })
}

func (s *Session) setGroup(group string, next func(bool) bool) error {
	s.mu.Lock()
	i := s.groupIndex(group)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownGroup, group)
	}
	s.groups[i].Visible = next(s.groups[i].Visible)
	fig := s.republish()
	observers := slices.Clone(s.observers)
	s.mu.Unlock()
	notify(observers, fig)
	return nil
}

func (s *Session) groupIndex(name string) int {
	for i, g := range s.groups {
		if g.Name == name {
			return i
		}
	}
	return -1
}

// LogY reports whether the log panel uses a log axis.
func (s *Session) LogY() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logY
}

// ToggleLog switches the log panel between log and linear y axes.
func (s *Session) ToggleLog() error {
	s.mu.Lock()
	return s.setLogLocked(!s.logY)
}

func (s *Session) SetLog(log bool) error {
	s.mu.Lock()
	return s.setLogLocked(log)
}

// setLogLocked releases mu.
func (s *Session) setLogLocked(log bool) error {
	if _, ok := s.lesson.(lessons.LogScaled); !ok {
		s.mu.Unlock()
		return ErrNoLogAxis
	}
	s.logY = log
	fig := s.republish()
	observers := slices.Clone(s.observers)
	s.mu.Unlock()
	notify(observers, fig)
	return nil
}

// Frame returns the index of the last animation frame applied.
func (s *Session) Frame() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// Step advances the animation by one frame.
func (s *Session) Step() error {
	a, ok := s.lesson.(lessons.Animated)
	if !ok {
		return ErrNotAnimated
	}
	return s.update(func() error {
		s.frame++
		for name, val := range a.Frame(s.frame) {
			if err := s.params.Set(name, val); err != nil {
				return err
			}
		}
		return nil
	})
}

// Observe reports the lesson's readouts at the current values. Lessons
// without readouts return an empty map.
func (s *Session) Observe(ctx context.Context) (map[string]float64, error) {
	o, ok := s.lesson.(lessons.Observable)
	if !ok {
		return map[string]float64{}, nil
	}
	return o.Observe(ctx, s.Values())
}
