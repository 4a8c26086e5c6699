package dynamo

import (
	"fmt"
	"math"
	"strings"
)

// Param is a bounded, named numeric control. Description follows the
// "long label -- short label" convention.
type Param struct {
	Name        string
	Description string
	Unit        string
	Value       float64
	Min         float64
	Max         float64
	Step        float64
	Integer     bool
}

// Label splits Description at the first "--". Without a separator the whole
// text is the long label.
func (p Param) Label() (long, short string) {
	if i := strings.Index(p.Description, "--"); i >= 0 {
		return strings.TrimSpace(p.Description[:i]), strings.TrimSpace(p.Description[i+2:])
	}
	return strings.TrimSpace(p.Description), ""
}

// Increment is the nudge size used by interactive front ends.
func (p Param) Increment() float64 {
	if p.Step > 0 {
		return p.Step
	}
	if p.Integer {
		return 1
	}
	return (p.Max - p.Min) / 100
}

func (p Param) clamp(v float64) float64 {
	return math.Max(p.Min, math.Min(p.Max, v))
}

// Params is an ordered set of parameters that remembers its defaults.
type Params struct {
	list     []Param
	defaults []float64
	index    map[string]int
}

func NewParams(ps ...Param) *Params {
	s := &Params{
		list:     make([]Param, len(ps)),
		defaults: make([]float64, len(ps)),
		index:    make(map[string]int, len(ps)),
	}
	copy(s.list, ps)
	for i, p := range ps {
		s.defaults[i] = p.Value
		s.index[p.Name] = i
	}
	return s
}

func (s *Params) Len() int { return len(s.list) }

func (s *Params) List() []Param {
	out := make([]Param, len(s.list))
	copy(out, s.list)
	return out
}

func (s *Params) Names() []string {
	names := make([]string, len(s.list))
	for i, p := range s.list {
		names[i] = p.Name
	}
	return names
}

func (s *Params) Lookup(name string) (Param, bool) {
	i, ok := s.index[name]
	if !ok {
		return Param{}, false
	}
	return s.list[i], true
}

func (s *Params) Get(name string) (float64, error) {
	i, ok := s.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownParameter, name)
	}
	return s.list[i].Value, nil
}

// Set assigns a value after a range check. Integer parameters are rounded.
func (s *Params) Set(name string, value float64) error {
	i, ok := s.index[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParameter, name)
	}
	p := &s.list[i]
	if math.IsNaN(value) || value < p.Min || value > p.Max {
		return fmt.Errorf("%w: %s=%g not in [%g, %g]", ErrParameterBounds, name, value, p.Min, p.Max)
	}
	if p.Integer {
		value = math.Round(value)
	}
	p.Value = value
	return nil
}

// Nudge moves a parameter by steps increments, clamped to its bounds.
func (s *Params) Nudge(name string, steps float64) error {
	i, ok := s.index[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParameter, name)
	}
	p := s.list[i]
	return s.Set(name, p.clamp(p.Value+steps*p.Increment()))
}

func (s *Params) Values() Values {
	v := make(Values, len(s.list))
	for _, p := range s.list {
		v[p.Name] = p.Value
	}
	return v
}

func (s *Params) Defaults() Values {
	v := make(Values, len(s.list))
	for i, p := range s.list {
		v[p.Name] = s.defaults[i]
	}
	return v
}

func (s *Params) Reset() {
	for i := range s.list {
		s.list[i].Value = s.defaults[i]
	}
}

func (s *Params) Clone() *Params {
	c := NewParams(s.list...)
	copy(c.defaults, s.defaults)
	return c
}

// Validate checks names, bounds and defaults.
func (s *Params) Validate() error {
	seen := make(map[string]bool, len(s.list))
	for _, p := range s.list {
		if p.Name == "" {
			return fmt.Errorf("%w: empty parameter name", ErrInvalidParameter)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: duplicate parameter %s", ErrInvalidParameter, p.Name)
		}
		seen[p.Name] = true
		if !(p.Min < p.Max) {
			return fmt.Errorf("%w: %s has min %g >= max %g", ErrInvalidParameter, p.Name, p.Min, p.Max)
		}
		if p.Value < p.Min || p.Value > p.Max {
			return fmt.Errorf("%w: %s default %g", ErrParameterBounds, p.Name, p.Value)
		}
	}
	return nil
}
