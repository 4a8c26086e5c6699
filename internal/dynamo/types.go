package dynamo

import (
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

// System is a first order ODE dx/dt = f(x, t).
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// SystemFunc adapts a plain function to System.
type SystemFunc struct {
	Dim int
	F   func(x State, t float64) State
}

func (s SystemFunc) Derive(x State, t float64) State { return s.F(x, t) }
func (s SystemFunc) StateDim() int                   { return s.Dim }

// Values holds the current value of every parameter, keyed by name.
type Values map[string]float64

func (v Values) Get(name string) float64 {
	return v[name]
}

func (v Values) Clone() Values {
	c := make(Values, len(v))
	for k, val := range v {
		c[k] = val
	}
	return c
}

// Merge returns a copy of v overlaid with other.
func (v Values) Merge(other Values) Values {
	c := v.Clone()
	for k, val := range other {
		c[k] = val
	}
	return c
}
