package integrators

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/lessonlab/internal/dynamo"
)

func TestOdeintHarmonic(t *testing.T) {
	ts := dynamo.Linspace(0, 10, 101)
	states, err := Odeint(context.Background(), &harmonicOscillator{}, dynamo.State{1, 0}, ts, Options{})
	if err != nil {
		t.Fatalf("odeint failed: %v", err)
	}
	if len(states) != len(ts) {
		t.Fatalf("expected %d states, got %d", len(ts), len(states))
	}
	for i, tt := range ts {
		if math.Abs(states[i][0]-math.Cos(tt)) > 1e-5 {
			t.Fatalf("t=%.2f: x=%.8f want %.8f", tt, states[i][0], math.Cos(tt))
		}
	}
}

func TestOdeintBackwards(t *testing.T) {
	ts := dynamo.Linspace(0, -math.Pi, 11)
	states, err := Odeint(context.Background(), &harmonicOscillator{}, dynamo.State{1, 0}, ts, Options{})
	if err != nil {
		t.Fatalf("odeint failed: %v", err)
	}
	last := states[len(states)-1]
	if math.Abs(last[0]+1) > 1e-5 {
		t.Errorf("expected x(-pi) = -1, got %f", last[0])
	}
}

func TestOdeintFixed(t *testing.T) {
	ts := dynamo.Linspace(0, 1, 1001)
	states, err := Odeint(context.Background(), &harmonicOscillator{}, dynamo.State{1, 0}, ts, Options{Fixed: true})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(states[1000][0]-math.Cos(1)) > 1e-9 {
		t.Errorf("fixed step result %f", states[1000][0])
	}
}

func TestOdeintRejectsNonMonotonicTimes(t *testing.T) {
	_, err := Odeint(context.Background(), &harmonicOscillator{}, dynamo.State{1, 0}, []float64{0, 1, 1, 2}, Options{})
	if !errors.Is(err, dynamo.ErrDataFormat) {
		t.Errorf("expected data format error, got %v", err)
	}
}

func TestOdeintDimensionMismatch(t *testing.T) {
	_, err := Odeint(context.Background(), &harmonicOscillator{}, dynamo.State{1}, []float64{0, 1}, Options{})
	if !errors.Is(err, dynamo.ErrInvalidState) {
		t.Errorf("expected invalid state, got %v", err)
	}
}

func TestOdeintCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Odeint(ctx, &harmonicOscillator{}, dynamo.State{1, 0}, []float64{0, 1}, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestOdeintDivergence(t *testing.T) {
	broken := dynamo.SystemFunc{Dim: 1, F: func(x dynamo.State, t float64) dynamo.State {
		if t > 0.5 {
			return dynamo.State{math.NaN()}
		}
		return dynamo.State{-x[0]}
	}}
	_, err := Odeint(context.Background(), broken, dynamo.State{1}, []float64{0, 2}, Options{})
	if !errors.Is(err, dynamo.ErrInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}
	var simErr *dynamo.SimulationError
	if !errors.As(err, &simErr) {
		t.Errorf("expected SimulationError, got %T", err)
	}
}
