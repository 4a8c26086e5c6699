package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/lessonlab/internal/dynamo"
)

func TestArgMax(t *testing.T) {
	tests := []struct {
		name    string
		ys      []float64
		wantIdx int
		wantVal float64
	}{
		{"simple", []float64{1, 5, 3}, 1, 5},
		{"first of ties", []float64{2, 2}, 0, 2},
		{"skips NaN", []float64{math.NaN(), -1, math.Inf(1)}, 1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i, v := ArgMax(tt.ys)
			if i != tt.wantIdx || v != tt.wantVal {
				t.Errorf("ArgMax = (%d, %g), want (%d, %g)", i, v, tt.wantIdx, tt.wantVal)
			}
		})
	}

	if i, v := ArgMax(nil); i != -1 || !math.IsNaN(v) {
		t.Errorf("ArgMax(nil) = (%d, %g)", i, v)
	}
}

func TestCrossings(t *testing.T) {
	xs := dynamo.Linspace(0, 2*math.Pi, 1001)
	ys := dynamo.Map(xs, math.Sin)

	got := Crossings(xs, ys, 0.5)
	want := []float64{math.Pi / 6, 5 * math.Pi / 6}
	if len(got) != len(want) {
		t.Fatalf("got %d crossings, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-4 {
			t.Errorf("crossing %d = %f, want %f", i, got[i], want[i])
		}
	}

	exact := Crossings([]float64{0, 1, 2}, []float64{-1, 0, 1}, 0)
	if len(exact) != 1 || exact[0] != 1 {
		t.Errorf("exact zero counted as %v", exact)
	}
}

func TestFWHM(t *testing.T) {
	sigma := 0.7
	xs := dynamo.Linspace(-5, 5, 2001)
	ys := dynamo.Map(xs, func(x float64) float64 { return math.Exp(-x * x / (2 * sigma * sigma)) })

	want := 2 * math.Sqrt(2*math.Ln2) * sigma
	if got := FWHM(xs, ys); math.Abs(got-want) > 1e-4 {
		t.Errorf("FWHM = %f, want %f", got, want)
	}

	if got := FWHM([]float64{0, 1}, []float64{1, 2}); !math.IsNaN(got) {
		t.Errorf("open peak FWHM = %f, want NaN", got)
	}
}

func TestMeanSpacing(t *testing.T) {
	if got := MeanSpacing([]float64{3, 1, 2, 0}); got != 1 {
		t.Errorf("MeanSpacing = %f, want 1", got)
	}
	if got := MeanSpacing([]float64{1}); !math.IsNaN(got) {
		t.Errorf("MeanSpacing of one value = %f, want NaN", got)
	}
}

func TestPhaseDrift(t *testing.T) {
	radius := func(x dynamo.State) float64 { return x[0]*x[0] + x[1]*x[1] }

	tests := []struct {
		name   string
		xs, ys []float64
		want   float64
	}{
		{"worst point", []float64{1, 0, 0}, []float64{0, 1.1, 1}, 0.21},
		{"shorter side wins", []float64{1, 0}, []float64{0, 1, 5}, 0},
		{"starts at zero", []float64{0, 1}, []float64{0, 1}, 0},
		{"empty", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PhaseDrift(tt.xs, tt.ys, radius); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("PhaseDrift = %g, want %g", got, tt.want)
			}
		})
	}
}
