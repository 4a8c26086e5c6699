package dynamo

import (
	"errors"
	"testing"
)

func testParams() *Params {
	return NewParams(
		Param{Name: "N", Description: "Number of slits -- N", Value: 2, Min: 2, Max: 30, Integer: true},
		Param{Name: "lambda", Description: "Wavelength -- λ (µm)", Value: 0.633, Min: 0.1, Max: 3},
	)
}

func TestParamsSetAndReset(t *testing.T) {
	ps := testParams()

	if err := ps.Set("lambda", 1.5); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if v, _ := ps.Get("lambda"); v != 1.5 {
		t.Errorf("expected 1.5, got %f", v)
	}

	ps.Reset()
	if v, _ := ps.Get("lambda"); v != 0.633 {
		t.Errorf("expected default 0.633 after reset, got %f", v)
	}
}

func TestParamsBounds(t *testing.T) {
	ps := testParams()

	tests := []struct {
		name  string
		param string
		value float64
		want  error
	}{
		{"below min", "lambda", 0.05, ErrParameterBounds},
		{"above max", "N", 31, ErrParameterBounds},
		{"unknown", "mass", 1, ErrUnknownParameter},
		{"at max", "N", 30, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ps.Set(tt.param, tt.value)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParamsRejectedValueKeepsState(t *testing.T) {
	ps := testParams()
	_ = ps.Set("lambda", 100)
	if v, _ := ps.Get("lambda"); v != 0.633 {
		t.Errorf("rejected set changed value to %f", v)
	}
}

func TestParamsIntegerRounding(t *testing.T) {
	ps := testParams()
	if err := ps.Set("N", 4.6); err != nil {
		t.Fatal(err)
	}
	if v, _ := ps.Get("N"); v != 5 {
		t.Errorf("expected 5, got %f", v)
	}
}

func TestParamsNudgeClamps(t *testing.T) {
	ps := testParams()
	if err := ps.Nudge("N", 100); err != nil {
		t.Fatal(err)
	}
	if v, _ := ps.Get("N"); v != 30 {
		t.Errorf("expected clamp to 30, got %f", v)
	}
	if err := ps.Nudge("N", -1); err != nil {
		t.Fatal(err)
	}
	if v, _ := ps.Get("N"); v != 29 {
		t.Errorf("expected 29, got %f", v)
	}
}

func TestParamLabel(t *testing.T) {
	tests := []struct {
		desc        string
		long, short string
	}{
		{"Temperature -- $T$ (K)", "Temperature", "$T$ (K)"},
		{"E_max", "E_max", ""},
		{"a -- b -- c", "a", "b -- c"},
	}
	for _, tt := range tests {
		long, short := Param{Description: tt.desc}.Label()
		if long != tt.long || short != tt.short {
			t.Errorf("%q: got (%q, %q)", tt.desc, long, short)
		}
	}
}

func TestParamsValidate(t *testing.T) {
	if err := testParams().Validate(); err != nil {
		t.Errorf("valid params rejected: %v", err)
	}

	dup := NewParams(Param{Name: "a", Min: 0, Max: 1}, Param{Name: "a", Min: 0, Max: 1})
	if err := dup.Validate(); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected duplicate error, got %v", err)
	}

	outside := NewParams(Param{Name: "a", Value: 2, Min: 0, Max: 1})
	if err := outside.Validate(); !errors.Is(err, ErrParameterBounds) {
		t.Errorf("expected bounds error, got %v", err)
	}
}

func TestParamsCloneIsIndependent(t *testing.T) {
	ps := testParams()
	c := ps.Clone()
	_ = c.Set("lambda", 2)
	if v, _ := ps.Get("lambda"); v != 0.633 {
		t.Errorf("clone shares state with original")
	}
	c.Reset()
	if v, _ := c.Get("lambda"); v != 0.633 {
		t.Errorf("clone lost defaults")
	}
}
