package physics

import (
	"context"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/san-kum/lessonlab/internal/dynamo"
	"github.com/san-kum/lessonlab/internal/integrators"
	"github.com/san-kum/lessonlab/internal/roots"
)

// Barrier is a rectangular potential barrier of height V and width D, in
// units where ħ = m = 1.
type Barrier struct {
	V float64
	D float64
}

// WideBarrierThreshold is the value of K·d above which the thick barrier
// approximation is considered valid.
const WideBarrierThreshold = 1.3

func (b Barrier) wavenumbers(e float64) (k, kk complex128) {
	k = cmplx.Sqrt(complex(2*e, 0))
	kk = cmplx.Sqrt(complex(2*(b.V-e), 0))
	return k, kk
}

// Transmission is the exact tunnelling probability at energy e.
func (b Barrier) Transmission(e float64) float64 {
	k, kk := b.wavenumbers(e)
	k2, kk2 := k*k, kk*kk
	s := cmplx.Sinh(kk * complex(b.D, 0))
	num := 4 * kk2 * k2
	den := (kk2+k2)*(kk2+k2)*s*s + num
	if den == 0 {
		switch {
		case e == b.V:
			// K -> 0 limit
			return 1 / (1 + e*b.D*b.D/2)
		case b.D == 0:
			return 1
		}
		return 0
	}
	return real(num / den)
}

// Classical is 1 when the particle passes over the barrier, 0 otherwise.
func (b Barrier) Classical(e float64) float64 {
	if e > b.V {
		return 1
	}
	return 0
}

// WideBarrier is the thick barrier approximation and whether it applies
// (e < V and K·d > WideBarrierThreshold).
func (b Barrier) WideBarrier(e float64) (float64, bool) {
	k, kk := b.wavenumbers(e)
	k2, kk2 := k*k, kk*kk
	t := real(16 * kk2 * k2 / ((kk2 + k2) * (kk2 + k2)) * cmplx.Exp(-2*kk*complex(b.D, 0)))
	valid := e < b.V && real(kk)*b.D > WideBarrierThreshold
	return t, valid
}

// SquareWell is a finite well of half width L and depth Vo, sampled on
// N points over [-B, B], in units where ħ = m = 1.
type SquareWell struct {
	L  float64
	Vo float64
	B  float64
	N  int
}

func NewSquareWell() SquareWell {
	return SquareWell{L: 1, Vo: 30, B: 2, N: 1001}
}

func (w SquareWell) Potential(x float64) float64 {
	if math.Abs(x) < w.L {
		return 0
	}
	return w.Vo
}

func (w SquareWell) Grid() []float64 {
	return dynamo.Linspace(-w.B, w.B, w.N)
}

// schrodinger is ψ'' = 2(V(x) - E)ψ written as a first order system in x.
type schrodinger struct {
	well SquareWell
	e    float64
}

func (s schrodinger) StateDim() int { return 2 }

func (s schrodinger) Derive(psi dynamo.State, x float64) dynamo.State {
	return dynamo.State{psi[1], 2 * (s.well.Potential(x) - s.e) * psi[0]}
}

// WaveFunction integrates from x = -B with ψ = 0, ψ' = 1 and returns ψ on
// the grid.
func (w SquareWell) WaveFunction(ctx context.Context, e float64) ([]float64, error) {
	states, err := integrators.Odeint(ctx, schrodinger{well: w, e: e}, dynamo.State{0, 1}, w.Grid(), integrators.Options{})
	if err != nil {
		return nil, fmt.Errorf("wave function at E=%g: %w", e, err)
	}
	return integrators.Column(states, 0), nil
}

// Eigenenergies scans linspace(0.1, Vo, 100) for sign changes of ψ(B) and
// refines each with Brent.
func (w SquareWell) Eigenenergies(ctx context.Context) ([]float64, error) {
	var failure error
	edge := func(e float64) float64 {
		psi, err := w.WaveFunction(ctx, e)
		if err != nil {
			if failure == nil {
				failure = err
			}
			return math.NaN()
		}
		return psi[len(psi)-1]
	}
	energies, err := roots.FindAll(edge, dynamo.Linspace(0.1, w.Vo, 100), roots.Options{})
	if failure != nil {
		return nil, failure
	}
	if err != nil {
		return nil, err
	}
	return energies, nil
}

// Normalize scales psi so that Σψ²dx = 1.
func Normalize(psi []float64, dx float64) []float64 {
	sum := 0.0
	for _, v := range psi {
		sum += v * v * dx
	}
	out := make([]float64, len(psi))
	if sum == 0 {
		return out
	}
	n := math.Sqrt(sum)
	for i, v := range psi {
		out[i] = v / n
	}
	return out
}
