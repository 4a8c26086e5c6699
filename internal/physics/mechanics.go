package physics

import (
	"math"

	"github.com/san-kum/lessonlab/internal/dynamo"
)

// Pendulum is θ'' = -ω0² sin θ with state (θ, θ').
type Pendulum struct {
	Omega0 float64
}

func NewPendulum() *Pendulum {
	return &Pendulum{Omega0: 4}
}

func (p *Pendulum) StateDim() int {
	return 2
}

func (p *Pendulum) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -p.Omega0 * p.Omega0 * math.Sin(x[0])}
}

// Energy per unit moment of inertia, ½θ'² + ω0²(1 - cos θ).
func (p *Pendulum) Energy(x dynamo.State) float64 {
	return 0.5*x[1]*x[1] + p.Omega0*p.Omega0*(1-math.Cos(x[0]))
}

// Separatrix is the angular speed at θ = 0 above which the pendulum turns
// over instead of oscillating.
func (p *Pendulum) Separatrix() float64 {
	return 2 * p.Omega0
}

// Orbit is a Keplerian two body orbit.
type Orbit struct {
	M1     float64
	M2     float64
	A      float64
	Ecc    float64
	Theta0 float64
}

func (o Orbit) ReducedMass() float64 {
	return o.M1 * o.M2 / (o.M1 + o.M2)
}

// SemiLatusRectum is p = L²/(Kμ) with K = G M1 M2 and L² = Kμa(1-e²).
func (o Orbit) SemiLatusRectum() float64 {
	mu := o.ReducedMass()
	k := G * o.M1 * o.M2
	l := math.Sqrt(k * mu * o.A * (1 - o.Ecc*o.Ecc))
	return l * l / (k * mu)
}

// Radius of the relative orbit at polar angle theta.
func (o Orbit) Radius(theta float64) float64 {
	return o.SemiLatusRectum() / (1 + o.Ecc*math.Cos(theta-o.Theta0))
}

// Positions returns the relative position and the positions of both
// bodies about the centre of mass.
func (o Orbit) Positions(theta float64) (x, y, x1, y1, x2, y2 float64) {
	r := o.Radius(theta)
	x = r * math.Cos(theta)
	y = r * math.Sin(theta)
	m := o.M1 + o.M2
	x1, y1 = -(o.M2/m)*x, -(o.M2/m)*y
	x2, y2 = (o.M1/m)*x, (o.M1/m)*y
	return
}

// Period is 2π √(a³ / (G (M1+M2))).
func (o Orbit) Period() float64 {
	return 2 * math.Pi * math.Sqrt(o.A*o.A*o.A/(G*(o.M1+o.M2)))
}
