package fit

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/lessonlab/internal/dynamo"
)

// ErrSingular is returned with a usable fit whose parameter covariance
// could not be computed.
var ErrSingular = errors.New("fit: singular normal matrix")

// Model is y = F(p, x) with one named entry of p per parameter.
type Model struct {
	Name   string
	Params []string
	F      func(p []float64, x float64) float64
}

func (m Model) NumParams() int { return len(m.Params) }

// Linear is y = a·x + b.
var Linear = Model{
	Name:   "linear",
	Params: []string{"a", "b"},
	F:      func(p []float64, x float64) float64 { return p[0]*x + p[1] },
}

type Result struct {
	Model            string
	Names            []string
	Params           []float64
	Uncertainties    []float64
	ChiSquare        float64
	ReducedChiSquare float64
	RSquared         float64
	// Residuals are weighted by the effective uncertainty of each point.
	Residuals []float64
	Status    string
}

// At evaluates the fitted model.
func (r *Result) At(m Model, x float64) float64 {
	return m.F(r.Params, x)
}

var central = &fd.Settings{Formula: fd.Central}

// maxCondition bounds the condition number of the residual Jacobian. Finite
// differences leave rank deficient Jacobians with a large but finite one.
const maxCondition = 1e7

const stationaryTol = 1e-6

var maxIterations = 10000

// problem is the effective variance least squares problem: the x
// uncertainty is carried to y through the local slope of the model.
type problem struct {
	model    Model
	data     *Data
	weighted bool
}

func (p *problem) sigma(params []float64, i int) float64 {
	if !p.weighted {
		return 1
	}
	slope := fd.Derivative(func(x float64) float64 { return p.model.F(params, x) }, p.data.X[i], central)
	ux, uy := p.data.UX[i], p.data.UY[i]
	return math.Sqrt(uy*uy + slope*slope*ux*ux)
}

func (p *problem) residuals(dst, params []float64) {
	for i := range p.data.X {
		dst[i] = (p.data.Y[i] - p.model.F(params, p.data.X[i])) / p.sigma(params, i)
	}
}

func (p *problem) chiSquare(params []float64) float64 {
	r := make([]float64, p.data.Len())
	p.residuals(r, params)
	return floats.Dot(r, r)
}

// Fit minimises the sum of squared weighted residuals from p0 with BFGS.
// When the covariance cannot be computed the result is returned together
// with an error wrapping ErrSingular.
func Fit(ctx context.Context, model Model, data *Data, p0 []float64) (*Result, error) {
	n, k := data.Len(), model.NumParams()
	if len(p0) != k {
		return nil, fmt.Errorf("%w: %d initial values for %d parameters", dynamo.ErrInvalidParameter, len(p0), k)
	}
	if n < k {
		return nil, fmt.Errorf("%w: %d points for %d parameters", dynamo.ErrDataFormat, n, k)
	}
	pr := &problem{model: model, data: data, weighted: data.Weighted()}
	if pr.weighted {
		for i := range data.X {
			if data.UX[i] == 0 && data.UY[i] == 0 {
				return nil, fmt.Errorf("%w: point %d has no uncertainty", dynamo.ErrDataFormat, i)
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prob := optimize.Problem{
		Func: pr.chiSquare,
		Grad: func(grad, x []float64) {
			fd.Gradient(grad, pr.chiSquare, x, central)
		},
	}
	settings := &optimize.Settings{GradientThreshold: 1e-10, MajorIterations: maxIterations}
	opt, err := optimize.Minimize(prob, p0, settings, &optimize.BFGS{})
	if opt == nil {
		return nil, fmt.Errorf("%w: %v", dynamo.ErrNoConvergence, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// a line search that gives up at a stationary point is a converged fit
	if (err != nil || failed(opt.Status)) && !stationary(pr, opt.X) {
		return nil, fmt.Errorf("%w: %s: %v", dynamo.ErrNoConvergence, opt.Status, err)
	}

	res := &Result{
		Model:     model.Name,
		Names:     model.Params,
		Params:    opt.X,
		Residuals: make([]float64, n),
		Status:    opt.Status.String(),
	}
	pr.residuals(res.Residuals, res.Params)
	res.ChiSquare = floats.Dot(res.Residuals, res.Residuals)
	if n > k {
		res.ReducedChiSquare = res.ChiSquare / float64(n-k)
	} else {
		res.ReducedChiSquare = math.NaN()
	}
	res.RSquared = rSquared(model, data, res.Params)

	res.Uncertainties, err = uncertainties(pr, res.Params)
	return res, err
}

func failed(status optimize.Status) bool {
	switch status {
	case optimize.NotTerminated, optimize.Failure, optimize.IterationLimit, optimize.RuntimeLimit,
		optimize.FunctionEvaluationLimit, optimize.GradientEvaluationLimit:
		return true
	}
	return false
}

// stationary reports whether the χ² gradient at params is zero within the
// finite difference noise.
func stationary(pr *problem, params []float64) bool {
	chi2 := pr.chiSquare(params)
	grad := fd.Gradient(nil, pr.chiSquare, params, central)
	return floats.Norm(grad, math.Inf(1)) <= stationaryTol*math.Max(1, chi2)
}

// uncertainties is √|diag((JᵀJ)⁻¹)| with J the Jacobian of the weighted
// residuals at the optimum.
func uncertainties(pr *problem, params []float64) ([]float64, error) {
	n, k := pr.data.Len(), len(params)
	out := make([]float64, k)
	for i := range out {
		out[i] = math.NaN()
	}

	jac := mat.NewDense(n, k, nil)
	fd.Jacobian(jac, pr.residuals, params, &fd.JacobianSettings{Formula: fd.Central})
	if c := mat.Cond(jac, 2); c > maxCondition {
		return out, fmt.Errorf("%w: jacobian condition number %.3g", ErrSingular, c)
	}
	var jtj, cov mat.Dense
	jtj.Mul(jac.T(), jac)
	if err := cov.Inverse(&jtj); err != nil {
		return out, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	for i := range out {
		out[i] = math.Sqrt(math.Abs(cov.At(i, i)))
	}
	return out, nil
}

// rSquared uses unweighted residuals.
func rSquared(m Model, d *Data, params []float64) float64 {
	mean := stat.Mean(d.Y, nil)
	var ssRes, ssTot float64
	for i, x := range d.X {
		r := d.Y[i] - m.F(params, x)
		ssRes += r * r
		ssTot += (d.Y[i] - mean) * (d.Y[i] - mean)
	}
	if ssTot == 0 {
		return math.NaN()
	}
	return 1 - ssRes/ssTot
}
