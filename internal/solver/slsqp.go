// Package solver implements a sequential quadratic programming minimizer for
// smooth objectives subject to linear equality constraints and box bounds.
//
// Mathematical formulation:
//
//	minimize    f(x)
//	subject to  A·x = b
//	            lower_i ≤ x_i ≤ upper_i
//
// The objective is a black box. Gradients are estimated with central finite
// differences, curvature is accumulated with a damped BFGS update, and each
// iteration solves a quadratic subproblem over the linearized constraints and
// shifted bounds. Progress is globalized with a backtracking line search on
// an L1 merit function.
package solver

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrNotConverged is returned when the solve stops before reaching the
// requested tolerance. The wrapped message says why.
var ErrNotConverged = errors.New("solver did not converge")

const (
	// DefaultTolerance is used when Problem.Tolerance is zero.
	DefaultTolerance = 1e-8
	// DefaultMaxIterations is used when Problem.MaxIterations is zero.
	DefaultMaxIterations = 300

	// armijoC is the sufficient-decrease fraction for the merit line search.
	armijoC = 1e-4
	// maxHalvings bounds the backtracking line search.
	maxHalvings = 40
)

// Bound is an inclusive interval for one variable. Equal (or numerically
// indistinguishable) bounds pin the variable for the whole solve.
type Bound struct {
	Lower float64
	Upper float64
}

// Problem describes one constrained minimization.
type Problem struct {
	// Objective evaluates f at x. It must not retain or modify x.
	Objective func(x []float64) float64

	// A holds the equality constraint rows. Rows may be redundant or zero;
	// the subproblem solve tolerates rank deficiency.
	A [][]float64
	// B is the right-hand side, one entry per row of A.
	B []float64

	// Bounds holds one interval per variable.
	Bounds []Bound
	// X0 is the starting point. It is clamped into the bounds before use.
	X0 []float64

	// Tolerance is the convergence tolerance on step size and objective
	// decrease. Zero means DefaultTolerance.
	Tolerance float64
	// MaxIterations caps major iterations. Zero means DefaultMaxIterations.
	MaxIterations int
}

// Result holds the solution of a successful solve.
type Result struct {
	X          []float64
	Value      float64
	Iterations int
	Message    string
}

func (p *Problem) validate() error {
	n := len(p.X0)
	if p.Objective == nil {
		return errors.New("objective function is required")
	}
	if len(p.Bounds) != n {
		return fmt.Errorf("got %d bounds for %d variables", len(p.Bounds), n)
	}
	for i, b := range p.Bounds {
		if b.Lower > b.Upper {
			return fmt.Errorf("invalid bounds for variable %d: lower %g > upper %g", i, b.Lower, b.Upper)
		}
	}
	if len(p.A) != len(p.B) {
		return fmt.Errorf("got %d constraint rows for %d right-hand sides", len(p.A), len(p.B))
	}
	for k, row := range p.A {
		if len(row) != n {
			return fmt.Errorf("constraint row %d has %d coefficients for %d variables", k, len(row), n)
		}
	}
	return nil
}

// Minimize runs the SQP iteration. On success the returned Result holds the
// solution; on failure the error wraps ErrNotConverged (or describes invalid
// input) and there is no partial result.
func Minimize(p Problem) (*Result, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	n := len(p.X0)
	if n == 0 {
		return &Result{Message: "nothing to optimize"}, nil
	}

	tol := p.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	maxIter := p.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}
	// Feasibility is judged more loosely than optimality: equality residuals
	// accumulate rounding from the constraint coefficients themselves.
	feasTol := math.Sqrt(tol) * (1 + floats.Norm(p.B, math.Inf(1)))

	x := make([]float64, n)
	copy(x, p.X0)
	clampToBounds(x, p.Bounds)

	grad := make([]float64, n)
	fdGradient(grad, p.Objective, x)
	fx := p.Objective(x)

	hess := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		hess.SetSym(i, i, 1)
	}

	penalty := 1.0
	dlo := make([]float64, n)
	dhi := make([]float64, n)
	xNew := make([]float64, n)
	gradNew := make([]float64, n)

	for iter := 1; iter <= maxIter; iter++ {
		r := constraintResidual(p.A, p.B, x)
		for i := 0; i < n; i++ {
			dlo[i] = p.Bounds[i].Lower - x[i]
			dhi[i] = p.Bounds[i].Upper - x[i]
		}

		d, lam, err := solveQP(hess, grad, p.A, r, dlo, dhi)
		if err != nil {
			return nil, fmt.Errorf("%w: %v (iteration %d)", ErrNotConverged, err, iter)
		}

		stepNorm := floats.Norm(d, math.Inf(1))
		xNorm := floats.Norm(x, math.Inf(1))
		feas := floats.Norm(r, math.Inf(1))
		if stepNorm <= tol*(1+xNorm) && feas <= feasTol {
			return &Result{
				X:          x,
				Value:      fx,
				Iterations: iter,
				Message:    "optimization terminated successfully (step size below tolerance)",
			}, nil
		}

		// Keep the merit penalty ahead of the constraint multipliers so the
		// search direction stays a descent direction for the merit function.
		if lamInf := floats.Norm(lam, math.Inf(1)); penalty < 2*lamInf {
			penalty = 2*lamInf + 1
		}

		violation := constraintL1(p.A, p.B, x)
		merit := fx + penalty*violation
		slope := floats.Dot(grad, d) - penalty*violation
		if slope > 0 {
			slope = 0
		}

		t := 1.0
		accepted := false
		var fTrial float64
		for ls := 0; ls < maxHalvings; ls++ {
			floats.AddScaledTo(xNew, x, t, d)
			fTrial = p.Objective(xNew)
			if fTrial+penalty*constraintL1(p.A, p.B, xNew) <= merit+armijoC*t*slope {
				accepted = true
				break
			}
			t /= 2
		}
		if !accepted {
			// Finite-difference noise can defeat the line search right at a
			// non-smooth optimum. If the proposed step was already small,
			// call it converged rather than failing.
			if stepNorm <= math.Sqrt(tol)*(1+xNorm) && feas <= feasTol {
				return &Result{
					X:          x,
					Value:      fx,
					Iterations: iter,
					Message:    "optimization terminated successfully (no further merit decrease)",
				}, nil
			}
			return nil, fmt.Errorf("%w: line search failed to reduce the merit function (iteration %d)", ErrNotConverged, iter)
		}

		fdGradient(gradNew, p.Objective, xNew)
		updateHessian(hess, x, xNew, grad, gradNew)

		feasNew := floats.Norm(constraintResidual(p.A, p.B, xNew), math.Inf(1))
		actualStep := t * stepNorm
		converged := math.Abs(fTrial-fx) <= tol*(1+math.Abs(fx)) &&
			actualStep <= math.Sqrt(tol)*(1+xNorm) &&
			feasNew <= feasTol

		copy(x, xNew)
		copy(grad, gradNew)
		fx = fTrial

		if converged {
			return &Result{
				X:          x,
				Value:      fx,
				Iterations: iter,
				Message:    "optimization terminated successfully (objective decrease below tolerance)",
			}, nil
		}
	}

	return nil, fmt.Errorf("%w: iteration limit reached after %d iterations", ErrNotConverged, maxIter)
}

// fdGradient estimates the gradient of f at x with central differences.
func fdGradient(dst []float64, f func([]float64) float64, x []float64) {
	fd.Gradient(dst, f, x, &fd.Settings{Formula: fd.Central})
}

// updateHessian applies a Powell-damped BFGS update. Damping keeps the
// approximation positive definite even when the sampled curvature is zero or
// negative, which is exactly what happens while the iterate traverses a
// locally linear stretch of the objective.
func updateHessian(hess *mat.SymDense, x, xNew, grad, gradNew []float64) {
	n := len(x)
	s := make([]float64, n)
	y := make([]float64, n)
	floats.SubTo(s, xNew, x)
	floats.SubTo(y, gradNew, grad)

	bs := make([]float64, n)
	sv := mat.NewVecDense(n, s)
	bsv := mat.NewVecDense(n, bs)
	bsv.MulVec(hess, sv)

	sBs := floats.Dot(s, bs)
	if sBs <= 1e-16 {
		return
	}
	sy := floats.Dot(s, y)
	if sy < 0.2*sBs {
		theta := 0.8 * sBs / (sBs - sy)
		for i := range y {
			y[i] = theta*y[i] + (1-theta)*bs[i]
		}
		sy = floats.Dot(s, y)
	}
	if sy <= 1e-16 {
		return
	}

	hess.SymRankOne(hess, -1/sBs, bsv)
	hess.SymRankOne(hess, 1/sy, mat.NewVecDense(n, y))
}

func clampToBounds(x []float64, bounds []Bound) {
	for i := range x {
		if x[i] < bounds[i].Lower {
			x[i] = bounds[i].Lower
		}
		if x[i] > bounds[i].Upper {
			x[i] = bounds[i].Upper
		}
	}
}

// constraintResidual returns b - A·x.
func constraintResidual(a [][]float64, b []float64, x []float64) []float64 {
	r := make([]float64, len(a))
	for k, row := range a {
		sum := 0.0
		for i, c := range row {
			sum += c * x[i]
		}
		r[k] = b[k] - sum
	}
	return r
}

// constraintL1 returns the L1 norm of A·x - b.
func constraintL1(a [][]float64, b []float64, x []float64) float64 {
	total := 0.0
	for k, row := range a {
		sum := 0.0
		for i, c := range row {
			sum += c * x[i]
		}
		total += math.Abs(sum - b[k])
	}
	return total
}
