package rootfind

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Broyden — Newton-type vector root finding with a secant inverse-Jacobian.
//
// Description:
//
//	Broyden seeks x with F(x) = 0 for an n → n residual function F.
//	The Jacobian is estimated and inverted exactly once, at the start
//	(InverseJacobianInitializer); afterwards every iteration applies a
//	rank-one Sherman–Morrison correction to the running inverse estimate,
//	trading exactness for an O(n²) update instead of an O(n³) refactorization.
//
// Algorithm Outline:
//  1. r₀ = F(x₀); if ‖r₀‖ ≤ tol, converge immediately.
//  2. M₀ ≈ [J(x₀)]⁻¹ via decompose-and-invert.
//  3. Repeat up to MaxIterations:
//     a. δ = −M·r, x ← x + δ, rNew = F(x).
//     b. If ‖rNew‖ ≤ tol, transition to CONVERGED and return x.
//     c. Δr = rNew − r, v = M·Δr, denom = δᵀ·v.
//     If denom is numerically indistinguishable from zero,
//     fail with ErrStalledUpdate (never propagate NaN/Inf).
//     d. M ← M + (δ − v)·(δᵀ·M) / denom.
//  4. Budget exhausted → ErrMaxIterations, reporting the best iterate,
//     its residual norm and the iteration count.
//
// The run is strictly sequential: step k+1 needs the residual and the
// inverse-Jacobian state of step k. All mutable state lives in a per-run
// runner value, so independent runs may execute concurrently with no locking.
//
// Complexity:
//
//	Time   = O(n³) once + O(n²) per iteration (+ residual evaluations)
//	Memory = O(n²) for the inverse-Jacobian estimate
//
// Errors:
//   - ErrNilFunction / ErrNilPoint / ErrEmptyPoint — invalid input.
//   - ErrDimensionMismatch / ErrNonFiniteResidual — malformed residuals.
//   - linalg.ErrSingular / linalg.ErrIllConditioned — seeding failed.
//   - *ConvergenceError wrapping ErrStalledUpdate or ErrMaxIterations.
func Broyden(f VectorFunc, x0 *mat.VecDense, opts ...Option) (*Result, error) {
	// 1) Build and validate Options.
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	// 2) Validate inputs eagerly.
	if f == nil {
		return nil, ErrNilFunction
	}
	if x0 == nil {
		return nil, ErrNilPoint
	}
	n := x0.Len()
	if n == 0 {
		return nil, ErrEmptyPoint
	}

	// 3) Select the Jacobian: analytic when supplied, central finite
	//    differencing otherwise.
	jac := cfg.Jacobian
	if jac == nil {
		jac = FiniteDifferenceJacobian(f, cfg.FDStep)
	}

	// 4) Evaluate the starting residual; the start itself may already be a root.
	x := mat.VecDenseCopyOf(x0) // never mutate the caller's guess
	r, err := evalResidual(f, x, n)
	if err != nil {
		return nil, err
	}
	norm := mat.Norm(r, 2)
	if norm <= cfg.Tolerance {
		return &Result{Root: x, ResidualNorm: norm, Iterations: 0}, nil
	}

	// 5) Seed the inverse-Jacobian estimate (the single O(n³) step).
	ini, err := NewInverseJacobianInitializer(cfg.Decomposer)
	if err != nil {
		return nil, err
	}
	m, err := ini.InitializedMatrix(jac, x)
	if err != nil {
		return nil, err
	}

	// 6) Iterate. The runner owns every piece of per-run mutable state.
	run := &runner{f: f, cfg: cfg, n: n, x: x, r: r, m: m, bestX: mat.VecDenseCopyOf(x), bestNorm: norm}

	return run.iterate()
}

// runner holds the mutable state of a single Broyden execution.
type runner struct {
	f   VectorFunc
	cfg Options
	n   int

	x *mat.VecDense // current iterate
	r *mat.VecDense // residual at x
	m *mat.Dense    // running inverse-Jacobian estimate

	bestX    *mat.VecDense // iterate with the smallest residual norm so far
	bestNorm float64
	iter     int
}

// iterate runs the secant loop until convergence, stall, or budget exhaustion.
func (run *runner) iterate() (*Result, error) {
	delta := mat.NewVecDense(run.n, nil)
	deltaR := mat.NewVecDense(run.n, nil)
	v := mat.NewVecDense(run.n, nil)
	row := mat.NewVecDense(run.n, nil)

	for run.iter = 1; run.iter <= run.cfg.MaxIterations; run.iter++ {
		// a) Step: δ = −M·r, x ← x + δ.
		delta.MulVec(run.m, run.r)
		delta.ScaleVec(-1, delta)
		run.x.AddVec(run.x, delta)

		rNew, err := evalResidual(run.f, run.x, run.n)
		if err != nil {
			return nil, err
		}

		// b) Convergence check on the fresh residual.
		norm := mat.Norm(rNew, 2)
		if norm < run.bestNorm {
			run.bestNorm = norm
			run.bestX.CopyVec(run.x)
		}
		if norm <= run.cfg.Tolerance {
			return &Result{Root: mat.VecDenseCopyOf(run.x), ResidualNorm: norm, Iterations: run.iter}, nil
		}

		// c) Secant denominator: δᵀ·M·Δr.
		deltaR.SubVec(rNew, run.r)
		v.MulVec(run.m, deltaR)
		denom := mat.Dot(delta, v)
		scale := mat.Norm(delta, 2) * mat.Norm(v, 2)
		if scale == 0 || math.Abs(denom) < stallEpsilon*scale {
			return nil, run.fail(ErrStalledUpdate)
		}

		// d) Sherman–Morrison rank-one correction:
		//    M ← M + (δ − v)·(δᵀ·M) / denom.
		row.MulVec(run.m.T(), delta) // δᵀ·M as a column vector
		u := mat.NewVecDense(run.n, nil)
		u.SubVec(delta, v)
		u.ScaleVec(1/denom, u)
		var outer mat.Dense
		outer.Outer(1, u, row)
		run.m.Add(run.m, &outer)

		run.r = rNew
	}

	return nil, run.fail(ErrMaxIterations)
}

// fail wraps the failure kind with the best-seen diagnostic state.
func (run *runner) fail(kind error) error {
	iterations := run.iter
	if iterations > run.cfg.MaxIterations {
		iterations = run.cfg.MaxIterations
	}

	return &ConvergenceError{
		Best:         run.bestX,
		ResidualNorm: run.bestNorm,
		Iterations:   iterations,
		kind:         kind,
	}
}

// evalResidual evaluates f at x and validates shape and finiteness, so no
// malformed residual ever reaches the secant update.
func evalResidual(f VectorFunc, x *mat.VecDense, n int) (*mat.VecDense, error) {
	r, err := f(x)
	if err != nil {
		return nil, fmt.Errorf("Broyden: residual evaluation: %w", err)
	}
	if r == nil {
		return nil, fmt.Errorf("Broyden: residual evaluation: %w", ErrNilPoint)
	}
	if r.Len() != n {
		return nil, fmt.Errorf("Broyden: residual length %d for dimension %d: %w", r.Len(), n, ErrDimensionMismatch)
	}
	if err = checkFinite(r); err != nil {
		return nil, fmt.Errorf("Broyden: %w", err)
	}

	return r, nil
}
