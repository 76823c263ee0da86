// Package rootfind drives parameter vectors toward a zero of a residual
// function with a Newton-type finder whose inverse Jacobian is refined by
// cheap secant (Broyden) corrections.
//
// 🚀 What is strata/rootfind?
//
//	The engine behind curve calibration:
//	  • Broyden — the finder; one exact Jacobian decomposition up front,
//	    then O(n²) rank-one updates per iteration
//	  • InverseJacobianInitializer — the seeding step; estimate J(x₀),
//	    factorize it (SVD by default), invert via the factors
//	  • FiniteDifferenceJacobian — central-difference fallback when no
//	    analytic Jacobian exists
//
// ✨ Why this design?
//
//   - Exact Jacobians are expensive – calibration residuals reprice a whole
//     trade set per evaluation, so the finder recomputes them never, not often
//   - Explicit failure – stalled updates and exhausted budgets surface as
//     typed errors carrying the best iterate; no NaN ever escapes the loop
//   - Per-run state – every mutable value lives in the run itself, so
//     independent calibrations parallelize with no locking
//
// ⚙️ Usage:
//
//	import "github.com/selyco/strata/rootfind"
//
//	res, err := rootfind.Broyden(residualFn, guess,
//	  rootfind.WithTolerance(1e-9),
//	  rootfind.WithMaxIterations(50),
//	)
//	if err != nil {
//	  var ce *rootfind.ConvergenceError
//	  if errors.As(err, &ce) {
//	    // ce.Best, ce.ResidualNorm, ce.Iterations
//	  }
//	}
//	fmt.Println("root:", res.Root)
//
// Performance:
//
//   - Time:   O(n³) seeding + O(n²) per iteration, plus residual evaluations
//   - Memory: O(n²) for the inverse-Jacobian estimate
package rootfind
