// Package linalg factorizes the square Jacobian systems that seed curve
// calibration, through a closed set of decomposition strategies.
//
// 🚀 What is strata/linalg?
//
//	A small, strict linear-algebra layer on top of gonum/mat:
//	  • SVD — the default seeding strategy; refuses singular and
//	    ill-conditioned matrices instead of producing garbage solutions
//	  • LU  — deterministic Doolittle decomposition without pivoting,
//	    for well-behaved systems where the O(n³) SVD is overkill
//
// ✨ Why a dedicated package?
//
//   - Fail-fast numerics – a singular matrix is an error, never a NaN
//   - Immutable factors – decompose once, solve and invert repeatedly
//   - Pure functions – identical input, identical factorization; safe for
//     concurrent calibration runs with no locking
//
// ⚙️ Usage:
//
//	import "github.com/selyco/strata/linalg"
//
//	dec, err := linalg.NewSVD().Decompose(jacobian)
//	if err != nil {
//	  // errors.Is(err, linalg.ErrSingular) / linalg.ErrIllConditioned
//	}
//	inv, _ := dec.Inverse()
//
// Performance:
//
//   - Decompose: O(n³) time, O(n²) memory
//   - SolveVec / Inverse on existing factors: O(n²)
package linalg
