// Package strata is a curve-calibration toolkit: it fits curve parameters so
// that a set of priced instruments reproduces its observed market quotes.
//
// 🚀 What is strata?
//
//	A calibration problem is multi-dimensional root finding over curve
//	parameters. The library splits it into four composing layers:
//	  • linalg    — decomposition strategies (SVD, LU) with fail-fast
//	    handling of singular and ill-conditioned systems
//	  • rootfind  — a Newton-type finder whose inverse Jacobian is seeded
//	    once by decomposition and refined by cheap secant (Broyden) updates
//	  • interp    — bound curve interpolators: natural cubic spline and its
//	    product-space (x, x·y) variant
//	  • calibrate — the adapter that turns (trades, measure, provider
//	    generator) into the residual function, plus the calibration driver
//
// ✨ Why choose strata?
//
//   - Explicit numerics – convergence, stalls and budget exhaustion are
//     typed errors carrying diagnostics; NaN never escapes a loop
//   - Pure cores – bound curves, factorizations and calibration values are
//     immutable, so independent runs parallelize with no locking
//   - One expensive decomposition per run – everything after the seed is
//     an O(n²) update
//
// Control flow of one calibration:
//
//	calibrate.Value ──residuals──▶ rootfind.Broyden
//	       ▲                            │ candidate parameters
//	       │ reprice trades             ▼
//	calibrate.CurveProvider ◀── interp.Bound curves ◀── generator
//
// See each subpackage's doc.go for contracts, options and error sets.
package strata
