// Package interp fits smooth curves through knot sets and answers value,
// first-derivative and parameter-sensitivity queries.
//
// 🚀 What is strata/interp?
//
//	The curve layer of calibration: parameter vectors become curve shapes
//	here, trades are repriced against those shapes elsewhere.
//	  • NaturalSpline — C² natural cubic spline through the raw knots,
//	    with closed-form sensitivity to every y knot
//	  • ProductNaturalSpline — the same spline fit in product space
//	    (x, x·y), queried back through the quotient rule; changes the
//	    asymptotics of the curve without new fitting machinery
//
// ✨ Key guarantees:
//
//   - Bind once, query forever – a Bound curve is immutable and safe for
//     concurrent reads
//   - Knots reproduce exactly – Interpolate(xᵢ) == yᵢ for every knot
//   - Derivatives agree with finite differences to ~1e-6
//   - Fail fast – out-of-domain, near-zero product queries and unsupported
//     sensitivities are sentinel errors, never NaN
//   - Sign-agnostic – product fitting works on strictly negative domains too
//
// ⚙️ Usage:
//
//	import "github.com/selyco/strata/interp"
//
//	bound, err := interp.ProductNaturalSpline().Bind(xKnots, yKnots)
//	if err != nil {
//	  // errors.Is(err, interp.ErrNotIncreasing) etc.
//	}
//	y, _ := bound.Interpolate(7.8)
//	dy, _ := bound.FirstDerivative(7.8)
//
// Performance:
//
//   - Bind:  O(n²) (tridiagonal fit plus the sensitivity basis)
//   - Query: O(log n) segment lookup plus O(1) cubic evaluation
package interp
