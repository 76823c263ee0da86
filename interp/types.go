// Package interp defines the curve-interpolator contracts, options and
// sentinel errors shared by the closed set of interpolation variants.
//
// An Interpolator is a stateless fitting strategy; Bind fits it to one knot
// set and returns an immutable Bound curve answering value, first-derivative
// and parameter-sensitivity queries. Variants are selected at construction
// time, never via runtime type inspection:
//
//   - NaturalSpline        — natural cubic spline through the raw (x, y) knots.
//   - ProductNaturalSpline — natural cubic spline fit in product space
//     (x, x·y), with value and derivative mapped back by the quotient rule.
//
// Errors (sentinel):
//
//	– ErrLengthMismatch          if the x and y knot slices differ in length.
//	– ErrTooFewKnots             if fewer than two knots are supplied.
//	– ErrNotIncreasing           if the x knots are not strictly increasing.
//	– ErrNaNInf                  if a knot value is NaN or ±Inf.
//	– ErrOutOfDomain             if a query lies outside [x₀, xₙ₋₁].
//	– ErrNearZeroQuery           if a product-space query sits below the small-|x| guard.
//	– ErrSensitivityUnsupported  if a variant has no closed-form sensitivity.
package interp

import "errors"

// Sentinel errors returned by the interp package.
var (
	// ErrLengthMismatch indicates that the x and y knot slices have
	// different lengths.
	ErrLengthMismatch = errors.New("interp: x and y knot lengths differ")

	// ErrTooFewKnots indicates that the knot set is too small for the
	// chosen interpolation scheme.
	ErrTooFewKnots = errors.New("interp: not enough knots")

	// ErrNotIncreasing indicates that the x knots are not strictly
	// increasing (duplicates included).
	ErrNotIncreasing = errors.New("interp: x knots must be strictly increasing")

	// ErrNaNInf indicates that a knot coordinate is NaN or ±Inf.
	ErrNaNInf = errors.New("interp: NaN or Inf knot value")

	// ErrOutOfDomain indicates a query outside the bound knot domain.
	// Extrapolation is a caller-level policy, not handled here.
	ErrOutOfDomain = errors.New("interp: query outside knot domain")

	// ErrNearZeroQuery indicates a product-transform query whose |x| sits
	// below the configured minimum magnitude, where the back-transform
	// division p(x)/x is unstable. Surfaced eagerly, never as NaN or Inf.
	ErrNearZeroQuery = errors.New("interp: query magnitude below small-x guard")

	// ErrSensitivityUnsupported marks a variant with no closed-form
	// parameter sensitivity. An explicit, documented limitation rather than
	// an approximate or silently wrong answer.
	ErrSensitivityUnsupported = errors.New("interp: parameter sensitivity not supported")
)

// DefaultSmallX is the default minimum |x| magnitude accepted by
// product-transform queries. Queries below it fail with ErrNearZeroQuery.
const DefaultSmallX = 1e-12

// MinKnots is the smallest admissible knot count. A natural cubic spline on
// two knots degrades to the straight line through them.
const MinKnots = 2

// Interpolator is a stateless curve-fitting strategy.
type Interpolator interface {
	// Name reports the variant name (e.g. "NaturalSpline").
	Name() string

	// Bind fits the strategy to the knot set and returns an immutable
	// Bound curve. The input slices are copied, never retained.
	Bind(xs, ys []float64) (Bound, error)
}

// Bound is an interpolator already fit to a specific knot set. All methods
// are side-effect free and safe for concurrent use; queries are valid only
// within [x₀, xₙ₋₁] of the bound knots.
type Bound interface {
	// Interpolate returns the curve value at x.
	Interpolate(x float64) (float64, error)

	// FirstDerivative returns dy/dx at x. It agrees with a central
	// finite-difference estimate of Interpolate to within ~1e-6.
	FirstDerivative(x float64) (float64, error)

	// ParameterSensitivity returns ∂y(x)/∂yᵢ for every knot i, or
	// ErrSensitivityUnsupported for variants without a closed form.
	ParameterSensitivity(x float64) ([]float64, error)

	// XValues returns a copy of the bound x knots.
	XValues() []float64

	// YValues returns a copy of the bound y knots.
	YValues() []float64
}

// Options configures an interpolation variant.
//
// SmallX – minimum |x| magnitude for product-transform queries. Must be > 0.
type Options struct {
	SmallX float64
}

// Option represents a functional option for configuring an Interpolator.
type Option func(*Options)

// WithSmallX sets the minimum |x| magnitude guard of the product transform.
// Must pass a positive value; zero or negative values panic.
func WithSmallX(eps float64) Option {
	return func(o *Options) {
		if eps <= 0 {
			panic("interp: small-x guard must be positive")
		}
		o.SmallX = eps
	}
}

// DefaultOptions returns an Options struct initialized with the package
// defaults.
func DefaultOptions() Options {
	return Options{SmallX: DefaultSmallX}
}
