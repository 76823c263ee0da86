// Package calibrate defines the contracts and sentinel errors that turn a
// trade set, a pricing measure and a curve-provider generator into the
// residual function consumed by the root finder.
//
// The three collaborators are deliberately narrow interfaces: trade objects,
// market-data ingestion and day-count conventions live outside this package
// and reach the calibration core only through Measure and ProviderGenerator.
//
// Errors (sentinel):
//
//	– ErrNoTrades           if the trade list is nil or empty.
//	– ErrNilTrade           if a trade entry is nil.
//	– ErrNilMeasure         if the measure strategy is nil.
//	– ErrNilGenerator       if the provider generator is nil.
//	– ErrNilParameters      if a parameter vector is nil.
//	– ErrDimensionMismatch  if a parameter vector length differs from the curve knot count.
//	– ErrUnknownCurve       if a provider is asked for a curve it does not hold.
package calibrate

import (
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/selyco/strata/interp"
)

// Sentinel errors returned by the calibrate package.
var (
	// ErrNoTrades indicates that no trade instruments were supplied.
	ErrNoTrades = errors.New("calibrate: trade list is empty")

	// ErrNilTrade indicates that a nil trade appeared in the trade list.
	ErrNilTrade = errors.New("calibrate: nil trade in list")

	// ErrNilMeasure indicates that a nil pricing measure was supplied.
	ErrNilMeasure = errors.New("calibrate: measure is nil")

	// ErrNilGenerator indicates that a nil provider generator was supplied.
	ErrNilGenerator = errors.New("calibrate: provider generator is nil")

	// ErrNilValue indicates that a nil calibration Value was supplied.
	ErrNilValue = errors.New("calibrate: calibration value is nil")

	// ErrNilParameters indicates that a nil parameter vector was supplied.
	ErrNilParameters = errors.New("calibrate: parameter vector is nil")

	// ErrDimensionMismatch indicates that a parameter vector length differs
	// from the number of curve knots it must populate.
	ErrDimensionMismatch = errors.New("calibrate: parameter dimension mismatch")

	// ErrUnknownCurve indicates a curve name the provider does not hold.
	ErrUnknownCurve = errors.New("calibrate: unknown curve name")

	// ErrNoKnotTimes indicates that a provider generator was built without
	// knot times.
	ErrNoKnotTimes = errors.New("calibrate: no knot times")

	// ErrNilInterpolator indicates that a nil interpolation variant was
	// supplied to a provider generator.
	ErrNilInterpolator = errors.New("calibrate: interpolator is nil")
)

// Trade is an opaque priced instrument. Concrete trade value objects are
// external collaborators; the calibration core needs only identity.
type Trade interface {
	// ID returns a stable identifier for diagnostics.
	ID() string
}

// CurveProvider is the pricing surface a candidate parameter vector induces.
// Implementations must be immutable: the same provider answers every query
// identically for its whole lifetime.
type CurveProvider interface {
	// DiscountFactor returns the discount factor for a cash flow at time t
	// (in years).
	DiscountFactor(t float64) (float64, error)

	// Curve returns the named bound curve, or ErrUnknownCurve.
	Curve(name string) (interp.Bound, error)
}

// Measure prices one trade against a curve provider. Implementations must be
// deterministic, side-effect-free functions of their two inputs — typically a
// par spread or a converted present value.
type Measure interface {
	// Value returns the calibration measure of trade under provider.
	Value(trade Trade, provider CurveProvider) (float64, error)
}

// ProviderGenerator turns a candidate parameter vector into a fresh curve
// provider. Generate must be total over the admissible parameter domain and
// must never share mutable state between the providers it creates.
type ProviderGenerator interface {
	Generate(x *mat.VecDense) (CurveProvider, error)
}
