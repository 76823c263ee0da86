package interp

import (
	"fmt"
	"math"
)

// ProductNaturalSpline returns the product-space spline variant. Each knot's
// y is remapped to p = x·y, the base natural cubic spline is fit to the
// (x, p) pairs, and queries are mapped back by the quotient rule:
//
//	y(x)  = p(x)/x
//	y′(x) = (p′(x) − y(x))/x
//
// Fitting in product space changes the asymptotic and smoothness behavior of
// the curve (smoothness in "area" rather than raw value) while reusing the
// base spline machinery unchanged. The variant works for strictly positive
// and strictly negative knot domains alike — no assumption that x > 0.
//
// The back-transform divides by x, so queries with |x| below the configured
// guard (DefaultSmallX, override via WithSmallX) fail with ErrNearZeroQuery
// instead of returning NaN or Inf.
//
// ParameterSensitivity has no closed form on this simple product variant and
// fails with ErrSensitivityUnsupported.
func ProductNaturalSpline(opts ...Option) Interpolator {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	return productNaturalSpline{opts: cfg}
}

type productNaturalSpline struct {
	opts Options
}

// Name reports the variant name.
func (productNaturalSpline) Name() string { return "ProductNaturalSpline" }

// Bind remaps the knots into product space and delegates fitting to the base
// natural cubic spline.
func (p productNaturalSpline) Bind(xs, ys []float64) (Bound, error) {
	if err := validateKnots(xs, ys); err != nil {
		return nil, fmt.Errorf("ProductNaturalSpline.Bind: %w", err)
	}

	prod := make([]float64, len(xs))
	for i := range xs {
		prod[i] = xs[i] * ys[i]
	}
	base, err := NaturalSpline().Bind(xs, prod)
	if err != nil {
		return nil, fmt.Errorf("ProductNaturalSpline.Bind: %w", err)
	}

	return &boundProductSpline{
		base:   base.(*boundNaturalSpline),
		ys:     append([]float64(nil), ys...),
		smallX: p.opts.SmallX,
	}, nil
}

// boundProductSpline is an immutable product-space spline fit.
type boundProductSpline struct {
	base   *boundNaturalSpline // fit to (x, x·y)
	ys     []float64           // original y knots, for YValues
	smallX float64
}

// Interpolate returns p(x)/x.
func (b *boundProductSpline) Interpolate(x float64) (float64, error) {
	if err := b.checkQuery(x); err != nil {
		return 0, err
	}
	px, err := b.base.Interpolate(x)
	if err != nil {
		return 0, err
	}

	return px / x, nil
}

// FirstDerivative returns (p′(x) − y(x))/x by the quotient rule.
func (b *boundProductSpline) FirstDerivative(x float64) (float64, error) {
	if err := b.checkQuery(x); err != nil {
		return 0, err
	}
	px, err := b.base.Interpolate(x)
	if err != nil {
		return 0, err
	}
	slope, err := b.base.FirstDerivative(x)
	if err != nil {
		return 0, err
	}

	return (slope - px/x) / x, nil
}

// ParameterSensitivity is not available in closed form on the simple product
// variant; it always fails with ErrSensitivityUnsupported.
func (b *boundProductSpline) ParameterSensitivity(x float64) ([]float64, error) {
	return nil, fmt.Errorf("ProductNaturalSpline.ParameterSensitivity: %w", ErrSensitivityUnsupported)
}

// XValues returns a copy of the bound x knots.
func (b *boundProductSpline) XValues() []float64 { return b.base.XValues() }

// YValues returns a copy of the bound y knots (original space, not x·y).
func (b *boundProductSpline) YValues() []float64 { return append([]float64(nil), b.ys...) }

// checkQuery applies the small-|x| guard before any division by x.
func (b *boundProductSpline) checkQuery(x float64) error {
	if math.Abs(x) < b.smallX {
		return fmt.Errorf("|%v| below guard %v: %w", x, b.smallX, ErrNearZeroQuery)
	}

	return nil
}
