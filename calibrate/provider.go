package calibrate

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/selyco/strata/interp"
)

// SplineProviderGenerator builds discounting curve providers from zero-rate
// parameter vectors. The knot times and the interpolation variant are fixed
// at construction; each Generate call binds a brand-new curve to the
// candidate rates, so providers never share state.
//
// The resulting provider exposes df(t) = exp(−z(t)·t), where z is the bound
// zero-rate curve. Times outside the knot domain surface the interpolator's
// domain error — extrapolation policy belongs to the caller.
type SplineProviderGenerator struct {
	name         string
	times        []float64
	interpolator interp.Interpolator
}

// NewSplineProviderGenerator validates and captures the curve skeleton.
//
// Validation (in order):
//  1. times must be non-empty (ErrNoKnotTimes); ordering and finiteness are
//     enforced later by the interpolator's own Bind validation.
//  2. interpolator must be non-nil (ErrNilInterpolator).
func NewSplineProviderGenerator(curveName string, times []float64, ip interp.Interpolator) (*SplineProviderGenerator, error) {
	if len(times) == 0 {
		return nil, ErrNoKnotTimes
	}
	if ip == nil {
		return nil, ErrNilInterpolator
	}

	return &SplineProviderGenerator{
		name:         curveName,
		times:        append([]float64(nil), times...),
		interpolator: ip,
	}, nil
}

// Size returns the number of knot times, the parameter dimension Generate
// expects.
func (g *SplineProviderGenerator) Size() int { return len(g.times) }

// Generate binds a fresh zero-rate curve to the candidate parameter vector.
func (g *SplineProviderGenerator) Generate(x *mat.VecDense) (CurveProvider, error) {
	if x == nil {
		return nil, ErrNilParameters
	}
	if x.Len() != len(g.times) {
		return nil, fmt.Errorf("Generate: %d parameters for %d knot times: %w",
			x.Len(), len(g.times), ErrDimensionMismatch)
	}

	rates := make([]float64, x.Len())
	for i := range rates {
		rates[i] = x.AtVec(i)
	}
	bound, err := g.interpolator.Bind(g.times, rates)
	if err != nil {
		return nil, fmt.Errorf("Generate: %w", err)
	}

	return &splineProvider{name: g.name, bound: bound}, nil
}

// splineProvider is one immutable discounting surface.
type splineProvider struct {
	name  string
	bound interp.Bound
}

// DiscountFactor returns exp(−z(t)·t) from the bound zero-rate curve.
func (p *splineProvider) DiscountFactor(t float64) (float64, error) {
	z, err := p.bound.Interpolate(t)
	if err != nil {
		return 0, fmt.Errorf("DiscountFactor: %w", err)
	}

	return math.Exp(-z * t), nil
}

// Curve returns the bound zero-rate curve by name.
func (p *splineProvider) Curve(name string) (interp.Bound, error) {
	if name != p.name {
		return nil, fmt.Errorf("Curve: %q (provider holds %q): %w", name, p.name, ErrUnknownCurve)
	}

	return p.bound, nil
}
