package interp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selyco/strata/interp"
)

// bindProductPair binds the product variant to (xs, ys) and the base natural
// spline to (xs, xs·ys), so tests can compare the two fits directly.
func bindProductPair(t *testing.T, xs, ys []float64) (interp.Bound, interp.Bound) {
	t.Helper()
	ps := make([]float64, len(xs))
	for i := range xs {
		ps[i] = xs[i] * ys[i]
	}
	bound, err := interp.ProductNaturalSpline().Bind(xs, ys)
	require.NoError(t, err)
	base, err := interp.NaturalSpline().Bind(xs, ps)
	require.NoError(t, err)

	return bound, base
}

// ------------------------------------------------------------------------
// 1. Positive domain: the product fit is exactly the base fit divided by x.
// ------------------------------------------------------------------------

func TestProductSpline_PositiveDomain(t *testing.T) {
	bound, base := bindProductPair(t, knotX, knotY)

	keys := []float64{0.5, 0.7, 1.2, 7.8, 10.0, 17.52, 25.0, 30.0}
	for _, x := range keys {
		got, err := bound.Interpolate(x)
		require.NoError(t, err)
		want, err := base.Interpolate(x)
		require.NoError(t, err)
		assert.InDelta(t, want/x, got, 1e-12, "value at %v", x)

		// Central differencing needs room on both sides, so the domain
		// endpoints are value-only checks.
		if x-1e-6 < knotX[0] || x+1e-6 > knotX[len(knotX)-1] {
			continue
		}
		deriv, err := bound.FirstDerivative(x)
		require.NoError(t, err)
		fd := productCentralDiff(t, bound, x, 1e-6)
		assert.InDelta(t, fd, deriv, 1e-6, "derivative at %v", x)
	}
}

// ------------------------------------------------------------------------
// 2. Negative domain: no hidden assumption of x > 0.
// ------------------------------------------------------------------------

func TestProductSpline_NegativeDomain(t *testing.T) {
	xs := []float64{-34.5, -27.0, -22.5, -14.2, -10.0, -5.0, -0.3}
	ys := []float64{4.0, 2.0, 1.0, 5.0, 10.0, 3.5, -2.0}
	bound, base := bindProductPair(t, xs, ys)

	keys := []float64{-34.5, -27.7, -21.2, -17.8, -10.0, -1.52, -0.35, -0.3}
	for _, x := range keys {
		got, err := bound.Interpolate(x)
		require.NoError(t, err)
		want, err := base.Interpolate(x)
		require.NoError(t, err)
		assert.InDelta(t, want/x, got, 1e-12, "value at %v", x)

		if x-1e-6 < xs[0] || x+1e-6 > xs[len(xs)-1] {
			continue
		}
		deriv, err := bound.FirstDerivative(x)
		require.NoError(t, err)
		fd := productCentralDiff(t, bound, x, 1e-6)
		assert.InDelta(t, fd, deriv, 1e-6, "derivative at %v", x)
	}
}

func TestProductSpline_DomainNegationSymmetry(t *testing.T) {
	// Mirroring the knots (x → −x, order reversed) mirrors the fit:
	// value is symmetric, derivative anti-symmetric.
	n := len(knotX)
	negX := make([]float64, n)
	negY := make([]float64, n)
	for i := 0; i < n; i++ {
		negX[i] = -knotX[n-1-i]
		negY[i] = knotY[n-1-i]
	}
	pos, err := interp.ProductNaturalSpline().Bind(knotX, knotY)
	require.NoError(t, err)
	neg, err := interp.ProductNaturalSpline().Bind(negX, negY)
	require.NoError(t, err)

	for _, x := range []float64{0.5, 1.7, 7.8, 12.0, 30.0} {
		vp, err := pos.Interpolate(x)
		require.NoError(t, err)
		vn, err := neg.Interpolate(-x)
		require.NoError(t, err)
		assert.InDelta(t, vp, vn, 1e-12, "value symmetry at %v", x)

		dp, err := pos.FirstDerivative(x)
		require.NoError(t, err)
		dn, err := neg.FirstDerivative(-x)
		require.NoError(t, err)
		assert.InDelta(t, dp, -dn, 1e-9, "derivative anti-symmetry at %v", x)
	}
}

// ------------------------------------------------------------------------
// 3. Guard rails: near-zero queries and unsupported sensitivity.
// ------------------------------------------------------------------------

func TestProductSpline_NearZeroQueryFails(t *testing.T) {
	// Tiny positive knot domain, query below the default 1e-12 guard: the
	// back-transform division must be refused, never evaluated.
	bound, err := interp.ProductNaturalSpline().Bind(
		[]float64{1e-13, 3e-8, 2e-5},
		[]float64{1.0, 13.2, 1.5},
	)
	require.NoError(t, err)

	_, err = bound.Interpolate(5e-13)
	require.ErrorIs(t, err, interp.ErrNearZeroQuery)
	_, err = bound.FirstDerivative(5e-13)
	require.ErrorIs(t, err, interp.ErrNearZeroQuery)
}

func TestProductSpline_WithSmallXGuard(t *testing.T) {
	bound, err := interp.ProductNaturalSpline(interp.WithSmallX(1e-3)).Bind(
		[]float64{-2, -1, 1, 2},
		[]float64{3, 1, 2, 5},
	)
	require.NoError(t, err)

	_, err = bound.Interpolate(5e-4)
	require.ErrorIs(t, err, interp.ErrNearZeroQuery)

	// Above the guard the query proceeds normally.
	_, err = bound.Interpolate(1.5)
	require.NoError(t, err)
}

func TestProductSpline_SmallXOptionValidation(t *testing.T) {
	require.Panics(t, func() { interp.ProductNaturalSpline(interp.WithSmallX(0)) })
}

func TestProductSpline_SensitivityUnsupported(t *testing.T) {
	bound, err := interp.ProductNaturalSpline().Bind(knotX, knotY)
	require.NoError(t, err)

	_, err = bound.ParameterSensitivity(7.8)
	require.ErrorIs(t, err, interp.ErrSensitivityUnsupported)
}

func TestProductSpline_KnotsReproduced(t *testing.T) {
	bound, err := interp.ProductNaturalSpline().Bind(knotX, knotY)
	require.NoError(t, err)

	for i, x := range knotX {
		got, err := bound.Interpolate(x)
		require.NoError(t, err)
		assert.InDelta(t, knotY[i], got, 1e-12, "knot %d", i)
	}
}

// productCentralDiff estimates the derivative with a central difference.
// Callers must keep x ± h inside the bound domain.
func productCentralDiff(t *testing.T, b interp.Bound, x, h float64) float64 {
	t.Helper()
	vUp, err := b.Interpolate(x + h)
	require.NoError(t, err)
	vDn, err := b.Interpolate(x - h)
	require.NoError(t, err)

	return (vUp - vDn) / (2 * h)
}
