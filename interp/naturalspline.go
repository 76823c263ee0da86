package interp

import (
	"fmt"
	"math"
	"sort"
)

// NaturalSpline returns the natural cubic spline variant: a C² piecewise
// cubic through the knots with zero second derivative at both ends.
//
// Blueprint of Bind:
//
//	Stage 1 (Validate): equal lengths, ≥ MinKnots, strictly increasing x,
//	        finite values only.
//	Stage 2 (Fit): solve the tridiagonal second-derivative system with the
//	        Thomas algorithm (the system is strictly diagonally dominant,
//	        so no pivoting is required).
//	Stage 3 (Sensitivity basis): the fit is linear in y, so the sensitivity
//	        of the curve to knot j is itself a spline bound to the unit
//	        vector eⱼ; the basis fits are precomputed here.
//	Stage 4 (Finalize): capture knots, curvatures and basis in an immutable
//	        Bound value.
//
// Complexity: O(n²) Bind (n tridiagonal solves for the basis),
// O(log n) per query, O(n·log n) per sensitivity query.
func NaturalSpline() Interpolator { return naturalSpline{} }

type naturalSpline struct{}

// Name reports the variant name.
func (naturalSpline) Name() string { return "NaturalSpline" }

// Bind fits the spline to the knot set.
func (naturalSpline) Bind(xs, ys []float64) (Bound, error) {
	// Stage 1: Validate the knot set.
	if err := validateKnots(xs, ys); err != nil {
		return nil, fmt.Errorf("NaturalSpline.Bind: %w", err)
	}
	n := len(xs)

	// Copy: the Bound must stay immutable even if the caller reuses slices.
	bx := append([]float64(nil), xs...)
	by := append([]float64(nil), ys...)

	// Stage 2: Fit the knot curvatures.
	m := fitCurvatures(bx, by)

	// Stage 3: Precompute the per-knot sensitivity basis.
	basisY := make([][]float64, n)
	basisM := make([][]float64, n)
	unit := make([]float64, n)
	for j := 0; j < n; j++ {
		unit[j] = 1
		basisY[j] = append([]float64(nil), unit...)
		basisM[j] = fitCurvatures(bx, unit)
		unit[j] = 0
	}

	// Stage 4: Finalize.
	return &boundNaturalSpline{xs: bx, ys: by, m: m, basisY: basisY, basisM: basisM}, nil
}

// boundNaturalSpline is an immutable natural cubic spline fit.
type boundNaturalSpline struct {
	xs, ys []float64
	m      []float64 // second derivatives at the knots, m[0] = m[n-1] = 0

	basisY [][]float64 // unit y-vectors, basisY[j] = eⱼ
	basisM [][]float64 // curvatures of the spline bound to eⱼ
}

// Interpolate returns the spline value at x. Knot abscissae reproduce their
// y values exactly.
func (b *boundNaturalSpline) Interpolate(x float64) (float64, error) {
	if err := b.checkDomain(x); err != nil {
		return 0, err
	}
	// Exact pass-through at the knots themselves.
	if i := sort.SearchFloat64s(b.xs, x); i < len(b.xs) && b.xs[i] == x {
		return b.ys[i], nil
	}
	i := segment(b.xs, x)

	return splineValue(b.xs, b.ys, b.m, i, x), nil
}

// FirstDerivative returns dy/dx at x.
func (b *boundNaturalSpline) FirstDerivative(x float64) (float64, error) {
	if err := b.checkDomain(x); err != nil {
		return 0, err
	}
	i := segment(b.xs, x)

	return splineSlope(b.xs, b.ys, b.m, i, x), nil
}

// ParameterSensitivity returns ∂y(x)/∂yⱼ for every knot j. The spline fit is
// linear in y, so each component is the basis spline for eⱼ evaluated at x.
func (b *boundNaturalSpline) ParameterSensitivity(x float64) ([]float64, error) {
	if err := b.checkDomain(x); err != nil {
		return nil, err
	}
	i := segment(b.xs, x)

	out := make([]float64, len(b.xs))
	for j := range out {
		out[j] = splineValue(b.xs, b.basisY[j], b.basisM[j], i, x)
	}

	return out, nil
}

// XValues returns a copy of the bound x knots.
func (b *boundNaturalSpline) XValues() []float64 { return append([]float64(nil), b.xs...) }

// YValues returns a copy of the bound y knots.
func (b *boundNaturalSpline) YValues() []float64 { return append([]float64(nil), b.ys...) }

// checkDomain rejects queries outside [x₀, xₙ₋₁].
func (b *boundNaturalSpline) checkDomain(x float64) error {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return fmt.Errorf("query %v: %w", x, ErrNaNInf)
	}
	if x < b.xs[0] || x > b.xs[len(b.xs)-1] {
		return fmt.Errorf("query %v outside [%v, %v]: %w", x, b.xs[0], b.xs[len(b.xs)-1], ErrOutOfDomain)
	}

	return nil
}

// validateKnots enforces the shared knot-set invariants.
func validateKnots(xs, ys []float64) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("x has %d knots, y has %d: %w", len(xs), len(ys), ErrLengthMismatch)
	}
	if len(xs) < MinKnots {
		return fmt.Errorf("%d knots, need at least %d: %w", len(xs), MinKnots, ErrTooFewKnots)
	}
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsInf(xs[i], 0) || math.IsNaN(ys[i]) || math.IsInf(ys[i], 0) {
			return fmt.Errorf("knot %d: %w", i, ErrNaNInf)
		}
		if i > 0 && xs[i] <= xs[i-1] {
			return fmt.Errorf("knot %d: x[%d]=%v, x[%d]=%v: %w", i, i-1, xs[i-1], i, xs[i], ErrNotIncreasing)
		}
	}

	return nil
}

// fitCurvatures solves the natural-spline tridiagonal system for the knot
// second derivatives. With natural boundaries m[0] = m[n-1] = 0 the interior
// equations are
//
//	hᵢ₋₁·mᵢ₋₁ + 2(hᵢ₋₁+hᵢ)·mᵢ + hᵢ·mᵢ₊₁ = 6·((yᵢ₊₁−yᵢ)/hᵢ − (yᵢ−yᵢ₋₁)/hᵢ₋₁)
//
// solved by the Thomas algorithm; the matrix is strictly diagonally dominant,
// so the forward sweep never divides by zero.
func fitCurvatures(xs, ys []float64) []float64 {
	n := len(xs)
	m := make([]float64, n)
	if n == MinKnots {
		return m // straight line, zero curvature
	}

	interior := n - 2
	diag := make([]float64, interior)
	rhs := make([]float64, interior)
	for i := 1; i <= interior; i++ {
		h0 := xs[i] - xs[i-1]
		h1 := xs[i+1] - xs[i]
		diag[i-1] = 2 * (h0 + h1)
		rhs[i-1] = 6 * ((ys[i+1]-ys[i])/h1 - (ys[i]-ys[i-1])/h0)
	}

	// Thomas forward sweep: eliminate the sub-diagonal hᵢ₋₁.
	for i := 1; i < interior; i++ {
		h := xs[i+1] - xs[i] // sub- and super-diagonal coupling h between rows i-1 and i
		w := h / diag[i-1]
		diag[i] -= w * h
		rhs[i] -= w * rhs[i-1]
	}

	// Backward substitution into the interior of m.
	m[interior] = rhs[interior-1] / diag[interior-1]
	for i := interior - 1; i >= 1; i-- {
		h := xs[i+1] - xs[i]
		m[i] = (rhs[i-1] - h*m[i+1]) / diag[i-1]
	}

	return m
}

// segment returns the index i of the interval [xs[i], xs[i+1]] containing x.
// Assumes x is inside the domain.
func segment(xs []float64, x float64) int {
	i := sort.SearchFloat64s(xs, x)
	if i > 0 {
		i--
	}
	if i > len(xs)-2 {
		i = len(xs) - 2
	}

	return i
}

// splineValue evaluates the cubic on segment i at x.
func splineValue(xs, ys, m []float64, i int, x float64) float64 {
	h := xs[i+1] - xs[i]
	t := x - xs[i]
	b := (ys[i+1]-ys[i])/h - h*(2*m[i]+m[i+1])/6
	c := m[i] / 2
	d := (m[i+1] - m[i]) / (6 * h)

	return ys[i] + t*(b+t*(c+t*d))
}

// splineSlope evaluates the first derivative of the cubic on segment i at x.
func splineSlope(xs, ys, m []float64, i int, x float64) float64 {
	h := xs[i+1] - xs[i]
	t := x - xs[i]
	b := (ys[i+1]-ys[i])/h - h*(2*m[i]+m[i+1])/6

	return b + t*(m[i]+t*(m[i+1]-m[i])/(2*h))
}
