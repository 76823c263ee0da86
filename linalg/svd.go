package linalg

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SVD is the singular-value decomposition strategy, A = U·Σ·Vᵀ.
//
// Blueprint:
//
//	Stage 1 (Validate): ensure the matrix is square and finite-dimensional.
//	Stage 2 (Factorize): thin SVD via gonum.
//	Stage 3 (Inspect): read the singular spectrum; σ_min ≤ 0 is singular,
//	        σ_max/σ_min above the configured limit is ill-conditioned.
//	Stage 4 (Finalize): capture U, V and Σ in an immutable Decomposition.
//
// Complexity: O(n³) time for Decompose, O(n²) per subsequent solve.
type SVD struct {
	opts Options
}

// NewSVD returns the SVD decomposition strategy. The condition-number limit
// defaults to DefaultConditionLimit and may be overridden with
// WithConditionLimit.
func NewSVD(opts ...Option) *SVD {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &SVD{opts: cfg}
}

// Name reports the strategy name.
func (s *SVD) Name() string { return "SVD" }

// Decompose factorizes a and validates its singular spectrum.
// A singular or ill-conditioned matrix surfaces as an explicit error rather
// than a degenerate factorization.
func (s *SVD) Decompose(a mat.Matrix) (Decomposition, error) {
	// Stage 1: Validate input shape.
	n, err := checkSquare(a)
	if err != nil {
		return nil, fmt.Errorf("SVD.Decompose: %w", err)
	}

	// Stage 2: Factorize. Thin SVD is sufficient: for a square matrix it
	// yields full n×n U and V factors.
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, fmt.Errorf("SVD.Decompose: factorization did not converge: %w", ErrSingular)
	}

	// Stage 3: Inspect the singular spectrum. Values are returned in
	// descending order, so the extremes sit at the ends.
	sigma := svd.Values(nil)
	sigmaMax, sigmaMin := sigma[0], sigma[n-1]
	if sigmaMin <= 0 {
		return nil, fmt.Errorf("SVD.Decompose: zero singular value: %w", ErrSingular)
	}
	cond := sigmaMax / sigmaMin
	if cond > s.opts.ConditionLimit {
		return nil, fmt.Errorf("SVD.Decompose: condition number %.3e exceeds limit %.3e: %w",
			cond, s.opts.ConditionLimit, ErrIllConditioned)
	}

	// Stage 4: Capture the factors.
	u := mat.NewDense(n, n, nil)
	v := mat.NewDense(n, n, nil)
	svd.UTo(u)
	svd.VTo(v)

	return &svdFactors{n: n, u: u, v: v, sigma: sigma, cond: cond}, nil
}

// svdFactors is the immutable result of one SVD factorization.
type svdFactors struct {
	n     int
	u     *mat.Dense // left singular vectors, n×n
	v     *mat.Dense // right singular vectors, n×n
	sigma []float64  // singular values, descending
	cond  float64    // σ_max / σ_min
}

// ConditionNumber reports σ_max/σ_min of the factorized matrix.
func (f *svdFactors) ConditionNumber() float64 { return f.cond }

// SolveVec solves A·x = b as x = V·Σ⁻¹·Uᵀ·b.
func (f *svdFactors) SolveVec(b *mat.VecDense) (*mat.VecDense, error) {
	if b == nil {
		return nil, fmt.Errorf("SVD.SolveVec: %w", ErrNilMatrix)
	}
	if b.Len() != f.n {
		return nil, fmt.Errorf("SVD.SolveVec: rhs length %d, system dimension %d: %w",
			b.Len(), f.n, ErrDimensionMismatch)
	}

	// w = Uᵀ·b, scaled by Σ⁻¹.
	w := mat.NewVecDense(f.n, nil)
	w.MulVec(f.u.T(), b)
	for i := 0; i < f.n; i++ {
		w.SetVec(i, w.AtVec(i)/f.sigma[i])
	}

	// x = V·w.
	x := mat.NewVecDense(f.n, nil)
	x.MulVec(f.v, w)

	return x, nil
}

// Solve solves A·X = B as X = V·Σ⁻¹·Uᵀ·B.
func (f *svdFactors) Solve(b mat.Matrix) (*mat.Dense, error) {
	if b == nil {
		return nil, fmt.Errorf("SVD.Solve: %w", ErrNilMatrix)
	}
	br, bc := b.Dims()
	if br != f.n {
		return nil, fmt.Errorf("SVD.Solve: rhs has %d rows, system dimension %d: %w",
			br, f.n, ErrDimensionMismatch)
	}

	// W = Uᵀ·B, rows scaled by Σ⁻¹.
	w := mat.NewDense(f.n, bc, nil)
	w.Mul(f.u.T(), b)
	for i := 0; i < f.n; i++ {
		for j := 0; j < bc; j++ {
			w.Set(i, j, w.At(i, j)/f.sigma[i])
		}
	}

	// X = V·W.
	x := mat.NewDense(f.n, bc, nil)
	x.Mul(f.v, w)

	return x, nil
}

// Inverse returns A⁻¹ = V·Σ⁻¹·Uᵀ.
func (f *svdFactors) Inverse() (*mat.Dense, error) {
	// Σ⁻¹·Uᵀ first: scale the rows of Uᵀ by the reciprocal spectrum.
	su := mat.NewDense(f.n, f.n, nil)
	su.Copy(f.u.T())
	for i := 0; i < f.n; i++ {
		for j := 0; j < f.n; j++ {
			su.Set(i, j, su.At(i, j)/f.sigma[i])
		}
	}

	inv := mat.NewDense(f.n, f.n, nil)
	inv.Mul(f.v, su)

	return inv, nil
}
