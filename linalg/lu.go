package linalg

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// LU is the Doolittle LU decomposition strategy, A = L·U with unit lower
// triangular L and upper triangular U.
//
// Blueprint:
//
//	Stage 1 (Validate): ensure the matrix is square.
//	Stage 2 (Decompose): Doolittle sweep, no pivoting (intentional for
//	        determinism and simplicity); a pivot below the configured
//	        tolerance fails with ErrSingular.
//	Stage 3 (Finalize): capture L and U in an immutable Decomposition;
//	        solves run by forward then backward substitution.
//
// Complexity: O(n³) time for Decompose, O(n²) per subsequent solve.
type LU struct {
	opts Options
}

// NewLU returns the Doolittle LU strategy. The pivot tolerance defaults to
// DefaultPivotTolerance and may be overridden with WithPivotTolerance.
func NewLU(opts ...Option) *LU {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &LU{opts: cfg}
}

// Name reports the strategy name.
func (l *LU) Name() string { return "LU" }

// Decompose performs the Doolittle sweep on a.
func (l *LU) Decompose(a mat.Matrix) (Decomposition, error) {
	// Stage 1: Validate input shape.
	n, err := checkSquare(a)
	if err != nil {
		return nil, fmt.Errorf("LU.Decompose: %w", err)
	}

	// Stage 2: Prepare L (unit diagonal) and U.
	lower := mat.NewDense(n, n, nil)
	upper := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		lower.Set(i, i, 1)
	}

	// Stage 3: Execute the decomposition, row i of U then column i of L.
	var sum float64
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sum = 0
			for k := 0; k < i; k++ {
				sum += lower.At(i, k) * upper.At(k, j)
			}
			upper.Set(i, j, a.At(i, j)-sum)
		}
		pivot := upper.At(i, i)
		if math.Abs(pivot) < l.opts.PivotTolerance {
			return nil, fmt.Errorf("LU.Decompose: pivot %.3e at row %d below tolerance %.3e: %w",
				pivot, i, l.opts.PivotTolerance, ErrSingular)
		}
		for j := i + 1; j < n; j++ {
			sum = 0
			for k := 0; k < i; k++ {
				sum += lower.At(j, k) * upper.At(k, i)
			}
			lower.Set(j, i, (a.At(j, i)-sum)/pivot)
		}
	}

	// Stage 4: Finalize and return.
	return &luFactors{n: n, l: lower, u: upper}, nil
}

// luFactors is the immutable result of one Doolittle decomposition.
type luFactors struct {
	n int
	l *mat.Dense // unit lower triangular
	u *mat.Dense // upper triangular
}

// SolveVec solves A·x = b by forward substitution (L·y = b) followed by
// backward substitution (U·x = y).
func (f *luFactors) SolveVec(b *mat.VecDense) (*mat.VecDense, error) {
	if b == nil {
		return nil, fmt.Errorf("LU.SolveVec: %w", ErrNilMatrix)
	}
	if b.Len() != f.n {
		return nil, fmt.Errorf("LU.SolveVec: rhs length %d, system dimension %d: %w",
			b.Len(), f.n, ErrDimensionMismatch)
	}

	x := mat.NewVecDense(f.n, nil)
	f.substitute(b.RawVector().Data, x.RawVector().Data)

	return x, nil
}

// Solve solves A·X = B column-by-column.
func (f *luFactors) Solve(b mat.Matrix) (*mat.Dense, error) {
	if b == nil {
		return nil, fmt.Errorf("LU.Solve: %w", ErrNilMatrix)
	}
	br, bc := b.Dims()
	if br != f.n {
		return nil, fmt.Errorf("LU.Solve: rhs has %d rows, system dimension %d: %w",
			br, f.n, ErrDimensionMismatch)
	}

	x := mat.NewDense(f.n, bc, nil)
	col := make([]float64, f.n)
	out := make([]float64, f.n)
	for j := 0; j < bc; j++ {
		for i := 0; i < f.n; i++ {
			col[i] = b.At(i, j)
		}
		f.substitute(col, out)
		for i := 0; i < f.n; i++ {
			x.Set(i, j, out[i])
		}
	}

	return x, nil
}

// Inverse solves A·X = I column-by-column: for each identity column eᵢ,
// L·y = eᵢ then U·x = y, assembling the columns into A⁻¹.
func (f *luFactors) Inverse() (*mat.Dense, error) {
	inv := mat.NewDense(f.n, f.n, nil)
	e := make([]float64, f.n)
	out := make([]float64, f.n)
	for j := 0; j < f.n; j++ {
		for i := range e {
			e[i] = 0
		}
		e[j] = 1
		f.substitute(e, out)
		for i := 0; i < f.n; i++ {
			inv.Set(i, j, out[i])
		}
	}

	return inv, nil
}

// substitute solves L·U·x = b into x. Pivots were validated at Decompose
// time, so the divisions here are safe.
func (f *luFactors) substitute(b, x []float64) {
	n := f.n

	// Forward: L·y = b, exploiting the unit diagonal of L.
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := b[i]
		for k := 0; k < i; k++ {
			sum -= f.l.At(i, k) * y[k]
		}
		y[i] = sum
	}

	// Backward: U·x = y.
	for i := n - 1; i >= 0; i-- {
		sum := y[i]
		for k := i + 1; k < n; k++ {
			sum -= f.u.At(i, k) * x[k]
		}
		x[i] = sum / f.u.At(i, i)
	}
}
