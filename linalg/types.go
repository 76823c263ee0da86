// Package linalg defines decomposition strategies, options and sentinel errors
// for the square linear systems that seed curve calibration.
//
// A Decomposer factorizes a square matrix once; the resulting Decomposition is
// immutable and answers repeated Solve/Inverse queries without refactorizing.
// The set of strategies is closed and selected at construction time:
//
//   - NewSVD — singular-value decomposition (default for calibration seeding);
//     rejects singular and ill-conditioned input instead of returning an
//     unstable factorization.
//   - NewLU  — Doolittle LU without pivoting; deterministic and cheap, fails
//     on a near-zero pivot.
//
// Errors (sentinel):
//
//	– ErrNilMatrix          if a nil matrix is supplied.
//	– ErrEmptyMatrix        if the matrix has a zero dimension.
//	– ErrNonSquare          if the matrix is not square.
//	– ErrDimensionMismatch  if a right-hand side does not match the factors.
//	– ErrSingular           if the matrix is singular (zero singular value or pivot).
//	– ErrIllConditioned     if the condition number exceeds the configured limit.
package linalg

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// Sentinel errors returned by the linalg package. Tests and callers match
// them with errors.Is; context is added at call sites via fmt.Errorf("...: %w").
var (
	// ErrNilMatrix indicates that a nil mat.Matrix was passed to Decompose.
	ErrNilMatrix = errors.New("linalg: matrix is nil")

	// ErrEmptyMatrix indicates that the supplied matrix has a zero dimension.
	ErrEmptyMatrix = errors.New("linalg: matrix has zero dimension")

	// ErrNonSquare signals that a square matrix was required but the input wasn't.
	ErrNonSquare = errors.New("linalg: matrix is not square")

	// ErrDimensionMismatch indicates a right-hand side whose length does not
	// match the factorized system.
	ErrDimensionMismatch = errors.New("linalg: dimension mismatch")

	// ErrSingular is returned when the matrix is singular: a zero singular
	// value in SVD, or a near-zero pivot in the non-pivoting LU scheme.
	ErrSingular = errors.New("linalg: singular matrix")

	// ErrIllConditioned is returned when the condition number of the matrix
	// exceeds the configured limit, so any solution would be numerically
	// meaningless even though the factorization formally exists.
	ErrIllConditioned = errors.New("linalg: condition number exceeds limit")
)

const (
	// DefaultConditionLimit is the largest condition number the SVD strategy
	// accepts before failing with ErrIllConditioned. Roughly 1/machine-epsilon:
	// beyond this scale a double-precision solve carries no significant digits.
	DefaultConditionLimit = 1e15

	// DefaultPivotTolerance is the smallest absolute pivot the LU strategy
	// accepts before declaring the matrix singular.
	DefaultPivotTolerance = 1e-14
)

// Decomposer factorizes a square matrix into an immutable Decomposition.
// Implementations are pure: identical input yields an identical factorization,
// and Decompose never mutates its argument.
type Decomposer interface {
	// Name reports the strategy name (e.g. "SVD", "LU").
	Name() string

	// Decompose factorizes a. It fails with ErrNilMatrix/ErrEmptyMatrix/
	// ErrNonSquare on invalid input, and with ErrSingular/ErrIllConditioned
	// when the matrix cannot be stably factorized.
	Decompose(a mat.Matrix) (Decomposition, error)
}

// Decomposition is an immutable factorization of one square matrix A.
// All methods are side-effect free and safe for concurrent use.
type Decomposition interface {
	// SolveVec solves A·x = b for a single right-hand side.
	SolveVec(b *mat.VecDense) (*mat.VecDense, error)

	// Solve solves A·X = B column-by-column.
	Solve(b mat.Matrix) (*mat.Dense, error)

	// Inverse returns A⁻¹ assembled from the factors.
	Inverse() (*mat.Dense, error)
}

// Options configures a decomposition strategy.
//
// ConditionLimit – largest admissible condition number (SVD only). Must be > 0.
// PivotTolerance – smallest admissible absolute pivot (LU only). Must be > 0.
type Options struct {
	ConditionLimit float64
	PivotTolerance float64
}

// Option represents a functional option for configuring a Decomposer.
type Option func(*Options)

// WithConditionLimit sets the condition-number limit for the SVD strategy.
// Must pass a positive value; zero or negative values panic, as option
// constructors reject impossible configuration eagerly.
func WithConditionLimit(limit float64) Option {
	return func(o *Options) {
		if limit <= 0 {
			panic("linalg: condition limit must be positive")
		}
		o.ConditionLimit = limit
	}
}

// WithPivotTolerance sets the minimum absolute pivot for the LU strategy.
// Must pass a positive value; zero or negative values panic.
func WithPivotTolerance(tol float64) Option {
	return func(o *Options) {
		if tol <= 0 {
			panic("linalg: pivot tolerance must be positive")
		}
		o.PivotTolerance = tol
	}
}

// DefaultOptions returns an Options struct initialized with the package
// defaults. Use this as a starting point for functional-option overrides.
func DefaultOptions() Options {
	return Options{
		ConditionLimit: DefaultConditionLimit,
		PivotTolerance: DefaultPivotTolerance,
	}
}

// checkSquare validates that a is a non-nil, non-empty square matrix and
// returns its dimension. Shared by every strategy in the closed set.
func checkSquare(a mat.Matrix) (int, error) {
	if a == nil {
		return 0, ErrNilMatrix
	}
	r, c := a.Dims()
	if r == 0 || c == 0 {
		return 0, ErrEmptyMatrix
	}
	if r != c {
		return 0, ErrNonSquare
	}

	return r, nil
}
