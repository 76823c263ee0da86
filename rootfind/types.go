// Package rootfind defines the function types, configuration options and
// sentinel errors for Newton-type vector root finding.
//
// The finder drives a parameter vector toward a zero of a residual function.
// The expensive part — estimating and decomposing the Jacobian — happens once,
// at initialization; every later iteration refines the inverse-Jacobian
// estimate with a cheap rank-one secant (Broyden) correction.
//
// Errors (sentinel):
//
//	– ErrNilFunction       if the residual function is nil.
//	– ErrNilPoint          if the starting point is nil.
//	– ErrEmptyPoint        if the starting point has zero length.
//	– ErrNilDecomposer     if the decomposition strategy is nil.
//	– ErrDimensionMismatch if the residual length differs from the parameter length.
//	– ErrNonFiniteResidual if the residual function produced NaN or ±Inf.
//	– ErrStalledUpdate     if the secant denominator is indistinguishable from zero.
//	– ErrMaxIterations     if the iteration budget is exhausted before convergence.
//
// ErrStalledUpdate and ErrMaxIterations arrive wrapped in a *ConvergenceError
// carrying the best iterate found, its residual norm, and the iteration count.
package rootfind

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/selyco/strata/linalg"
)

// VectorFunc is an n → n residual function. The finder seeks x with F(x) = 0.
// Implementations must be deterministic and side-effect free: each call
// returns a freshly allocated vector and never mutates its argument.
type VectorFunc func(x *mat.VecDense) (*mat.VecDense, error)

// JacobianFunc returns the n×n Jacobian of a residual function at x.
// Supply one via WithJacobian when an analytic form exists; otherwise the
// finder falls back to central finite differencing.
type JacobianFunc func(x *mat.VecDense) (*mat.Dense, error)

// Sentinel errors returned by the rootfind package.
var (
	// ErrNilFunction indicates that a nil residual function was supplied.
	ErrNilFunction = errors.New("rootfind: residual function is nil")

	// ErrNilPoint indicates that a nil evaluation point was supplied.
	ErrNilPoint = errors.New("rootfind: evaluation point is nil")

	// ErrEmptyPoint indicates that the evaluation point has zero length.
	ErrEmptyPoint = errors.New("rootfind: evaluation point is empty")

	// ErrNilDecomposer indicates that a nil decomposition strategy was supplied.
	ErrNilDecomposer = errors.New("rootfind: decomposition strategy is nil")

	// ErrDimensionMismatch indicates that the residual vector length differs
	// from the parameter vector length; the finder requires a square system.
	ErrDimensionMismatch = errors.New("rootfind: residual and parameter dimensions differ")

	// ErrNonFiniteResidual indicates that the residual function produced a
	// NaN or ±Inf entry. Surfaced eagerly so that no non-finite value ever
	// enters the secant update.
	ErrNonFiniteResidual = errors.New("rootfind: residual is not finite")

	// ErrStalledUpdate indicates that the secant update denominator was
	// numerically indistinguishable from zero, so the inverse-Jacobian
	// estimate can no longer be refined.
	ErrStalledUpdate = errors.New("rootfind: secant update stalled")

	// ErrMaxIterations indicates that the iteration budget was exhausted
	// before the residual norm met tolerance.
	ErrMaxIterations = errors.New("rootfind: maximum iterations exceeded")
)

const (
	// DefaultTolerance is the residual norm below which a run converges.
	DefaultTolerance = 1e-8

	// DefaultMaxIterations bounds the number of secant iterations.
	DefaultMaxIterations = 100

	// DefaultFiniteDifferenceStep is the base step for the central
	// finite-difference Jacobian estimate, scaled per component.
	DefaultFiniteDifferenceStep = 1e-7

	// stallEpsilon is the relative scale below which the secant denominator
	// δᵀ·M·Δr counts as zero.
	stallEpsilon = 1e-14
)

// ConvergenceError reports a failed run together with its diagnostic state:
// the best iterate seen, that iterate's residual norm, and how many
// iterations ran. It wraps either ErrMaxIterations or ErrStalledUpdate, so
// errors.Is distinguishes the failure kinds.
type ConvergenceError struct {
	// Best is the iterate with the smallest residual norm seen during the run.
	Best *mat.VecDense
	// ResidualNorm is the Euclidean norm of the residual at Best.
	ResidualNorm float64
	// Iterations is the number of completed iterations.
	Iterations int

	kind error
}

// Error implements the error interface.
func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%v (iterations=%d, residual norm=%.6e)", e.kind, e.Iterations, e.ResidualNorm)
}

// Unwrap exposes the failure kind for errors.Is matching.
func (e *ConvergenceError) Unwrap() error { return e.kind }

// Result reports a converged run.
type Result struct {
	// Root is the parameter vector whose residual norm met tolerance.
	Root *mat.VecDense
	// ResidualNorm is the Euclidean norm of the residual at Root.
	ResidualNorm float64
	// Iterations is the number of secant iterations performed; zero when the
	// starting point already met tolerance.
	Iterations int
}

// Options configures a root-finder run.
//
// Tolerance     – residual norm threshold for convergence. Must be > 0.
// MaxIterations – iteration budget. Must be > 0.
// Decomposer    – strategy for the one-time Jacobian inversion. Must be non-nil.
// Jacobian      – optional analytic Jacobian; nil selects finite differencing.
// FDStep        – base step for the finite-difference fallback. Must be > 0.
type Options struct {
	Tolerance     float64
	MaxIterations int
	Decomposer    linalg.Decomposer
	Jacobian      JacobianFunc
	FDStep        float64
}

// Option represents a functional option for configuring the root finder.
type Option func(*Options)

// WithTolerance sets the residual norm convergence threshold.
// Must pass a positive value; zero or negative values panic.
func WithTolerance(tol float64) Option {
	return func(o *Options) {
		if tol <= 0 {
			panic("rootfind: tolerance must be positive")
		}
		o.Tolerance = tol
	}
}

// WithMaxIterations sets the iteration budget.
// Must pass a positive value; zero or negative values panic.
func WithMaxIterations(n int) Option {
	return func(o *Options) {
		if n <= 0 {
			panic("rootfind: max iterations must be positive")
		}
		o.MaxIterations = n
	}
}

// WithDecomposer selects the decomposition strategy used for the one-time
// Jacobian inversion. Must pass a non-nil strategy; nil panics.
func WithDecomposer(d linalg.Decomposer) Option {
	return func(o *Options) {
		if d == nil {
			panic("rootfind: decomposer must be non-nil")
		}
		o.Decomposer = d
	}
}

// WithJacobian supplies an analytic Jacobian, bypassing finite differencing.
func WithJacobian(jac JacobianFunc) Option {
	return func(o *Options) {
		o.Jacobian = jac
	}
}

// WithFiniteDifferenceStep sets the base step of the finite-difference
// Jacobian fallback. Must pass a positive value; zero or negative values panic.
func WithFiniteDifferenceStep(h float64) Option {
	return func(o *Options) {
		if h <= 0 {
			panic("rootfind: finite-difference step must be positive")
		}
		o.FDStep = h
	}
}

// DefaultOptions returns an Options struct initialized with calibration-grade
// defaults: tolerance 1e-8, 100 iterations, SVD decomposition, central
// finite differencing with base step 1e-7.
func DefaultOptions() Options {
	return Options{
		Tolerance:     DefaultTolerance,
		MaxIterations: DefaultMaxIterations,
		Decomposer:    linalg.NewSVD(),
		Jacobian:      nil,
		FDStep:        DefaultFiniteDifferenceStep,
	}
}
