package calibrate

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/selyco/strata/linalg"
	"github.com/selyco/strata/rootfind"
)

const (
	// DefaultTolerance is the calibration-grade residual norm threshold.
	DefaultTolerance = 1e-9

	// DefaultMaxIterations bounds a single calibration run.
	DefaultMaxIterations = 100
)

// Options configures a Calibrator.
//
// Tolerance     – residual norm threshold handed to the root finder. Must be > 0.
// MaxIterations – iteration budget of one run. Must be > 0.
// Decomposer    – strategy for the one-time Jacobian inversion. Must be non-nil.
type Options struct {
	Tolerance     float64
	MaxIterations int
	Decomposer    linalg.Decomposer
}

// Option represents a functional option for configuring a Calibrator.
type Option func(*Options)

// WithTolerance sets the residual norm threshold.
// Must pass a positive value; zero or negative values panic.
func WithTolerance(tol float64) Option {
	return func(o *Options) {
		if tol <= 0 {
			panic("calibrate: tolerance must be positive")
		}
		o.Tolerance = tol
	}
}

// WithMaxIterations sets the per-run iteration budget.
// Must pass a positive value; zero or negative values panic.
func WithMaxIterations(n int) Option {
	return func(o *Options) {
		if n <= 0 {
			panic("calibrate: max iterations must be positive")
		}
		o.MaxIterations = n
	}
}

// WithDecomposer selects the decomposition strategy for the one-time
// Jacobian inversion. Must pass a non-nil strategy; nil panics.
func WithDecomposer(d linalg.Decomposer) Option {
	return func(o *Options) {
		if d == nil {
			panic("calibrate: decomposer must be non-nil")
		}
		o.Decomposer = d
	}
}

// DefaultOptions returns calibration-grade defaults: tolerance 1e-9,
// 100 iterations, SVD decomposition.
func DefaultOptions() Options {
	return Options{
		Tolerance:     DefaultTolerance,
		MaxIterations: DefaultMaxIterations,
		Decomposer:    linalg.NewSVD(),
	}
}

// Calibrator drives a calibration Value through the Broyden root finder so
// that the fitted curve reprices every instrument to its market quote.
//
// A Calibrator is immutable and safe to share: each Calibrate call owns its
// entire run state, so independent curve groups, trade books or scenarios
// calibrate concurrently with no locking. One run is strictly sequential —
// iteration k+1 needs the residual and inverse-Jacobian state of iteration k.
//
// A run either converges within tolerance or fails explicitly: non-converged
// budgets surface rootfind.ErrMaxIterations, stalled secant updates surface
// rootfind.ErrStalledUpdate, both wrapped in a *rootfind.ConvergenceError
// carrying the best iterate found. There is no "close enough" success.
type Calibrator struct {
	opts Options
}

// NewCalibrator builds a Calibrator with the supplied options.
func NewCalibrator(opts ...Option) *Calibrator {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Calibrator{opts: cfg}
}

// Calibrate solves for the parameter vector whose residuals vanish, starting
// from guess. The system must be square: one trade per curve parameter.
func (c *Calibrator) Calibrate(value *Value, guess *mat.VecDense) (*rootfind.Result, error) {
	if value == nil {
		return nil, ErrNilValue
	}
	if guess == nil {
		return nil, ErrNilParameters
	}
	if guess.Len() != value.Size() {
		return nil, fmt.Errorf("Calibrate: %d parameters for %d trades: %w",
			guess.Len(), value.Size(), ErrDimensionMismatch)
	}

	return rootfind.Broyden(value.VectorFunc(), guess,
		rootfind.WithTolerance(c.opts.Tolerance),
		rootfind.WithMaxIterations(c.opts.MaxIterations),
		rootfind.WithDecomposer(c.opts.Decomposer),
	)
}
