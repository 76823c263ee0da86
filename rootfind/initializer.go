package rootfind

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/selyco/strata/linalg"
)

// InverseJacobianInitializer seeds a root-finder run with an estimate of the
// inverse Jacobian at the starting point: estimate J(x₀), factorize it with
// the configured decomposition strategy, and invert via the factors.
//
// The decomposition is the expensive part of the whole finder — it runs
// exactly once here; every later iteration refines the estimate with a cheap
// secant correction instead.
//
// For a well-conditioned J(x₀) the product M·J(x₀) approximates the identity
// matrix to within 1e-6. A near-singular J(x₀) surfaces as
// linalg.ErrSingular or linalg.ErrIllConditioned, never as a silently
// degenerate matrix.
type InverseJacobianInitializer struct {
	dec linalg.Decomposer
}

// NewInverseJacobianInitializer builds an initializer around the supplied
// decomposition strategy. A nil strategy fails with ErrNilDecomposer.
func NewInverseJacobianInitializer(dec linalg.Decomposer) (*InverseJacobianInitializer, error) {
	if dec == nil {
		return nil, ErrNilDecomposer
	}

	return &InverseJacobianInitializer{dec: dec}, nil
}

// InitializedMatrix estimates [J(x₀)]⁻¹ for the Jacobian function jac at x₀.
//
// Validation (in order):
//  1. jac must be non-nil (ErrNilFunction).
//  2. x₀ must be non-nil (ErrNilPoint) and non-empty (ErrEmptyPoint).
//  3. jac(x₀) must be square of matching dimension (ErrDimensionMismatch).
//
// Complexity: one Jacobian evaluation plus O(n³) for decompose-and-invert.
func (ini *InverseJacobianInitializer) InitializedMatrix(jac JacobianFunc, x0 *mat.VecDense) (*mat.Dense, error) {
	if jac == nil {
		return nil, ErrNilFunction
	}
	if x0 == nil {
		return nil, ErrNilPoint
	}
	n := x0.Len()
	if n == 0 {
		return nil, ErrEmptyPoint
	}

	j, err := jac(x0)
	if err != nil {
		return nil, fmt.Errorf("InitializedMatrix: %w", err)
	}
	jr, jc := j.Dims()
	if jr != n || jc != n {
		return nil, fmt.Errorf("InitializedMatrix: jacobian is %dx%d for dimension %d: %w",
			jr, jc, n, ErrDimensionMismatch)
	}

	factors, err := ini.dec.Decompose(j)
	if err != nil {
		return nil, fmt.Errorf("InitializedMatrix: %w", err)
	}
	m, err := factors.Inverse()
	if err != nil {
		return nil, fmt.Errorf("InitializedMatrix: %w", err)
	}

	return m, nil
}
