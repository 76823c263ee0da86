package rootfind

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// FiniteDifferenceJacobian adapts a residual function into a JacobianFunc
// using central differences: column j of J(x) is
//
//	(F(x + hⱼ·eⱼ) − F(x − hⱼ·eⱼ)) / (2·hⱼ)
//
// with hⱼ = step·max(1, |xⱼ|) so the perturbation stays meaningful for both
// large and near-zero components.
//
// Complexity: 2n evaluations of f per call, O(n²) memory for the result.
func FiniteDifferenceJacobian(f VectorFunc, step float64) JacobianFunc {
	return func(x *mat.VecDense) (*mat.Dense, error) {
		if f == nil {
			return nil, ErrNilFunction
		}
		if x == nil {
			return nil, ErrNilPoint
		}
		n := x.Len()
		if n == 0 {
			return nil, ErrEmptyPoint
		}

		jac := mat.NewDense(n, n, nil)
		up := mat.NewVecDense(n, nil)
		dn := mat.NewVecDense(n, nil)
		for j := 0; j < n; j++ {
			h := step * math.Max(1, math.Abs(x.AtVec(j)))
			up.CopyVec(x)
			dn.CopyVec(x)
			up.SetVec(j, x.AtVec(j)+h)
			dn.SetVec(j, x.AtVec(j)-h)

			fUp, err := f(up)
			if err != nil {
				return nil, fmt.Errorf("FiniteDifferenceJacobian: %w", err)
			}
			fDn, err := f(dn)
			if err != nil {
				return nil, fmt.Errorf("FiniteDifferenceJacobian: %w", err)
			}
			if fUp.Len() != n || fDn.Len() != n {
				return nil, fmt.Errorf("FiniteDifferenceJacobian: residual length %d at dimension %d: %w",
					fUp.Len(), n, ErrDimensionMismatch)
			}

			inv2h := 1 / (2 * h)
			for i := 0; i < n; i++ {
				jac.Set(i, j, (fUp.AtVec(i)-fDn.AtVec(i))*inv2h)
			}
		}

		return jac, nil
	}
}

// checkFinite returns ErrNonFiniteResidual if any entry of v is NaN or ±Inf.
func checkFinite(v *mat.VecDense) error {
	for i := 0; i < v.Len(); i++ {
		if e := v.AtVec(i); math.IsNaN(e) || math.IsInf(e, 0) {
			return fmt.Errorf("entry %d is %v: %w", i, e, ErrNonFiniteResidual)
		}
	}

	return nil
}
