package rootfind_test

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/selyco/strata/rootfind"
)

// ExampleBroyden solves the intersection of the circle x² + y² = 4 with the
// diagonal x = y, starting from a rough guess.
func ExampleBroyden() {
	f := func(x *mat.VecDense) (*mat.VecDense, error) {
		a, b := x.AtVec(0), x.AtVec(1)
		return mat.NewVecDense(2, []float64{a*a + b*b - 4, a - b}), nil
	}

	res, err := rootfind.Broyden(f, mat.NewVecDense(2, []float64{1.5, 1.0}))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("root: (%.4f, %.4f)\n", res.Root.AtVec(0), res.Root.AtVec(1))
	// Output:
	// root: (1.4142, 1.4142)
}
