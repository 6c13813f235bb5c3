package autodiff_test

import (
	"fmt"

	"github.com/born-ml/dyngraph/autodiff"
	"github.com/born-ml/dyngraph/tensor"
)

func ExampleBackward() {
	x := tensor.FromSlice([]float32{3}, tensor.Shape{1})
	y := autodiff.Mul(x, autodiff.Square(x))
	autodiff.Backward(y)

	fmt.Println(y.Data(), x.Grad())
	// Output: [27] [27]
}

func ExampleBackwardWith() {
	x := tensor.FromSlice([]float32{3}, tensor.Shape{1})
	s := autodiff.Square(x)
	y := autodiff.Add(s, s)
	autodiff.BackwardWith(y, autodiff.Worklist)

	// The shared Square node runs once per path under Worklist.
	fmt.Println(x.Grad())
	// Output: [24]
}
