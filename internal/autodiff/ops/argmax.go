package ops

import (
	"fmt"

	"github.com/born-ml/dyngraph/internal/tensor"
)

// Argmax returns, for each row of a rank-2 input, the column index of its
// largest element as a float. Ties resolve to the lowest index.
//
// Shapes: x [rows, cols] -> out [rows].
//
// Argmax has no gradient; Backward panics with tensor.ErrNoGradient.
type Argmax struct{ op }

// Name returns "Argmax".
func (Argmax) Name() string { return "Argmax" }

// OutputShape requires a rank-2 input and returns [rows].
func (a Argmax) OutputShape(inputs []*tensor.Tensor) tensor.Shape {
	expectArity(a.Name(), inputs, 1)
	expectRank(a.Name(), "x", inputs[0], 2)
	return tensor.Shape{inputs[0].Dim(0)}
}

// Forward writes the row-wise argmax into out.
func (a Argmax) Forward(inputs, outputs []*tensor.Tensor) {
	checkOutputs(a, inputs, outputs)
	x, out := inputs[0], outputs[0].Data()
	rows, cols := x.Dim(0), x.Dim(1)
	if cols == 0 && rows > 0 {
		panic(shapeError(a.Name(), "cannot take argmax of empty rows %v", x.Shape()))
	}
	data := x.Data()

	for r := 0; r < rows; r++ {
		off := r * cols
		best, bestIdx := data[off], 0
		for j := 1; j < cols; j++ {
			if data[off+j] > best {
				best, bestIdx = data[off+j], j
			}
		}
		out[r] = float32(bestIdx)
	}
}

// Backward always panics: argmax is piecewise constant.
func (a Argmax) Backward(_, _ []*tensor.Tensor) {
	panic(fmt.Errorf("%w: %s", tensor.ErrNoGradient, a.Name()))
}
