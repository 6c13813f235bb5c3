package ops

import "github.com/born-ml/dyngraph/internal/tensor"

// Add represents an element-wise addition: out = x + y.
//
// Backward pass:
//   - d(x+y)/dx = 1, so dx += dout
//   - d(x+y)/dy = 1, so dy += dout
type Add struct{ op }

// Name returns "Add".
func (Add) Name() string { return "Add" }

// OutputShape requires x and y to share a shape.
func (a Add) OutputShape(inputs []*tensor.Tensor) tensor.Shape {
	return binaryShape(a.Name(), inputs)
}

// Forward computes out[i] = x[i] + y[i].
func (a Add) Forward(inputs, outputs []*tensor.Tensor) {
	checkOutputs(a, inputs, outputs)
	x, y, out := inputs[0].Data(), inputs[1].Data(), outputs[0].Data()
	for i := range out {
		out[i] = x[i] + y[i]
	}
}

// Backward routes the output gradient unchanged to both inputs.
func (a Add) Backward(inputs, outputs []*tensor.Tensor) {
	checkOutputs(a, inputs, outputs)
	dout := outputs[0].Grad()
	accumulate(1, dout, inputs[0].Grad())
	accumulate(1, dout, inputs[1].Grad())
}
