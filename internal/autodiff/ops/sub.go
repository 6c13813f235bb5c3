package ops

import "github.com/born-ml/dyngraph/internal/tensor"

// Sub represents an element-wise subtraction: out = x - y.
//
// Backward pass:
//   - dx += dout
//   - dy -= dout
type Sub struct{ op }

// Name returns "Sub".
func (Sub) Name() string { return "Sub" }

// OutputShape requires x and y to share a shape.
func (s Sub) OutputShape(inputs []*tensor.Tensor) tensor.Shape {
	return binaryShape(s.Name(), inputs)
}

// Forward computes out[i] = x[i] - y[i].
func (s Sub) Forward(inputs, outputs []*tensor.Tensor) {
	checkOutputs(s, inputs, outputs)
	x, y, out := inputs[0].Data(), inputs[1].Data(), outputs[0].Data()
	for i := range out {
		out[i] = x[i] - y[i]
	}
}

// Backward computes dx += dout and dy -= dout.
func (s Sub) Backward(inputs, outputs []*tensor.Tensor) {
	checkOutputs(s, inputs, outputs)
	dout := outputs[0].Grad()
	accumulate(1, dout, inputs[0].Grad())
	accumulate(-1, dout, inputs[1].Grad())
}
