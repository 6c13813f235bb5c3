package ops

import "github.com/born-ml/dyngraph/internal/tensor"

// Square represents element-wise squaring: out = x².
//
// Backward pass: d(x²)/dx = 2x, so dx += 2 * x * dout.
type Square struct{ op }

// Name returns "Square".
func (Square) Name() string { return "Square" }

// OutputShape returns the input shape.
func (s Square) OutputShape(inputs []*tensor.Tensor) tensor.Shape {
	return unaryShape(s.Name(), inputs)
}

// Forward computes out[i] = x[i]².
func (s Square) Forward(inputs, outputs []*tensor.Tensor) {
	checkOutputs(s, inputs, outputs)
	x, out := inputs[0].Data(), outputs[0].Data()
	for i := range out {
		out[i] = x[i] * x[i]
	}
}

// Backward computes dx += 2*x*dout.
func (s Square) Backward(inputs, outputs []*tensor.Tensor) {
	checkOutputs(s, inputs, outputs)
	x, dx := inputs[0].Data(), inputs[0].Grad()
	for i, g := range outputs[0].Grad() {
		dx[i] += 2 * x[i] * g
	}
}
