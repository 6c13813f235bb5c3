package ops

import "github.com/born-ml/dyngraph/internal/tensor"

// ReLU represents the rectified linear unit: out = max(0, x).
//
// Backward pass: dx += dout where x > 0, nothing elsewhere (the subgradient
// at exactly 0 is taken as 0).
type ReLU struct{ op }

// Name returns "ReLU".
func (ReLU) Name() string { return "ReLU" }

// OutputShape returns the input shape.
func (r ReLU) OutputShape(inputs []*tensor.Tensor) tensor.Shape {
	return unaryShape(r.Name(), inputs)
}

// Forward computes out[i] = max(0, x[i]).
func (r ReLU) Forward(inputs, outputs []*tensor.Tensor) {
	checkOutputs(r, inputs, outputs)
	x, out := inputs[0].Data(), outputs[0].Data()
	for i := range out {
		if x[i] > 0 {
			out[i] = x[i]
		} else {
			out[i] = 0
		}
	}
}

// Backward passes dout through where the input was positive.
func (r ReLU) Backward(inputs, outputs []*tensor.Tensor) {
	checkOutputs(r, inputs, outputs)
	x, dx := inputs[0].Data(), inputs[0].Grad()
	for i, g := range outputs[0].Grad() {
		if x[i] > 0 {
			dx[i] += g
		}
	}
}
