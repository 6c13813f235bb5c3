package ops

import (
	"math"

	"github.com/born-ml/dyngraph/internal/tensor"
)

// Log represents the element-wise natural logarithm: out = ln(x).
//
// Backward pass: d(ln x)/dx = 1/x, so dx += dout / x.
//
// Inputs are expected to be positive; ln(0) = -Inf and ln of a negative
// value is NaN, and neither is rejected.
type Log struct{ op }

// Name returns "Log".
func (Log) Name() string { return "Log" }

// OutputShape returns the input shape.
func (l Log) OutputShape(inputs []*tensor.Tensor) tensor.Shape {
	return unaryShape(l.Name(), inputs)
}

// Forward computes out[i] = ln(x[i]).
func (l Log) Forward(inputs, outputs []*tensor.Tensor) {
	checkOutputs(l, inputs, outputs)
	x, out := inputs[0].Data(), outputs[0].Data()
	for i := range out {
		out[i] = float32(math.Log(float64(x[i])))
	}
}

// Backward computes dx += dout/x.
func (l Log) Backward(inputs, outputs []*tensor.Tensor) {
	checkOutputs(l, inputs, outputs)
	x, dx := inputs[0].Data(), inputs[0].Grad()
	for i, g := range outputs[0].Grad() {
		dx[i] += g / x[i]
	}
}
