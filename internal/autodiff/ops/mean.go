package ops

import "github.com/born-ml/dyngraph/internal/tensor"

// Mean reduces its input to a [1] scalar: out = Σx / size(x).
//
// Backward pass: dx[i] += dout[0] / size(x).
type Mean struct{ op }

// Name returns "Mean".
func (Mean) Name() string { return "Mean" }

// OutputShape returns [1] for any input.
func (m Mean) OutputShape(inputs []*tensor.Tensor) tensor.Shape {
	expectArity(m.Name(), inputs, 1)
	return tensor.Shape{1}
}

// Forward computes the arithmetic mean of all elements.
func (m Mean) Forward(inputs, outputs []*tensor.Tensor) {
	checkOutputs(m, inputs, outputs)
	x := inputs[0].Data()
	var sum float64
	for _, v := range x {
		sum += float64(v)
	}
	outputs[0].Data()[0] = float32(sum / float64(len(x)))
}

// Backward spreads dout[0] evenly over every input element.
func (m Mean) Backward(inputs, outputs []*tensor.Tensor) {
	checkOutputs(m, inputs, outputs)
	dx := inputs[0].Grad()
	g := outputs[0].Grad()[0] / float32(len(dx))
	for i := range dx {
		dx[i] += g
	}
}
