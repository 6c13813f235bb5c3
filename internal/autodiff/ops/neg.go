package ops

import "github.com/born-ml/dyngraph/internal/tensor"

// Neg represents element-wise negation: out = -x.
type Neg struct{ op }

// Name returns "Neg".
func (Neg) Name() string { return "Neg" }

// OutputShape returns the input shape.
func (n Neg) OutputShape(inputs []*tensor.Tensor) tensor.Shape {
	return unaryShape(n.Name(), inputs)
}

// Forward computes out[i] = -x[i].
func (n Neg) Forward(inputs, outputs []*tensor.Tensor) {
	checkOutputs(n, inputs, outputs)
	x, out := inputs[0].Data(), outputs[0].Data()
	for i := range out {
		out[i] = -x[i]
	}
}

// Backward computes dx -= dout.
func (n Neg) Backward(inputs, outputs []*tensor.Tensor) {
	checkOutputs(n, inputs, outputs)
	accumulate(-1, outputs[0].Grad(), inputs[0].Grad())
}
