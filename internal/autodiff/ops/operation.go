// Package ops defines the operator contract and the primitive operators of
// the dynamic computation graph.
//
// Each operator is a small value type carrying its own parameters (the
// target shape for Broadcast, the class count for Onehot). The set is closed:
// Operation has an unexported method, so only this package can add to it.
//
// Operators read Data/Grad off the tensors they are handed and write into
// output data (Forward) or input gradients (Backward). Gradients are always
// accumulated with +=, never overwritten, so a tensor consumed by several
// operators receives the sum of their contributions.
//
// Supported operations:
//   - Add, Sub, Mul, Div: element-wise binary, same shape
//   - Neg, Square, Log, ReLU: element-wise unary
//   - MatMul: rank-2 matrix product
//   - Broadcast: replicate along the leading batch axis
//   - Mean: full reduction to a [1] scalar
//   - Softmax, LogSoftmax: row-wise over rank-2 input
//   - Argmax, Onehot: non-differentiable, Backward panics
package ops

import "github.com/born-ml/dyngraph/internal/tensor"

// Operation is a differentiable (or explicitly non-differentiable) primitive.
//
// Every method validates shapes first and panics with an error wrapping
// tensor.ErrShapeMismatch on violation.
type Operation interface {
	// Name returns the operator name used in diagnostics.
	Name() string

	// OutputShape validates the inputs and returns the shape of the single
	// output the operator produces for them.
	OutputShape(inputs []*tensor.Tensor) tensor.Shape

	// Forward computes outputs[0].Data from the inputs.
	Forward(inputs, outputs []*tensor.Tensor)

	// Backward reads outputs[0].Grad and accumulates into each input's Grad.
	Backward(inputs, outputs []*tensor.Tensor)

	sealed()
}

// op is embedded by every operator to close the Operation set.
type op struct{}

func (op) sealed() {}
