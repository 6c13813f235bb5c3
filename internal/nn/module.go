// Package nn implements neural network modules on top of the autodiff graph.
//
// This package provides building blocks for constructing networks:
//   - Module interface: Base interface for all NN components
//   - Parameter: Named trainable tensor
//   - Linear: Fully connected layer
//   - ReLU: Activation module
//   - Sequential: Container for stacking layers (and NewMLP on top of it)
//
// Every Forward call records new graph nodes; calling autodiff.Backward on a
// loss computed from the output accumulates gradients into each Parameter.
package nn

import (
	"github.com/born-ml/dyngraph/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules can be composed to build larger architectures:
//
//	model := nn.NewSequential(
//	    nn.NewLinear(784, 128, src),
//	    nn.NewReLU(),
//	    nn.NewLinear(128, 10, src),
//	)
type Module interface {
	// Forward computes the output of the module given an input tensor.
	//
	// For example, Linear expects [batch_size, in_features].
	Forward(input *tensor.Tensor) *tensor.Tensor

	// Parameters returns all trainable parameters of this module.
	//
	// Returns an empty slice for modules without trainable parameters
	// (e.g., activation functions).
	Parameters() []*Parameter
}
