package nn

import (
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/dyngraph/internal/autodiff"
	"github.com/born-ml/dyngraph/internal/tensor"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W + b
// where:
//   - x is the input tensor with shape [batch_size, in_features]
//   - W is the weight matrix with shape [in_features, out_features]
//   - b is the bias row with shape [1, out_features], broadcast over the batch
//   - y is the output tensor with shape [batch_size, out_features]
//
// Weights are initialized using Xavier/Glorot initialization.
// Biases are initialized to zeros.
//
// Example:
//
//	layer := nn.NewLinear(784, 128, nil)
//	output := layer.Forward(input) // [32, 784] -> [32, 128]
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter // [in_features, out_features]
	bias        *Parameter // [1, out_features]
}

// NewLinear creates a new Linear layer.
//
// src seeds the weight initialization; nil uses the global source.
func NewLinear(inFeatures, outFeatures int, src rand.Source) *Linear {
	if inFeatures <= 0 || outFeatures <= 0 {
		panic(fmt.Errorf("%w: Linear: features must be positive, got in=%d out=%d",
			tensor.ErrShapeMismatch, inFeatures, outFeatures))
	}

	weight := NewParameter("weight", Xavier(inFeatures, outFeatures, tensor.Shape{inFeatures, outFeatures}, src))
	bias := NewParameter("bias", Zeros(tensor.Shape{1, outFeatures}))

	return &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      weight,
		bias:        bias,
	}
}

// Forward computes x @ W + broadcast(b).
//
// Input shape: [batch_size, in_features]
// Output shape: [batch_size, out_features]
func (l *Linear) Forward(input *tensor.Tensor) *tensor.Tensor {
	if input.Rank() != 2 {
		panic(fmt.Errorf("%w: Linear.Forward: expected 2D input [batch, features], got shape %v",
			tensor.ErrShapeMismatch, input.Shape()))
	}
	if input.Dim(1) != l.inFeatures {
		panic(fmt.Errorf("%w: Linear.Forward: expected input with %d features, got %d",
			tensor.ErrShapeMismatch, l.inFeatures, input.Dim(1)))
	}

	output := autodiff.MatMul(input, l.weight.Tensor())
	bias := autodiff.Broadcast(l.bias.Tensor(), tensor.Shape{input.Dim(0), l.outFeatures})
	return autodiff.Add(output, bias)
}

// Parameters returns [weight, bias].
func (l *Linear) Parameters() []*Parameter {
	return []*Parameter{l.weight, l.bias}
}

// Weight returns the weight parameter.
func (l *Linear) Weight() *Parameter {
	return l.weight
}

// Bias returns the bias parameter.
func (l *Linear) Bias() *Parameter {
	return l.bias
}

// InFeatures returns the number of input features.
func (l *Linear) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear) OutFeatures() int {
	return l.outFeatures
}
