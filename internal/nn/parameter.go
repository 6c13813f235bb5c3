package nn

import (
	"github.com/born-ml/dyngraph/internal/tensor"
)

// Parameter is a named trainable tensor, typically a weight or a bias.
//
// The gradient lives on the tensor itself and is filled by autodiff.Backward.
//
// Example:
//
//	weight := nn.NewParameter("linear1.weight", w)
//	autodiff.Backward(loss)
//	g := weight.Grad()
type Parameter struct {
	name   string
	tensor *tensor.Tensor
}

// NewParameter wraps an initialized tensor as a trainable parameter.
func NewParameter(name string, t *tensor.Tensor) *Parameter {
	t.MarkNeedGrad(true)
	return &Parameter{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter) Tensor() *tensor.Tensor {
	return p.tensor
}

// Grad returns the accumulated gradient buffer of the parameter tensor.
func (p *Parameter) Grad() []float32 {
	return p.tensor.Grad()
}

// ZeroGrad clears the accumulated gradient.
//
// Gradients accumulate across backward passes, so call this (or
// Optimizer.ZeroGrad) before each training iteration.
func (p *Parameter) ZeroGrad() {
	p.tensor.ZeroFillGrad()
}
