// Package optim implements optimization algorithms for training neural networks.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with optional momentum
//   - Adam: Adaptive Moment Estimation
//
// Optimizers read the gradients accumulated on each parameter tensor by
// autodiff.Backward and update the parameter data in place.
//
// Example usage:
//
//	optimizer := optim.NewAdam(model.Parameters(), optim.AdamConfig{
//	    LR: 0.001,
//	})
//
//	for step := range steps {
//	    optimizer.ZeroGrad()
//	    loss := autodiff.CrossEntropyLoss(model.Forward(x), labels)
//	    autodiff.Backward(loss)
//	    optimizer.Step()
//	}
package optim

import (
	"github.com/born-ml/dyngraph/internal/nn"
	"gonum.org/v1/gonum/blas/blas32"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies one update to every parameter from its accumulated
	// gradient.
	Step()

	// ZeroGrad clears all parameter gradients.
	//
	// Gradients accumulate across backward passes, so this should be called
	// before each backward pass.
	ZeroGrad()

	// LR returns the current learning rate.
	LR() float32

	// Params returns the parameters being optimized.
	Params() []*nn.Parameter
}

// Config is the base configuration for all optimizers.
type Config struct {
	LR float32 // Learning rate
}

// zeroGrad clears the gradient of every parameter.
func zeroGrad(params []*nn.Parameter) {
	for _, param := range params {
		param.ZeroGrad()
	}
}

// update runs fn with the parameter's value and gradient buffers while
// holding the parameter's write borrow.
func update(param *nn.Parameter, fn func(data, grad []float32)) {
	t := param.Tensor()
	release := t.BorrowMut()
	defer release()
	fn(t.Data(), t.Grad())
}

func vec(data []float32) blas32.Vector {
	return blas32.Vector{N: len(data), Inc: 1, Data: data}
}
