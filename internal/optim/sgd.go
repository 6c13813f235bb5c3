package optim

import (
	"github.com/born-ml/dyngraph/internal/nn"
	"gonum.org/v1/gonum/blas/blas32"
)

// SGD implements Stochastic Gradient Descent optimizer with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// Example:
//
//	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
type SGD struct {
	params     []*nn.Parameter
	lr         float32
	momentum   float32
	velocities map[*nn.Parameter][]float32
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float32 // Learning rate (default: 0.01)
	Momentum float32 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer.
func NewSGD(params []*nn.Parameter, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}

	return &SGD{
		params:     params,
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make(map[*nn.Parameter][]float32),
	}
}

// Step performs a single optimization step.
func (s *SGD) Step() {
	for _, param := range s.params {
		update(param, func(data, grad []float32) {
			if s.momentum == 0 {
				blas32.Axpy(-s.lr, vec(grad), vec(data))
				return
			}

			velocity, ok := s.velocities[param]
			if !ok {
				velocity = make([]float32, len(data))
				s.velocities[param] = velocity
			}
			blas32.Scal(s.momentum, vec(velocity))
			blas32.Axpy(1, vec(grad), vec(velocity))
			blas32.Axpy(-s.lr, vec(velocity), vec(data))
		})
	}
}

// ZeroGrad clears gradients for all parameters.
func (s *SGD) ZeroGrad() {
	zeroGrad(s.params)
}

// LR returns the current learning rate.
func (s *SGD) LR() float32 {
	return s.lr
}

// SetLR updates the learning rate.
func (s *SGD) SetLR(lr float32) {
	s.lr = lr
}

// Params returns the parameters being optimized.
func (s *SGD) Params() []*nn.Parameter {
	return s.params
}
