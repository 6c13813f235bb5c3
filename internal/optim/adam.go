package optim

import (
	"math"

	"github.com/born-ml/dyngraph/internal/nn"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Update rule, with the bias corrections folded into the step size:
//
//	m_t = beta1 * m_{t-1} + (1-beta1) * gradient
//	v_t = beta2 * v_{t-1} + (1-beta2) * gradient²
//	alpha = lr * sqrt(1 - beta2^t) / (1 - beta1^t)
//	param = param - alpha * m_t / (sqrt(v_t) + eps)
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
//
// Example:
//
//	optimizer := optim.NewAdam(model.Parameters(), optim.AdamConfig{
//	    LR:    0.001,
//	    Betas: [2]float32{0.9, 0.999},
//	    Eps:   1e-8,
//	})
type Adam struct {
	params []*nn.Parameter
	lr     float32
	beta1  float32
	beta2  float32
	eps    float32
	t      int                         // Timestep for bias correction
	m      map[*nn.Parameter][]float32 // First moment estimates
	v      map[*nn.Parameter][]float32 // Second moment estimates
}

// AdamConfig holds configuration for Adam optimizer.
type AdamConfig struct {
	LR    float32    // Learning rate (default: 0.001)
	Betas [2]float32 // Coefficients for computing running averages (default: [0.9, 0.999])
	Eps   float32    // Term for numerical stability (default: 1e-8)
}

// NewAdam creates a new Adam optimizer. Zero fields of config take their
// defaults.
func NewAdam(params []*nn.Parameter, config AdamConfig) *Adam {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Betas[0] == 0 {
		config.Betas[0] = 0.9
	}
	if config.Betas[1] == 0 {
		config.Betas[1] = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}

	return &Adam{
		params: params,
		lr:     config.LR,
		beta1:  config.Betas[0],
		beta2:  config.Betas[1],
		eps:    config.Eps,
		m:      make(map[*nn.Parameter][]float32),
		v:      make(map[*nn.Parameter][]float32),
	}
}

// Step performs a single optimization step.
//
// Moment buffers are allocated on the first step that sees a parameter.
func (a *Adam) Step() {
	a.t++
	t := float64(a.t)
	correction := math.Sqrt(1-math.Pow(float64(a.beta2), t)) / (1 - math.Pow(float64(a.beta1), t))
	alpha := float32(float64(a.lr) * correction)

	for _, param := range a.params {
		update(param, func(data, grad []float32) {
			m, ok := a.m[param]
			if !ok {
				m = make([]float32, len(data))
				a.m[param] = m
				a.v[param] = make([]float32, len(data))
			}
			v := a.v[param]

			for i, g := range grad {
				m[i] = a.beta1*m[i] + (1-a.beta1)*g
				v[i] = a.beta2*v[i] + (1-a.beta2)*g*g
				data[i] -= alpha * m[i] / (float32(math.Sqrt(float64(v[i]))) + a.eps)
			}
		})
	}
}

// ZeroGrad clears gradients for all parameters.
func (a *Adam) ZeroGrad() {
	zeroGrad(a.params)
}

// LR returns the current learning rate.
func (a *Adam) LR() float32 {
	return a.lr
}

// SetLR updates the learning rate.
func (a *Adam) SetLR(lr float32) {
	a.lr = lr
}

// Params returns the parameters being optimized.
func (a *Adam) Params() []*nn.Parameter {
	return a.params
}

// StepCount returns the number of steps taken so far.
func (a *Adam) StepCount() int {
	return a.t
}
