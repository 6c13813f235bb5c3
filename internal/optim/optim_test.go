package optim_test

import (
	"testing"

	"github.com/born-ml/dyngraph/internal/autodiff"
	"github.com/born-ml/dyngraph/internal/nn"
	"github.com/born-ml/dyngraph/internal/optim"
	"github.com/born-ml/dyngraph/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func param(name string, data, grad []float32) *nn.Parameter {
	t := tensor.FromSlice(data, tensor.Shape{len(data)})
	t.SetGrad(grad)
	return nn.NewParameter(name, t)
}

func TestSGD_SimpleUpdate(t *testing.T) {
	p := param("x", []float32{1.0}, []float32{2.0})
	optimizer := optim.NewSGD([]*nn.Parameter{p}, optim.SGDConfig{LR: 0.1})

	optimizer.Step()
	assert.InDelta(t, 0.8, p.Tensor().Data()[0], 1e-6)
	assert.Equal(t, []float32{2.0}, p.Grad(), "Step must not touch gradients")
}

func TestSGD_Momentum(t *testing.T) {
	p := param("x", []float32{2.0}, []float32{1.0})
	optimizer := optim.NewSGD([]*nn.Parameter{p}, optim.SGDConfig{LR: 0.1, Momentum: 0.9})

	// v=1 -> x=1.9; v=0.9+1=1.9 -> x=1.71
	optimizer.Step()
	assert.InDelta(t, 1.9, p.Tensor().Data()[0], 1e-6)
	optimizer.Step()
	assert.InDelta(t, 1.71, p.Tensor().Data()[0], 1e-6)
}

func TestSGD_Defaults(t *testing.T) {
	p := param("x", []float32{0}, []float32{0})
	optimizer := optim.NewSGD([]*nn.Parameter{p}, optim.SGDConfig{})

	assert.InDelta(t, 0.01, optimizer.LR(), 1e-9)
	optimizer.SetLR(0.5)
	assert.InDelta(t, 0.5, optimizer.LR(), 1e-9)
	assert.Equal(t, []*nn.Parameter{p}, optimizer.Params())
}

func TestAdam_FirstStepMovesByLR(t *testing.T) {
	p := param("x", []float32{1, 1, 1}, []float32{4, -0.01, 0})
	optimizer := optim.NewAdam([]*nn.Parameter{p}, optim.AdamConfig{LR: 0.01})

	optimizer.Step()
	// After bias correction the first step is lr * sign(grad).
	assert.InDelta(t, 0.99, p.Tensor().Data()[0], 1e-5)
	assert.InDelta(t, 1.01, p.Tensor().Data()[1], 1e-4)
	assert.InDelta(t, 1.0, p.Tensor().Data()[2], 1e-9)
	assert.Equal(t, 1, optimizer.StepCount())
}

func TestAdam_Defaults(t *testing.T) {
	optimizer := optim.NewAdam(nil, optim.AdamConfig{})
	assert.InDelta(t, 0.001, optimizer.LR(), 1e-9)
	require.NotPanics(t, optimizer.Step)
}

func TestZeroGrad(t *testing.T) {
	a := param("a", []float32{1, 2}, []float32{3, 4})
	b := param("b", []float32{5}, []float32{6})

	for _, optimizer := range []optim.Optimizer{
		optim.NewSGD([]*nn.Parameter{a, b}, optim.SGDConfig{}),
		optim.NewAdam([]*nn.Parameter{a, b}, optim.AdamConfig{}),
	} {
		a.Tensor().SetGrad([]float32{3, 4})
		b.Tensor().SetGrad([]float32{6})

		optimizer.ZeroGrad()
		assert.Equal(t, []float32{0, 0}, a.Grad())
		assert.Equal(t, []float32{0}, b.Grad())
		assert.Equal(t, []float32{1, 2}, a.Tensor().Data())
	}
}

func TestStep_BorrowedParameterPanics(t *testing.T) {
	p := param("x", []float32{1}, []float32{1})
	optimizer := optim.NewSGD([]*nn.Parameter{p}, optim.SGDConfig{LR: 0.1})

	release := p.Tensor().Borrow()
	defer release()
	assert.Panics(t, optimizer.Step)
}

// minimize runs steps of optimizer on f(x) = sum((x - 3)²) and returns x.
func minimize(t *testing.T, build func([]*nn.Parameter) optim.Optimizer, steps int) []float32 {
	t.Helper()
	x := tensor.FromSlice([]float32{-1, 0, 5}, tensor.Shape{3})
	p := nn.NewParameter("x", x)
	optimizer := build([]*nn.Parameter{p})

	target := tensor.FromSlice([]float32{3, 3, 3}, tensor.Shape{3})
	target.MarkNeedGrad(false)
	for range steps {
		optimizer.ZeroGrad()
		loss := autodiff.Mean(autodiff.Square(autodiff.Sub(x, target)))
		autodiff.Backward(loss)
		optimizer.Step()
	}
	return x.Data()
}

func TestOptimizers_ConvergeOnQuadratic(t *testing.T) {
	t.Run("SGD", func(t *testing.T) {
		got := minimize(t, func(p []*nn.Parameter) optim.Optimizer {
			return optim.NewSGD(p, optim.SGDConfig{LR: 0.5})
		}, 200)
		for _, v := range got {
			assert.InDelta(t, 3, v, 1e-3)
		}
	})
	t.Run("Adam", func(t *testing.T) {
		got := minimize(t, func(p []*nn.Parameter) optim.Optimizer {
			return optim.NewAdam(p, optim.AdamConfig{LR: 0.1})
		}, 500)
		for _, v := range got {
			assert.InDelta(t, 3, v, 5e-2)
		}
	})
}
