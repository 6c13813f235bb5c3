package nn

import (
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/dyngraph/internal/tensor"
)

// Sequential is a container module that chains multiple modules together.
//
// Each module's output becomes the next module's input:
//
//	model := nn.NewSequential(
//	    nn.NewLinear(784, 128, src),
//	    nn.NewReLU(),
//	    nn.NewLinear(128, 10, src),
//	)
//	output := model.Forward(input)
type Sequential struct {
	modules []Module
}

// NewSequential creates a new Sequential container.
func NewSequential(modules ...Module) *Sequential {
	return &Sequential{
		modules: modules,
	}
}

// NewMLP builds Linear layers of the given widths with a ReLU between each
// pair; the last layer has no activation. sizes must hold at least two
// widths, e.g. {784, 128, 128, 10}.
//
// Parameter names are "<layer>.weight" and "<layer>.bias" with 0-based
// Linear indices.
func NewMLP(sizes []int, src rand.Source) *Sequential {
	if len(sizes) < 2 {
		panic(fmt.Errorf("%w: NewMLP: need at least 2 layer sizes, got %v", tensor.ErrShapeMismatch, sizes))
	}

	s := NewSequential()
	for i := 0; i+1 < len(sizes); i++ {
		layer := NewLinear(sizes[i], sizes[i+1], src)
		layer.weight.name = fmt.Sprintf("%d.weight", i)
		layer.bias.name = fmt.Sprintf("%d.bias", i)
		s.Add(layer)
		if i+2 < len(sizes) {
			s.Add(NewReLU())
		}
	}
	return s
}

// Forward applies all modules in sequence.
func (s *Sequential) Forward(input *tensor.Tensor) *tensor.Tensor {
	output := input
	for _, module := range s.modules {
		output = module.Forward(output)
	}
	return output
}

// Parameters returns all trainable parameters from all modules, in order.
func (s *Sequential) Parameters() []*Parameter {
	var params []*Parameter
	for _, module := range s.modules {
		params = append(params, module.Parameters()...)
	}
	return params
}

// Add appends a module to the sequence.
func (s *Sequential) Add(module Module) {
	s.modules = append(s.modules, module)
}

// Len returns the number of modules in the sequence.
func (s *Sequential) Len() int {
	return len(s.modules)
}

// Module returns the module at the given index.
//
// Panics if index is out of bounds.
func (s *Sequential) Module(index int) Module {
	if index < 0 || index >= len(s.modules) {
		panic(fmt.Errorf("%w: Sequential.Module: index %d, length %d",
			tensor.ErrIndexOutOfRange, index, len(s.modules)))
	}
	return s.modules[index]
}
