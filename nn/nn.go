// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand/v2"

	"github.com/born-ml/dyngraph/internal/nn"
	"github.com/born-ml/dyngraph/internal/tensor"
)

// Module is the base interface for all neural network components.
type Module = nn.Module

// Parameter is a named trainable tensor.
type Parameter = nn.Parameter

// Linear is a fully connected layer.
type Linear = nn.Linear

// ReLU is a Rectified Linear Unit activation module.
type ReLU = nn.ReLU

// Sequential chains modules.
type Sequential = nn.Sequential

// NewParameter wraps an initialized tensor as a trainable parameter.
func NewParameter(name string, t *tensor.Tensor) *Parameter {
	return nn.NewParameter(name, t)
}

// NewLinear creates a Linear layer. src seeds the weight initialization;
// nil uses the global source.
//
// Example:
//
//	layer := nn.NewLinear(784, 128, rand.NewPCG(1, 2))
func NewLinear(inFeatures, outFeatures int, src rand.Source) *Linear {
	return nn.NewLinear(inFeatures, outFeatures, src)
}

// NewReLU creates a ReLU activation module.
func NewReLU() *ReLU {
	return nn.NewReLU()
}

// NewSequential creates a Sequential container.
func NewSequential(modules ...Module) *Sequential {
	return nn.NewSequential(modules...)
}

// NewMLP builds Linear layers of the given widths with ReLU in between.
func NewMLP(sizes []int, src rand.Source) *Sequential {
	return nn.NewMLP(sizes, src)
}

// Xavier returns a tensor drawn from the Glorot uniform distribution.
func Xavier(fanIn, fanOut int, shape tensor.Shape, src rand.Source) *tensor.Tensor {
	return nn.Xavier(fanIn, fanOut, shape, src)
}
