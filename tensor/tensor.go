// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/dyngraph/internal/tensor"
)

// Tensor is a float32 tensor with a value and a gradient buffer.
type Tensor = tensor.Tensor

// Shape is the list of dimension sizes of a tensor.
type Shape = tensor.Shape

// Producer is the graph node that produced a non-leaf tensor.
type Producer = tensor.Producer

// Sentinel errors wrapped by every panic raised on a precondition violation.
var (
	ErrShapeMismatch   = tensor.ErrShapeMismatch
	ErrLengthMismatch  = tensor.ErrLengthMismatch
	ErrNoGradient      = tensor.ErrNoGradient
	ErrClassOutOfRange = tensor.ErrClassOutOfRange
	ErrBorrowConflict  = tensor.ErrBorrowConflict
	ErrAlreadyProduced = tensor.ErrAlreadyProduced
	ErrIndexOutOfRange = tensor.ErrIndexOutOfRange
)

// New creates a zero-filled leaf tensor that needs a gradient.
func New(shape Shape) *Tensor {
	return tensor.New(shape)
}

// FromSlice creates a leaf tensor holding a copy of values.
func FromSlice(values []float32, shape Shape) *Tensor {
	return tensor.FromSlice(values, shape)
}

// Randomized creates a leaf tensor with values uniform in [-0.5, 0.5).
func Randomized(shape Shape) *Tensor {
	return tensor.Randomized(shape)
}
