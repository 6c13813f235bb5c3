// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation over a
// dynamic computation graph.
//
// Every operator runs its forward computation immediately and records a
// node; Backward walks the recorded nodes from an output towards the
// leaves, accumulating gradients.
//
// Example:
//
//	import (
//	    "github.com/born-ml/dyngraph/autodiff"
//	    "github.com/born-ml/dyngraph/tensor"
//	)
//
//	func main() {
//	    x := tensor.FromSlice([]float32{3}, tensor.Shape{1})
//	    y := autodiff.Mul(x, autodiff.Square(x)) // x³
//	    autodiff.Backward(y)
//	    fmt.Println(x.Grad()) // [27]
//	}
package autodiff

import (
	"github.com/born-ml/dyngraph/internal/autodiff"
	"github.com/born-ml/dyngraph/internal/tensor"
)

// Node binds an operator to the tensors it consumed and produced.
type Node = autodiff.Node

// Traversal selects how Backward walks the graph.
type Traversal = autodiff.Traversal

// Traversal policies.
const (
	// Topological runs every node once, after all of its consumers.
	Topological = autodiff.Topological

	// Worklist runs a node once per path that reaches it.
	Worklist = autodiff.Worklist
)

// ParseTraversal parses "topological" or "worklist".
func ParseTraversal(s string) (Traversal, error) {
	return autodiff.ParseTraversal(s)
}

// Backward seeds t's gradient with ones and propagates gradients to every
// upstream tensor. Backward on a leaf does nothing.
func Backward(t *tensor.Tensor) {
	autodiff.Backward(t)
}

// BackwardWith is Backward with an explicit traversal policy.
func BackwardWith(t *tensor.Tensor, policy Traversal) {
	autodiff.BackwardWith(t, policy)
}

// Add returns x + y element-wise.
func Add(x, y *tensor.Tensor) *tensor.Tensor { return autodiff.Add(x, y) }

// Sub returns x - y element-wise.
func Sub(x, y *tensor.Tensor) *tensor.Tensor { return autodiff.Sub(x, y) }

// Mul returns x * y element-wise.
func Mul(x, y *tensor.Tensor) *tensor.Tensor { return autodiff.Mul(x, y) }

// Div returns x / y element-wise.
func Div(x, y *tensor.Tensor) *tensor.Tensor { return autodiff.Div(x, y) }

// Neg returns -x.
func Neg(x *tensor.Tensor) *tensor.Tensor { return autodiff.Neg(x) }

// Square returns x² element-wise.
func Square(x *tensor.Tensor) *tensor.Tensor { return autodiff.Square(x) }

// Log returns ln(x) element-wise.
func Log(x *tensor.Tensor) *tensor.Tensor { return autodiff.Log(x) }

// ReLU returns max(0, x) element-wise.
func ReLU(x *tensor.Tensor) *tensor.Tensor { return autodiff.ReLU(x) }

// MatMul returns the matrix product of two rank-2 tensors.
func MatMul(x, y *tensor.Tensor) *tensor.Tensor { return autodiff.MatMul(x, y) }

// Broadcast replicates x along the leading batch axis of shape.
func Broadcast(x *tensor.Tensor, shape tensor.Shape) *tensor.Tensor {
	return autodiff.Broadcast(x, shape)
}

// Mean returns the mean of all elements as a [1] tensor.
func Mean(x *tensor.Tensor) *tensor.Tensor { return autodiff.Mean(x) }

// Softmax returns the row-wise softmax of a rank-2 tensor.
func Softmax(x *tensor.Tensor) *tensor.Tensor { return autodiff.Softmax(x) }

// LogSoftmax returns the row-wise log-softmax of a rank-2 tensor.
func LogSoftmax(x *tensor.Tensor) *tensor.Tensor { return autodiff.LogSoftmax(x) }

// Argmax returns the row-wise index of the maximum. It has no gradient.
func Argmax(x *tensor.Tensor) *tensor.Tensor { return autodiff.Argmax(x) }

// Onehot expands class indices into one-hot rows. It has no gradient.
func Onehot(x *tensor.Tensor, numClasses int) *tensor.Tensor {
	return autodiff.Onehot(x, numClasses)
}

// CrossEntropyLoss returns mean(-(target * log_softmax(logits))).
// target is either shaped like logits or a rank-1 tensor of class indices.
func CrossEntropyLoss(logits, target *tensor.Tensor) *tensor.Tensor {
	return autodiff.CrossEntropyLoss(logits, target)
}

// Accuracy returns the fraction of rows whose argmax matches labels.
func Accuracy(logits, labels *tensor.Tensor) float64 {
	return autodiff.Accuracy(logits, labels)
}
