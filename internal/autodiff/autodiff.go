// Package autodiff implements reverse-mode automatic differentiation over a
// dynamic (define-by-run) computation graph.
//
// Architecture:
//   - Operator library: one free function per primitive (Add, MatMul, ...).
//     Each call allocates an output tensor, builds a Node, runs its forward
//     pass immediately and links the output to the node.
//   - Node: binds an ops.Operation to its input and output tensors.
//   - Backward: seeds the output gradient with ones and walks parent links,
//     accumulating gradients into every upstream tensor.
//
// Usage:
//
//	x := tensor.FromSlice([]float32{3}, tensor.Shape{1})
//	y := autodiff.Square(x)  // forward runs here
//	autodiff.Backward(y)
//	fmt.Println(x.Grad())    // [6]
//
// Every precondition violation panics (see tensor.ErrShapeMismatch and the
// other sentinels); there is no partial application of a malformed call.
package autodiff

import (
	"fmt"

	"github.com/born-ml/dyngraph/internal/autodiff/ops"
	"github.com/born-ml/dyngraph/internal/tensor"
)

// apply validates the inputs, allocates the output, runs the node's forward
// pass and links the output to the node.
func apply(op ops.Operation, inputs ...*tensor.Tensor) *tensor.Tensor {
	out := tensor.New(op.OutputShape(inputs))
	node := NewNode(op, inputs, []*tensor.Tensor{out})
	node.Forward()
	out.MarkParent(node)
	return out
}

// Add returns x + y element-wise.
func Add(x, y *tensor.Tensor) *tensor.Tensor {
	return apply(ops.Add{}, x, y)
}

// Sub returns x - y element-wise.
func Sub(x, y *tensor.Tensor) *tensor.Tensor {
	return apply(ops.Sub{}, x, y)
}

// Mul returns x * y element-wise.
func Mul(x, y *tensor.Tensor) *tensor.Tensor {
	return apply(ops.Mul{}, x, y)
}

// Div returns x / y element-wise.
func Div(x, y *tensor.Tensor) *tensor.Tensor {
	return apply(ops.Div{}, x, y)
}

// Neg returns -x.
func Neg(x *tensor.Tensor) *tensor.Tensor {
	return apply(ops.Neg{}, x)
}

// Square returns x² element-wise.
func Square(x *tensor.Tensor) *tensor.Tensor {
	return apply(ops.Square{}, x)
}

// MatMul returns the matrix product x @ y of two rank-2 tensors.
func MatMul(x, y *tensor.Tensor) *tensor.Tensor {
	return apply(ops.MatMul{}, x, y)
}

// Broadcast replicates x along the leading batch axis of shape.
func Broadcast(x *tensor.Tensor, shape tensor.Shape) *tensor.Tensor {
	return apply(ops.NewBroadcast(shape), x)
}

// Mean returns the mean of all elements of x as a [1] tensor.
func Mean(x *tensor.Tensor) *tensor.Tensor {
	return apply(ops.Mean{}, x)
}

// Softmax returns the row-wise softmax of a rank-2 tensor.
func Softmax(x *tensor.Tensor) *tensor.Tensor {
	return apply(ops.Softmax{}, x)
}

// LogSoftmax returns the row-wise log-softmax of a rank-2 tensor.
func LogSoftmax(x *tensor.Tensor) *tensor.Tensor {
	return apply(ops.LogSoftmax{}, x)
}

// Log returns ln(x) element-wise.
func Log(x *tensor.Tensor) *tensor.Tensor {
	return apply(ops.Log{}, x)
}

// ReLU returns max(0, x) element-wise.
func ReLU(x *tensor.Tensor) *tensor.Tensor {
	return apply(ops.ReLU{}, x)
}

// Argmax returns the row-wise index of the maximum of a rank-2 tensor.
// The result does not need a gradient.
func Argmax(x *tensor.Tensor) *tensor.Tensor {
	out := apply(ops.Argmax{}, x)
	out.MarkNeedGrad(false)
	return out
}

// Onehot expands rank-1 class indices into [n, numClasses] one-hot rows.
// The result does not need a gradient.
func Onehot(x *tensor.Tensor, numClasses int) *tensor.Tensor {
	out := apply(ops.NewOnehot(numClasses), x)
	out.MarkNeedGrad(false)
	return out
}

// CrossEntropyLoss returns mean(-(target * log_softmax(logits))) as a [1]
// tensor.
//
// target is either a one-hot (or any distribution) tensor with the same
// shape as logits, or a rank-1 tensor of class indices for rank-2 logits,
// which is expanded with Onehot first.
//
// The mean runs over every element, not only the batch axis, so the value is
// the per-sample loss divided by the number of classes.
func CrossEntropyLoss(logits, target *tensor.Tensor) *tensor.Tensor {
	if logits.Rank() == 2 && target.Rank() == 1 {
		target = Onehot(target, logits.Dim(1))
	}
	if !logits.Shape().Equal(target.Shape()) {
		panic(fmt.Errorf("%w: CrossEntropyLoss: logits %v vs target %v",
			tensor.ErrShapeMismatch, logits.Shape(), target.Shape()))
	}
	return Mean(Neg(Mul(target, LogSoftmax(logits))))
}

// Accuracy returns the fraction of rows of logits whose argmax equals the
// matching entry of labels. It builds an Argmax node but no gradient path.
func Accuracy(logits, labels *tensor.Tensor) float64 {
	pred := Argmax(logits)
	if !pred.Shape().Equal(labels.Shape()) {
		panic(fmt.Errorf("%w: Accuracy: predictions %v vs labels %v",
			tensor.ErrShapeMismatch, pred.Shape(), labels.Shape()))
	}

	p, l := pred.Data(), labels.Data()
	if len(p) == 0 {
		return 0
	}
	correct := 0
	for i := range p {
		if p[i] == l[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(p))
}
