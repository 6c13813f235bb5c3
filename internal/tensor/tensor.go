// Package tensor implements the mutable float32 tensor at the center of the
// dynamic computation graph.
//
// A Tensor carries its shape, a row-major value buffer, a gradient buffer of
// the same length, a "needs gradient" flag and an optional link to the graph
// node that produced it. Leaves (inputs, parameters, constants) have no
// parent. Tensors are shared by pointer: a parameter may be consumed by many
// operators, and every consumer accumulates into the same gradient buffer.
package tensor

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"
)

// Producer is the graph node that produced a tensor.
//
// The autodiff package implements it; tensors only hold the reference so
// that the backward traversal can walk from an output to its ancestors.
type Producer interface {
	// Name returns the operator name (e.g. "MatMul").
	Name() string

	// Inputs returns the tensors the node consumed.
	Inputs() []*Tensor

	// Backward accumulates the node's contribution into its inputs' gradients.
	Backward()
}

// Tensor is a mutable numeric array with a gradient buffer.
//
// Invariant: len(Data()) == len(Grad()) == Size().
type Tensor struct {
	shape    Shape
	data     []float32
	grad     []float32
	needGrad bool
	parent   Producer
	borrows  int // >0: shared readers, writerHeld: exclusive writer
}

// New allocates a zero-filled tensor of the given shape with NeedGrad set.
// It panics with ErrShapeMismatch if any dimension is negative.
func New(shape Shape) *Tensor {
	if err := shape.Validate(); err != nil {
		panic(err)
	}
	size := shape.NumElements()
	return &Tensor{
		shape:    shape.Clone(),
		data:     make([]float32, size),
		grad:     make([]float32, size),
		needGrad: true,
	}
}

// FromSlice allocates a tensor of the given shape and copies values into it.
// It panics with ErrLengthMismatch if len(values) != shape.NumElements().
func FromSlice(values []float32, shape Shape) *Tensor {
	t := New(shape)
	t.SetData(values)
	return t
}

// Randomized allocates a tensor whose data is drawn uniformly from [-0.5, 0.5).
func Randomized(shape Shape) *Tensor {
	t := New(shape)
	t.FillRandom(distuv.Uniform{Min: -0.5, Max: 0.5})
	return t
}

// FillRandom overwrites data with draws from r.
func (t *Tensor) FillRandom(r distuv.Rander) {
	t.ensureUnborrowed("FillRandom")
	for i := range t.data {
		t.data[i] = float32(r.Rand())
	}
}

// Shape returns a copy of the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape.Clone()
}

// Rank returns the number of dimensions.
func (t *Tensor) Rank() int {
	return len(t.shape)
}

// Dim returns the size of dimension i.
func (t *Tensor) Dim(i int) int {
	return t.shape[i]
}

// Size returns the number of elements (1 for an empty shape).
func (t *Tensor) Size() int {
	return t.shape.NumElements()
}

// Data returns the live value buffer.
func (t *Tensor) Data() []float32 {
	return t.data
}

// Grad returns the live gradient buffer.
func (t *Tensor) Grad() []float32 {
	return t.grad
}

// SetData overwrites the value buffer.
// It panics with ErrLengthMismatch if len(values) != Size().
func (t *Tensor) SetData(values []float32) {
	if len(values) != len(t.data) {
		panic(fmt.Errorf("%w: SetData got %d values for %v tensor of size %d", ErrLengthMismatch, len(values), t.shape, len(t.data)))
	}
	t.ensureUnborrowed("SetData")
	copy(t.data, values)
}

// SetGrad overwrites the gradient buffer.
// It panics with ErrLengthMismatch if len(values) != Size().
func (t *Tensor) SetGrad(values []float32) {
	if len(values) != len(t.grad) {
		panic(fmt.Errorf("%w: SetGrad got %d values for %v tensor of size %d", ErrLengthMismatch, len(values), t.shape, len(t.grad)))
	}
	t.ensureUnborrowed("SetGrad")
	copy(t.grad, values)
}

// ZeroFillData sets every value to 0.
func (t *Tensor) ZeroFillData() {
	t.ensureUnborrowed("ZeroFillData")
	clear(t.data)
}

// ZeroFillGrad sets every gradient to 0.
func (t *Tensor) ZeroFillGrad() {
	t.ensureUnborrowed("ZeroFillGrad")
	clear(t.grad)
}

// OneFillData sets every value to 1.
func (t *Tensor) OneFillData() {
	t.ensureUnborrowed("OneFillData")
	fill(t.data, 1)
}

// OneFillGrad sets every gradient to 1. It seeds the root of a backward pass.
func (t *Tensor) OneFillGrad() {
	t.ensureUnborrowed("OneFillGrad")
	fill(t.grad, 1)
}

// NeedGrad reports whether the traversal should propagate through this tensor.
func (t *Tensor) NeedGrad() bool {
	return t.needGrad
}

// MarkNeedGrad sets the "needs gradient" flag. Non-differentiable operators
// clear it on their outputs to prune the backward traversal.
func (t *Tensor) MarkNeedGrad(needGrad bool) {
	t.needGrad = needGrad
}

// Parent returns the producing node, or nil for a leaf.
func (t *Tensor) Parent() Producer {
	return t.parent
}

// IsLeaf reports whether the tensor has no producing node.
func (t *Tensor) IsLeaf() bool {
	return t.parent == nil
}

// MarkParent records the producing node. A tensor has at most one producer;
// a second call panics.
func (t *Tensor) MarkParent(p Producer) {
	if t.parent != nil {
		panic(fmt.Errorf("%w: %v tensor produced by %s, cannot re-parent to %s",
			ErrAlreadyProduced, t.shape, t.parent.Name(), p.Name()))
	}
	t.parent = p
}

// String renders shape, flags and a prefix of the data for debugging.
func (t *Tensor) String() string {
	const maxShown = 8

	var sb strings.Builder
	fmt.Fprintf(&sb, "Tensor%v[", []int(t.shape))
	for i, v := range t.data {
		if i == maxShown {
			fmt.Fprintf(&sb, " ...(%d more)", len(t.data)-maxShown)
			break
		}
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%g", v)
	}
	sb.WriteByte(']')
	if t.parent != nil {
		fmt.Fprintf(&sb, " <- %s", t.parent.Name())
	}
	if !t.needGrad {
		sb.WriteString(" (no grad)")
	}
	return sb.String()
}

func fill(buf []float32, v float32) {
	for i := range buf {
		buf[i] = v
	}
}
