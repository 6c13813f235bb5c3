package tensor_test

import (
	"errors"
	"testing"

	"github.com/born-ml/dyngraph/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requirePanicsWith fails unless f panics with an error wrapping target.
func requirePanicsWith(t *testing.T, target error, f func()) {
	t.Helper()
	var recovered any
	func() {
		defer func() { recovered = recover() }()
		f()
	}()
	require.NotNil(t, recovered, "expected a panic wrapping %v", target)
	err, ok := recovered.(error)
	require.True(t, ok, "panic value %v is not an error", recovered)
	require.True(t, errors.Is(err, target), "panic %v does not wrap %v", err, target)
}

type stubProducer struct{ name string }

func (p stubProducer) Name() string              { return p.name }
func (p stubProducer) Inputs() []*tensor.Tensor { return nil }
func (p stubProducer) Backward()                 {}

func TestNew(t *testing.T) {
	x := tensor.New(tensor.Shape{1, 2, 3})

	assert.Equal(t, 6, x.Size())
	assert.Equal(t, 3, x.Rank())
	assert.Equal(t, tensor.Shape{1, 2, 3}, x.Shape())
	assert.Len(t, x.Data(), 6)
	assert.Len(t, x.Grad(), 6)
	assert.True(t, x.NeedGrad())
	assert.True(t, x.IsLeaf())
	assert.Nil(t, x.Parent())
	for i := range x.Data() {
		assert.Zero(t, x.Data()[i])
		assert.Zero(t, x.Grad()[i])
	}
}

func TestNew_EmptyShapeIsScalar(t *testing.T) {
	x := tensor.New(tensor.Shape{})
	assert.Equal(t, 1, x.Size())
	assert.Len(t, x.Data(), 1)
}

func TestNew_ZeroDimension(t *testing.T) {
	x := tensor.New(tensor.Shape{0, 4})
	assert.Equal(t, 0, x.Size())
	assert.Empty(t, x.Data())
}

func TestNew_NegativeDimensionPanics(t *testing.T) {
	requirePanicsWith(t, tensor.ErrShapeMismatch, func() {
		tensor.New(tensor.Shape{2, -1})
	})
}

func TestShape_IsCopied(t *testing.T) {
	shape := tensor.Shape{2, 2}
	x := tensor.New(shape)
	shape[0] = 7
	x.Shape()[1] = 9

	assert.Equal(t, tensor.Shape{2, 2}, x.Shape())
}

func TestShape_ComputeStrides(t *testing.T) {
	assert.Equal(t, []int{12, 4, 1}, tensor.Shape{2, 3, 4}.ComputeStrides())
	assert.Equal(t, []int{0, 5, 1}, tensor.Shape{4, 0, 5}.ComputeStrides())
	assert.Empty(t, tensor.Shape{}.ComputeStrides())
}

func TestSetDataAndGrad(t *testing.T) {
	x := tensor.New(tensor.Shape{2})
	x.SetData([]float32{1, 2})
	x.SetGrad([]float32{3, 4})

	assert.Equal(t, []float32{1, 2}, x.Data())
	assert.Equal(t, []float32{3, 4}, x.Grad())
}

func TestSetData_LengthMismatchPanics(t *testing.T) {
	x := tensor.New(tensor.Shape{2, 2})
	requirePanicsWith(t, tensor.ErrLengthMismatch, func() { x.SetData([]float32{1, 2, 3}) })
	requirePanicsWith(t, tensor.ErrLengthMismatch, func() { x.SetGrad([]float32{1}) })
}

func TestFromSlice(t *testing.T) {
	x := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	assert.Equal(t, 2, x.Dim(0))
	assert.Equal(t, 3, x.Dim(1))
	assert.Equal(t, float32(6), x.Data()[5])

	requirePanicsWith(t, tensor.ErrLengthMismatch, func() {
		tensor.FromSlice([]float32{1}, tensor.Shape{2})
	})
}

func TestFillHelpers(t *testing.T) {
	x := tensor.New(tensor.Shape{3})

	x.OneFillData()
	x.OneFillGrad()
	assert.Equal(t, []float32{1, 1, 1}, x.Data())
	assert.Equal(t, []float32{1, 1, 1}, x.Grad())

	x.ZeroFillData()
	x.ZeroFillGrad()
	assert.Equal(t, []float32{0, 0, 0}, x.Data())
	assert.Equal(t, []float32{0, 0, 0}, x.Grad())
}

func TestRandomized_Range(t *testing.T) {
	x := tensor.Randomized(tensor.Shape{64, 16})

	allZero := true
	for _, v := range x.Data() {
		assert.GreaterOrEqual(t, v, float32(-0.5))
		assert.LessOrEqual(t, v, float32(0.5))
		if v != 0 {
			allZero = false
		}
	}
	assert.False(t, allZero)
	for _, g := range x.Grad() {
		assert.Zero(t, g)
	}
}

func TestMarkParent_OnlyOnce(t *testing.T) {
	x := tensor.New(tensor.Shape{1})
	x.MarkParent(stubProducer{name: "Add"})

	assert.False(t, x.IsLeaf())
	assert.Equal(t, "Add", x.Parent().Name())
	requirePanicsWith(t, tensor.ErrAlreadyProduced, func() { x.MarkParent(stubProducer{name: "Mul"}) })
	assert.Equal(t, "Add", x.Parent().Name())
}

func TestMarkNeedGrad(t *testing.T) {
	x := tensor.New(tensor.Shape{1})
	x.MarkNeedGrad(false)
	assert.False(t, x.NeedGrad())
	assert.Contains(t, x.String(), "no grad")
}

func TestBorrow_ManyReaders(t *testing.T) {
	x := tensor.New(tensor.Shape{1})
	r1 := x.Borrow()
	r2 := x.Borrow()
	assert.True(t, x.Borrowed())

	requirePanicsWith(t, tensor.ErrBorrowConflict, func() { x.BorrowMut() })

	r1()
	r2()
	assert.False(t, x.Borrowed())

	w := x.BorrowMut()
	w()
}

func TestBorrow_SingleWriter(t *testing.T) {
	x := tensor.New(tensor.Shape{1})
	w := x.BorrowMut()

	requirePanicsWith(t, tensor.ErrBorrowConflict, func() { x.Borrow() })
	requirePanicsWith(t, tensor.ErrBorrowConflict, func() { x.BorrowMut() })
	requirePanicsWith(t, tensor.ErrBorrowConflict, func() { x.SetData([]float32{1}) })

	w()
	w() // releasing twice is a no-op
	assert.False(t, x.Borrowed())
	x.SetData([]float32{1})
}

func TestString(t *testing.T) {
	x := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, tensor.Shape{10})
	s := x.String()
	assert.Contains(t, s, "Tensor[10]")
	assert.Contains(t, s, "(2 more)")
}
