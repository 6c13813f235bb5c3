package ops

import (
	"github.com/born-ml/dyngraph/internal/tensor"
	"gonum.org/v1/gonum/blas"
)

// MatMul represents matrix multiplication: out = x @ y.
//
// Shapes: x [m, k], y [k, n], out [m, n]. Rank 2 only.
//
// Backward pass:
//   - dx += dout @ yᵀ
//   - dy += xᵀ @ dout
//
// All three products run through BLAS GEMM; the backward products use
// beta = 1 so they accumulate into the existing gradients.
type MatMul struct{ op }

// Name returns "MatMul".
func (MatMul) Name() string { return "MatMul" }

// OutputShape requires rank-2 inputs with x.cols == y.rows.
func (m MatMul) OutputShape(inputs []*tensor.Tensor) tensor.Shape {
	expectArity(m.Name(), inputs, 2)
	x, y := inputs[0], inputs[1]
	expectRank(m.Name(), "x", x, 2)
	expectRank(m.Name(), "y", y, 2)
	if x.Dim(1) != y.Dim(0) {
		panic(shapeError(m.Name(), "inner dimensions differ: x %v, y %v", x.Shape(), y.Shape()))
	}
	return tensor.Shape{x.Dim(0), y.Dim(1)}
}

// Forward computes out = x @ y, overwriting out.
func (m MatMul) Forward(inputs, outputs []*tensor.Tensor) {
	checkOutputs(m, inputs, outputs)
	x, y, out := inputs[0], inputs[1], outputs[0]
	rows, inner, cols := x.Dim(0), x.Dim(1), y.Dim(1)

	gemm(blas.NoTrans, blas.NoTrans,
		general(rows, inner, x.Data()),
		general(inner, cols, y.Data()),
		general(rows, cols, out.Data()),
		0)
}

// Backward accumulates dx += dout @ yᵀ and dy += xᵀ @ dout.
func (m MatMul) Backward(inputs, outputs []*tensor.Tensor) {
	checkOutputs(m, inputs, outputs)
	x, y, out := inputs[0], inputs[1], outputs[0]
	rows, inner, cols := x.Dim(0), x.Dim(1), y.Dim(1)
	dout := general(rows, cols, out.Grad())

	gemm(blas.NoTrans, blas.Trans,
		dout,
		general(inner, cols, y.Data()),
		general(rows, inner, x.Grad()),
		1)

	gemm(blas.Trans, blas.NoTrans,
		general(rows, inner, x.Data()),
		dout,
		general(inner, cols, y.Grad()),
		1)
}
