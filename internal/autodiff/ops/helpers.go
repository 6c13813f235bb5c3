package ops

import (
	"fmt"

	"github.com/born-ml/dyngraph/internal/tensor"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
)

// shapeError builds the panic value for a contract violation.
func shapeError(name, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", tensor.ErrShapeMismatch, name, fmt.Sprintf(format, args...))
}

// expectArity checks the number of inputs.
func expectArity(name string, inputs []*tensor.Tensor, nIn int) {
	if len(inputs) != nIn {
		panic(shapeError(name, "expected %d input(s), got %d", nIn, len(inputs)))
	}
}

// expectRank checks that t has exactly the given rank.
func expectRank(name, what string, t *tensor.Tensor, rank int) {
	if t.Rank() != rank {
		panic(shapeError(name, "%s must be rank %d, got shape %v", what, rank, t.Shape()))
	}
}

// sameShape checks that x and y have identical shapes and returns it.
func sameShape(name string, x, y *tensor.Tensor) tensor.Shape {
	xs, ys := x.Shape(), y.Shape()
	if !xs.Equal(ys) {
		panic(shapeError(name, "x %v vs y %v", xs, ys))
	}
	return xs
}

// binaryShape validates a same-shape element-wise pair.
func binaryShape(name string, inputs []*tensor.Tensor) tensor.Shape {
	expectArity(name, inputs, 2)
	return sameShape(name, inputs[0], inputs[1])
}

// unaryShape validates a single element-wise input.
func unaryShape(name string, inputs []*tensor.Tensor) tensor.Shape {
	expectArity(name, inputs, 1)
	return inputs[0].Shape()
}

// checkOutputs validates inputs through o.OutputShape and checks that the
// single output matches it.
func checkOutputs(o Operation, inputs, outputs []*tensor.Tensor) {
	want := o.OutputShape(inputs)
	if len(outputs) != 1 {
		panic(shapeError(o.Name(), "expected 1 output, got %d", len(outputs)))
	}
	if got := outputs[0].Shape(); !got.Equal(want) {
		panic(shapeError(o.Name(), "output %v, want %v", got, want))
	}
}

// vec wraps a contiguous buffer as a BLAS vector.
func vec(data []float32) blas32.Vector {
	return blas32.Vector{N: len(data), Inc: 1, Data: data}
}

// accumulate computes dst += alpha * src.
func accumulate(alpha float32, src, dst []float32) {
	blas32.Axpy(alpha, vec(src), vec(dst))
}

// general wraps a row-major rows x cols buffer as a BLAS matrix.
func general(rows, cols int, data []float32) blas32.General {
	return blas32.General{Rows: rows, Cols: cols, Stride: max(cols, 1), Data: data}
}

// gemm computes c = alpha*op(a)*op(b) + beta*c, where a and b are given in
// their stored (untransposed) layout.
//
// Shapes with a zero dimension are handled here: the product is empty or
// all zero, so only the beta scaling of c is applied.
func gemm(tA, tB blas.Transpose, a, b, c blas32.General, beta float32) {
	m, k := a.Rows, a.Cols
	if tA == blas.Trans {
		m, k = k, m
	}
	n := b.Cols
	if tB == blas.Trans {
		n = b.Rows
	}
	if m == 0 || n == 0 || k == 0 {
		if beta == 0 {
			clear(c.Data)
		}
		return
	}
	blas32.Gemm(tA, tB, 1, a, b, beta, c)
}
