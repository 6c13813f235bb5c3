package ops

import (
	"math"

	"github.com/born-ml/dyngraph/internal/tensor"
)

// Softmax represents the row-wise softmax of a rank-2 input.
//
// Forward (for each row):
//
//	softmax(x)_j = exp(x_j - max(x)) / Σ_k exp(x_k - max(x))
//
// The max-shifting prevents overflow.
//
// Backward:
//
//	∂L/∂x_j = softmax_j * (∂L/∂softmax_j - Σ_k softmax_k * ∂L/∂softmax_k)
//
// The cached output is the only state needed, so Backward reads it back
// from the output tensor.
type Softmax struct{ op }

// Name returns "Softmax".
func (Softmax) Name() string { return "Softmax" }

// OutputShape requires a rank-2 input.
func (s Softmax) OutputShape(inputs []*tensor.Tensor) tensor.Shape {
	expectArity(s.Name(), inputs, 1)
	expectRank(s.Name(), "x", inputs[0], 2)
	return inputs[0].Shape()
}

// Forward computes the softmax of each row.
func (s Softmax) Forward(inputs, outputs []*tensor.Tensor) {
	checkOutputs(s, inputs, outputs)
	x, out := inputs[0], outputs[0]
	rows, cols := x.Dim(0), x.Dim(1)
	xData, outData := x.Data(), out.Data()

	for r := 0; r < rows; r++ {
		row := xData[r*cols : (r+1)*cols]
		dst := outData[r*cols : (r+1)*cols]
		maxVal := rowMax(row)

		var sumExp float64
		for j, v := range row {
			e := math.Exp(float64(v - maxVal))
			dst[j] = float32(e)
			sumExp += e
		}
		for j := range dst {
			dst[j] = float32(float64(dst[j]) / sumExp)
		}
	}
}

// Backward accumulates the softmax Jacobian-vector product into dx.
func (s Softmax) Backward(inputs, outputs []*tensor.Tensor) {
	checkOutputs(s, inputs, outputs)
	x, out := inputs[0], outputs[0]
	rows, cols := x.Dim(0), x.Dim(1)
	dx, y, dy := x.Grad(), out.Data(), out.Grad()

	for r := 0; r < rows; r++ {
		off := r * cols

		var dot float32
		for j := 0; j < cols; j++ {
			dot += y[off+j] * dy[off+j]
		}
		for j := 0; j < cols; j++ {
			dx[off+j] += y[off+j] * (dy[off+j] - dot)
		}
	}
}

// LogSoftmax represents the row-wise log-softmax of a rank-2 input.
//
// Forward (for each row), computed directly rather than as Log(Softmax(x)):
//
//	log_softmax(x)_j = x_j - max(x) - log(Σ_k exp(x_k - max(x)))
//
// Backward:
//
//	∂L/∂x_j = ∂L/∂log_softmax_j - softmax_j * Σ_k ∂L/∂log_softmax_k
//
// softmax_j is recovered as exp(log_softmax_j) from the output.
type LogSoftmax struct{ op }

// Name returns "LogSoftmax".
func (LogSoftmax) Name() string { return "LogSoftmax" }

// OutputShape requires a rank-2 input.
func (l LogSoftmax) OutputShape(inputs []*tensor.Tensor) tensor.Shape {
	expectArity(l.Name(), inputs, 1)
	expectRank(l.Name(), "x", inputs[0], 2)
	return inputs[0].Shape()
}

// Forward computes the log-softmax of each row.
func (l LogSoftmax) Forward(inputs, outputs []*tensor.Tensor) {
	checkOutputs(l, inputs, outputs)
	x, out := inputs[0], outputs[0]
	rows, cols := x.Dim(0), x.Dim(1)
	xData, outData := x.Data(), out.Data()

	for r := 0; r < rows; r++ {
		row := xData[r*cols : (r+1)*cols]
		dst := outData[r*cols : (r+1)*cols]
		maxVal := rowMax(row)

		var sumExp float64
		for _, v := range row {
			sumExp += math.Exp(float64(v - maxVal))
		}
		logSum := float32(math.Log(sumExp))
		for j, v := range row {
			dst[j] = v - maxVal - logSum
		}
	}
}

// Backward accumulates the log-softmax Jacobian-vector product into dx.
func (l LogSoftmax) Backward(inputs, outputs []*tensor.Tensor) {
	checkOutputs(l, inputs, outputs)
	x, out := inputs[0], outputs[0]
	rows, cols := x.Dim(0), x.Dim(1)
	dx, y, dy := x.Grad(), out.Data(), out.Grad()

	for r := 0; r < rows; r++ {
		off := r * cols

		var gradSum float32
		for j := 0; j < cols; j++ {
			gradSum += dy[off+j]
		}
		for j := 0; j < cols; j++ {
			softmax := float32(math.Exp(float64(y[off+j])))
			dx[off+j] += dy[off+j] - softmax*gradSum
		}
	}
}

// rowMax returns the largest element of a non-empty row, or 0 for an empty one.
func rowMax(row []float32) float32 {
	if len(row) == 0 {
		return 0
	}
	maxVal := row[0]
	for _, v := range row[1:] {
		if v > maxVal {
			maxVal = v
		}
	}
	return maxVal
}
