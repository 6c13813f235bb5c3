package ops

import "github.com/born-ml/dyngraph/internal/tensor"

// Mul represents an element-wise multiplication: out = x * y.
//
// Backward pass:
//   - d(x*y)/dx = y, so dx += y * dout
//   - d(x*y)/dy = x, so dy += x * dout
//
// Mul(x, x) is valid: both contributions land in the same buffer.
type Mul struct{ op }

// Name returns "Mul".
func (Mul) Name() string { return "Mul" }

// OutputShape requires x and y to share a shape.
func (m Mul) OutputShape(inputs []*tensor.Tensor) tensor.Shape {
	return binaryShape(m.Name(), inputs)
}

// Forward computes out[i] = x[i] * y[i].
func (m Mul) Forward(inputs, outputs []*tensor.Tensor) {
	checkOutputs(m, inputs, outputs)
	x, y, out := inputs[0].Data(), inputs[1].Data(), outputs[0].Data()
	for i := range out {
		out[i] = x[i] * y[i]
	}
}

// Backward computes dx += y*dout and dy += x*dout.
func (m Mul) Backward(inputs, outputs []*tensor.Tensor) {
	checkOutputs(m, inputs, outputs)
	x, y := inputs[0], inputs[1]
	xData, yData := x.Data(), y.Data()
	dx, dy := x.Grad(), y.Grad()
	for i, g := range outputs[0].Grad() {
		dx[i] += yData[i] * g
		dy[i] += xData[i] * g
	}
}
