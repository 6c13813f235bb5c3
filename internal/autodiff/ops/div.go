package ops

import "github.com/born-ml/dyngraph/internal/tensor"

// Div represents an element-wise division: out = x / y.
//
// Backward pass:
//   - d(x/y)/dx = 1/y, so dx += dout / y
//   - d(x/y)/dy = -x/y², so dy += -x / y² * dout
//
// Division by zero follows IEEE-754 (±Inf or NaN); it is not checked.
type Div struct{ op }

// Name returns "Div".
func (Div) Name() string { return "Div" }

// OutputShape requires x and y to share a shape.
func (d Div) OutputShape(inputs []*tensor.Tensor) tensor.Shape {
	return binaryShape(d.Name(), inputs)
}

// Forward computes out[i] = x[i] / y[i].
func (d Div) Forward(inputs, outputs []*tensor.Tensor) {
	checkOutputs(d, inputs, outputs)
	x, y, out := inputs[0].Data(), inputs[1].Data(), outputs[0].Data()
	for i := range out {
		out[i] = x[i] / y[i]
	}
}

// Backward computes dx += dout/y and dy += -x/y² * dout.
func (d Div) Backward(inputs, outputs []*tensor.Tensor) {
	checkOutputs(d, inputs, outputs)
	x, y := inputs[0], inputs[1]
	xData, yData := x.Data(), y.Data()
	dx, dy := x.Grad(), y.Grad()
	for i, g := range outputs[0].Grad() {
		dx[i] += g / yData[i]
		dy[i] += -xData[i] / (yData[i] * yData[i]) * g
	}
}
