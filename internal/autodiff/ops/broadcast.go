package ops

import "github.com/born-ml/dyngraph/internal/tensor"

// Broadcast replicates its input along the leading (batch) axis.
//
// Two input layouts are accepted for a target shape [B, d1, ..., dn]:
//   - [1, d1, ..., dn]: same rank, batch dimension of size 1
//   - [d1, ..., dn]:    one rank lower, the batch axis is new
//
// Every non-batch dimension must equal the target's exactly. A non-batch
// dimension of size 1 is rejected rather than stretched: [1, 1, 3] does not
// broadcast to [3, 2, 3]. Only the batch axis is broadcast.
//
// Forward:  out[b, *] = x[*] for every b in [0, B)
// Backward: dx[*] += Σ_b dout[b, *]
type Broadcast struct {
	op
	Shape tensor.Shape // target shape, batch axis first
}

// NewBroadcast creates a Broadcast to the given target shape.
func NewBroadcast(shape tensor.Shape) Broadcast {
	return Broadcast{Shape: shape.Clone()}
}

// Name returns "Broadcast".
func (Broadcast) Name() string { return "Broadcast" }

// OutputShape validates x against the target shape and returns the target.
func (b Broadcast) OutputShape(inputs []*tensor.Tensor) tensor.Shape {
	expectArity(b.Name(), inputs, 1)
	x := inputs[0].Shape()
	target := b.Shape

	if len(target) == 0 {
		panic(shapeError(b.Name(), "target shape must have a batch axis"))
	}
	if err := target.Validate(); err != nil {
		panic(err)
	}

	var rest tensor.Shape
	switch len(x) {
	case len(target):
		if x[0] != 1 {
			panic(shapeError(b.Name(), "batch dimension of x %v must be 1 to broadcast to %v", x, target))
		}
		rest = x[1:]
	case len(target) - 1:
		rest = x
	default:
		panic(shapeError(b.Name(), "cannot broadcast %v to %v", x, target))
	}
	if !rest.Equal(target[1:]) {
		panic(shapeError(b.Name(), "non-batch dimensions of x %v must equal those of %v", x, target))
	}
	return target.Clone()
}

// Forward copies x into every batch slice of out.
func (b Broadcast) Forward(inputs, outputs []*tensor.Tensor) {
	checkOutputs(b, inputs, outputs)
	x, out := inputs[0].Data(), outputs[0].Data()
	slice := b.batchStride()
	for batch := 0; batch < b.Shape[0]; batch++ {
		copy(out[batch*slice:(batch+1)*slice], x)
	}
}

// Backward sums the output gradient over the batch axis into dx.
func (b Broadcast) Backward(inputs, outputs []*tensor.Tensor) {
	checkOutputs(b, inputs, outputs)
	dx, dout := inputs[0].Grad(), outputs[0].Grad()
	slice := b.batchStride()
	for batch := 0; batch < b.Shape[0]; batch++ {
		accumulate(1, dout[batch*slice:(batch+1)*slice], dx)
	}
}

// batchStride is the number of elements in one batch slice of the target,
// which is also the size of x.
func (b Broadcast) batchStride() int {
	return b.Shape.ComputeStrides()[0]
}
