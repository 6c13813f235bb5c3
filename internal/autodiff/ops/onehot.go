package ops

import (
	"fmt"

	"github.com/born-ml/dyngraph/internal/tensor"
)

// Onehot expands class indices into one-hot rows.
//
// Shapes: x [n] -> out [n, NumClasses]; out[i, x[i]] = 1, all else 0.
// Each x[i] must be an integer in [0, NumClasses), otherwise Forward panics
// with tensor.ErrClassOutOfRange.
//
// Onehot has no gradient; Backward panics with tensor.ErrNoGradient.
type Onehot struct {
	op
	NumClasses int
}

// NewOnehot creates a Onehot with the given class count.
func NewOnehot(numClasses int) Onehot {
	return Onehot{NumClasses: numClasses}
}

// Name returns "Onehot".
func (Onehot) Name() string { return "Onehot" }

// OutputShape requires a rank-1 input and returns [n, NumClasses].
func (o Onehot) OutputShape(inputs []*tensor.Tensor) tensor.Shape {
	expectArity(o.Name(), inputs, 1)
	expectRank(o.Name(), "x", inputs[0], 1)
	if o.NumClasses < 0 {
		panic(shapeError(o.Name(), "negative class count %d", o.NumClasses))
	}
	return tensor.Shape{inputs[0].Dim(0), o.NumClasses}
}

// Forward writes one row per label.
func (o Onehot) Forward(inputs, outputs []*tensor.Tensor) {
	checkOutputs(o, inputs, outputs)
	labels, out := inputs[0].Data(), outputs[0].Data()
	clear(out)

	for i, v := range labels {
		class := int(v)
		if float32(class) != v || class < 0 || class >= o.NumClasses {
			panic(fmt.Errorf("%w: %s: label %v at index %d not in [0, %d)",
				tensor.ErrClassOutOfRange, o.Name(), v, i, o.NumClasses))
		}
		out[i*o.NumClasses+class] = 1
	}
}

// Backward always panics: labels are not differentiable.
func (o Onehot) Backward(_, _ []*tensor.Tensor) {
	panic(fmt.Errorf("%w: %s", tensor.ErrNoGradient, o.Name()))
}
