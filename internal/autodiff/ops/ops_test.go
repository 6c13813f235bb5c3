package ops_test

import (
	"math"
	"testing"

	"github.com/born-ml/dyngraph/internal/autodiff/ops"
	"github.com/born-ml/dyngraph/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes op.Forward on fresh output storage and returns the output.
func run(op ops.Operation, inputs ...*tensor.Tensor) *tensor.Tensor {
	out := tensor.New(op.OutputShape(inputs))
	op.Forward(inputs, []*tensor.Tensor{out})
	return out
}

// backward seeds out's gradient and runs op.Backward.
func backward(op ops.Operation, out *tensor.Tensor, dout []float32, inputs ...*tensor.Tensor) {
	out.SetGrad(dout)
	op.Backward(inputs, []*tensor.Tensor{out})
}

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
	require.ErrorIs(t, err, target)
}

func TestElementwiseBinary_Forward(t *testing.T) {
	xs := []float32{1, -2, 3.5, 4}
	ys := []float32{2, 5, -0.5, 8}

	tests := []struct {
		op ops.Operation
		fn func(a, b float32) float32
	}{
		{ops.Add{}, func(a, b float32) float32 { return a + b }},
		{ops.Sub{}, func(a, b float32) float32 { return a - b }},
		{ops.Mul{}, func(a, b float32) float32 { return a * b }},
		{ops.Div{}, func(a, b float32) float32 { return a / b }},
	}

	for _, tt := range tests {
		t.Run(tt.op.Name(), func(t *testing.T) {
			x := tensor.FromSlice(xs, tensor.Shape{2, 2})
			y := tensor.FromSlice(ys, tensor.Shape{2, 2})
			out := run(tt.op, x, y)

			require.Equal(t, tensor.Shape{2, 2}, out.Shape())
			for i := range xs {
				assert.Equal(t, tt.fn(xs[i], ys[i]), out.Data()[i], "index %d", i)
			}
		})
	}
}

func TestElementwiseBinary_ShapeMismatch(t *testing.T) {
	x := tensor.New(tensor.Shape{2, 3})
	y := tensor.New(tensor.Shape{3, 2})
	for _, op := range []ops.Operation{ops.Add{}, ops.Sub{}, ops.Mul{}, ops.Div{}} {
		requirePanicsWith(t, tensor.ErrShapeMismatch, func() { op.OutputShape([]*tensor.Tensor{x, y}) })
	}
}

func TestForward_RejectsWrongOutputShape(t *testing.T) {
	x := tensor.New(tensor.Shape{2})
	out := tensor.New(tensor.Shape{3})
	requirePanicsWith(t, tensor.ErrShapeMismatch, func() {
		ops.Neg{}.Forward([]*tensor.Tensor{x}, []*tensor.Tensor{out})
	})
}

func TestAdd_Backward(t *testing.T) {
	x := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3})
	y := tensor.FromSlice([]float32{4, 5, 6}, tensor.Shape{3})
	out := run(ops.Add{}, x, y)

	backward(ops.Add{}, out, []float32{1, 2, 3}, x, y)
	assert.Equal(t, []float32{1, 2, 3}, x.Grad())
	assert.Equal(t, []float32{1, 2, 3}, y.Grad())

	// Gradients accumulate rather than overwrite.
	backward(ops.Add{}, out, []float32{1, 1, 1}, x, y)
	assert.Equal(t, []float32{2, 3, 4}, x.Grad())
}

func TestSub_Backward(t *testing.T) {
	x := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2})
	y := tensor.FromSlice([]float32{3, 4}, tensor.Shape{2})
	out := run(ops.Sub{}, x, y)

	backward(ops.Sub{}, out, []float32{1, 0.5}, x, y)
	assert.Equal(t, []float32{1, 0.5}, x.Grad())
	assert.Equal(t, []float32{-1, -0.5}, y.Grad())
}

func TestMul_Backward(t *testing.T) {
	x := tensor.FromSlice([]float32{2, 3}, tensor.Shape{2})
	y := tensor.FromSlice([]float32{5, 7}, tensor.Shape{2})
	out := run(ops.Mul{}, x, y)

	backward(ops.Mul{}, out, []float32{1, 2}, x, y)
	assert.Equal(t, []float32{5, 14}, x.Grad())
	assert.Equal(t, []float32{2, 6}, y.Grad())
}

func TestDiv_Backward(t *testing.T) {
	x := tensor.FromSlice([]float32{6}, tensor.Shape{1})
	y := tensor.FromSlice([]float32{2}, tensor.Shape{1})
	out := run(ops.Div{}, x, y)
	assert.Equal(t, []float32{3}, out.Data())

	backward(ops.Div{}, out, []float32{1}, x, y)
	assert.InDelta(t, 0.5, x.Grad()[0], 1e-6)  // 1/y
	assert.InDelta(t, -1.5, y.Grad()[0], 1e-6) // -x/y²
}

func TestNeg(t *testing.T) {
	x := tensor.FromSlice([]float32{1, -2}, tensor.Shape{2})
	out := run(ops.Neg{}, x)
	assert.Equal(t, []float32{-1, 2}, out.Data())

	backward(ops.Neg{}, out, []float32{3, 4}, x)
	assert.Equal(t, []float32{-3, -4}, x.Grad())
}

func TestSquare(t *testing.T) {
	x := tensor.FromSlice([]float32{3, -2}, tensor.Shape{2})
	out := run(ops.Square{}, x)
	assert.Equal(t, []float32{9, 4}, out.Data())

	backward(ops.Square{}, out, []float32{1, 1}, x)
	assert.Equal(t, []float32{6, -4}, x.Grad())
}

func TestLog(t *testing.T) {
	x := tensor.FromSlice([]float32{1, float32(math.E), 4}, tensor.Shape{3})
	out := run(ops.Log{}, x)
	assert.InDelta(t, 0, out.Data()[0], 1e-6)
	assert.InDelta(t, 1, out.Data()[1], 1e-6)

	backward(ops.Log{}, out, []float32{1, 1, 2}, x)
	assert.InDelta(t, 1, x.Grad()[0], 1e-6)
	assert.InDelta(t, 0.5, x.Grad()[2], 1e-6)
}

func TestReLU(t *testing.T) {
	x := tensor.FromSlice([]float32{-1, 0, 2}, tensor.Shape{3})
	out := run(ops.ReLU{}, x)
	assert.Equal(t, []float32{0, 0, 2}, out.Data())

	backward(ops.ReLU{}, out, []float32{5, 5, 5}, x)
	assert.Equal(t, []float32{0, 0, 5}, x.Grad())
}

func TestMatMul_Identity(t *testing.T) {
	eye := []float32{1, 0, 0, 1}
	x := tensor.FromSlice(eye, tensor.Shape{2, 2})
	y := tensor.FromSlice(eye, tensor.Shape{2, 2})

	out := run(ops.MatMul{}, x, y)
	assert.Equal(t, eye, out.Data())
}

func TestMatMul_Rectangular(t *testing.T) {
	// [2,3] @ [3,2]
	x := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	y := tensor.FromSlice([]float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})

	out := run(ops.MatMul{}, x, y)
	require.Equal(t, tensor.Shape{2, 2}, out.Shape())
	assert.Equal(t, []float32{58, 64, 139, 154}, out.Data())
}

func TestMatMul_Backward(t *testing.T) {
	x := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	y := tensor.FromSlice([]float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})
	out := run(ops.MatMul{}, x, y)

	backward(ops.MatMul{}, out, []float32{1, 1, 1, 1}, x, y)

	// dx = dout @ yᵀ: every row is the row sums of y.
	assert.Equal(t, []float32{15, 19, 23, 15, 19, 23}, x.Grad())
	// dy = xᵀ @ dout: every column is the column sums of x.
	assert.Equal(t, []float32{5, 5, 7, 7, 9, 9}, y.Grad())
}

func TestMatMul_ShapeErrors(t *testing.T) {
	requirePanicsWith(t, tensor.ErrShapeMismatch, func() {
		ops.MatMul{}.OutputShape([]*tensor.Tensor{tensor.New(tensor.Shape{2, 3}), tensor.New(tensor.Shape{2, 3})})
	})
	requirePanicsWith(t, tensor.ErrShapeMismatch, func() {
		ops.MatMul{}.OutputShape([]*tensor.Tensor{tensor.New(tensor.Shape{6}), tensor.New(tensor.Shape{6, 1})})
	})
}

func TestMatMul_ZeroInnerDimension(t *testing.T) {
	x := tensor.New(tensor.Shape{2, 0})
	y := tensor.New(tensor.Shape{0, 3})
	out := run(ops.MatMul{}, x, y)
	assert.Equal(t, make([]float32, 6), out.Data())
}

func TestBroadcast_SameRank(t *testing.T) {
	data := []float32{1, 2, 3, 4, 5, 6}
	x := tensor.FromSlice(data, tensor.Shape{1, 2, 3})
	b := ops.NewBroadcast(tensor.Shape{3, 2, 3})

	out := run(b, x)
	require.Equal(t, tensor.Shape{3, 2, 3}, out.Shape())
	for batch := 0; batch < 3; batch++ {
		assert.Equal(t, data, out.Data()[batch*6:(batch+1)*6], "batch %d", batch)
	}

	dout := make([]float32, 18)
	for i := range dout {
		dout[i] = float32(i)
	}
	backward(b, out, dout, x)
	// dx[i] = dout[i] + dout[i+6] + dout[i+12] = 3i + 18
	assert.Equal(t, []float32{18, 21, 24, 27, 30, 33}, x.Grad())
}

func TestBroadcast_NewLeadingAxis(t *testing.T) {
	x := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2})
	out := run(ops.NewBroadcast(tensor.Shape{3, 2}), x)
	assert.Equal(t, []float32{1, 2, 1, 2, 1, 2}, out.Data())
}

func TestBroadcast_ShapeErrors(t *testing.T) {
	cases := []struct {
		name   string
		x      tensor.Shape
		target tensor.Shape
	}{
		{"batch not one", tensor.Shape{2, 3}, tensor.Shape{4, 3}},
		{"non-batch differs", tensor.Shape{1, 2}, tensor.Shape{4, 3}},
		{"non-batch one", tensor.Shape{1, 1}, tensor.Shape{4, 3}},
		{"inner axis of one", tensor.Shape{1, 1, 3}, tensor.Shape{3, 2, 3}},
		{"rank too low", tensor.Shape{3}, tensor.Shape{2, 2, 3}},
		{"empty target", tensor.Shape{1}, tensor.Shape{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := ops.NewBroadcast(tc.target)
			requirePanicsWith(t, tensor.ErrShapeMismatch, func() {
				b.OutputShape([]*tensor.Tensor{tensor.New(tc.x)})
			})
		})
	}
}

func TestMean(t *testing.T) {
	x := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{1, 2, 3})
	out := run(ops.Mean{}, x)
	require.Equal(t, tensor.Shape{1}, out.Shape())
	assert.InDelta(t, 3.5, out.Data()[0], 1e-6)

	backward(ops.Mean{}, out, []float32{3}, x)
	for _, g := range x.Grad() {
		assert.InDelta(t, 0.5, g, 1e-6)
	}
}

func TestSoftmax_RowsSumToOne(t *testing.T) {
	x := tensor.FromSlice([]float32{
		1, 2, 3, 4,
		-5, 0, 5, 100,
		0, 0, 0, 0,
	}, tensor.Shape{3, 4})
	out := run(ops.Softmax{}, x)

	for r := 0; r < 3; r++ {
		var sum float32
		for _, v := range out.Data()[r*4 : (r+1)*4] {
			assert.GreaterOrEqual(t, v, float32(0))
			assert.LessOrEqual(t, v, float32(1))
			sum += v
		}
		assert.InDelta(t, 1, sum, 0.01, "row %d", r)
	}
	assert.InDelta(t, 0.25, out.Data()[8], 1e-6)
}

func TestSoftmax_Backward(t *testing.T) {
	x := tensor.FromSlice([]float32{0, 0}, tensor.Shape{1, 2})
	out := run(ops.Softmax{}, x)

	// y = [0.5, 0.5]; dx_j = y_j * (dy_j - Σ y_k dy_k)
	backward(ops.Softmax{}, out, []float32{1, 0}, x)
	assert.InDelta(t, 0.25, x.Grad()[0], 1e-6)
	assert.InDelta(t, -0.25, x.Grad()[1], 1e-6)
}

func TestLogSoftmax_MatchesLogOfSoftmax(t *testing.T) {
	data := []float32{2, 1, 0.5, -3, 7, 7}
	sm := run(ops.Softmax{}, tensor.FromSlice(data, tensor.Shape{2, 3}))
	lsm := run(ops.LogSoftmax{}, tensor.FromSlice(data, tensor.Shape{2, 3}))

	for i := range data {
		assert.InDelta(t, math.Log(float64(sm.Data()[i])), lsm.Data()[i], 1e-5)
	}
}

func TestLogSoftmax_LargeLogitsStayFinite(t *testing.T) {
	x := tensor.FromSlice([]float32{1000, 0}, tensor.Shape{1, 2})
	out := run(ops.LogSoftmax{}, x)

	assert.InDelta(t, 0, out.Data()[0], 1e-6)
	assert.InDelta(t, -1000, out.Data()[1], 1e-3)
}

func TestLogSoftmax_Backward(t *testing.T) {
	x := tensor.FromSlice([]float32{0, 0}, tensor.Shape{1, 2})
	out := run(ops.LogSoftmax{}, x)

	// dx_j = dy_j - softmax_j * Σ dy
	backward(ops.LogSoftmax{}, out, []float32{1, 0}, x)
	assert.InDelta(t, 0.5, x.Grad()[0], 1e-6)
	assert.InDelta(t, -0.5, x.Grad()[1], 1e-6)
}

func TestSoftmax_RequiresRank2(t *testing.T) {
	for _, op := range []ops.Operation{ops.Softmax{}, ops.LogSoftmax{}, ops.Argmax{}} {
		requirePanicsWith(t, tensor.ErrShapeMismatch, func() {
			op.OutputShape([]*tensor.Tensor{tensor.New(tensor.Shape{4})})
		})
	}
}

func TestArgmax(t *testing.T) {
	x := tensor.FromSlice([]float32{
		0.1, 0.9, 0.2,
		5, 5, 1, // tie resolves to the first
		-3, -2, -1,
	}, tensor.Shape{3, 3})
	out := run(ops.Argmax{}, x)

	require.Equal(t, tensor.Shape{3}, out.Shape())
	assert.Equal(t, []float32{1, 0, 2}, out.Data())

	requirePanicsWith(t, tensor.ErrNoGradient, func() {
		backward(ops.Argmax{}, out, []float32{1, 1, 1}, x)
	})
}

func TestOnehot(t *testing.T) {
	x := tensor.FromSlice([]float32{3}, tensor.Shape{1})
	oh := ops.NewOnehot(5)
	out := run(oh, x)

	require.Equal(t, tensor.Shape{1, 5}, out.Shape())
	assert.Equal(t, []float32{0, 0, 0, 1, 0}, out.Data())

	requirePanicsWith(t, tensor.ErrNoGradient, func() {
		backward(oh, out, []float32{1, 1, 1, 1, 1}, x)
	})
}

func TestOnehot_OutOfRange(t *testing.T) {
	for _, label := range []float32{5, -1, 1.5} {
		x := tensor.FromSlice([]float32{0, label}, tensor.Shape{2})
		requirePanicsWith(t, tensor.ErrClassOutOfRange, func() { run(ops.NewOnehot(5), x) })
	}
}

func TestOnehot_RequiresRank1(t *testing.T) {
	requirePanicsWith(t, tensor.ErrShapeMismatch, func() {
		ops.NewOnehot(3).OutputShape([]*tensor.Tensor{tensor.New(tensor.Shape{2, 1})})
	})
}

func TestNames(t *testing.T) {
	all := []ops.Operation{
		ops.Add{}, ops.Sub{}, ops.Mul{}, ops.Div{}, ops.Neg{}, ops.Square{},
		ops.MatMul{}, ops.NewBroadcast(tensor.Shape{1}), ops.Mean{}, ops.Softmax{},
		ops.LogSoftmax{}, ops.Log{}, ops.ReLU{}, ops.Argmax{}, ops.NewOnehot(1),
	}
	seen := map[string]bool{}
	for _, op := range all {
		assert.NotEmpty(t, op.Name())
		assert.False(t, seen[op.Name()], "duplicate name %s", op.Name())
		seen[op.Name()] = true
	}
	assert.Len(t, seen, 15)
}
