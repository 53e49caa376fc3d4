package recurrent_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"

	"github.com/21it/grenade/internal/layer"
	"github.com/21it/grenade/internal/recurrent"
	"github.com/21it/grenade/internal/tensor"
	"github.com/21it/grenade/internal/weights"
)

func basicNet(t *testing.T, seed int64) *recurrent.Network {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	net, err := recurrent.New(
		recurrent.Recurrent(recurrent.RandomBasicRecurrent(2, 3, weights.Xavier, rng)),
		recurrent.FeedForward(layer.NewTanh(tensor.D1(3))),
		recurrent.FeedForward(layer.RandomFullyConnected(3, 2, weights.Xavier, rng)),
	)
	require.NoError(t, err)
	return net
}

func lstmNet(t *testing.T, seed int64) *recurrent.Network {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	net, err := recurrent.New(
		recurrent.Recurrent(recurrent.RandomLSTM(2, 3, weights.Xavier, rng)),
		recurrent.FeedForward(layer.RandomFullyConnected(3, 1, weights.Xavier, rng)),
	)
	require.NoError(t, err)
	return net
}

func TestNewRejectsShapeMismatch(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, err := recurrent.New(
		recurrent.Recurrent(recurrent.RandomBasicRecurrent(2, 3, weights.Xavier, rng)),
		recurrent.FeedForward(layer.RandomFullyConnected(4, 2, weights.Xavier, rng)),
	)
	require.Error(t, err)
}

func TestZeroState(t *testing.T) {
	net := basicNet(t, 2)
	s := net.ZeroState()

	require.NotNil(t, s.Slot(0), "recurrent cell has a state slot")
	assert.Nil(t, s.Slot(1), "feed-forward cell has a unit slot")
	assert.Nil(t, s.Slot(2), "feed-forward cell has a unit slot")
	for _, v := range s.Slot(0).Data() {
		assert.Zero(t, v)
	}
}

func TestStateArithmetic(t *testing.T) {
	net := basicNet(t, 3)
	x := tensor.VectorOf([]float64{1, -1})

	_, s1, _ := net.ForwardStep(net.ZeroState(), x)
	_, s2, _ := net.ForwardStep(s1, x)

	sum := s1.Add(s2)
	diff := sum.Sub(s2)
	assert.InDeltaSlice(t, s1.Slot(0).Data(), diff.Slot(0).Data(), 1e-12)

	prod := s1.Mul(s1)
	for i, v := range s1.Slot(0).Data() {
		assert.InDelta(t, v*v, prod.Slot(0).Data()[i], 1e-12)
	}

	quot := prod.Div(s1)
	assert.InDeltaSlice(t, s1.Slot(0).Data(), quot.Slot(0).Data(), 1e-9)

	zero := s1.Zero()
	for _, v := range zero.Slot(0).Data() {
		assert.Zero(t, v)
	}
}

func TestForwardStepThreadsState(t *testing.T) {
	net := basicNet(t, 4)
	x := tensor.VectorOf([]float64{0.5, 0.25})

	_, s1, out1 := net.ForwardStep(net.ZeroState(), x)
	_, _, out2 := net.ForwardStep(s1, x)

	// identical input, different state: outputs must differ
	assert.NotEqual(t, out1.Data(), out2.Data())
}

// TestBackwardZeroStateGradient runs a single-timestep backward scan
// with the final-timestep state gradient zeroed: it must succeed and
// propagate only the loss contribution.
func TestBackwardZeroStateGradient(t *testing.T) {
	net := basicNet(t, 5)
	x := tensor.VectorOf([]float64{1, 2})

	tape, _, _ := net.ForwardStep(net.ZeroState(), x)
	lossGrad := tensor.VectorOf([]float64{1, -1})

	grads, stateGrad, inGrad := net.BackwardStep(tape, net.ZeroState(), lossGrad)
	require.NotNil(t, grads)
	require.NotNil(t, stateGrad.Slot(0))
	assert.Len(t, inGrad.Data(), 2)
	assert.Len(t, grads.PerCell(), 3)
}

// bpttGradient runs a full forward scan over xs and a backward scan
// through time, returning the per-timestep input gradients for the
// loss sum(dot(out_t, proj_t)).
func bpttGradient(net *recurrent.Network, xs []*tensor.Vector, projs [][]float64) [][]float64 {
	state := net.ZeroState()
	tapes := make([]*recurrent.Tape, len(xs))
	for i, x := range xs {
		tapes[i], state, _ = net.ForwardStep(state, x)
	}

	stateGrad := net.ZeroState()
	inGrads := make([][]float64, len(xs))
	for i := len(xs) - 1; i >= 0; i-- {
		var in tensor.Tensor
		_, stateGrad, in = net.BackwardStep(tapes[i], stateGrad, tensor.VectorOf(projs[i]))
		inGrads[i] = in.Data()
	}
	return inGrads
}

func checkBPTT(t *testing.T, net *recurrent.Network, inSize, outSize, steps int) {
	t.Helper()
	rng := rand.New(rand.NewSource(31))

	xs := make([]*tensor.Vector, steps)
	flat := make([]float64, 0, steps*inSize)
	projs := make([][]float64, steps)
	for i := range xs {
		data := make([]float64, inSize)
		for j := range data {
			data[j] = rng.NormFloat64()
		}
		xs[i] = tensor.VectorOf(data)
		flat = append(flat, data...)

		projs[i] = make([]float64, outSize)
		for j := range projs[i] {
			projs[i][j] = rng.NormFloat64()
		}
	}

	f := func(in []float64) float64 {
		state := net.ZeroState()
		total := 0.0
		for i := 0; i < steps; i++ {
			x := tensor.VectorOf(in[i*inSize : (i+1)*inSize])
			var out tensor.Tensor
			_, state, out = net.ForwardStep(state, x)
			total += floats.Dot(out.Data(), projs[i])
		}
		return total
	}

	numeric := fd.Gradient(nil, f, flat, &fd.Settings{Formula: fd.Central})

	analytic := bpttGradient(net, xs, projs)
	for i := 0; i < steps; i++ {
		got := analytic[i]
		want := numeric[i*inSize : (i+1)*inSize]
		if !floats.EqualApprox(want, got, 1e-6) {
			t.Errorf("timestep %d input gradient:\nnumeric  %v\nanalytic %v", i, want, got)
		}
	}
}

// TestBasicRecurrentBPTT checks gradients through time against finite
// differences: perturbing an early timestep's input must match the
// analytic gradient carried backward through the state chain.
func TestBasicRecurrentBPTT(t *testing.T) {
	checkBPTT(t, basicNet(t, 6), 2, 2, 4)
}

func TestLSTMBPTT(t *testing.T) {
	checkBPTT(t, lstmNet(t, 7), 2, 1, 4)
}

func TestApplyUpdateIsPure(t *testing.T) {
	net := basicNet(t, 8)
	x := tensor.VectorOf([]float64{1, 0})

	tape, _, before := net.ForwardStep(net.ZeroState(), x)
	grads, _, _ := net.BackwardStep(tape, net.ZeroState(), tensor.VectorOf([]float64{1, 1}))

	next := net.ApplyUpdate(layer.LearningParams{Rate: 0.5}, grads)

	_, _, after := net.ForwardStep(net.ZeroState(), x)
	assert.Equal(t, before.Data(), after.Data(), "original network must not move")

	_, _, moved := next.ForwardStep(next.ZeroState(), x)
	assert.NotEqual(t, before.Data(), moved.Data(), "updated network must move")
}

func TestGradientAccumulation(t *testing.T) {
	net := basicNet(t, 9)
	x := tensor.VectorOf([]float64{0.5, -0.5})
	g := tensor.VectorOf([]float64{1, 1})

	tape, _, _ := net.ForwardStep(net.ZeroState(), x)
	grads, _, _ := net.BackwardStep(tape, net.ZeroState(), g)

	doubled := grads.Add(grads).(*recurrent.Gradients)
	halvedBack := doubled.Scale(0.5).(*recurrent.Gradients)

	want := grads.PerCell()[0].(*recurrent.BasicGradient)
	got := halvedBack.PerCell()[0].(*recurrent.BasicGradient)
	assert.InDeltaSlice(t, want.Bias.Data(), got.Bias.Data(), 1e-12)
	assert.InDeltaSlice(t, want.Input.Data(), got.Input.Data(), 1e-12)
}

func TestSerializeRoundTrip(t *testing.T) {
	net := lstmNet(t, 10)
	var buf bytes.Buffer
	require.NoError(t, net.Serialize(&buf))

	fresh := lstmNet(t, 11)
	require.NoError(t, fresh.Deserialize(&buf))

	x := tensor.VectorOf([]float64{0.4, -0.8})
	_, _, want := net.ForwardStep(net.ZeroState(), x)
	_, _, got := fresh.ForwardStep(fresh.ZeroState(), x)
	assert.Equal(t, want.Data(), got.Data())
}

func TestReduceGradientsUnsupported(t *testing.T) {
	net := basicNet(t, 12)
	_, err := net.ReduceGradients(nil)
	require.ErrorIs(t, err, recurrent.ErrBatchUnsupported)
}
