package layer_test

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"

	"github.com/21it/grenade/internal/layer"
	"github.com/21it/grenade/internal/tensor"
	"github.com/21it/grenade/internal/weights"
)

// checkInputGradient verifies the adjoint property: the input gradient
// computed by Backward must match the finite-difference gradient of
// proj . Forward at x.
func checkInputGradient(t *testing.T, l layer.Layer, x tensor.Tensor) {
	t.Helper()

	rng := rand.New(rand.NewSource(99))
	proj := make([]float64, l.OutShape().Elements())
	for i := range proj {
		proj[i] = rng.NormFloat64()
	}

	f := func(in []float64) float64 {
		_, out := l.Forward(tensor.Of(l.InShape(), in))
		return floats.Dot(out.Data(), proj)
	}

	numeric := fd.Gradient(nil, f, x.Data(), &fd.Settings{Formula: fd.Central})

	tape, _ := l.Forward(x)
	_, analytic := l.Backward(tape, tensor.Of(l.OutShape(), proj))

	if !floats.EqualApprox(numeric, analytic.Data(), 1e-6) {
		t.Errorf("input gradient mismatch:\nnumeric  %v\nanalytic %v", numeric, analytic.Data())
	}
}

func randomInput(s tensor.Shape, seed int64) tensor.Tensor {
	rng := rand.New(rand.NewSource(seed))
	data := make([]float64, s.Elements())
	for i := range data {
		data[i] = rng.NormFloat64()
	}
	return tensor.Of(s, data)
}

func TestFullyConnectedGradient(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	fc := layer.RandomFullyConnected(4, 3, weights.Xavier, rng)
	checkInputGradient(t, fc, randomInput(tensor.D1(4), 1))
}

func TestTanhGradient(t *testing.T) {
	checkInputGradient(t, layer.NewTanh(tensor.D1(6)), randomInput(tensor.D1(6), 2))
}

func TestLogitGradient(t *testing.T) {
	checkInputGradient(t, layer.NewLogit(tensor.D2(2, 3)), randomInput(tensor.D2(2, 3), 3))
}

func TestSoftmaxGradient(t *testing.T) {
	checkInputGradient(t, layer.NewSoftmax(5), randomInput(tensor.D1(5), 4))
}

func TestReluGradient(t *testing.T) {
	// keep inputs away from the kink at zero
	x := tensor.VectorOf([]float64{1.5, -2.0, 0.75, -0.5, 3.0, -1.25})
	checkInputGradient(t, layer.NewRelu(tensor.D1(6)), x)
}

func TestDropoutGradient(t *testing.T) {
	// the mask is fixed by the seed, so the layer is a deterministic
	// linear map and the adjoint property holds
	checkInputGradient(t, layer.NewDropout(tensor.D1(8), 0.4, 17), randomInput(tensor.D1(8), 5))
}

func TestReshapeGradient(t *testing.T) {
	r, err := layer.NewReshape(tensor.D1(6), tensor.D2(3, 2))
	if err != nil {
		t.Fatal(err)
	}
	checkInputGradient(t, r, randomInput(tensor.D1(6), 6))
}

// TestFullyConnectedParameterGradient pins the closed forms: the bias
// gradient is the output gradient and the weight gradient its outer
// product with the input.
func TestFullyConnectedParameterGradient(t *testing.T) {
	fc := seedLayer(t)
	x := tensor.VectorOf([]float64{1, 2, 3})
	g := tensor.VectorOf([]float64{1, 0, 2, 0, 1})

	tape, _ := fc.Forward(x)
	grad, _ := fc.Backward(tape, g)
	got := grad.(*layer.FCGradient)

	if !floats.Equal(got.Bias.Data(), g.Data()) {
		t.Errorf("bias gradient = %v, want %v", got.Bias.Data(), g.Data())
	}
	wantW := tensor.Outer(g, x)
	if !floats.Equal(got.Weights.Data(), wantW.Data()) {
		t.Errorf("weight gradient = %v, want %v", got.Weights.Data(), wantW.Data())
	}
}
