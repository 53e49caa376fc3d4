// Package layer is the public surface of the layer contract and the
// concrete layers shipped with the library.
//
// Example:
//
//	rng := rand.New(rand.NewSource(1))
//	fc := layer.RandomFullyConnected(3, 5, weights.Xavier, rng)
//	tape, out := fc.Forward(tensor.VectorOf([]float64{1, 2, 3}))
//	grad, inGrad := fc.Backward(tape, lossGrad)
//	fc2 := fc.ApplyUpdate(layer.DefaultLearningParams(), grad)
package layer

import (
	"math/rand"

	internal "github.com/21it/grenade/internal/layer"
	"github.com/21it/grenade/internal/tensor"
	"github.com/21it/grenade/internal/weights"
)

// Layer is the contract every layer satisfies.
type Layer = internal.Layer

// Tape is a layer's cached forward state.
type Tape = internal.Tape

// Gradient is a layer's parameter gradient.
type Gradient = internal.Gradient

// NoGrad is the gradient of a parameterless layer.
type NoGrad = internal.NoGrad

// LearningParams configures the update rule.
type LearningParams = internal.LearningParams

// BatchLayer is the optional fused batch interface.
type BatchLayer = internal.BatchLayer

// GradientReducer is the optional fused batch-reduction interface.
type GradientReducer = internal.GradientReducer

// FullyConnected is a dense layer.
type FullyConnected = internal.FullyConnected

// FCGradient is FullyConnected's parameter gradient.
type FCGradient = internal.FCGradient

// Relu, Tanh, Logit and Softmax are activation layers; Reshape
// reinterprets shapes; Dropout masks elements from a stored seed.
type (
	Relu    = internal.Relu
	Tanh    = internal.Tanh
	Logit   = internal.Logit
	Softmax = internal.Softmax
	Reshape = internal.Reshape
	Dropout = internal.Dropout
)

// ErrEmptyBatch is returned by gradient reduction over zero samples.
var ErrEmptyBatch = internal.ErrEmptyBatch

// DefaultLearningParams returns the conventional starting point.
func DefaultLearningParams() LearningParams { return internal.DefaultLearningParams() }

// NewFullyConnected builds a dense layer from explicit parameters.
func NewFullyConnected(bias *tensor.Vector, w *tensor.Matrix) (*FullyConnected, error) {
	return internal.NewFullyConnected(bias, w)
}

// RandomFullyConnected builds a dense layer with parameters drawn by m.
func RandomFullyConnected(in, out int, m weights.Method, rng *rand.Rand) *FullyConnected {
	return internal.RandomFullyConnected(in, out, m, rng)
}

// NewRelu returns a Relu over the given shape.
func NewRelu(s tensor.Shape) *Relu { return internal.NewRelu(s) }

// NewTanh returns a Tanh over the given shape.
func NewTanh(s tensor.Shape) *Tanh { return internal.NewTanh(s) }

// NewLogit returns a Logit over the given shape.
func NewLogit(s tensor.Shape) *Logit { return internal.NewLogit(s) }

// NewSoftmax returns a Softmax over vectors of length n.
func NewSoftmax(n int) *Softmax { return internal.NewSoftmax(n) }

// NewReshape builds a reshape between shapes of equal element count.
func NewReshape(from, to tensor.Shape) (*Reshape, error) { return internal.NewReshape(from, to) }

// NewDropout builds a seeded dropout layer.
func NewDropout(s tensor.Shape, rate float64, seed int64) *Dropout {
	return internal.NewDropout(s, rate, seed)
}

// ForwardBatch runs l forward over an ordered batch.
func ForwardBatch(l Layer, xs []tensor.Tensor) ([]Tape, []tensor.Tensor) {
	return internal.ForwardBatch(l, xs)
}

// BackwardBatch runs l backward over an ordered batch.
func BackwardBatch(l Layer, tapes []Tape, outGrads []tensor.Tensor) ([]Gradient, []tensor.Tensor) {
	return internal.BackwardBatch(l, tapes, outGrads)
}

// ReduceGradient collapses a batch of per-sample gradients into one.
func ReduceGradient(l Layer, gs []Gradient) (Gradient, error) {
	return internal.ReduceGradient(l, gs)
}

// MeanGradients reduces gradients to their arithmetic mean.
func MeanGradients(gs []Gradient) (Gradient, error) { return internal.MeanGradients(gs) }
