package layer

import "github.com/21it/grenade/internal/tensor"

// Batched application. The default behavior is per-sample application
// in order; a layer may provide a fused implementation by satisfying
// BatchLayer or GradientReducer, as long as results are identical to
// the per-sample fallback.

// BatchLayer is the optional fused batch interface.
type BatchLayer interface {
	ForwardBatch(xs []tensor.Tensor) ([]Tape, []tensor.Tensor)
	BackwardBatch(tapes []Tape, outGrads []tensor.Tensor) ([]Gradient, []tensor.Tensor)
}

// GradientReducer is the optional fused batch-reduction interface.
type GradientReducer interface {
	ReduceGradient(gs []Gradient) (Gradient, error)
}

// ForwardBatch runs l forward over an ordered batch, returning aligned
// tapes and outputs. Uses l's fused path when it has one.
func ForwardBatch(l Layer, xs []tensor.Tensor) ([]Tape, []tensor.Tensor) {
	if b, ok := l.(BatchLayer); ok {
		return b.ForwardBatch(xs)
	}
	tapes := make([]Tape, len(xs))
	outs := make([]tensor.Tensor, len(xs))
	for i, x := range xs {
		tapes[i], outs[i] = l.Forward(x)
	}
	return tapes, outs
}

// BackwardBatch runs l backward over an ordered batch, returning
// aligned per-sample parameter gradients and input gradients.
func BackwardBatch(l Layer, tapes []Tape, outGrads []tensor.Tensor) ([]Gradient, []tensor.Tensor) {
	if b, ok := l.(BatchLayer); ok {
		return b.BackwardBatch(tapes, outGrads)
	}
	grads := make([]Gradient, len(tapes))
	inGrads := make([]tensor.Tensor, len(tapes))
	for i := range tapes {
		grads[i], inGrads[i] = l.Backward(tapes[i], outGrads[i])
	}
	return grads, inGrads
}

// ReduceGradient collapses a batch of per-sample gradients into one,
// using l's fused reducer when it has one and the arithmetic mean
// otherwise. Fails on an empty batch.
func ReduceGradient(l Layer, gs []Gradient) (Gradient, error) {
	if r, ok := l.(GradientReducer); ok {
		return r.ReduceGradient(gs)
	}
	return MeanGradients(gs)
}
