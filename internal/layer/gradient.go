package layer

import "errors"

// ErrEmptyBatch is returned by gradient reduction when given zero
// samples: the gradient's structure cannot be inferred from nothing,
// and silently defaulting would hide a caller bug.
var ErrEmptyBatch = errors.New("layer: gradient reduction over an empty batch")

// Gradient is a layer's parameter gradient.
//
// The three methods are what generic gradient bookkeeping needs:
// summation across a batch or across timesteps (Add), scaling for
// averaging and clipping (Scale), and the squared Euclidean norm for
// global-norm clipping (SquaredNorm). Add and Scale return new values.
type Gradient interface {
	Add(other Gradient) Gradient
	Scale(f float64) Gradient
	SquaredNorm() float64
}

// NoGrad is the gradient of a layer without learnable parameters.
type NoGrad struct{}

func (NoGrad) Add(Gradient) Gradient { return NoGrad{} }
func (NoGrad) Scale(float64) Gradient { return NoGrad{} }
func (NoGrad) SquaredNorm() float64   { return 0 }

// MeanGradients reduces a batch of per-sample gradients to their
// arithmetic mean. It fails on an empty batch.
func MeanGradients(gs []Gradient) (Gradient, error) {
	if len(gs) == 0 {
		return nil, ErrEmptyBatch
	}
	sum := gs[0]
	for _, g := range gs[1:] {
		sum = sum.Add(g)
	}
	return sum.Scale(1 / float64(len(gs))), nil
}
