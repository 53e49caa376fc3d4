// Package layer defines the contract every layer satisfies and a set
// of concrete layers built on it.
//
// A layer declares the exact input and output shapes it accepts and
// produces; the network package checks adjacent declarations against
// each other when a network is assembled, so forward and backward
// passes never re-validate shapes.
//
// Layers are values: an update step produces a new layer rather than
// mutating the one it was given. Implementations may mutate storage
// they privately own, but a layer handed out to a caller is never
// aliased by a later update.
package layer

import (
	"io"
	"math/rand"

	"github.com/21it/grenade/internal/tensor"
	"github.com/21it/grenade/internal/weights"
)

// Tape holds whatever intermediate state a layer's forward pass caches
// for its backward pass. Each layer defines its own concrete tape; a
// tape is consumed exactly once by the matching Backward call.
type Tape interface{}

// Layer is the contract shared by atomic layers and, through the
// network package's adapter, by whole composed networks.
type Layer interface {
	// InShape is the exact shape Forward accepts.
	InShape() tensor.Shape

	// OutShape is the exact shape Forward produces.
	OutShape() tensor.Shape

	// Forward runs the layer on one sample, returning the tape its
	// backward pass needs and the output. Deterministic given
	// identical input and parameters; layers with randomized
	// behavior (Dropout) derive their randomness from a stored seed.
	Forward(x tensor.Tensor) (Tape, tensor.Tensor)

	// Backward is the adjoint of Forward: given the tape from the
	// matching forward call and the gradient with respect to the
	// output, it returns the gradient with respect to the layer's
	// parameters and the gradient with respect to the input.
	Backward(tape Tape, outGrad tensor.Tensor) (Gradient, tensor.Tensor)

	// ApplyUpdate returns a new layer with parameters stepped
	// against grad. The receiver is not modified.
	ApplyUpdate(p LearningParams, grad Gradient) Layer

	// Randomize returns a new layer of the same shape with freshly
	// initialized parameters.
	Randomize(m weights.Method, rng *rand.Rand) Layer

	// Serialize writes the layer's parameters in its fixed binary
	// encoding: flat little-endian float64 sequences, no tags, no
	// length prefixes.
	Serialize(w io.Writer) error

	// Deserialize fills the layer's parameters from the same
	// encoding. The receiver already has its final shape; only
	// parameter values are read.
	Deserialize(r io.Reader) error
}

// LearningParams configures the gradient-descent update rule applied
// by ApplyUpdate.
type LearningParams struct {
	Rate        float64 // learning rate
	Momentum    float64 // momentum factor, 0 disables
	Regulariser float64 // L2 weight decay, 0 disables
}

// DefaultLearningParams returns the conventional starting point.
func DefaultLearningParams() LearningParams {
	return LearningParams{Rate: 0.01, Momentum: 0.9, Regulariser: 1e-4}
}
