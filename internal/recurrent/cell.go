// Package recurrent implements the recurrent variant of the
// composition core: the same sequential layer chain with a
// side-channel of per-layer recurrent state threaded between
// timesteps.
//
// Each position in the chain is a Cell tagged as either feed-forward
// (an ordinary layer.Layer, contributing a unit state slot) or
// recurrent (a RecurrentLayer, contributing a state vector fed
// sideways to the same layer at the next timestep). The package
// provides the single-timestep forward and backward-through-time
// transitions; iterating the time loop, retaining per-timestep tapes
// and accumulating gradients across timesteps is the caller's
// responsibility.
package recurrent

import (
	"io"
	"math/rand"

	"github.com/21it/grenade/internal/layer"
	"github.com/21it/grenade/internal/tensor"
	"github.com/21it/grenade/internal/weights"
)

// RecurrentLayer is the contract for layers that carry state between
// timesteps. The state is an opaque vector of the layer's declared
// StateShape; zero is its identity value at t=0.
type RecurrentLayer interface {
	InShape() tensor.Shape
	OutShape() tensor.Shape

	// StateShape is the shape of the recurrent state vector.
	StateShape() tensor.Shape

	// ForwardStep consumes the external input and the incoming state
	// from the previous timestep, producing the tape, the outgoing
	// state for the next timestep and the output fed to the next
	// layer.
	ForwardStep(x tensor.Tensor, state *tensor.Vector) (layer.Tape, *tensor.Vector, tensor.Tensor)

	// BackwardStep is the adjoint of ForwardStep. stateGrad is the
	// gradient with respect to the outgoing state, flowing in from
	// the next timestep (zero at the last timestep). It returns the
	// parameter gradient, the gradient with respect to the incoming
	// state (fed to the previous timestep's backward call) and the
	// gradient with respect to the input.
	BackwardStep(tape layer.Tape, stateGrad *tensor.Vector, outGrad tensor.Tensor) (layer.Gradient, *tensor.Vector, tensor.Tensor)

	ApplyUpdate(p layer.LearningParams, grad layer.Gradient) RecurrentLayer
	Randomize(m weights.Method, rng *rand.Rand) RecurrentLayer
	Serialize(w io.Writer) error
	Deserialize(r io.Reader) error
}

// Cell is one position in a recurrent network's chain: a two-variant
// tag holding either a feed-forward layer or a recurrent one.
type Cell struct {
	ff  layer.Layer
	rec RecurrentLayer
}

// FeedForward tags an ordinary layer. Its state slot is the unit value.
func FeedForward(l layer.Layer) Cell { return Cell{ff: l} }

// Recurrent tags a layer carrying recurrent state.
func Recurrent(l RecurrentLayer) Cell { return Cell{rec: l} }

// IsRecurrent reports the cell's tag.
func (c Cell) IsRecurrent() bool { return c.rec != nil }

func (c Cell) inShape() tensor.Shape {
	if c.rec != nil {
		return c.rec.InShape()
	}
	return c.ff.InShape()
}

func (c Cell) outShape() tensor.Shape {
	if c.rec != nil {
		return c.rec.OutShape()
	}
	return c.ff.OutShape()
}
