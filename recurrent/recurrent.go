// Package recurrent is the public surface of the recurrent
// composition core.
//
// The library provides the single-timestep transitions; the caller
// owns the time loop. A training step over a sequence looks like:
//
//	state := net.ZeroState()
//	tapes := make([]*recurrent.Tape, len(xs))
//	for t, x := range xs {
//	    tapes[t], state, _ = net.ForwardStep(state, x)
//	}
//	stateGrad := net.ZeroState()
//	var acc *recurrent.Gradients
//	for t := len(xs) - 1; t >= 0; t-- {
//	    var g *recurrent.Gradients
//	    g, stateGrad, _ = net.BackwardStep(tapes[t], stateGrad, lossGrads[t])
//	    if acc == nil {
//	        acc = g
//	    } else {
//	        acc = acc.Add(g).(*recurrent.Gradients)
//	    }
//	}
//	net = net.ApplyUpdate(params, acc)
package recurrent

import (
	"math/rand"

	internal "github.com/21it/grenade/internal/recurrent"
	"github.com/21it/grenade/internal/layer"
	"github.com/21it/grenade/internal/weights"
)

// Network is an ordered, construction-validated sequence of tagged
// cells.
type Network = internal.Network

// Cell is one chain position: feed-forward or recurrent.
type Cell = internal.Cell

// RecurrentLayer is the contract for layers carrying state between
// timesteps.
type RecurrentLayer = internal.RecurrentLayer

// State is the per-cell recurrent state container.
type State = internal.State

// Tape holds one timestep's per-cell tapes.
type Tape = internal.Tape

// Gradients holds one parameter gradient per cell.
type Gradients = internal.Gradients

// BasicRecurrent is the simplest recurrent layer.
type BasicRecurrent = internal.BasicRecurrent

// BasicGradient is BasicRecurrent's parameter gradient.
type BasicGradient = internal.BasicGradient

// LSTM is a long short-term memory layer.
type LSTM = internal.LSTM

// LSTMGradient is LSTM's parameter gradient.
type LSTMGradient = internal.LSTMGradient

// ErrBatchUnsupported is returned by batched gradient reduction.
var ErrBatchUnsupported = internal.ErrBatchUnsupported

// New assembles a recurrent network, rejecting adjacent cells whose
// shapes disagree.
func New(cells ...Cell) (*Network, error) { return internal.New(cells...) }

// FeedForward tags an ordinary layer.
func FeedForward(l layer.Layer) Cell { return internal.FeedForward(l) }

// Recurrent tags a layer carrying recurrent state.
func Recurrent(l RecurrentLayer) Cell { return internal.Recurrent(l) }

// RandomBasicRecurrent builds a basic recurrent layer with parameters
// drawn by m.
func RandomBasicRecurrent(in, out int, m weights.Method, rng *rand.Rand) *BasicRecurrent {
	return internal.RandomBasicRecurrent(in, out, m, rng)
}

// RandomLSTM builds an LSTM with parameters drawn by m.
func RandomLSTM(in, units int, m weights.Method, rng *rand.Rand) *LSTM {
	return internal.RandomLSTM(in, units, m, rng)
}
