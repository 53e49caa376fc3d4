package recurrent

import (
	"github.com/21it/grenade/internal/layer"
	"github.com/21it/grenade/internal/tensor"
)

// Tape holds one timestep's per-cell tapes. The caller retains one
// Tape per timestep until that timestep's backward scan has run.
type Tape struct {
	steps []layer.Tape
}

// Gradients mirrors the cell list with one parameter gradient per
// cell. Like the feed-forward container it implements layer.Gradient,
// which is how callers accumulate parameter gradients across
// timesteps (Add) and average or clip them (Scale, SquaredNorm).
type Gradients struct {
	perCell []layer.Gradient
}

// PerCell returns a copy of the per-cell gradient list.
func (g *Gradients) PerCell() []layer.Gradient {
	return append([]layer.Gradient(nil), g.perCell...)
}

func (g *Gradients) Add(other layer.Gradient) layer.Gradient {
	o := other.(*Gradients)
	out := make([]layer.Gradient, len(g.perCell))
	for i := range out {
		out[i] = g.perCell[i].Add(o.perCell[i])
	}
	return &Gradients{perCell: out}
}

func (g *Gradients) Scale(f float64) layer.Gradient {
	out := make([]layer.Gradient, len(g.perCell))
	for i := range out {
		out[i] = g.perCell[i].Scale(f)
	}
	return &Gradients{perCell: out}
}

func (g *Gradients) SquaredNorm() float64 {
	sum := 0.0
	for _, pg := range g.perCell {
		sum += pg.SquaredNorm()
	}
	return sum
}

// ForwardStep runs one timestep. Feed-forward cells apply their
// ordinary forward and pass their unit state slot through unchanged;
// recurrent cells consume their incoming state slot from the previous
// timestep (or the zero state at t=0) and produce an outgoing slot for
// the next timestep. Returns the per-cell tape for this timestep, the
// full outgoing state and the final output.
func (n *Network) ForwardStep(states *State, x tensor.Tensor) (*Tape, *State, tensor.Tensor) {
	steps := make([]layer.Tape, len(n.cells))
	outSlots := make([]*tensor.Vector, len(n.cells))
	cur := x
	for i, c := range n.cells {
		if c.rec != nil {
			steps[i], outSlots[i], cur = c.rec.ForwardStep(cur, states.slots[i])
		} else {
			steps[i], cur = c.ff.Forward(cur)
		}
	}
	return &Tape{steps: steps}, &State{slots: outSlots}, cur
}

// BackwardStep runs one timestep of backpropagation through time.
// stateGrads is the gradient with respect to this timestep's outgoing
// states, flowing in from the next timestep's BackwardStep (the zero
// state at the sequence's last timestep). outGrad is the loss gradient
// for this timestep's output.
//
// Returns the per-cell parameter gradients for this timestep, the
// gradient with respect to the incoming states (to be passed to the
// previous timestep, after adding any state contribution of that
// timestep's loss) and the gradient with respect to this timestep's
// input.
func (n *Network) BackwardStep(t *Tape, stateGrads *State, outGrad tensor.Tensor) (*Gradients, *State, tensor.Tensor) {
	perCell := make([]layer.Gradient, len(n.cells))
	inSlots := make([]*tensor.Vector, len(n.cells))
	cur := outGrad
	for i := len(n.cells) - 1; i >= 0; i-- {
		c := n.cells[i]
		if c.rec != nil {
			perCell[i], inSlots[i], cur = c.rec.BackwardStep(t.steps[i], stateGrads.slots[i], cur)
		} else {
			perCell[i], cur = c.ff.Backward(t.steps[i], cur)
		}
	}
	return &Gradients{perCell: perCell}, &State{slots: inSlots}, cur
}
