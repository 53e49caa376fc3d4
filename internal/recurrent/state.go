package recurrent

import (
	"fmt"

	"github.com/21it/grenade/internal/tensor"
)

// State mirrors a recurrent network's cell list: one slot per cell,
// nil for feed-forward cells (the unit value) and a state vector for
// recurrent ones. The elementwise arithmetic is what optimizers with
// running state need over recurrent-state gradients, and what seeds
// the all-zero state before a sequence's first timestep.
type State struct {
	slots []*tensor.Vector
}

// Slot returns cell i's state vector, nil for feed-forward cells.
func (s *State) Slot(i int) *tensor.Vector { return s.slots[i] }

func (s *State) zip(o *State, op func(a, b tensor.Tensor) tensor.Tensor) *State {
	if len(s.slots) != len(o.slots) {
		panic(fmt.Sprintf("recurrent: state arithmetic over mismatched lengths %d and %d",
			len(s.slots), len(o.slots)))
	}
	out := make([]*tensor.Vector, len(s.slots))
	for i, a := range s.slots {
		if a == nil {
			continue
		}
		out[i] = op(a, o.slots[i]).(*tensor.Vector)
	}
	return &State{slots: out}
}

// Add returns the elementwise sum, slot by slot.
func (s *State) Add(o *State) *State { return s.zip(o, tensor.Add) }

// Sub returns the elementwise difference, slot by slot.
func (s *State) Sub(o *State) *State { return s.zip(o, tensor.Sub) }

// Mul returns the elementwise product, slot by slot.
func (s *State) Mul(o *State) *State { return s.zip(o, tensor.Mul) }

// Div returns the elementwise quotient, slot by slot.
func (s *State) Div(o *State) *State { return s.zip(o, tensor.Div) }

// Zero returns a state of the same structure with every slot zeroed.
func (s *State) Zero() *State {
	out := make([]*tensor.Vector, len(s.slots))
	for i, a := range s.slots {
		if a == nil {
			continue
		}
		out[i] = tensor.NewVector(a.Len())
	}
	return &State{slots: out}
}

// Clone returns an independent copy.
func (s *State) Clone() *State {
	out := make([]*tensor.Vector, len(s.slots))
	for i, a := range s.slots {
		if a == nil {
			continue
		}
		out[i] = a.CloneVector()
	}
	return &State{slots: out}
}
