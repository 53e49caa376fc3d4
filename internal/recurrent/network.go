package recurrent

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/21it/grenade/internal/tensor"
	"github.com/21it/grenade/internal/weights"
)

// ErrBatchUnsupported is returned by ReduceGradients: batched training
// of recurrent networks is intentionally unsupported. Train one
// sequence at a time, or parallelize across independent sequences and
// combine their summed gradients yourself.
var ErrBatchUnsupported = errors.New("recurrent: batched gradient reduction is not supported")

// Network is an ordered sequence of tagged cells, shape-validated at
// construction exactly like the feed-forward composition core.
type Network struct {
	cells []Cell
}

// New assembles a recurrent network, validating that every adjacent
// pair of cells agrees on the shape flowing between them.
func New(cells ...Cell) (*Network, error) {
	for i := 1; i < len(cells); i++ {
		prev, next := cells[i-1].outShape(), cells[i].inShape()
		if !prev.Equal(next) {
			return nil, fmt.Errorf("recurrent: cell %d expects input %v but the previous cell produces %v",
				i, next, prev)
		}
	}
	return &Network{cells: append([]Cell(nil), cells...)}, nil
}

// Len returns the number of cells.
func (n *Network) Len() int { return len(n.cells) }

// Cells returns a copy of the cell list.
func (n *Network) Cells() []Cell { return append([]Cell(nil), n.cells...) }

// InShape is the input shape of the first cell.
func (n *Network) InShape() tensor.Shape {
	if len(n.cells) == 0 {
		panic("recurrent: empty network has no declared shapes")
	}
	return n.cells[0].inShape()
}

// OutShape is the output shape of the last cell.
func (n *Network) OutShape() tensor.Shape {
	if len(n.cells) == 0 {
		panic("recurrent: empty network has no declared shapes")
	}
	return n.cells[len(n.cells)-1].outShape()
}

// ZeroState returns the all-zero recurrent state used before a
// sequence's first timestep and as the state gradient at the final
// timestep of the backward scan.
func (n *Network) ZeroState() *State {
	slots := make([]*tensor.Vector, len(n.cells))
	for i, c := range n.cells {
		if c.rec != nil {
			slots[i] = tensor.NewVector(c.rec.StateShape().Elements())
		}
	}
	return &State{slots: slots}
}

// Randomize returns a structurally identical network with freshly
// initialized parameters.
func (n *Network) Randomize(m weights.Method, rng *rand.Rand) *Network {
	fresh := make([]Cell, len(n.cells))
	for i, c := range n.cells {
		if c.rec != nil {
			fresh[i] = Recurrent(c.rec.Randomize(m, rng))
		} else {
			fresh[i] = FeedForward(c.ff.Randomize(m, rng))
		}
	}
	return &Network{cells: fresh}
}

// ReduceGradients would collapse per-sample gradients of a batch of
// sequences. It always fails: see ErrBatchUnsupported.
func (n *Network) ReduceGradients([]*Gradients) (*Gradients, error) {
	return nil, ErrBatchUnsupported
}
