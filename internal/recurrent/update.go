package recurrent

import (
	"io"
	"sync"

	"github.com/21it/grenade/internal/layer"
)

// ApplyUpdate walks cells and gradients in lock-step, dispatching on
// each cell's tag, and returns a new network. Per-cell updates are
// independent and run concurrently.
func (n *Network) ApplyUpdate(p layer.LearningParams, g *Gradients) *Network {
	updated := make([]Cell, len(n.cells))
	var wg sync.WaitGroup
	for i := range n.cells {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if c := n.cells[i]; c.rec != nil {
				updated[i] = Recurrent(c.rec.ApplyUpdate(p, g.perCell[i]))
			} else {
				updated[i] = FeedForward(c.ff.ApplyUpdate(p, g.perCell[i]))
			}
		}(i)
	}
	wg.Wait()
	return &Network{cells: updated}
}

// Serialize writes the concatenation of every cell's encoding in
// order, with no topology information.
func (n *Network) Serialize(w io.Writer) error {
	for _, c := range n.cells {
		var err error
		if c.rec != nil {
			err = c.rec.Serialize(w)
		} else {
			err = c.ff.Serialize(w)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Deserialize fills each cell's parameters in order from r.
func (n *Network) Deserialize(r io.Reader) error {
	for _, c := range n.cells {
		var err error
		if c.rec != nil {
			err = c.rec.Deserialize(r)
		} else {
			err = c.ff.Deserialize(r)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
