package network

import (
	"io"
	"sync"

	"github.com/21it/grenade/internal/layer"
)

// ApplyUpdate walks the layer list and the gradient container in
// lock-step and applies each layer's update rule, returning a new
// network of identical structure. No layer's update depends on
// another's, so the per-layer updates run concurrently.
func (n *Network) ApplyUpdate(p layer.LearningParams, g *Gradients) *Network {
	updated := make([]layer.Layer, len(n.layers))
	var wg sync.WaitGroup
	for i := range n.layers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			updated[i] = n.layers[i].ApplyUpdate(p, g.perLayer[i])
		}(i)
	}
	wg.Wait()
	return &Network{layers: updated}
}

// Serialize writes the concatenation of every layer's encoding, in
// order. No shape or topology information is stored; the reader
// supplies it by deserializing into a network of the expected
// structure.
func (n *Network) Serialize(w io.Writer) error {
	for _, l := range n.layers {
		if err := l.Serialize(w); err != nil {
			return err
		}
	}
	return nil
}

// Deserialize fills each layer's parameters in order from r. The
// receiver's structure determines what is read.
func (n *Network) Deserialize(r io.Reader) error {
	for _, l := range n.layers {
		if err := l.Deserialize(r); err != nil {
			return err
		}
	}
	return nil
}
