// Package network implements the sequential composition core: an
// ordered list of layers whose inter-layer shapes are validated when
// the network is assembled, plus forward/backward traversal, batched
// variants, gradient containers, functional updates and serialization.
//
// A constructed Network is shape-consistent by construction: New
// rejects any pair of adjacent layers whose shapes disagree, and no
// traversal re-checks shapes afterwards.
//
// A whole Network can itself be used as one layer inside a larger
// network through AsLayer.
package network

import (
	"fmt"
	"math/rand"

	"github.com/21it/grenade/internal/layer"
	"github.com/21it/grenade/internal/tensor"
	"github.com/21it/grenade/internal/weights"
)

// ShapeError reports a rejected layer chain.
type ShapeError struct {
	Position int // index of the layer whose input did not match
	Produced tensor.Shape
	Expected tensor.Shape
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("network: layer %d expects input %v but the previous layer produces %v",
		e.Position, e.Expected, e.Produced)
}

// Network is an ordered sequence of layers. The zero-layer network is
// a valid identity endpoint: it passes input through unchanged and has
// no constrained shapes.
type Network struct {
	layers []layer.Layer
}

// New assembles a network, validating that every adjacent pair of
// layers agrees on the shape flowing between them.
func New(layers ...layer.Layer) (*Network, error) {
	for i := 1; i < len(layers); i++ {
		prev, next := layers[i-1].OutShape(), layers[i].InShape()
		if !prev.Equal(next) {
			return nil, &ShapeError{Position: i, Produced: prev, Expected: next}
		}
	}
	return &Network{layers: append([]layer.Layer(nil), layers...)}, nil
}

// Len returns the number of layers.
func (n *Network) Len() int { return len(n.layers) }

// Layers returns a copy of the layer list.
func (n *Network) Layers() []layer.Layer {
	return append([]layer.Layer(nil), n.layers...)
}

// InShape is the input shape of the first layer. Panics on the empty
// network, whose shapes are unconstrained.
func (n *Network) InShape() tensor.Shape {
	if len(n.layers) == 0 {
		panic("network: empty network has no declared shapes")
	}
	return n.layers[0].InShape()
}

// OutShape is the output shape of the last layer. Panics on the empty
// network.
func (n *Network) OutShape() tensor.Shape {
	if len(n.layers) == 0 {
		panic("network: empty network has no declared shapes")
	}
	return n.layers[len(n.layers)-1].OutShape()
}

// Randomize returns a structurally identical network with every
// layer's parameters freshly initialized by m.
func (n *Network) Randomize(m weights.Method, rng *rand.Rand) *Network {
	fresh := make([]layer.Layer, len(n.layers))
	for i, l := range n.layers {
		fresh[i] = l.Randomize(m, rng)
	}
	return &Network{layers: fresh}
}
