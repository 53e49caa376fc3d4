package network

import (
	"io"
	"math/rand"

	"github.com/21it/grenade/internal/layer"
	"github.com/21it/grenade/internal/tensor"
	"github.com/21it/grenade/internal/weights"
)

// subnet adapts a Network to the layer contract so composed networks
// nest inside larger ones. Its tape is the network's Tape and its
// gradient the network's Gradients; update and randomize rebuild the
// wrapper around the new network value.
type subnet struct {
	net *Network
}

// AsLayer returns the network viewed as a single layer whose input and
// output shapes are the first and last shapes of the chain. The
// network must be non-empty.
func (n *Network) AsLayer() layer.Layer {
	if len(n.layers) == 0 {
		panic("network: an empty network cannot be used as a layer")
	}
	return &subnet{net: n}
}

func (s *subnet) InShape() tensor.Shape  { return s.net.InShape() }
func (s *subnet) OutShape() tensor.Shape { return s.net.OutShape() }

func (s *subnet) Forward(x tensor.Tensor) (layer.Tape, tensor.Tensor) {
	t, out := s.net.Forward(x)
	return t, out
}

func (s *subnet) Backward(tape layer.Tape, outGrad tensor.Tensor) (layer.Gradient, tensor.Tensor) {
	g, inGrad := s.net.Backward(tape.(*Tape), outGrad)
	return g, inGrad
}

func (s *subnet) ApplyUpdate(p layer.LearningParams, grad layer.Gradient) layer.Layer {
	return &subnet{net: s.net.ApplyUpdate(p, grad.(*Gradients))}
}

func (s *subnet) Randomize(m weights.Method, rng *rand.Rand) layer.Layer {
	return &subnet{net: s.net.Randomize(m, rng)}
}

func (s *subnet) Serialize(w io.Writer) error   { return s.net.Serialize(w) }
func (s *subnet) Deserialize(r io.Reader) error { return s.net.Deserialize(r) }
