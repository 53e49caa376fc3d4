package network

import (
	"github.com/21it/grenade/internal/layer"
	"github.com/21it/grenade/internal/tensor"
)

// Tape mirrors the network: one entry per layer, front to back, each
// holding what that layer's backward pass needs. A Tape is produced by
// one Forward call and consumed by exactly one Backward call.
type Tape struct {
	steps []layer.Tape
}

// Gradients mirrors the network's layer list, one parameter gradient
// per layer. It implements layer.Gradient itself, so whole-network
// gradients reduce, accumulate and clip exactly like a single layer's.
type Gradients struct {
	perLayer []layer.Gradient
}

// PerLayer returns a copy of the per-layer gradient list.
func (g *Gradients) PerLayer() []layer.Gradient {
	return append([]layer.Gradient(nil), g.perLayer...)
}

// Add sums two gradient containers layer by layer.
func (g *Gradients) Add(other layer.Gradient) layer.Gradient {
	o := other.(*Gradients)
	out := make([]layer.Gradient, len(g.perLayer))
	for i := range out {
		out[i] = g.perLayer[i].Add(o.perLayer[i])
	}
	return &Gradients{perLayer: out}
}

// Scale scales every layer's gradient by f.
func (g *Gradients) Scale(f float64) layer.Gradient {
	out := make([]layer.Gradient, len(g.perLayer))
	for i := range out {
		out[i] = g.perLayer[i].Scale(f)
	}
	return &Gradients{perLayer: out}
}

// SquaredNorm sums squared elements across every layer's gradient.
func (g *Gradients) SquaredNorm() float64 {
	sum := 0.0
	for _, pg := range g.perLayer {
		sum += pg.SquaredNorm()
	}
	return sum
}

// Forward threads x through the layers front to back, collecting one
// tape per layer. The empty network returns an empty tape and x
// unchanged.
func (n *Network) Forward(x tensor.Tensor) (*Tape, tensor.Tensor) {
	steps := make([]layer.Tape, len(n.layers))
	cur := x
	for i, l := range n.layers {
		steps[i], cur = l.Forward(cur)
	}
	return &Tape{steps: steps}, cur
}

// Backward consumes the tape from the matching Forward call. Layers
// are processed from the tail: each layer first receives the gradient
// with respect to its output (computed by the layers after it), then
// contributes its parameter gradient and the gradient flowing further
// back. The returned tensor is the gradient with respect to the
// network's input; on the empty network it is outGrad unchanged.
func (n *Network) Backward(t *Tape, outGrad tensor.Tensor) (*Gradients, tensor.Tensor) {
	perLayer := make([]layer.Gradient, len(n.layers))
	cur := outGrad
	for i := len(n.layers) - 1; i >= 0; i-- {
		perLayer[i], cur = n.layers[i].Backward(t.steps[i], cur)
	}
	return &Gradients{perLayer: perLayer}, cur
}
