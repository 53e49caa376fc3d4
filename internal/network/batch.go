package network

import (
	"fmt"

	"github.com/21it/grenade/internal/layer"
	"github.com/21it/grenade/internal/tensor"
)

// BatchTape holds one tape per layer per sample: steps[i][j] is layer
// i's tape for sample j. Sample order is preserved throughout.
type BatchTape struct {
	steps [][]layer.Tape
}

// ForwardBatch threads an ordered batch of samples through the layers,
// using each layer's batched forward.
func (n *Network) ForwardBatch(xs []tensor.Tensor) (*BatchTape, []tensor.Tensor) {
	steps := make([][]layer.Tape, len(n.layers))
	cur := xs
	for i, l := range n.layers {
		steps[i], cur = layer.ForwardBatch(l, cur)
	}
	return &BatchTape{steps: steps}, cur
}

// BackwardBatch runs the batched backward pass. Per layer, working
// from the tail, it computes one parameter gradient per sample and
// immediately reduces them to a single gradient for that layer;
// input gradients stay per-sample all the way through and are
// returned alongside.
//
// Fails on an empty batch: reduction cannot infer a gradient's
// structure from zero samples.
func (n *Network) BackwardBatch(t *BatchTape, outGrads []tensor.Tensor) (*Gradients, []tensor.Tensor, error) {
	perLayer := make([]layer.Gradient, len(n.layers))
	cur := outGrads
	for i := len(n.layers) - 1; i >= 0; i-- {
		sampleGrads, inGrads := layer.BackwardBatch(n.layers[i], t.steps[i], cur)
		reduced, err := layer.ReduceGradient(n.layers[i], sampleGrads)
		if err != nil {
			return nil, nil, fmt.Errorf("network: reducing layer %d gradients: %w", i, err)
		}
		perLayer[i] = reduced
		cur = inGrads
	}
	return &Gradients{perLayer: perLayer}, cur, nil
}
