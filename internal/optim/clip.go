// Package optim provides gradient utilities shared by training loops:
// global-norm computation and global-norm clipping.
//
// Both functions work on anything satisfying layer.Gradient, which
// includes the network and recurrent gradient containers, so a whole
// network's gradients clip exactly like a single layer's.
package optim

import (
	"math"

	"github.com/21it/grenade/internal/layer"
)

// GlobalNorm returns the Euclidean norm over every element of every
// gradient in gs. The full sum of squares is accumulated before the
// square root, never streamed.
func GlobalNorm(gs ...layer.Gradient) float64 {
	sum := 0.0
	for _, g := range gs {
		sum += g.SquaredNorm()
	}
	return math.Sqrt(sum)
}

// ClipByGlobalNorm rescales the gradients so their combined norm does
// not exceed threshold. The norm is computed over all gradients first;
// only then is the scaling decision made. When the norm is within the
// threshold the inputs are returned unchanged.
//
// Non-finite gradient elements are not guarded against: NaN or Inf in
// the inputs propagates to the outputs.
func ClipByGlobalNorm(threshold float64, gs ...layer.Gradient) []layer.Gradient {
	norm := GlobalNorm(gs...)
	if norm <= threshold {
		return gs
	}
	scale := threshold / norm
	out := make([]layer.Gradient, len(gs))
	for i, g := range gs {
		out[i] = g.Scale(scale)
	}
	return out
}

// Clip is ClipByGlobalNorm for a single gradient container.
func Clip(threshold float64, g layer.Gradient) layer.Gradient {
	return ClipByGlobalNorm(threshold, g)[0]
}
