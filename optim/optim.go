// Package optim is the public surface of the gradient utilities:
// global-norm computation and global-norm clipping.
//
// Both operate on anything satisfying the layer gradient contract,
// including whole-network gradient containers:
//
//	grads, _ := net.Backward(tape, lossGrad)
//	clipped := optim.Clip(5.0, grads).(*network.Gradients)
//	net = net.ApplyUpdate(params, clipped)
package optim

import (
	"github.com/21it/grenade/internal/layer"
	internal "github.com/21it/grenade/internal/optim"
)

// GlobalNorm returns the Euclidean norm over every element of every
// gradient.
func GlobalNorm(gs ...layer.Gradient) float64 { return internal.GlobalNorm(gs...) }

// ClipByGlobalNorm rescales gradients so their combined norm does not
// exceed threshold.
func ClipByGlobalNorm(threshold float64, gs ...layer.Gradient) []layer.Gradient {
	return internal.ClipByGlobalNorm(threshold, gs...)
}

// Clip is ClipByGlobalNorm for a single gradient container.
func Clip(threshold float64, g layer.Gradient) layer.Gradient { return internal.Clip(threshold, g) }
