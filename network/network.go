// Package network is the public surface of the sequential composition
// core.
//
// Example:
//
//	rng := rand.New(rand.NewSource(1))
//	net, err := network.New(
//	    layer.RandomFullyConnected(2, 4, weights.HeEtAl, rng),
//	    layer.NewTanh(tensor.D1(4)),
//	    layer.RandomFullyConnected(4, 1, weights.HeEtAl, rng),
//	    layer.NewLogit(tensor.D1(1)),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	tape, out := net.Forward(x)
//	grads, _ := net.Backward(tape, lossGrad)
//	net = net.ApplyUpdate(layer.DefaultLearningParams(), grads)
package network

import (
	internal "github.com/21it/grenade/internal/network"
	"github.com/21it/grenade/internal/layer"
)

// Network is an ordered, construction-validated sequence of layers.
type Network = internal.Network

// Tape mirrors the network with one entry per layer.
type Tape = internal.Tape

// BatchTape holds one tape per layer per sample.
type BatchTape = internal.BatchTape

// Gradients mirrors the network with one gradient per layer.
type Gradients = internal.Gradients

// ShapeError reports a rejected layer chain.
type ShapeError = internal.ShapeError

// New assembles a network, rejecting adjacent layers whose shapes
// disagree.
func New(layers ...layer.Layer) (*Network, error) { return internal.New(layers...) }
