// Package weights is the public surface of the weight-initialization
// policies.
package weights

import internal "github.com/21it/grenade/internal/weights"

// Method selects the numeric initialization policy.
type Method = internal.Method

const (
	// Uniform draws from U(-1/sqrt(fanIn), 1/sqrt(fanIn)).
	Uniform = internal.Uniform
	// Xavier draws from U(-sqrt(6/(fanIn+fanOut)), sqrt(6/(fanIn+fanOut))).
	Xavier = internal.Xavier
	// HeEtAl draws from N(0, sqrt(2/fanIn)).
	HeEtAl = internal.HeEtAl
)
