// Package weights implements the selectable weight-initialization
// policies used when layers are created randomly.
package weights

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/21it/grenade/internal/tensor"
)

// Method selects the numeric initialization policy. Every policy is
// parameterized by the layer's fan-in and fan-out.
type Method int

const (
	// Uniform draws from U(-1/sqrt(fanIn), 1/sqrt(fanIn)).
	Uniform Method = iota
	// Xavier draws from U(-sqrt(6/(fanIn+fanOut)), sqrt(6/(fanIn+fanOut))).
	Xavier
	// HeEtAl draws from N(0, sqrt(2/fanIn)).
	HeEtAl
)

func (m Method) String() string {
	switch m {
	case Uniform:
		return "uniform"
	case Xavier:
		return "xavier"
	case HeEtAl:
		return "he-et-al"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// Sample draws one weight.
func (m Method) Sample(fanIn, fanOut int, rng *rand.Rand) float64 {
	switch m {
	case Uniform:
		bound := 1.0 / math.Sqrt(float64(fanIn))
		return (rng.Float64()*2.0 - 1.0) * bound
	case Xavier:
		bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
		return (rng.Float64()*2.0 - 1.0) * bound
	case HeEtAl:
		return rng.NormFloat64() * math.Sqrt(2.0/float64(fanIn))
	}
	panic(fmt.Sprintf("weights: unknown method %d", int(m)))
}

// Vector draws n independent samples into a fresh vector.
func (m Method) Vector(n, fanIn, fanOut int, rng *rand.Rand) *tensor.Vector {
	v := tensor.NewVector(n)
	d := v.Data()
	for i := range d {
		d[i] = m.Sample(fanIn, fanOut, rng)
	}
	return v
}

// Matrix draws rows*cols independent samples into a fresh matrix, in
// row-major order.
func (m Method) Matrix(rows, cols, fanIn, fanOut int, rng *rand.Rand) *tensor.Matrix {
	w := tensor.NewMatrix(rows, cols)
	d := w.Data()
	for i := range d {
		d[i] = m.Sample(fanIn, fanOut, rng)
	}
	return w
}
