package layer

import (
	"io"
	"math/rand"

	"github.com/21it/grenade/internal/tensor"
	"github.com/21it/grenade/internal/weights"
)

// Dropout zeroes each element with probability rate and scales kept
// elements by 1/(1-rate). The mask is derived from a stored seed, so
// repeated forwards of the same layer value produce the same mask and
// tests are reproducible. ApplyUpdate advances the seed, giving each
// training step a fresh mask.
type Dropout struct {
	shape tensor.Shape
	rate  float64
	seed  int64
}

// NewDropout builds a dropout layer over the given shape. rate is the
// probability of dropping an element, in [0, 1).
func NewDropout(s tensor.Shape, rate float64, seed int64) *Dropout {
	return &Dropout{shape: s, rate: rate, seed: seed}
}

func (l *Dropout) InShape() tensor.Shape  { return l.shape }
func (l *Dropout) OutShape() tensor.Shape { return l.shape }

func (l *Dropout) mask() []float64 {
	rng := rand.New(rand.NewSource(l.seed))
	m := make([]float64, l.shape.Elements())
	keep := 1 - l.rate
	for i := range m {
		if rng.Float64() < keep {
			m[i] = 1 / keep
		}
	}
	return m
}

func (l *Dropout) Forward(x tensor.Tensor) (Tape, tensor.Tensor) {
	m := l.mask()
	out := x.Clone()
	d := out.Data()
	for i := range d {
		d[i] *= m[i]
	}
	return m, out
}

func (l *Dropout) Backward(tape Tape, outGrad tensor.Tensor) (Gradient, tensor.Tensor) {
	m := tape.([]float64)
	inGrad := outGrad.Clone()
	d := inGrad.Data()
	for i := range d {
		d[i] *= m[i]
	}
	return NoGrad{}, inGrad
}

func (l *Dropout) ApplyUpdate(LearningParams, Gradient) Layer {
	return &Dropout{shape: l.shape, rate: l.rate, seed: l.seed + 1}
}

func (l *Dropout) Randomize(_ weights.Method, rng *rand.Rand) Layer {
	return &Dropout{shape: l.shape, rate: l.rate, seed: rng.Int63()}
}

func (l *Dropout) Serialize(io.Writer) error   { return nil }
func (l *Dropout) Deserialize(io.Reader) error { return nil }
