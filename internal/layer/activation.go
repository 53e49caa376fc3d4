package layer

import (
	"io"
	"math"
	"math/rand"

	"github.com/21it/grenade/internal/tensor"
	"github.com/21it/grenade/internal/weights"
)

// Activation layers. Each instance is pinned to one shape; they carry
// no parameters, so their gradients are NoGrad and their serialized
// form is empty.

// Relu applies max(0, x) elementwise.
type Relu struct {
	shape tensor.Shape
}

// NewRelu returns a Relu over the given shape.
func NewRelu(s tensor.Shape) *Relu { return &Relu{shape: s} }

func (l *Relu) InShape() tensor.Shape  { return l.shape }
func (l *Relu) OutShape() tensor.Shape { return l.shape }

func (l *Relu) Forward(x tensor.Tensor) (Tape, tensor.Tensor) {
	out := tensor.Apply(x, func(v float64) float64 {
		if v < 0 {
			return 0
		}
		return v
	})
	return x, out
}

func (l *Relu) Backward(tape Tape, outGrad tensor.Tensor) (Gradient, tensor.Tensor) {
	in := tape.(tensor.Tensor)
	inGrad := outGrad.Clone()
	d := inGrad.Data()
	for i, v := range in.Data() {
		if v < 0 {
			d[i] = 0
		}
	}
	return NoGrad{}, inGrad
}

// ForwardBatch is the fused batch path. It applies the same
// elementwise kernel per sample, so results are identical to the
// per-sample fallback.
func (l *Relu) ForwardBatch(xs []tensor.Tensor) ([]Tape, []tensor.Tensor) {
	tapes := make([]Tape, len(xs))
	outs := make([]tensor.Tensor, len(xs))
	for i, x := range xs {
		tapes[i], outs[i] = l.Forward(x)
	}
	return tapes, outs
}

// BackwardBatch is the fused batch path matching ForwardBatch.
func (l *Relu) BackwardBatch(tapes []Tape, outGrads []tensor.Tensor) ([]Gradient, []tensor.Tensor) {
	grads := make([]Gradient, len(tapes))
	inGrads := make([]tensor.Tensor, len(tapes))
	for i := range tapes {
		grads[i], inGrads[i] = l.Backward(tapes[i], outGrads[i])
	}
	return grads, inGrads
}

func (l *Relu) ApplyUpdate(LearningParams, Gradient) Layer         { return l }
func (l *Relu) Randomize(weights.Method, *rand.Rand) Layer         { return l }
func (l *Relu) Serialize(io.Writer) error                          { return nil }
func (l *Relu) Deserialize(io.Reader) error                        { return nil }

// Tanh applies tanh elementwise.
type Tanh struct {
	shape tensor.Shape
}

// NewTanh returns a Tanh over the given shape.
func NewTanh(s tensor.Shape) *Tanh { return &Tanh{shape: s} }

func (l *Tanh) InShape() tensor.Shape  { return l.shape }
func (l *Tanh) OutShape() tensor.Shape { return l.shape }

func (l *Tanh) Forward(x tensor.Tensor) (Tape, tensor.Tensor) {
	out := tensor.Apply(x, math.Tanh)
	return out, out
}

func (l *Tanh) Backward(tape Tape, outGrad tensor.Tensor) (Gradient, tensor.Tensor) {
	out := tape.(tensor.Tensor)
	inGrad := outGrad.Clone()
	d := inGrad.Data()
	for i, y := range out.Data() {
		d[i] *= 1 - y*y
	}
	return NoGrad{}, inGrad
}

func (l *Tanh) ApplyUpdate(LearningParams, Gradient) Layer { return l }
func (l *Tanh) Randomize(weights.Method, *rand.Rand) Layer { return l }
func (l *Tanh) Serialize(io.Writer) error                  { return nil }
func (l *Tanh) Deserialize(io.Reader) error                { return nil }

// Logit applies the logistic sigmoid 1/(1+exp(-x)) elementwise.
type Logit struct {
	shape tensor.Shape
}

// NewLogit returns a Logit over the given shape.
func NewLogit(s tensor.Shape) *Logit { return &Logit{shape: s} }

func (l *Logit) InShape() tensor.Shape  { return l.shape }
func (l *Logit) OutShape() tensor.Shape { return l.shape }

func (l *Logit) Forward(x tensor.Tensor) (Tape, tensor.Tensor) {
	out := tensor.Apply(x, func(v float64) float64 {
		return 1 / (1 + math.Exp(-v))
	})
	return out, out
}

func (l *Logit) Backward(tape Tape, outGrad tensor.Tensor) (Gradient, tensor.Tensor) {
	out := tape.(tensor.Tensor)
	inGrad := outGrad.Clone()
	d := inGrad.Data()
	for i, y := range out.Data() {
		d[i] *= y * (1 - y)
	}
	return NoGrad{}, inGrad
}

func (l *Logit) ApplyUpdate(LearningParams, Gradient) Layer { return l }
func (l *Logit) Randomize(weights.Method, *rand.Rand) Layer { return l }
func (l *Logit) Serialize(io.Writer) error                  { return nil }
func (l *Logit) Deserialize(io.Reader) error                { return nil }

// Softmax normalizes a vector into a probability distribution. Vector
// shapes only.
type Softmax struct {
	n int
}

// NewSoftmax returns a Softmax over vectors of length n.
func NewSoftmax(n int) *Softmax { return &Softmax{n: n} }

func (l *Softmax) InShape() tensor.Shape  { return tensor.D1(l.n) }
func (l *Softmax) OutShape() tensor.Shape { return tensor.D1(l.n) }

func (l *Softmax) Forward(x tensor.Tensor) (Tape, tensor.Tensor) {
	in := x.(*tensor.Vector)
	out := tensor.NewVector(in.Len())
	d := out.Data()
	max := math.Inf(-1)
	for _, v := range in.Data() {
		if v > max {
			max = v
		}
	}
	sum := 0.0
	for i, v := range in.Data() {
		d[i] = math.Exp(v - max)
		sum += d[i]
	}
	for i := range d {
		d[i] /= sum
	}
	return out, out
}

func (l *Softmax) Backward(tape Tape, outGrad tensor.Tensor) (Gradient, tensor.Tensor) {
	y := tape.(*tensor.Vector)
	g := outGrad.(*tensor.Vector)
	// dx = y.g - y*(y.g summed)
	dot := tensor.Dot(y, g)
	inGrad := tensor.NewVector(y.Len())
	d := inGrad.Data()
	for i := range d {
		d[i] = y.At(i) * (g.At(i) - dot)
	}
	return NoGrad{}, inGrad
}

func (l *Softmax) ApplyUpdate(LearningParams, Gradient) Layer { return l }
func (l *Softmax) Randomize(weights.Method, *rand.Rand) Layer { return l }
func (l *Softmax) Serialize(io.Writer) error                  { return nil }
func (l *Softmax) Deserialize(io.Reader) error                { return nil }
