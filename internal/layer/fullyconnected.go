package layer

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/21it/grenade/internal/tensor"
	"github.com/21it/grenade/internal/weights"
)

// FullyConnected is a dense layer computing y = W*x + b for a vector
// input x. The weight matrix has one row per output element, so a
// layer from D1[in] to D1[out] holds an out x in matrix and an
// out-element bias.
//
// The layer carries its own momentum state; ApplyUpdate folds the
// incoming gradient into fresh momentum buffers and returns a new
// layer, leaving the receiver untouched.
type FullyConnected struct {
	bias    *tensor.Vector
	weights *tensor.Matrix

	// momentum buffers, zero until the first update
	biasVel    *tensor.Vector
	weightsVel *tensor.Matrix
}

// FCGradient is FullyConnected's parameter gradient.
type FCGradient struct {
	Bias    *tensor.Vector
	Weights *tensor.Matrix
}

func (g *FCGradient) Add(other Gradient) Gradient {
	o := other.(*FCGradient)
	return &FCGradient{
		Bias:    tensor.Add(g.Bias, o.Bias).(*tensor.Vector),
		Weights: tensor.Add(g.Weights, o.Weights).(*tensor.Matrix),
	}
}

func (g *FCGradient) Scale(f float64) Gradient {
	return &FCGradient{
		Bias:    tensor.Scale(f, g.Bias).(*tensor.Vector),
		Weights: tensor.Scale(f, g.Weights).(*tensor.Matrix),
	}
}

func (g *FCGradient) SquaredNorm() float64 {
	return tensor.SumSquares(g.Bias) + tensor.SumSquares(g.Weights)
}

// NewFullyConnected builds a dense layer from explicit parameters. The
// bias length must match the weight matrix's row count.
func NewFullyConnected(bias *tensor.Vector, w *tensor.Matrix) (*FullyConnected, error) {
	if bias.Len() != w.Rows() {
		return nil, fmt.Errorf("layer: fully connected bias has %d elements but weights have %d rows",
			bias.Len(), w.Rows())
	}
	return &FullyConnected{
		bias:       bias.CloneVector(),
		weights:    w.CloneMatrix(),
		biasVel:    tensor.NewVector(bias.Len()),
		weightsVel: tensor.NewMatrix(w.Rows(), w.Cols()),
	}, nil
}

// RandomFullyConnected builds a dense layer from in inputs to out
// outputs with parameters drawn by m.
func RandomFullyConnected(in, out int, m weights.Method, rng *rand.Rand) *FullyConnected {
	return &FullyConnected{
		bias:       m.Vector(out, in, out, rng),
		weights:    m.Matrix(out, in, in, out, rng),
		biasVel:    tensor.NewVector(out),
		weightsVel: tensor.NewMatrix(out, in),
	}
}

// Bias returns a copy of the bias vector.
func (l *FullyConnected) Bias() *tensor.Vector { return l.bias.CloneVector() }

// Weights returns a copy of the weight matrix.
func (l *FullyConnected) Weights() *tensor.Matrix { return l.weights.CloneMatrix() }

func (l *FullyConnected) InShape() tensor.Shape  { return tensor.D1(l.weights.Cols()) }
func (l *FullyConnected) OutShape() tensor.Shape { return tensor.D1(l.weights.Rows()) }

func (l *FullyConnected) Forward(x tensor.Tensor) (Tape, tensor.Tensor) {
	in := x.(*tensor.Vector)
	out := tensor.Add(l.weights.MulVec(in), l.bias)
	return in, out
}

func (l *FullyConnected) Backward(tape Tape, outGrad tensor.Tensor) (Gradient, tensor.Tensor) {
	in := tape.(*tensor.Vector)
	g := outGrad.(*tensor.Vector)
	grad := &FCGradient{
		Bias:    g.CloneVector(),
		Weights: tensor.Outer(g, in),
	}
	return grad, l.weights.MulVecT(g)
}

func (l *FullyConnected) ApplyUpdate(p LearningParams, grad Gradient) Layer {
	g := grad.(*FCGradient)

	// vel' = momentum*vel - rate*grad
	biasVel := tensor.Sub(tensor.Scale(p.Momentum, l.biasVel), tensor.Scale(p.Rate, g.Bias))
	weightsVel := tensor.Sub(tensor.Scale(p.Momentum, l.weightsVel), tensor.Scale(p.Rate, g.Weights))

	// w' = w + vel' - rate*reg*w
	bias := tensor.Add(l.bias, biasVel)
	w := tensor.Add(l.weights, weightsVel)
	if p.Regulariser != 0 {
		w = tensor.Sub(w, tensor.Scale(p.Rate*p.Regulariser, l.weights))
	}

	return &FullyConnected{
		bias:       bias.(*tensor.Vector),
		weights:    w.(*tensor.Matrix),
		biasVel:    biasVel.(*tensor.Vector),
		weightsVel: weightsVel.(*tensor.Matrix),
	}
}

func (l *FullyConnected) Randomize(m weights.Method, rng *rand.Rand) Layer {
	return RandomFullyConnected(l.weights.Cols(), l.weights.Rows(), m, rng)
}

// Serialize writes the bias then the weight matrix row-major.
func (l *FullyConnected) Serialize(w io.Writer) error {
	if err := tensor.WriteTensor(w, l.bias); err != nil {
		return err
	}
	return tensor.WriteTensor(w, l.weights)
}

// Deserialize reads the bias then the weight matrix row-major and
// resets momentum.
func (l *FullyConnected) Deserialize(r io.Reader) error {
	if err := tensor.ReadTensor(r, l.bias); err != nil {
		return err
	}
	if err := tensor.ReadTensor(r, l.weights); err != nil {
		return err
	}
	l.biasVel = tensor.NewVector(l.bias.Len())
	l.weightsVel = tensor.NewMatrix(l.weights.Rows(), l.weights.Cols())
	return nil
}
