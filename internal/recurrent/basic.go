package recurrent

import (
	"io"
	"math/rand"

	"github.com/21it/grenade/internal/layer"
	"github.com/21it/grenade/internal/tensor"
	"github.com/21it/grenade/internal/weights"
)

// BasicRecurrent is the simplest recurrent layer:
//
//	y = b + Wx*x + Ws*s
//
// where s is the incoming state; the output y is also the outgoing
// state. There is no built-in nonlinearity; compose with an activation
// cell after it.
type BasicRecurrent struct {
	bias *tensor.Vector // out
	wx   *tensor.Matrix // out x in
	ws   *tensor.Matrix // out x out

	biasVel *tensor.Vector
	wxVel   *tensor.Matrix
	wsVel   *tensor.Matrix
}

type basicTape struct {
	x     *tensor.Vector
	state *tensor.Vector
}

// BasicGradient is BasicRecurrent's parameter gradient.
type BasicGradient struct {
	Bias  *tensor.Vector
	Input *tensor.Matrix
	State *tensor.Matrix
}

func (g *BasicGradient) Add(other layer.Gradient) layer.Gradient {
	o := other.(*BasicGradient)
	return &BasicGradient{
		Bias:  tensor.Add(g.Bias, o.Bias).(*tensor.Vector),
		Input: tensor.Add(g.Input, o.Input).(*tensor.Matrix),
		State: tensor.Add(g.State, o.State).(*tensor.Matrix),
	}
}

func (g *BasicGradient) Scale(f float64) layer.Gradient {
	return &BasicGradient{
		Bias:  tensor.Scale(f, g.Bias).(*tensor.Vector),
		Input: tensor.Scale(f, g.Input).(*tensor.Matrix),
		State: tensor.Scale(f, g.State).(*tensor.Matrix),
	}
}

func (g *BasicGradient) SquaredNorm() float64 {
	return tensor.SumSquares(g.Bias) + tensor.SumSquares(g.Input) + tensor.SumSquares(g.State)
}

// RandomBasicRecurrent builds a basic recurrent layer from in inputs
// to out outputs with parameters drawn by m.
func RandomBasicRecurrent(in, out int, m weights.Method, rng *rand.Rand) *BasicRecurrent {
	return &BasicRecurrent{
		bias:    m.Vector(out, in, out, rng),
		wx:      m.Matrix(out, in, in, out, rng),
		ws:      m.Matrix(out, out, out, out, rng),
		biasVel: tensor.NewVector(out),
		wxVel:   tensor.NewMatrix(out, in),
		wsVel:   tensor.NewMatrix(out, out),
	}
}

func (l *BasicRecurrent) InShape() tensor.Shape    { return tensor.D1(l.wx.Cols()) }
func (l *BasicRecurrent) OutShape() tensor.Shape   { return tensor.D1(l.wx.Rows()) }
func (l *BasicRecurrent) StateShape() tensor.Shape { return tensor.D1(l.wx.Rows()) }

func (l *BasicRecurrent) ForwardStep(x tensor.Tensor, state *tensor.Vector) (layer.Tape, *tensor.Vector, tensor.Tensor) {
	in := x.(*tensor.Vector)
	y := tensor.Add(tensor.Add(l.bias, l.wx.MulVec(in)), l.ws.MulVec(state)).(*tensor.Vector)
	return &basicTape{x: in, state: state.CloneVector()}, y.CloneVector(), y
}

func (l *BasicRecurrent) BackwardStep(tape layer.Tape, stateGrad *tensor.Vector, outGrad tensor.Tensor) (layer.Gradient, *tensor.Vector, tensor.Tensor) {
	t := tape.(*basicTape)
	// the output and the outgoing state are the same value, so both
	// gradients land on it
	total := tensor.Add(outGrad.(*tensor.Vector), stateGrad).(*tensor.Vector)
	grad := &BasicGradient{
		Bias:  total.CloneVector(),
		Input: tensor.Outer(total, t.x),
		State: tensor.Outer(total, t.state),
	}
	return grad, l.ws.MulVecT(total), l.wx.MulVecT(total)
}

func (l *BasicRecurrent) ApplyUpdate(p layer.LearningParams, grad layer.Gradient) RecurrentLayer {
	g := grad.(*BasicGradient)

	biasVel := tensor.Sub(tensor.Scale(p.Momentum, l.biasVel), tensor.Scale(p.Rate, g.Bias))
	wxVel := tensor.Sub(tensor.Scale(p.Momentum, l.wxVel), tensor.Scale(p.Rate, g.Input))
	wsVel := tensor.Sub(tensor.Scale(p.Momentum, l.wsVel), tensor.Scale(p.Rate, g.State))

	bias := tensor.Add(l.bias, biasVel)
	wx := tensor.Add(l.wx, wxVel)
	ws := tensor.Add(l.ws, wsVel)
	if p.Regulariser != 0 {
		wx = tensor.Sub(wx, tensor.Scale(p.Rate*p.Regulariser, l.wx))
		ws = tensor.Sub(ws, tensor.Scale(p.Rate*p.Regulariser, l.ws))
	}

	return &BasicRecurrent{
		bias:    bias.(*tensor.Vector),
		wx:      wx.(*tensor.Matrix),
		ws:      ws.(*tensor.Matrix),
		biasVel: biasVel.(*tensor.Vector),
		wxVel:   wxVel.(*tensor.Matrix),
		wsVel:   wsVel.(*tensor.Matrix),
	}
}

func (l *BasicRecurrent) Randomize(m weights.Method, rng *rand.Rand) RecurrentLayer {
	return RandomBasicRecurrent(l.wx.Cols(), l.wx.Rows(), m, rng)
}

// Serialize writes the bias, the input weights and the state weights,
// row-major.
func (l *BasicRecurrent) Serialize(w io.Writer) error {
	for _, t := range []tensor.Tensor{l.bias, l.wx, l.ws} {
		if err := tensor.WriteTensor(w, t); err != nil {
			return err
		}
	}
	return nil
}

// Deserialize reads the parameters in serialization order and resets
// momentum.
func (l *BasicRecurrent) Deserialize(r io.Reader) error {
	for _, t := range []tensor.Tensor{l.bias, l.wx, l.ws} {
		if err := tensor.ReadTensor(r, t); err != nil {
			return err
		}
	}
	l.biasVel = tensor.NewVector(l.bias.Len())
	l.wxVel = tensor.NewMatrix(l.wx.Rows(), l.wx.Cols())
	l.wsVel = tensor.NewMatrix(l.ws.Rows(), l.ws.Cols())
	return nil
}
