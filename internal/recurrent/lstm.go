package recurrent

import (
	"io"
	"math"
	"math/rand"

	"github.com/21it/grenade/internal/layer"
	"github.com/21it/grenade/internal/tensor"
	"github.com/21it/grenade/internal/weights"
)

// LSTM is a long short-term memory layer with forget, input and output
// gates and a candidate update:
//
//	f = sigmoid(Wf*x + Uf*h + bf)
//	i = sigmoid(Wi*x + Ui*h + bi)
//	o = sigmoid(Wo*x + Uo*h + bo)
//	g = tanh  (Wg*x + Ug*h + bg)
//	c' = f.c + i.g
//	h' = o.tanh(c')
//
// The recurrent state vector packs the hidden and cell vectors as
// [h; c], so StateShape is D1[2*units]. The layer's output is h'.
type LSTM struct {
	units int
	in    int
	gates [4]lstmGate // order: forget, input, output, candidate
}

const (
	gateForget = iota
	gateInput
	gateOutput
	gateCandidate
)

type lstmGate struct {
	bias *tensor.Vector // units
	wx   *tensor.Matrix // units x in
	wh   *tensor.Matrix // units x units

	biasVel *tensor.Vector
	wxVel   *tensor.Matrix
	whVel   *tensor.Matrix
}

func (g *lstmGate) preactivation(x, h *tensor.Vector) *tensor.Vector {
	return tensor.Add(tensor.Add(g.bias, g.wx.MulVec(x)), g.wh.MulVec(h)).(*tensor.Vector)
}

type lstmTape struct {
	x          *tensor.Vector
	hPrev      *tensor.Vector
	cPrev      *tensor.Vector
	f, i, o, g *tensor.Vector
	tanhC      *tensor.Vector
}

// LSTMGradient is LSTM's parameter gradient, one slot per gate in
// forget, input, output, candidate order.
type LSTMGradient struct {
	Bias  [4]*tensor.Vector
	Input [4]*tensor.Matrix
	State [4]*tensor.Matrix
}

func (g *LSTMGradient) Add(other layer.Gradient) layer.Gradient {
	o := other.(*LSTMGradient)
	out := &LSTMGradient{}
	for k := 0; k < 4; k++ {
		out.Bias[k] = tensor.Add(g.Bias[k], o.Bias[k]).(*tensor.Vector)
		out.Input[k] = tensor.Add(g.Input[k], o.Input[k]).(*tensor.Matrix)
		out.State[k] = tensor.Add(g.State[k], o.State[k]).(*tensor.Matrix)
	}
	return out
}

func (g *LSTMGradient) Scale(f float64) layer.Gradient {
	out := &LSTMGradient{}
	for k := 0; k < 4; k++ {
		out.Bias[k] = tensor.Scale(f, g.Bias[k]).(*tensor.Vector)
		out.Input[k] = tensor.Scale(f, g.Input[k]).(*tensor.Matrix)
		out.State[k] = tensor.Scale(f, g.State[k]).(*tensor.Matrix)
	}
	return out
}

func (g *LSTMGradient) SquaredNorm() float64 {
	sum := 0.0
	for k := 0; k < 4; k++ {
		sum += tensor.SumSquares(g.Bias[k]) + tensor.SumSquares(g.Input[k]) + tensor.SumSquares(g.State[k])
	}
	return sum
}

// RandomLSTM builds an LSTM from in inputs to units outputs with
// parameters drawn by m.
func RandomLSTM(in, units int, m weights.Method, rng *rand.Rand) *LSTM {
	l := &LSTM{units: units, in: in}
	for k := range l.gates {
		l.gates[k] = lstmGate{
			bias:    m.Vector(units, in, units, rng),
			wx:      m.Matrix(units, in, in, units, rng),
			wh:      m.Matrix(units, units, units, units, rng),
			biasVel: tensor.NewVector(units),
			wxVel:   tensor.NewMatrix(units, in),
			whVel:   tensor.NewMatrix(units, units),
		}
	}
	return l
}

func (l *LSTM) InShape() tensor.Shape    { return tensor.D1(l.in) }
func (l *LSTM) OutShape() tensor.Shape   { return tensor.D1(l.units) }
func (l *LSTM) StateShape() tensor.Shape { return tensor.D1(2 * l.units) }

func (l *LSTM) splitState(state *tensor.Vector) (h, c *tensor.Vector) {
	d := state.Data()
	return tensor.VectorOf(d[:l.units]), tensor.VectorOf(d[l.units:])
}

func (l *LSTM) packState(h, c *tensor.Vector) *tensor.Vector {
	packed := tensor.NewVector(2 * l.units)
	copy(packed.Data()[:l.units], h.Data())
	copy(packed.Data()[l.units:], c.Data())
	return packed
}

func sigmoidv(v *tensor.Vector) *tensor.Vector {
	return tensor.Apply(v, func(x float64) float64 { return 1 / (1 + math.Exp(-x)) }).(*tensor.Vector)
}

func tanhv(v *tensor.Vector) *tensor.Vector {
	return tensor.Apply(v, math.Tanh).(*tensor.Vector)
}

func mulv(a, b *tensor.Vector) *tensor.Vector {
	return tensor.Mul(a, b).(*tensor.Vector)
}

func addv(a, b *tensor.Vector) *tensor.Vector {
	return tensor.Add(a, b).(*tensor.Vector)
}

func (l *LSTM) ForwardStep(x tensor.Tensor, state *tensor.Vector) (layer.Tape, *tensor.Vector, tensor.Tensor) {
	in := x.(*tensor.Vector)
	hPrev, cPrev := l.splitState(state)

	f := sigmoidv(l.gates[gateForget].preactivation(in, hPrev))
	i := sigmoidv(l.gates[gateInput].preactivation(in, hPrev))
	o := sigmoidv(l.gates[gateOutput].preactivation(in, hPrev))
	g := tanhv(l.gates[gateCandidate].preactivation(in, hPrev))

	c := addv(mulv(f, cPrev), mulv(i, g))
	tanhC := tanhv(c)
	h := mulv(o, tanhC)

	t := &lstmTape{x: in, hPrev: hPrev, cPrev: cPrev, f: f, i: i, o: o, g: g, tanhC: tanhC}
	return t, l.packState(h, c), h
}

func (l *LSTM) BackwardStep(tape layer.Tape, stateGrad *tensor.Vector, outGrad tensor.Tensor) (layer.Gradient, *tensor.Vector, tensor.Tensor) {
	t := tape.(*lstmTape)
	dhNext, dcNext := l.splitState(stateGrad)

	// the output is h', so its gradient joins the state-h gradient
	dh := addv(outGrad.(*tensor.Vector), dhNext)

	do := mulv(dh, t.tanhC)
	dc := addv(dcNext, mulv(mulv(dh, t.o),
		tensor.Apply(t.tanhC, func(y float64) float64 { return 1 - y*y }).(*tensor.Vector)))

	df := mulv(dc, t.cPrev)
	di := mulv(dc, t.g)
	dg := mulv(dc, t.i)

	// preactivation gradients
	pre := [4]*tensor.Vector{
		gateForget:    mulv(df, tensor.Apply(t.f, func(y float64) float64 { return y * (1 - y) }).(*tensor.Vector)),
		gateInput:     mulv(di, tensor.Apply(t.i, func(y float64) float64 { return y * (1 - y) }).(*tensor.Vector)),
		gateOutput:    mulv(do, tensor.Apply(t.o, func(y float64) float64 { return y * (1 - y) }).(*tensor.Vector)),
		gateCandidate: mulv(dg, tensor.Apply(t.g, func(y float64) float64 { return 1 - y*y }).(*tensor.Vector)),
	}

	grad := &LSTMGradient{}
	dx := tensor.NewVector(l.in)
	dhPrev := tensor.NewVector(l.units)
	for k := 0; k < 4; k++ {
		grad.Bias[k] = pre[k].CloneVector()
		grad.Input[k] = tensor.Outer(pre[k], t.x)
		grad.State[k] = tensor.Outer(pre[k], t.hPrev)
		dx = addv(dx, l.gates[k].wx.MulVecT(pre[k]))
		dhPrev = addv(dhPrev, l.gates[k].wh.MulVecT(pre[k]))
	}
	dcPrev := mulv(dc, t.f)

	return grad, l.packState(dhPrev, dcPrev), dx
}

func (l *LSTM) ApplyUpdate(p layer.LearningParams, grad layer.Gradient) RecurrentLayer {
	g := grad.(*LSTMGradient)
	out := &LSTM{units: l.units, in: l.in}
	for k := 0; k < 4; k++ {
		cur := &l.gates[k]

		biasVel := tensor.Sub(tensor.Scale(p.Momentum, cur.biasVel), tensor.Scale(p.Rate, g.Bias[k]))
		wxVel := tensor.Sub(tensor.Scale(p.Momentum, cur.wxVel), tensor.Scale(p.Rate, g.Input[k]))
		whVel := tensor.Sub(tensor.Scale(p.Momentum, cur.whVel), tensor.Scale(p.Rate, g.State[k]))

		bias := tensor.Add(cur.bias, biasVel)
		wx := tensor.Add(cur.wx, wxVel)
		wh := tensor.Add(cur.wh, whVel)
		if p.Regulariser != 0 {
			wx = tensor.Sub(wx, tensor.Scale(p.Rate*p.Regulariser, cur.wx))
			wh = tensor.Sub(wh, tensor.Scale(p.Rate*p.Regulariser, cur.wh))
		}

		out.gates[k] = lstmGate{
			bias:    bias.(*tensor.Vector),
			wx:      wx.(*tensor.Matrix),
			wh:      wh.(*tensor.Matrix),
			biasVel: biasVel.(*tensor.Vector),
			wxVel:   wxVel.(*tensor.Matrix),
			whVel:   whVel.(*tensor.Matrix),
		}
	}
	return out
}

func (l *LSTM) Randomize(m weights.Method, rng *rand.Rand) RecurrentLayer {
	return RandomLSTM(l.in, l.units, m, rng)
}

// Serialize writes, per gate in forget, input, output, candidate
// order: bias, input weights, state weights, row-major.
func (l *LSTM) Serialize(w io.Writer) error {
	for k := range l.gates {
		g := &l.gates[k]
		for _, t := range []tensor.Tensor{g.bias, g.wx, g.wh} {
			if err := tensor.WriteTensor(w, t); err != nil {
				return err
			}
		}
	}
	return nil
}

// Deserialize reads the parameters in serialization order and resets
// momentum.
func (l *LSTM) Deserialize(r io.Reader) error {
	for k := range l.gates {
		g := &l.gates[k]
		for _, t := range []tensor.Tensor{g.bias, g.wx, g.wh} {
			if err := tensor.ReadTensor(r, t); err != nil {
				return err
			}
		}
		g.biasVel = tensor.NewVector(l.units)
		g.wxVel = tensor.NewMatrix(l.units, l.in)
		g.whVel = tensor.NewMatrix(l.units, l.units)
	}
	return nil
}
