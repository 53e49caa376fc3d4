package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

func sameShape(op string, a, b Tensor) {
	if !a.Shape().Equal(b.Shape()) {
		panic(fmt.Sprintf("tensor: %s over mismatched shapes %v and %v", op, a.Shape(), b.Shape()))
	}
}

// Add returns the elementwise sum a + b. Shapes must match.
func Add(a, b Tensor) Tensor {
	sameShape("Add", a, b)
	out := a.Clone()
	floats.Add(out.Data(), b.Data())
	return out
}

// Sub returns the elementwise difference a - b. Shapes must match.
func Sub(a, b Tensor) Tensor {
	sameShape("Sub", a, b)
	out := a.Clone()
	floats.Sub(out.Data(), b.Data())
	return out
}

// Mul returns the elementwise (Hadamard) product a * b. Shapes must
// match.
func Mul(a, b Tensor) Tensor {
	sameShape("Mul", a, b)
	out := a.Clone()
	floats.Mul(out.Data(), b.Data())
	return out
}

// Div returns the elementwise quotient a / b. Shapes must match.
func Div(a, b Tensor) Tensor {
	sameShape("Div", a, b)
	out := a.Clone()
	floats.Div(out.Data(), b.Data())
	return out
}

// Scale returns f * t.
func Scale(f float64, t Tensor) Tensor {
	out := t.Clone()
	floats.Scale(f, out.Data())
	return out
}

// Apply returns a tensor whose elements are f applied to t's elements.
func Apply(t Tensor, f func(float64) float64) Tensor {
	out := t.Clone()
	d := out.Data()
	for i, x := range d {
		d[i] = f(x)
	}
	return out
}

// Dot returns the inner product of a and b viewed as flat element
// sequences. Shapes must match.
func Dot(a, b Tensor) float64 {
	sameShape("Dot", a, b)
	return floats.Dot(a.Data(), b.Data())
}

// SumSquares returns the sum of squared elements of t.
func SumSquares(t Tensor) float64 {
	d := t.Data()
	return floats.Dot(d, d)
}

// ZerosLike returns a zero tensor with t's shape.
func ZerosLike(t Tensor) Tensor { return Zeros(t.Shape()) }

// Equal reports exact elementwise equality of two tensors of the same
// shape.
func Equal(a, b Tensor) bool {
	if !a.Shape().Equal(b.Shape()) {
		return false
	}
	return floats.Equal(a.Data(), b.Data())
}

// ApproxEqual reports elementwise equality within an absolute
// tolerance.
func ApproxEqual(a, b Tensor, tol float64) bool {
	if !a.Shape().Equal(b.Shape()) {
		return false
	}
	return floats.EqualApprox(a.Data(), b.Data(), tol)
}
