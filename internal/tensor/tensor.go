// Package tensor provides the shape-tagged tensor variants the rest of
// the library computes with.
//
// There are four variants, one per supported rank: Vector, Matrix,
// Tensor3 and Tensor4. All of them store float64 elements in row-major
// order on top of gonum's dense types, so layer math can use gonum's
// vector/matrix kernels directly while rank-generic code works through
// the Tensor interface and the flat Data view.
//
// One floating-point width is used for the whole build; it is float64
// because that is what gonum's mat package computes with.
package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Tensor is the interface satisfied by every shape variant.
//
// Data returns the backing row-major element slice. It is the live
// storage, not a copy; callers that need an independent value use Clone.
type Tensor interface {
	Shape() Shape
	Data() []float64
	Clone() Tensor
}

// Vector is a rank-1 tensor.
type Vector struct {
	vec *mat.VecDense
}

// NewVector returns a zero vector of length n.
func NewVector(n int) *Vector {
	return &Vector{vec: mat.NewVecDense(n, nil)}
}

// VectorOf returns a vector holding a copy of data.
func VectorOf(data []float64) *Vector {
	cp := make([]float64, len(data))
	copy(cp, data)
	return &Vector{vec: mat.NewVecDense(len(cp), cp)}
}

// Len returns the number of elements.
func (v *Vector) Len() int { return v.vec.Len() }

// At returns element i.
func (v *Vector) At(i int) float64 { return v.vec.AtVec(i) }

// Set assigns element i.
func (v *Vector) Set(i int, x float64) { v.vec.SetVec(i, x) }

// Raw exposes the underlying gonum vector.
func (v *Vector) Raw() *mat.VecDense { return v.vec }

func (v *Vector) Shape() Shape    { return D1(v.vec.Len()) }
func (v *Vector) Data() []float64 { return v.vec.RawVector().Data }

func (v *Vector) Clone() Tensor { return v.CloneVector() }

// CloneVector is Clone with a concrete result type.
func (v *Vector) CloneVector() *Vector {
	return VectorOf(v.Data())
}

// Matrix is a rank-2 tensor.
type Matrix struct {
	m *mat.Dense
}

// NewMatrix returns a zero rows x cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{m: mat.NewDense(rows, cols, nil)}
}

// MatrixOf returns a rows x cols matrix holding a copy of the row-major
// data slice.
func MatrixOf(rows, cols int, data []float64) *Matrix {
	if len(data) != rows*cols {
		panic(fmt.Sprintf("tensor: MatrixOf needs %d elements, got %d", rows*cols, len(data)))
	}
	cp := make([]float64, len(data))
	copy(cp, data)
	return &Matrix{m: mat.NewDense(rows, cols, cp)}
}

// Rows returns the row count.
func (m *Matrix) Rows() int { r, _ := m.m.Dims(); return r }

// Cols returns the column count.
func (m *Matrix) Cols() int { _, c := m.m.Dims(); return c }

// At returns element (i, j).
func (m *Matrix) At(i, j int) float64 { return m.m.At(i, j) }

// Set assigns element (i, j).
func (m *Matrix) Set(i, j int, x float64) { m.m.Set(i, j, x) }

// Raw exposes the underlying gonum matrix.
func (m *Matrix) Raw() *mat.Dense { return m.m }

func (m *Matrix) Shape() Shape {
	r, c := m.m.Dims()
	return D2(r, c)
}

func (m *Matrix) Data() []float64 { return m.m.RawMatrix().Data }

func (m *Matrix) Clone() Tensor { return m.CloneMatrix() }

// CloneMatrix is Clone with a concrete result type.
func (m *Matrix) CloneMatrix() *Matrix {
	r, c := m.m.Dims()
	return MatrixOf(r, c, m.Data())
}

// MulVec returns the matrix-vector product m * x.
func (m *Matrix) MulVec(x *Vector) *Vector {
	r, _ := m.m.Dims()
	out := mat.NewVecDense(r, nil)
	out.MulVec(m.m, x.vec)
	return &Vector{vec: out}
}

// MulVecT returns the transposed product m^T * x.
func (m *Matrix) MulVecT(x *Vector) *Vector {
	_, c := m.m.Dims()
	out := mat.NewVecDense(c, nil)
	out.MulVec(m.m.T(), x.vec)
	return &Vector{vec: out}
}

// Outer returns the outer product a * b^T.
func Outer(a, b *Vector) *Matrix {
	out := mat.NewDense(a.Len(), b.Len(), nil)
	out.Outer(1, a.vec, b.vec)
	return &Matrix{m: out}
}

// Tensor3 is a rank-3 tensor. Elements are stored row-major: the last
// axis varies fastest.
type Tensor3 struct {
	rows, cols, channels int
	data                 []float64
}

// NewTensor3 returns a zero rows x cols x channels tensor.
func NewTensor3(rows, cols, channels int) *Tensor3 {
	return &Tensor3{
		rows:     rows,
		cols:     cols,
		channels: channels,
		data:     make([]float64, rows*cols*channels),
	}
}

// Tensor3Of returns a rank-3 tensor holding a copy of the row-major
// data slice.
func Tensor3Of(rows, cols, channels int, data []float64) *Tensor3 {
	if len(data) != rows*cols*channels {
		panic(fmt.Sprintf("tensor: Tensor3Of needs %d elements, got %d", rows*cols*channels, len(data)))
	}
	t := NewTensor3(rows, cols, channels)
	copy(t.data, data)
	return t
}

func (t *Tensor3) Shape() Shape    { return D3(t.rows, t.cols, t.channels) }
func (t *Tensor3) Data() []float64 { return t.data }

func (t *Tensor3) Clone() Tensor {
	return Tensor3Of(t.rows, t.cols, t.channels, t.data)
}

// Tensor4 is a rank-4 tensor stored row-major.
type Tensor4 struct {
	dims Shape
	data []float64
}

// NewTensor4 returns a zero rank-4 tensor.
func NewTensor4(a, b, c, d int) *Tensor4 {
	return &Tensor4{dims: D4(a, b, c, d), data: make([]float64, a*b*c*d)}
}

// Tensor4Of returns a rank-4 tensor holding a copy of the row-major
// data slice.
func Tensor4Of(a, b, c, d int, data []float64) *Tensor4 {
	if len(data) != a*b*c*d {
		panic(fmt.Sprintf("tensor: Tensor4Of needs %d elements, got %d", a*b*c*d, len(data)))
	}
	t := NewTensor4(a, b, c, d)
	copy(t.data, data)
	return t
}

func (t *Tensor4) Shape() Shape    { return Shape{t.dims[0], t.dims[1], t.dims[2], t.dims[3]} }
func (t *Tensor4) Data() []float64 { return t.data }

func (t *Tensor4) Clone() Tensor {
	return Tensor4Of(t.dims[0], t.dims[1], t.dims[2], t.dims[3], t.data)
}

// Zeros returns a zero-valued tensor of the given shape.
func Zeros(s Shape) Tensor {
	switch s.Rank() {
	case 1:
		return NewVector(s[0])
	case 2:
		return NewMatrix(s[0], s[1])
	case 3:
		return NewTensor3(s[0], s[1], s[2])
	case 4:
		return NewTensor4(s[0], s[1], s[2], s[3])
	}
	panic(fmt.Sprintf("tensor: unsupported shape %v", s))
}

// Of returns a tensor of the given shape holding a copy of the
// row-major data slice.
func Of(s Shape, data []float64) Tensor {
	if len(data) != s.Elements() {
		panic(fmt.Sprintf("tensor: shape %v needs %d elements, got %d", s, s.Elements(), len(data)))
	}
	switch s.Rank() {
	case 1:
		return VectorOf(data)
	case 2:
		return MatrixOf(s[0], s[1], data)
	case 3:
		return Tensor3Of(s[0], s[1], s[2], data)
	case 4:
		return Tensor4Of(s[0], s[1], s[2], s[3], data)
	}
	panic(fmt.Sprintf("tensor: unsupported shape %v", s))
}
