// Package tensor is the public surface of the shape-tagged tensor
// types.
//
// Shapes have rank 1 through 4 and carry exact per-axis extents; every
// layer declares the shapes it accepts and produces in terms of them.
//
// Example:
//
//	x := tensor.VectorOf([]float64{1, 2, 3})
//	w := tensor.MatrixOf(2, 3, []float64{1, 0, 0, 0, 1, 0})
//	y := w.MulVec(x) // D1[2]
package tensor

import (
	internal "github.com/21it/grenade/internal/tensor"
)

// Shape describes tensor rank and per-axis extents.
type Shape = internal.Shape

// Tensor is the interface satisfied by every shape variant.
type Tensor = internal.Tensor

// Vector is a rank-1 tensor.
type Vector = internal.Vector

// Matrix is a rank-2 tensor.
type Matrix = internal.Matrix

// Tensor3 is a rank-3 tensor.
type Tensor3 = internal.Tensor3

// Tensor4 is a rank-4 tensor.
type Tensor4 = internal.Tensor4

// D1 returns the shape of a vector of length n.
func D1(n int) Shape { return internal.D1(n) }

// D2 returns the shape of a rows x cols matrix.
func D2(rows, cols int) Shape { return internal.D2(rows, cols) }

// D3 returns the shape of a rows x cols x channels tensor.
func D3(rows, cols, channels int) Shape { return internal.D3(rows, cols, channels) }

// D4 returns the shape of a rank-4 tensor.
func D4(a, b, c, d int) Shape { return internal.D4(a, b, c, d) }

// NewVector returns a zero vector of length n.
func NewVector(n int) *Vector { return internal.NewVector(n) }

// VectorOf returns a vector holding a copy of data.
func VectorOf(data []float64) *Vector { return internal.VectorOf(data) }

// NewMatrix returns a zero rows x cols matrix.
func NewMatrix(rows, cols int) *Matrix { return internal.NewMatrix(rows, cols) }

// MatrixOf returns a matrix holding a copy of the row-major data.
func MatrixOf(rows, cols int, data []float64) *Matrix { return internal.MatrixOf(rows, cols, data) }

// Zeros returns a zero tensor of the given shape.
func Zeros(s Shape) Tensor { return internal.Zeros(s) }

// Of returns a tensor of the given shape holding a copy of the
// row-major data.
func Of(s Shape, data []float64) Tensor { return internal.Of(s, data) }

// Add returns the elementwise sum a + b.
func Add(a, b Tensor) Tensor { return internal.Add(a, b) }

// Sub returns the elementwise difference a - b.
func Sub(a, b Tensor) Tensor { return internal.Sub(a, b) }

// Mul returns the elementwise product a * b.
func Mul(a, b Tensor) Tensor { return internal.Mul(a, b) }

// Scale returns f * t.
func Scale(f float64, t Tensor) Tensor { return internal.Scale(f, t) }

// Equal reports exact elementwise equality.
func Equal(a, b Tensor) bool { return internal.Equal(a, b) }

// ApproxEqual reports elementwise equality within an absolute
// tolerance.
func ApproxEqual(a, b Tensor, tol float64) bool { return internal.ApproxEqual(a, b, tol) }
