package tensor

import "fmt"

// Shape describes the rank and per-axis extents of a tensor.
//
// Supported ranks are 1 through 4. A Shape is attached to every tensor
// value and to every layer's declared input and output; two layers may
// only be adjacent in a network when the first's output Shape equals the
// second's input Shape.
type Shape []int

// D1 returns the shape of a vector of length n.
func D1(n int) Shape { return Shape{n} }

// D2 returns the shape of a rows x cols matrix.
func D2(rows, cols int) Shape { return Shape{rows, cols} }

// D3 returns the shape of a rows x cols x channels tensor.
func D3(rows, cols, channels int) Shape { return Shape{rows, cols, channels} }

// D4 returns the shape of a rank-4 tensor.
func D4(a, b, c, d int) Shape { return Shape{a, b, c, d} }

// Rank returns the number of axes.
func (s Shape) Rank() int { return len(s) }

// Elements returns the total number of elements a tensor of this shape
// holds.
func (s Shape) Elements() int {
	n := 1
	for _, d := range s {
		n *= d
	}
	return n
}

// Equal reports whether two shapes have the same rank and extents.
func (s Shape) Equal(o Shape) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

func (s Shape) String() string {
	switch len(s) {
	case 1:
		return fmt.Sprintf("D1[%d]", s[0])
	case 2:
		return fmt.Sprintf("D2[%dx%d]", s[0], s[1])
	case 3:
		return fmt.Sprintf("D3[%dx%dx%d]", s[0], s[1], s[2])
	case 4:
		return fmt.Sprintf("D4[%dx%dx%dx%d]", s[0], s[1], s[2], s[3])
	}
	return fmt.Sprintf("D?%v", []int(s))
}
