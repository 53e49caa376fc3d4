package graph

import (
	"fmt"

	"github.com/21it/grenade/internal/tensor"
)

// Initializer readers. A dimension or size mismatch between stored
// data and the statically expected shape is a recoverable error, never
// a truncation: callers handle it by falling back to random
// initialization or aborting the import of that layer.

// VectorInitializer returns the named initializer as a vector of
// exactly n elements.
func (g *Graph) VectorInitializer(name string, n int) (*tensor.Vector, error) {
	t, ok := g.Initializers[name]
	if !ok {
		return nil, fmt.Errorf("graph: no initializer named %q", name)
	}
	if len(t.Dims) != 1 || t.Dims[0] != int64(n) {
		return nil, fmt.Errorf("graph: initializer %q has dimensions %v, expected [%d]", name, t.Dims, n)
	}
	if len(t.Data) != n {
		return nil, fmt.Errorf("graph: initializer %q holds %d elements, expected %d", name, len(t.Data), n)
	}
	return tensor.VectorOf(t.Data), nil
}

// MatrixInitializer returns the named initializer as a rows x cols
// matrix, reading stored data row-major.
func (g *Graph) MatrixInitializer(name string, rows, cols int) (*tensor.Matrix, error) {
	t, ok := g.Initializers[name]
	if !ok {
		return nil, fmt.Errorf("graph: no initializer named %q", name)
	}
	if len(t.Dims) != 2 || t.Dims[0] != int64(rows) || t.Dims[1] != int64(cols) {
		return nil, fmt.Errorf("graph: initializer %q has dimensions %v, expected [%d %d]", name, t.Dims, rows, cols)
	}
	if len(t.Data) != rows*cols {
		return nil, fmt.Errorf("graph: initializer %q holds %d elements, expected %d", name, len(t.Data), rows*cols)
	}
	return tensor.MatrixOf(rows, cols, t.Data), nil
}
