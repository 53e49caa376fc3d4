package layer

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/21it/grenade/internal/tensor"
	"github.com/21it/grenade/internal/weights"
)

// Reshape reinterprets a tensor's row-major elements under a different
// shape. Element counts must agree; that is checked when the layer is
// built, so Forward never fails.
type Reshape struct {
	from, to tensor.Shape
}

// NewReshape builds a reshape from one shape to another with the same
// element count.
func NewReshape(from, to tensor.Shape) (*Reshape, error) {
	if from.Elements() != to.Elements() {
		return nil, fmt.Errorf("layer: cannot reshape %v (%d elements) into %v (%d elements)",
			from, from.Elements(), to, to.Elements())
	}
	return &Reshape{from: from, to: to}, nil
}

func (l *Reshape) InShape() tensor.Shape  { return l.from }
func (l *Reshape) OutShape() tensor.Shape { return l.to }

func (l *Reshape) Forward(x tensor.Tensor) (Tape, tensor.Tensor) {
	return nil, tensor.Of(l.to, x.Data())
}

func (l *Reshape) Backward(_ Tape, outGrad tensor.Tensor) (Gradient, tensor.Tensor) {
	return NoGrad{}, tensor.Of(l.from, outGrad.Data())
}

func (l *Reshape) ApplyUpdate(LearningParams, Gradient) Layer { return l }
func (l *Reshape) Randomize(weights.Method, *rand.Rand) Layer { return l }
func (l *Reshape) Serialize(io.Writer) error                  { return nil }
func (l *Reshape) Deserialize(io.Reader) error                { return nil }
