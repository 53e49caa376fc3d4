package tensor

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Binary payload helpers for layer serialization. Parameters are
// written as flat little-endian float64 sequences with no length
// prefix or type tag; the reader must already know the expected shape.

// WritePayload writes data as little-endian float64 values.
func WritePayload(w io.Writer, data []float64) error {
	if err := binary.Write(w, binary.LittleEndian, data); err != nil {
		return fmt.Errorf("tensor: writing payload of %d elements: %w", len(data), err)
	}
	return nil
}

// ReadPayload fills data from little-endian float64 values.
func ReadPayload(r io.Reader, data []float64) error {
	if err := binary.Read(r, binary.LittleEndian, data); err != nil {
		return fmt.Errorf("tensor: reading payload of %d elements: %w", len(data), err)
	}
	return nil
}

// WriteTensor writes t's elements in row-major order.
func WriteTensor(w io.Writer, t Tensor) error {
	return WritePayload(w, t.Data())
}

// ReadTensor fills t's elements in row-major order.
func ReadTensor(r io.Reader, t Tensor) error {
	return ReadPayload(r, t.Data())
}
