// Package matrix provides the dense row-major matrix of base field
// elements used for traces, low-degree extensions and committed codewords.
package matrix

import (
	"fmt"

	"github.com/consensys/gnark-crypto/field/goldilocks"
)

type Dense struct {
	// Values holds height*width elements, row by row.
	Values []goldilocks.Element
	width  int
}

func NewDense(values []goldilocks.Element, width int) (Dense, error) {
	if width <= 0 {
		return Dense{}, fmt.Errorf("matrix width must be positive, got %d", width)
	}
	if len(values)%width != 0 {
		return Dense{}, fmt.Errorf("matrix values length %d is not a multiple of width %d", len(values), width)
	}
	return Dense{Values: values, width: width}, nil
}

// MustDense wraps NewDense for construction sites where the shape is known
// to be valid.
func MustDense(values []goldilocks.Element, width int) Dense {
	m, err := NewDense(values, width)
	if err != nil {
		panic(err)
	}
	return m
}

func (d Dense) Width() int {
	return d.width
}

func (d Dense) Height() int {
	if d.width == 0 {
		return 0
	}
	return len(d.Values) / d.width
}

// Row returns row i as a view into the backing slice.
func (d Dense) Row(i int) []goldilocks.Element {
	return d.Values[i*d.width : (i+1)*d.width]
}

func (d Dense) At(row, col int) goldilocks.Element {
	return d.Values[row*d.width+col]
}

// Column copies column j out of the row-major layout.
func (d Dense) Column(j int) []goldilocks.Element {
	col := make([]goldilocks.Element, d.Height())
	for i := range col {
		col[i] = d.Values[i*d.width+j]
	}
	return col
}

// VerticallyPadded returns the matrix extended with zero rows to height
// newHeight. The receiver is returned unchanged when already tall enough.
func (d Dense) VerticallyPadded(newHeight int) Dense {
	if d.Height() >= newHeight {
		return d
	}
	padded := make([]goldilocks.Element, newHeight*d.width)
	copy(padded, d.Values)
	return Dense{Values: padded, width: d.width}
}
