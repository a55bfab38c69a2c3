package air

import (
	"fmt"

	"github.com/consensys/gnark-crypto/field/goldilocks"

	"github.com/zkmesh/unistark/matrix"
)

// FibonacciAir proves a Fibonacci run over three columns [a b c]: every
// row computes c = a + b, and each transition carries (b, c) into the
// next row's (a, b). The public values pin the two seeds and the final
// sum.
type FibonacciAir struct{}

func (FibonacciAir) Width() int           { return 3 }
func (FibonacciAir) NumPublicValues() int { return 3 }

// MaxConstraintDegree is 2: the transition constraints are linear in the
// trace and weighted by a degree-one selector.
func (FibonacciAir) MaxConstraintDegree() int { return 2 }

func (FibonacciAir) Eval(builder *Builder) {
	a := builder.Local(0)
	b := builder.Local(1)
	c := builder.Local(2)

	builder.AssertZero(a.Add(b).Sub(c))

	builder.AssertZeroFirstRow(a.Sub(builder.PublicValue(0)))
	builder.AssertZeroFirstRow(b.Sub(builder.PublicValue(1)))
	builder.AssertZeroLastRow(c.Sub(builder.PublicValue(2)))

	builder.AssertZeroTransition(builder.Next(0).Sub(b))
	builder.AssertZeroTransition(builder.Next(1).Sub(c))
}

// NewFibonacciTrace builds a trace of the given height seeded [1 1 2],
// each subsequent row [b c b+c] of its predecessor, along with the
// matching public values [a0 b0 cLast]. The height must be a power of two
// of at least 2.
func NewFibonacciTrace(rows int) (matrix.Dense, []goldilocks.Element, error) {
	if rows < 2 || rows&(rows-1) != 0 {
		return matrix.Dense{}, nil, fmt.Errorf("fibonacci trace height %d is not a power of two >= 2", rows)
	}

	values := make([]goldilocks.Element, 3*rows)
	a := goldilocks.NewElement(1)
	b := goldilocks.NewElement(1)
	for i := 0; i < rows; i++ {
		var c goldilocks.Element
		c.Add(&a, &b)
		values[3*i] = a
		values[3*i+1] = b
		values[3*i+2] = c
		a = b
		b = c
	}

	publicValues := []goldilocks.Element{
		goldilocks.NewElement(1),
		goldilocks.NewElement(1),
		values[3*(rows-1)+2],
	}
	return matrix.MustDense(values, 3), publicValues, nil
}
