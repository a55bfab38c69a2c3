package air

import (
	"testing"

	"github.com/consensys/gnark-crypto/field/goldilocks"
	"github.com/stretchr/testify/require"

	gl "github.com/zkmesh/unistark/goldilocks"
)

func qe(a0, a1 uint64) gl.QuadraticExtension {
	return gl.NewQuadraticExtension(goldilocks.NewElement(a0), goldilocks.NewElement(a1))
}

func TestBuilderHornerFolding(t *testing.T) {
	alpha := qe(5, 9)
	v1, v2, v3 := qe(10, 0), qe(0, 3), qe(7, 7)

	b := NewBuilder(ZeroFrame(1), nil, gl.ZeroExtension(), gl.ZeroExtension(), gl.ZeroExtension(), alpha)
	b.AssertZero(v1)
	b.AssertZero(v2)
	b.AssertZero(v3)

	want := v1.Mul(alpha).Add(v2).Mul(alpha).Add(v3)
	require.True(t, b.Accumulator().Equal(want))
	require.Equal(t, 3, b.Count())
}

func TestBuilderSelectorWeighting(t *testing.T) {
	alpha := qe(2, 1)
	first, last, transition := qe(11, 0), qe(13, 0), qe(17, 0)
	v := qe(3, 4)

	b := NewBuilder(ZeroFrame(1), nil, first, last, transition, alpha)
	b.AssertZeroFirstRow(v)
	b.AssertZeroLastRow(v)
	b.AssertZeroTransition(v)

	want := first.Mul(v).Mul(alpha).Add(last.Mul(v)).Mul(alpha).Add(transition.Mul(v))
	require.True(t, b.Accumulator().Equal(want))
	require.Equal(t, 3, b.Count())
}

func TestBuilderFrameAndPublicAccess(t *testing.T) {
	frame := Frame{
		Local: []gl.QuadraticExtension{qe(1, 2), qe(3, 4)},
		Next:  []gl.QuadraticExtension{qe(5, 6), qe(7, 8)},
	}
	publics := []goldilocks.Element{goldilocks.NewElement(42)}

	b := NewBuilder(frame, publics, gl.ZeroExtension(), gl.ZeroExtension(), gl.ZeroExtension(), gl.ZeroExtension())
	require.True(t, b.Local(1).Equal(qe(3, 4)))
	require.True(t, b.Next(0).Equal(qe(5, 6)))
	require.True(t, b.PublicValue(0).Equal(gl.FromBase(goldilocks.NewElement(42))))
}

func TestCountConstraints(t *testing.T) {
	require.Equal(t, 6, CountConstraints(FibonacciAir{}))
}
