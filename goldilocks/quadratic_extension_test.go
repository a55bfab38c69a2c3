package goldilocks

import (
	"testing"

	"github.com/consensys/gnark-crypto/field/goldilocks"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func qe(a0, a1 uint64) QuadraticExtension {
	return NewQuadraticExtension(goldilocks.NewElement(a0), goldilocks.NewElement(a1))
}

func TestQuadraticExtensionMul(t *testing.T) {
	// X * X = W
	x := qe(0, 1)
	require.True(t, x.Square().Equal(qe(W, 0)))

	// (2 + 3X)(4 + 5X) = 8 + 7*15 + (10 + 12)X
	got := qe(2, 3).Mul(qe(4, 5))
	require.True(t, got.Equal(qe(113, 22)))

	one := OneExtension()
	require.True(t, got.Mul(one).Equal(got))
	require.True(t, got.Mul(ZeroExtension()).IsZero())
}

func TestQuadraticExtensionInverse(t *testing.T) {
	_, ok := ZeroExtension().Inverse()
	require.False(t, ok, "zero has no inverse")

	for _, z := range []QuadraticExtension{
		qe(1, 0),
		qe(0, 1),
		qe(7, 7),
		qe(18446744069414584320, 12345),
	} {
		inv, ok := z.Inverse()
		require.True(t, ok)
		require.True(t, z.Mul(inv).Equal(OneExtension()), "z * z^-1 must be one")
	}

	// Div against a non-invertible divisor reports failure.
	_, ok = qe(1, 2).Div(ZeroExtension())
	require.False(t, ok)
}

func TestQuadraticExtensionExp(t *testing.T) {
	z := qe(3, 5)

	expected := OneExtension()
	for i := uint64(0); i < 12; i++ {
		require.True(t, z.Exp(i).Equal(expected), "z^%d", i)
		expected = expected.Mul(z)
	}

	require.True(t, z.ExpPowerOf2(3).Equal(z.Exp(8)))
}

func TestReduceWithPowers(t *testing.T) {
	terms := []QuadraticExtension{qe(1, 0), qe(2, 0), qe(3, 4)}
	scalar := qe(5, 6)

	expected := terms[0].
		Add(terms[1].Mul(scalar)).
		Add(terms[2].Mul(scalar.Square()))
	require.True(t, ReduceWithPowers(terms, scalar).Equal(expected))

	require.True(t, ReduceWithPowers(nil, scalar).IsZero())
}

func TestBatchInvertQE(t *testing.T) {
	in := []QuadraticExtension{qe(1, 2), ZeroExtension(), qe(0, 9), qe(7, 0)}
	out := BatchInvertQE(in)

	for i := range in {
		if in[i].IsZero() {
			require.True(t, out[i].IsZero())
			continue
		}
		expected, ok := in[i].Inverse()
		require.True(t, ok)
		require.True(t, out[i].Equal(expected), "entry %d", i)
	}
}

func TestQuadraticExtensionProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("mul is commutative and associative", prop.ForAll(
		func(a0, a1, b0, b1, c0, c1 uint64) bool {
			a, b, c := qe(a0, a1), qe(b0, b1), qe(c0, c1)
			if !a.Mul(b).Equal(b.Mul(a)) {
				return false
			}
			return a.Mul(b).Mul(c).Equal(a.Mul(b.Mul(c)))
		},
		gen.UInt64(), gen.UInt64(), gen.UInt64(), gen.UInt64(), gen.UInt64(), gen.UInt64(),
	))

	properties.Property("mul distributes over add", prop.ForAll(
		func(a0, a1, b0, b1, c0, c1 uint64) bool {
			a, b, c := qe(a0, a1), qe(b0, b1), qe(c0, c1)
			return a.Mul(b.Add(c)).Equal(a.Mul(b).Add(a.Mul(c)))
		},
		gen.UInt64(), gen.UInt64(), gen.UInt64(), gen.UInt64(), gen.UInt64(), gen.UInt64(),
	))

	properties.Property("sub then add round-trips", prop.ForAll(
		func(a0, a1, b0, b1 uint64) bool {
			a, b := qe(a0, a1), qe(b0, b1)
			return a.Sub(b).Add(b).Equal(a)
		},
		gen.UInt64(), gen.UInt64(), gen.UInt64(), gen.UInt64(),
	))

	properties.Property("inverse round-trips", prop.ForAll(
		func(a0, a1 uint64) bool {
			a := qe(a0, a1)
			inv, ok := a.Inverse()
			if !ok {
				return a.IsZero()
			}
			return a.Mul(inv).Equal(OneExtension())
		},
		gen.UInt64(), gen.UInt64(),
	))

	properties.TestingRun(t)
}
