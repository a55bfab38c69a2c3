package goldilocks

import (
	"testing"

	"github.com/consensys/gnark-crypto/field/goldilocks"
	"github.com/stretchr/testify/require"
)

func TestPrimitiveRootOfUnity(t *testing.T) {
	one := goldilocks.NewElement(1)

	root := PrimitiveRootOfUnity(0)
	require.True(t, root.Equal(&one), "2^0'th root must be one")

	// The only element of order two is -1.
	root = PrimitiveRootOfUnity(1)
	var negOne goldilocks.Element
	negOne.Neg(&one)
	require.True(t, root.Equal(&negOne))

	root = PrimitiveRootOfUnity(TWO_ADICITY)
	require.True(t, root.Equal(&POWER_OF_TWO_GENERATOR))

	for _, nLog := range []uint64{2, 5, 6, 7, 16} {
		root := PrimitiveRootOfUnity(nLog)
		full := Exp(root, uint64(1)<<nLog)
		half := Exp(root, uint64(1)<<(nLog-1))
		require.True(t, full.Equal(&one), "root^(2^nLog) must be one")
		require.False(t, half.Equal(&one), "root must have exact order 2^nLog")
	}

	require.Panics(t, func() { PrimitiveRootOfUnity(TWO_ADICITY + 1) })
}

func TestTwoAdicSubgroup(t *testing.T) {
	subgroup := TwoAdicSubgroup(4)
	require.Len(t, subgroup, 16)

	one := goldilocks.NewElement(1)
	seen := make(map[uint64]bool)
	for _, el := range subgroup {
		require.False(t, seen[el.Uint64()], "subgroup elements must be distinct")
		seen[el.Uint64()] = true

		pow := Exp(el, 16)
		require.True(t, pow.Equal(&one))
	}
	require.True(t, subgroup[0].Equal(&one))
}

func TestExpAndPowers(t *testing.T) {
	base := goldilocks.NewElement(3)

	expected := goldilocks.NewElement(1)
	for i := 0; i < 10; i++ {
		got := Exp(base, uint64(i))
		require.True(t, got.Equal(&expected), "3^%d", i)
		expected.Mul(&expected, &base)
	}

	powers := Powers(base, 10)
	require.Len(t, powers, 10)
	acc := goldilocks.NewElement(1)
	for i := range powers {
		require.True(t, powers[i].Equal(&acc))
		acc.Mul(&acc, &base)
	}
}

func TestBatchInvert(t *testing.T) {
	in := []goldilocks.Element{
		goldilocks.NewElement(1),
		goldilocks.NewElement(2),
		goldilocks.NewElement(0),
		goldilocks.NewElement(12345678901234567),
		POWER_OF_TWO_GENERATOR,
	}

	out := BatchInvert(in)
	require.Len(t, out, len(in))

	for i := range in {
		var expected goldilocks.Element
		expected.Inverse(&in[i])
		require.True(t, out[i].Equal(&expected), "entry %d", i)
	}

	require.True(t, out[2].IsZero(), "zero entries must stay zero")
	require.Empty(t, BatchInvert(nil))
}
