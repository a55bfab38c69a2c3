package air

import (
	"testing"

	"github.com/consensys/gnark-crypto/field/goldilocks"
	"github.com/stretchr/testify/require"

	gl "github.com/zkmesh/unistark/goldilocks"
	"github.com/zkmesh/unistark/matrix"
)

// frameAt embeds rows r and (r+1) mod height of the trace into an
// extension-field frame, the layout constraint evaluation expects.
func frameAt(m matrix.Dense, r int) Frame {
	frame := ZeroFrame(m.Width())
	next := (r + 1) % m.Height()
	for j := 0; j < m.Width(); j++ {
		frame.Local[j] = gl.FromBase(m.At(r, j))
		frame.Next[j] = gl.FromBase(m.At(next, j))
	}
	return frame
}

// rowAccumulator folds every Fibonacci constraint at trace row r using
// 0/1 indicator selectors. For a satisfying trace it must be zero.
func rowAccumulator(m matrix.Dense, publics []goldilocks.Element, r int) gl.QuadraticExtension {
	isFirst, isLast, isTransition := gl.ZeroExtension(), gl.ZeroExtension(), gl.ZeroExtension()
	if r == 0 {
		isFirst = gl.OneExtension()
	}
	if r == m.Height()-1 {
		isLast = gl.OneExtension()
	} else {
		isTransition = gl.OneExtension()
	}

	b := NewBuilder(frameAt(m, r), publics, isFirst, isLast, isTransition, qe(5, 9))
	FibonacciAir{}.Eval(b)
	return b.Accumulator()
}

func TestFibonacciTraceShape(t *testing.T) {
	m, publics, err := NewFibonacciTrace(8)
	require.NoError(t, err)
	require.Equal(t, 8, m.Height())
	require.Equal(t, 3, m.Width())

	wantRows := [][3]uint64{
		{1, 1, 2}, {1, 2, 3}, {2, 3, 5}, {3, 5, 8},
		{5, 8, 13}, {8, 13, 21}, {13, 21, 34}, {21, 34, 55},
	}
	for i, want := range wantRows {
		for j, cell := range want {
			got := m.At(i, j)
			require.Equal(t, cell, got.Uint64(), "row %d column %d", i, j)
		}
	}

	require.Len(t, publics, 3)
	require.Equal(t, uint64(1), publics[0].Uint64())
	require.Equal(t, uint64(1), publics[1].Uint64())
	require.Equal(t, uint64(55), publics[2].Uint64())
}

func TestFibonacciTraceRejectsBadHeights(t *testing.T) {
	for _, rows := range []int{0, 1, 3, 6, -4} {
		_, _, err := NewFibonacciTrace(rows)
		require.Error(t, err, "height %d", rows)
	}
	for _, rows := range []int{2, 4, 64} {
		_, _, err := NewFibonacciTrace(rows)
		require.NoError(t, err, "height %d", rows)
	}
}

func TestFibonacciTraceSatisfiesConstraints(t *testing.T) {
	m, publics, err := NewFibonacciTrace(8)
	require.NoError(t, err)

	for r := 0; r < m.Height(); r++ {
		acc := rowAccumulator(m, publics, r)
		require.True(t, acc.IsZero(), "row %d accumulator %s", r, acc.String())
	}
}

func TestFibonacciConstraintsCatchTampering(t *testing.T) {
	m, publics, err := NewFibonacciTrace(8)
	require.NoError(t, err)

	// Corrupt one cell in the middle of the run.
	one := goldilocks.NewElement(1)
	m.Values[3*4+2].Add(&m.Values[3*4+2], &one)

	violated := false
	for r := 0; r < m.Height(); r++ {
		acc := rowAccumulator(m, publics, r)
		if !acc.IsZero() {
			violated = true
		}
	}
	require.True(t, violated, "tampered trace must violate some constraint")
}
