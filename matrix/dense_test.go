package matrix

import (
	"testing"

	"github.com/consensys/gnark-crypto/field/goldilocks"
	"github.com/stretchr/testify/require"
)

func elements(vals ...uint64) []goldilocks.Element {
	out := make([]goldilocks.Element, len(vals))
	for i, v := range vals {
		out[i] = goldilocks.NewElement(v)
	}
	return out
}

func TestNewDense(t *testing.T) {
	m, err := NewDense(elements(1, 2, 3, 4, 5, 6), 3)
	require.NoError(t, err)
	require.Equal(t, 3, m.Width())
	require.Equal(t, 2, m.Height())
	require.Equal(t, elements(4, 5, 6), m.Row(1))
	require.Equal(t, goldilocks.NewElement(5), m.At(1, 1))
	require.Equal(t, elements(2, 5), m.Column(1))

	_, err = NewDense(elements(1, 2, 3), 2)
	require.Error(t, err)
	_, err = NewDense(elements(1, 2, 3), 0)
	require.Error(t, err)

	require.Panics(t, func() { MustDense(elements(1), 2) })
}

func TestVerticallyPadded(t *testing.T) {
	m := MustDense(elements(1, 2, 3, 4), 2)

	padded := m.VerticallyPadded(4)
	require.Equal(t, 4, padded.Height())
	require.Equal(t, elements(1, 2), padded.Row(0))
	pad0 := padded.At(3, 0)
	pad1 := padded.At(3, 1)
	require.True(t, pad0.IsZero())
	require.True(t, pad1.IsZero())

	same := m.VerticallyPadded(2)
	require.Equal(t, m, same)
}
