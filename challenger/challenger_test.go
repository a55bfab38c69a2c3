package challenger

import (
	"testing"

	"github.com/consensys/gnark-crypto/field/goldilocks"
	"github.com/stretchr/testify/require"

	gl "github.com/zkmesh/unistark/goldilocks"
	"github.com/zkmesh/unistark/merkle"
	"github.com/zkmesh/unistark/poseidon"
)

func observeRange(c *Challenger, start, count uint64) {
	for i := uint64(0); i < count; i++ {
		c.ObserveElement(goldilocks.NewElement(start + i))
	}
}

func TestChallengeStreamIsDeterministic(t *testing.T) {
	a := New()
	b := New()

	observeRange(a, 100, 20)
	observeRange(b, 100, 20)

	for i := 0; i < 30; i++ {
		ca := a.GetChallenge()
		cb := b.GetChallenge()
		require.True(t, ca.Equal(&cb), "challenge %d must match", i)
	}
}

func TestChallengeStreamDiverges(t *testing.T) {
	a := New()
	b := New()

	observeRange(a, 100, 5)
	observeRange(b, 100, 4)
	b.ObserveElement(goldilocks.NewElement(999))

	ca := a.GetChallenge()
	cb := b.GetChallenge()
	require.False(t, ca.Equal(&cb), "different observations must give different challenges")
}

func TestConsecutiveChallengesDiffer(t *testing.T) {
	c := New()
	c.ObserveElement(goldilocks.NewElement(7))

	prev := c.GetChallenge()
	for i := 0; i < 20; i++ {
		next := c.GetChallenge()
		require.False(t, next.Equal(&prev))
		prev = next
	}
}

func TestObserveClearsPendingOutput(t *testing.T) {
	a := New()
	b := New()
	observeRange(a, 1, 3)
	observeRange(b, 1, 3)

	// a squeezes, then both observe the same element: the pending output
	// on a must be discarded, so the next challenges agree again.
	a.GetChallenge()
	a.ObserveElement(goldilocks.NewElement(55))
	b.ObserveElement(goldilocks.NewElement(55))

	ca := a.GetChallenge()
	cb := b.GetChallenge()
	require.True(t, ca.Equal(&cb))
}

func TestDuplexingAtRateBoundary(t *testing.T) {
	// Observing exactly SPONGE_RATE elements fills a full duplex block.
	a := New()
	b := New()
	observeRange(a, 0, uint64(poseidon.SPONGE_RATE))
	observeRange(b, 0, uint64(poseidon.SPONGE_RATE))

	ca := a.GetChallenge()
	cb := b.GetChallenge()
	require.True(t, ca.Equal(&cb))
}

func TestExtensionChallenge(t *testing.T) {
	a := New()
	b := New()
	observeRange(a, 3, 2)
	observeRange(b, 3, 2)

	ext := a.GetExtensionChallenge()
	first := b.GetChallenge()
	second := b.GetChallenge()
	require.True(t, ext[0].Equal(&first))
	require.True(t, ext[1].Equal(&second))
}

func TestGetIndices(t *testing.T) {
	c := New()
	c.ObserveElement(goldilocks.NewElement(1))

	indices := c.GetIndices(50, 7)
	require.Len(t, indices, 50)

	seen := map[int]bool{}
	for _, idx := range indices {
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, 128)
		seen[idx] = true
	}
	// 50 samples over 128 slots collide, but not onto a single value.
	require.Greater(t, len(seen), 10)
}

func TestObserveDigest(t *testing.T) {
	a := New()
	b := New()

	var d merkle.Digest
	for i := range d {
		d[i] = byte(i * 3)
	}
	a.ObserveDigest(d)

	d[31] ^= 1
	b.ObserveDigest(d)

	ca := a.GetChallenge()
	cb := b.GetChallenge()
	require.False(t, ca.Equal(&cb), "digest bits must bind the transcript")
}

func TestCloneIsIndependent(t *testing.T) {
	c := New()
	observeRange(c, 10, 6)

	clone := c.Clone()
	clone.ObserveElement(goldilocks.NewElement(12345))
	clone.GetChallenge()

	a := New()
	observeRange(a, 10, 6)

	want := a.GetChallenge()
	got := c.GetChallenge()
	require.True(t, got.Equal(&want), "probing a clone must not advance the original")
}

func TestGrindAndCheckWitness(t *testing.T) {
	const powBits = 6

	prover := New()
	verifier := New()
	observeRange(prover, 500, 9)
	observeRange(verifier, 500, 9)

	witness := prover.Grind(powBits)
	require.True(t, verifier.CheckWitness(powBits, witness))

	// The streams stay aligned after grinding.
	cp := prover.GetChallenge()
	cv := verifier.GetChallenge()
	require.True(t, cp.Equal(&cv))

	// Grind returns the smallest passing witness, so its predecessor fails.
	if w := witness.Uint64(); w > 0 {
		fresh := New()
		observeRange(fresh, 500, 9)
		require.False(t, fresh.CheckWitness(powBits, goldilocks.NewElement(w-1)))
	}
}

func TestExtensionObservationsBind(t *testing.T) {
	a := New()
	b := New()

	a.ObserveExtensionElement(gl.QuadraticExtension{goldilocks.NewElement(1), goldilocks.NewElement(2)})
	b.ObserveExtensionElement(gl.QuadraticExtension{goldilocks.NewElement(2), goldilocks.NewElement(1)})

	ca := a.GetChallenge()
	cb := b.GetChallenge()
	require.False(t, ca.Equal(&cb))
}
