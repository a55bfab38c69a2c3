// Package challenger implements the duplex-sponge Fiat-Shamir transcript
// shared by the prover and the verifier. Challenges depend on every value
// observed so far; both sides must observe and sample in exactly the same
// order to stay on the same stream.
package challenger

import (
	"encoding/binary"
	"math/bits"

	"github.com/consensys/gnark-crypto/field/goldilocks"

	gl "github.com/zkmesh/unistark/goldilocks"
	"github.com/zkmesh/unistark/merkle"
	"github.com/zkmesh/unistark/poseidon"
)

type Challenger struct {
	spongeState  poseidon.GoldilocksState
	inputBuffer  []goldilocks.Element
	outputBuffer []goldilocks.Element
}

func New() *Challenger {
	return &Challenger{}
}

// Clone returns an independent copy sharing no state. Grinding probes
// candidate witnesses on clones so the real transcript advances once.
func (c *Challenger) Clone() *Challenger {
	clone := &Challenger{spongeState: c.spongeState}
	clone.inputBuffer = append(clone.inputBuffer, c.inputBuffer...)
	clone.outputBuffer = append(clone.outputBuffer, c.outputBuffer...)
	return clone
}

func (c *Challenger) ObserveElement(element goldilocks.Element) {
	// Any pending squeezed output is stale once new data arrives.
	c.outputBuffer = c.outputBuffer[:0]
	c.inputBuffer = append(c.inputBuffer, element)
	if len(c.inputBuffer) == poseidon.SPONGE_RATE {
		c.duplexing()
	}
}

func (c *Challenger) ObserveElements(elements []goldilocks.Element) {
	for i := 0; i < len(elements); i++ {
		c.ObserveElement(elements[i])
	}
}

func (c *Challenger) ObserveExtensionElement(element gl.QuadraticExtension) {
	c.ObserveElements(element[:])
}

func (c *Challenger) ObserveExtensionElements(elements []gl.QuadraticExtension) {
	for i := 0; i < len(elements); i++ {
		c.ObserveExtensionElement(elements[i])
	}
}

// ObserveDigest absorbs a commitment as eight u32 limbs (little-endian).
// The limbs are canonical field elements regardless of which hasher
// produced the digest.
func (c *Challenger) ObserveDigest(digest merkle.Digest) {
	for i := 0; i < len(digest); i += 4 {
		limb := binary.LittleEndian.Uint32(digest[i : i+4])
		c.ObserveElement(goldilocks.NewElement(uint64(limb)))
	}
}

func (c *Challenger) GetChallenge() goldilocks.Element {
	if len(c.inputBuffer) != 0 || len(c.outputBuffer) == 0 {
		c.duplexing()
	}

	challenge := c.outputBuffer[len(c.outputBuffer)-1]
	c.outputBuffer = c.outputBuffer[:len(c.outputBuffer)-1]

	return challenge
}

func (c *Challenger) GetNChallenges(n int) []goldilocks.Element {
	challenges := make([]goldilocks.Element, n)
	for i := 0; i < n; i++ {
		challenges[i] = c.GetChallenge()
	}
	return challenges
}

func (c *Challenger) GetExtensionChallenge() gl.QuadraticExtension {
	values := c.GetNChallenges(2)
	return gl.QuadraticExtension{values[0], values[1]}
}

// GetIndices samples n indices in [0, 2^logSize) from the low bits of
// fresh challenges.
func (c *Challenger) GetIndices(n int, logSize int) []int {
	mask := uint64(1)<<uint(logSize) - 1
	indices := make([]int, n)
	for i := range indices {
		challenge := c.GetChallenge()
		indices[i] = int(challenge.Uint64() & mask)
	}
	return indices
}

// Grind searches for the smallest uint64 witness whose observation makes
// the next challenge carry at least nbBits leading zero bits. Candidates
// are probed on clones; once found, the witness is observed on the real
// transcript and the response consumed, leaving the stream exactly where
// CheckWitness leaves the verifier's.
func (c *Challenger) Grind(nbBits int) goldilocks.Element {
	for candidate := uint64(0); ; candidate++ {
		witness := goldilocks.NewElement(candidate)
		probe := c.Clone()
		probe.ObserveElement(witness)
		response := probe.GetChallenge()
		if leadingZeros(response) >= nbBits {
			c.ObserveElement(witness)
			c.GetChallenge()
			return witness
		}
	}
}

// CheckWitness verifies a grinding witness: observe it, sample the
// response and test its leading zero bits.
func (c *Challenger) CheckWitness(nbBits int, witness goldilocks.Element) bool {
	c.ObserveElement(witness)
	response := c.GetChallenge()
	return leadingZeros(response) >= nbBits
}

func leadingZeros(element goldilocks.Element) int {
	return bits.LeadingZeros64(element.Uint64())
}

func (c *Challenger) duplexing() {
	if len(c.inputBuffer) > poseidon.SPONGE_RATE {
		panic("challenger input buffer overflowed the sponge rate")
	}

	for i := 0; i < len(c.inputBuffer); i++ {
		c.spongeState[i] = c.inputBuffer[i]
	}
	c.inputBuffer = c.inputBuffer[:0]

	c.spongeState = poseidon.Poseidon(c.spongeState)

	c.outputBuffer = c.outputBuffer[:0]
	for i := 0; i < poseidon.SPONGE_RATE; i++ {
		c.outputBuffer = append(c.outputBuffer, c.spongeState[i])
	}
}
