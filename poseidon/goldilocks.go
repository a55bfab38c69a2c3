// Package poseidon implements the width-12 Poseidon permutation over the
// Goldilocks field, together with the overwrite-mode sponge and the
// two-to-one digest compression the commitment layer is built on.
package poseidon

import (
	"github.com/consensys/gnark-crypto/field/goldilocks"
)

const HALF_N_FULL_ROUNDS = 4
const N_FULL_ROUNDS_TOTAL = 2 * HALF_N_FULL_ROUNDS
const N_PARTIAL_ROUNDS = 22
const N_ROUNDS = N_FULL_ROUNDS_TOTAL + N_PARTIAL_ROUNDS
const SPONGE_WIDTH = 12
const SPONGE_RATE = 8
const POSEIDON_GL_HASH_SIZE = 4

type GoldilocksState = [SPONGE_WIDTH]goldilocks.Element
type GoldilocksHashOut = [POSEIDON_GL_HASH_SIZE]goldilocks.Element

// Poseidon applies the permutation: HALF_N_FULL_ROUNDS full rounds, then
// N_PARTIAL_ROUNDS partial rounds, then HALF_N_FULL_ROUNDS full rounds.
func Poseidon(input GoldilocksState) GoldilocksState {
	state := input
	roundCounter := 0
	state = fullRounds(state, &roundCounter)
	state = partialRounds(state, &roundCounter)
	state = fullRounds(state, &roundCounter)
	return state
}

// HashNToMNoPad absorbs input in rate-sized blocks by overwriting the rate
// lanes (no padding) and squeezes nbOutputs elements.
func HashNToMNoPad(input []goldilocks.Element, nbOutputs int) []goldilocks.Element {
	var state GoldilocksState

	for i := 0; i < len(input); i += SPONGE_RATE {
		for j := 0; j < SPONGE_RATE; j++ {
			if i+j < len(input) {
				state[j] = input[i+j]
			}
		}
		state = Poseidon(state)
	}

	outputs := make([]goldilocks.Element, 0, nbOutputs)
	for {
		for i := 0; i < SPONGE_RATE; i++ {
			outputs = append(outputs, state[i])
			if len(outputs) == nbOutputs {
				return outputs
			}
		}
		state = Poseidon(state)
	}
}

// HashNoPad hashes the input down to one digest.
func HashNoPad(input []goldilocks.Element) GoldilocksHashOut {
	var hash GoldilocksHashOut
	copy(hash[:], HashNToMNoPad(input, POSEIDON_GL_HASH_SIZE))
	return hash
}

// TwoToOne compresses two digests with a truncated permutation: the eight
// digest lanes fill the rate, the capacity stays zero, and the first four
// lanes of the permuted state form the output.
func TwoToOne(left, right GoldilocksHashOut) GoldilocksHashOut {
	var state GoldilocksState
	for i := 0; i < POSEIDON_GL_HASH_SIZE; i++ {
		state[i] = left[i]
		state[POSEIDON_GL_HASH_SIZE+i] = right[i]
	}

	state = Poseidon(state)

	var out GoldilocksHashOut
	copy(out[:], state[:POSEIDON_GL_HASH_SIZE])
	return out
}

func fullRounds(state GoldilocksState, roundCounter *int) GoldilocksState {
	for i := 0; i < HALF_N_FULL_ROUNDS; i++ {
		state = constantLayer(state, *roundCounter)
		state = sBoxLayer(state)
		state = mdsLayer(state)
		*roundCounter += 1
	}
	return state
}

func partialRounds(state GoldilocksState, roundCounter *int) GoldilocksState {
	for i := 0; i < N_PARTIAL_ROUNDS; i++ {
		state = constantLayer(state, *roundCounter)
		state[0] = sBoxMonomial(state[0])
		state = mdsLayer(state)
		*roundCounter += 1
	}
	return state
}

func constantLayer(state GoldilocksState, round int) GoldilocksState {
	for i := 0; i < SPONGE_WIDTH; i++ {
		state[i].Add(&state[i], &roundConstants[i+SPONGE_WIDTH*round])
	}
	return state
}

// x^7, the smallest monomial S-box invertible over this field.
func sBoxMonomial(x goldilocks.Element) goldilocks.Element {
	var x2, x3, x6 goldilocks.Element
	x2.Square(&x)
	x3.Mul(&x2, &x)
	x6.Square(&x3)
	x6.Mul(&x6, &x)
	return x6
}

func sBoxLayer(state GoldilocksState) GoldilocksState {
	for i := 0; i < SPONGE_WIDTH; i++ {
		state[i] = sBoxMonomial(state[i])
	}
	return state
}

func mdsRowShf(r int, v GoldilocksState) goldilocks.Element {
	var res, t goldilocks.Element

	for i := 0; i < SPONGE_WIDTH; i++ {
		t.Mul(&v[(i+r)%SPONGE_WIDTH], &mdsCirc[i])
		res.Add(&res, &t)
	}

	t.Mul(&v[r], &mdsDiag[r])
	res.Add(&res, &t)
	return res
}

func mdsLayer(state GoldilocksState) GoldilocksState {
	var result GoldilocksState
	for r := 0; r < SPONGE_WIDTH; r++ {
		result[r] = mdsRowShf(r, state)
	}
	return result
}
