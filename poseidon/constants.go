package poseidon

import (
	"encoding/binary"

	"github.com/consensys/gnark-crypto/field/goldilocks"
	"golang.org/x/crypto/sha3"
)

// MDS matrix for the width-12 Goldilocks parameterization: a circulant row
// plus a diagonal contribution, applied as
// out[r] = sum_i CIRC[i]*state[(i+r)%12] + DIAG[r]*state[r].
var MDS_MATRIX_CIRC = [SPONGE_WIDTH]uint64{17, 15, 41, 16, 2, 28, 13, 13, 39, 18, 34, 20}
var MDS_MATRIX_DIAG = [SPONGE_WIDTH]uint64{8, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}

const N_ROUND_CONSTANTS = SPONGE_WIDTH * N_ROUNDS

// ALL_ROUND_CONSTANTS holds one constant per state lane per round, indexed
// lane + SPONGE_WIDTH*round. The table is derived once at init from a
// fixed-seed SHA3-256 counter stream with rejection sampling into the
// field, so the full schedule is reproducible from the seed string alone.
var ALL_ROUND_CONSTANTS [N_ROUND_CONSTANTS]uint64

const roundConstantsSeed = "poseidon-goldilocks-w12-r8-rf8-rp22"

var (
	mdsCirc        [SPONGE_WIDTH]goldilocks.Element
	mdsDiag        [SPONGE_WIDTH]goldilocks.Element
	roundConstants [N_ROUND_CONSTANTS]goldilocks.Element
)

func init() {
	order := goldilocks.Modulus().Uint64()

	var counter uint64
	i := 0
	for i < N_ROUND_CONSTANTS {
		h := sha3.New256()
		h.Write([]byte(roundConstantsSeed))
		var block [8]byte
		binary.BigEndian.PutUint64(block[:], counter)
		h.Write(block[:])
		digest := h.Sum(nil)
		counter++

		for off := 0; off+8 <= len(digest) && i < N_ROUND_CONSTANTS; off += 8 {
			candidate := binary.LittleEndian.Uint64(digest[off : off+8])
			if candidate >= order {
				continue
			}
			ALL_ROUND_CONSTANTS[i] = candidate
			i++
		}
	}

	for i := 0; i < SPONGE_WIDTH; i++ {
		mdsCirc[i] = goldilocks.NewElement(MDS_MATRIX_CIRC[i])
		mdsDiag[i] = goldilocks.NewElement(MDS_MATRIX_DIAG[i])
	}
	for i := 0; i < N_ROUND_CONSTANTS; i++ {
		roundConstants[i] = goldilocks.NewElement(ALL_ROUND_CONSTANTS[i])
	}
}
