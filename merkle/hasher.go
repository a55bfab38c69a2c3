package merkle

import (
	"fmt"

	"github.com/consensys/gnark-crypto/field/goldilocks"
	"golang.org/x/crypto/sha3"

	"github.com/zkmesh/unistark/poseidon"
)

// Digest is a 32-byte commitment node. Poseidon digests are four field
// elements serialized big-endian; Keccak digests are raw hash output.
type Digest [32]byte

// Hasher is the commitment scheme's hash pair: a variable-length row hash
// for leaves and a fixed two-to-one compression for inner nodes.
type Hasher interface {
	Name() string
	HashRow(row []goldilocks.Element) Digest
	Compress(left, right Digest) Digest
}

// ByName resolves a hasher from its configuration name. The empty string
// selects Poseidon.
func ByName(name string) (Hasher, error) {
	switch name {
	case "", "poseidon":
		return PoseidonHasher{}, nil
	case "keccak":
		return KeccakHasher{}, nil
	default:
		return nil, fmt.Errorf("unknown hasher %q", name)
	}
}

// PoseidonHasher hashes rows with the no-pad sponge and compresses inner
// nodes with the truncated permutation.
type PoseidonHasher struct{}

func (PoseidonHasher) Name() string { return "poseidon" }

func (PoseidonHasher) HashRow(row []goldilocks.Element) Digest {
	return digestFromHashOut(poseidon.HashNoPad(row))
}

func (PoseidonHasher) Compress(left, right Digest) Digest {
	return digestFromHashOut(poseidon.TwoToOne(hashOutFromDigest(left), hashOutFromDigest(right)))
}

func digestFromHashOut(h poseidon.GoldilocksHashOut) Digest {
	var d Digest
	for i := range h {
		b := h[i].Bytes()
		copy(d[i*8:(i+1)*8], b[:])
	}
	return d
}

func hashOutFromDigest(d Digest) poseidon.GoldilocksHashOut {
	var h poseidon.GoldilocksHashOut
	for i := range h {
		h[i].SetBytes(d[i*8 : (i+1)*8])
	}
	return h
}

// KeccakHasher commits with legacy Keccak-256 over the big-endian element
// encoding, giving Ethereum-compatible digests.
type KeccakHasher struct{}

func (KeccakHasher) Name() string { return "keccak" }

func (KeccakHasher) HashRow(row []goldilocks.Element) Digest {
	h := sha3.NewLegacyKeccak256()
	for i := range row {
		b := row[i].Bytes()
		h.Write(b[:])
	}
	var d Digest
	h.Sum(d[:0])
	return d
}

func (KeccakHasher) Compress(left, right Digest) Digest {
	h := sha3.NewLegacyKeccak256()
	h.Write(left[:])
	h.Write(right[:])
	var d Digest
	h.Sum(d[:0])
	return d
}
