// Package merkle implements the Merkle matrix commitment: a batch of
// matrices sharing one binary tree, row openings with sibling paths, and
// a pure verification predicate.
package merkle

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/field/goldilocks"

	"github.com/zkmesh/unistark/internal/parallel"
	"github.com/zkmesh/unistark/matrix"
)

var (
	// ErrShape rejects commit inputs whose dimensions cannot share a tree.
	ErrShape = errors.New("merkle: matrix batch has unusable shape")

	// ErrInvalidOpeningShape rejects opening proofs whose structure does
	// not match the claimed dimensions.
	ErrInvalidOpeningShape = errors.New("merkle: opening proof has invalid shape")
)

// ProverData retains what openings need: the padded matrices and every
// tree level. It stays with the prover and never travels in a proof.
type ProverData struct {
	hasher   Hasher
	matrices []matrix.Dense
	// levels[0] holds the leaves; the last level is the root alone.
	levels [][]Digest
}

// Commit builds one tree over the batch. Each matrix is zero-padded to a
// power-of-two height and all padded heights must agree; leaf i hashes the
// concatenation of row i across the batch, so one sibling path later opens
// every matrix at once.
func Commit(hasher Hasher, mats []matrix.Dense) (Digest, *ProverData, error) {
	if hasher == nil {
		return Digest{}, nil, fmt.Errorf("%w: nil hasher", ErrShape)
	}
	if len(mats) == 0 {
		return Digest{}, nil, fmt.Errorf("%w: empty batch", ErrShape)
	}

	height := 0
	totalWidth := 0
	padded := make([]matrix.Dense, len(mats))
	for i, m := range mats {
		if m.Width() <= 0 || m.Height() == 0 {
			return Digest{}, nil, fmt.Errorf("%w: matrix %d is empty", ErrShape, i)
		}
		h := nextPowerOfTwo(m.Height())
		padded[i] = m.VerticallyPadded(h)
		if i == 0 {
			height = h
		} else if h != height {
			return Digest{}, nil, fmt.Errorf("%w: padded heights %d and %d differ", ErrShape, height, h)
		}
		totalWidth += m.Width()
	}

	leaves := make([]Digest, height)
	parallel.Execute(height, func(start, end int) {
		row := make([]goldilocks.Element, 0, totalWidth)
		for i := start; i < end; i++ {
			row = row[:0]
			for _, m := range padded {
				row = append(row, m.Row(i)...)
			}
			leaves[i] = hasher.HashRow(row)
		}
	})

	levels := [][]Digest{leaves}
	for len(levels[len(levels)-1]) > 1 {
		prev := levels[len(levels)-1]
		next := make([]Digest, len(prev)/2)
		parallel.Execute(len(next), func(start, end int) {
			for i := start; i < end; i++ {
				next[i] = hasher.Compress(prev[2*i], prev[2*i+1])
			}
		})
		levels = append(levels, next)
	}

	pd := &ProverData{hasher: hasher, matrices: padded, levels: levels}
	return pd.Root(), pd, nil
}

func (pd *ProverData) Root() Digest {
	return pd.levels[len(pd.levels)-1][0]
}

// Height is the padded (leaf count) height of the tree.
func (pd *ProverData) Height() int {
	return len(pd.levels[0])
}

// Matrices exposes the padded committed matrices for evaluation lookups.
func (pd *ProverData) Matrices() []matrix.Dense {
	return pd.matrices
}

// Open returns the rows of every committed matrix at index, plus the
// sibling path from leaf to root. An out-of-range index is a programming
// error on the prover side and panics.
func (pd *ProverData) Open(index int) ([][]goldilocks.Element, []Digest) {
	if index < 0 || index >= pd.Height() {
		panic(fmt.Sprintf("merkle: open index %d out of range [0, %d)", index, pd.Height()))
	}

	rows := make([][]goldilocks.Element, len(pd.matrices))
	for i, m := range pd.matrices {
		rows[i] = append([]goldilocks.Element(nil), m.Row(index)...)
	}

	path := make([]Digest, 0, len(pd.levels)-1)
	i := index
	for _, level := range pd.levels[:len(pd.levels)-1] {
		path = append(path, level[i^1])
		i >>= 1
	}
	return rows, path
}

// Verify checks an opened row batch against the root. An honest mismatch
// is (false, nil); a proof whose structure contradicts the expected
// dimensions fails with ErrInvalidOpeningShape. It never panics.
func Verify(hasher Hasher, root Digest, index int, rows [][]goldilocks.Element, path []Digest, widths []int) (bool, error) {
	if hasher == nil {
		return false, fmt.Errorf("%w: nil hasher", ErrInvalidOpeningShape)
	}
	if len(rows) != len(widths) {
		return false, fmt.Errorf("%w: got %d rows for %d matrices", ErrInvalidOpeningShape, len(rows), len(widths))
	}
	for i := range rows {
		if len(rows[i]) != widths[i] {
			return false, fmt.Errorf("%w: row %d has width %d, want %d", ErrInvalidOpeningShape, i, len(rows[i]), widths[i])
		}
	}
	if len(path) >= 63 || index < 0 || index >= 1<<uint(len(path)) {
		return false, fmt.Errorf("%w: index %d outside tree of depth %d", ErrInvalidOpeningShape, index, len(path))
	}

	total := 0
	for _, w := range widths {
		total += w
	}
	row := make([]goldilocks.Element, 0, total)
	for _, r := range rows {
		row = append(row, r...)
	}

	node := hasher.HashRow(row)
	i := index
	for _, sibling := range path {
		if i&1 == 1 {
			node = hasher.Compress(sibling, node)
		} else {
			node = hasher.Compress(node, sibling)
		}
		i >>= 1
	}
	return node == root, nil
}

// DigestFromBytes copies a raw 32-byte commitment into a Digest.
func DigestFromBytes(b []byte) (Digest, error) {
	var d Digest
	if len(b) != len(d) {
		return d, fmt.Errorf("%w: digest has %d bytes, want %d", ErrInvalidOpeningShape, len(b), len(d))
	}
	copy(d[:], b)
	return d, nil
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
