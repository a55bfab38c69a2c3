// Package dft implements the radix-2 number-theoretic transforms used to
// move polynomials between coefficient and evaluation form over two-adic
// subgroups and their cosets.
package dft

import (
	"errors"
	"math/bits"

	"github.com/consensys/gnark-crypto/field/goldilocks"

	gl "github.com/zkmesh/unistark/goldilocks"
	"github.com/zkmesh/unistark/internal/parallel"
	"github.com/zkmesh/unistark/matrix"
)

// ErrDegreeTooHigh is returned when an input length is not a power of two
// inside the field's two-adic subgroup, so no evaluation domain of that
// size exists.
var ErrDegreeTooHigh = errors.New("dft: length must be a power of two within the two-adic subgroup")

// Transform moves polynomials between coefficient and evaluation form.
// Every method treats its slice argument in place; batch variants return
// fresh storage. Implementations must be deterministic regardless of
// internal parallelism.
type Transform interface {
	// DFT evaluates the coefficient vector over the two-adic subgroup of
	// matching size, in place.
	DFT(values []goldilocks.Element) error
	// IDFT interpolates evaluations over the two-adic subgroup back to
	// coefficients, in place.
	IDFT(values []goldilocks.Element) error
	// CosetDFT evaluates the coefficient vector over shift·K where K is
	// the two-adic subgroup of matching size.
	CosetDFT(values []goldilocks.Element, shift goldilocks.Element) error
	// CosetIDFT interpolates evaluations over shift·K back to
	// coefficients.
	CosetIDFT(values []goldilocks.Element, shift goldilocks.Element) error
	// CosetLDEBatch interpolates each column of m over the subgroup of
	// size m.Height() and re-evaluates it over the coset
	// shift·K of size m.Height()·2^addedBits.
	CosetLDEBatch(m matrix.Dense, addedBits int, shift goldilocks.Element) (matrix.Dense, error)
}

// Radix2 is the iterative decimation-in-time transform. It is stateless;
// the zero value is ready to use.
type Radix2 struct{}

func checkLength(n int) (logN uint64, err error) {
	if n == 0 || n&(n-1) != 0 {
		return 0, ErrDegreeTooHigh
	}
	logN = uint64(bits.TrailingZeros(uint(n)))
	if logN > gl.TWO_ADICITY {
		return 0, ErrDegreeTooHigh
	}
	return logN, nil
}

func (Radix2) DFT(values []goldilocks.Element) error {
	logN, err := checkLength(len(values))
	if err != nil {
		return err
	}
	root := gl.PrimitiveRootOfUnity(logN)
	ntt(values, root)
	return nil
}

func (Radix2) IDFT(values []goldilocks.Element) error {
	logN, err := checkLength(len(values))
	if err != nil {
		return err
	}

	root := gl.PrimitiveRootOfUnity(logN)
	root.Inverse(&root)
	ntt(values, root)

	var nInv goldilocks.Element
	nInv.SetUint64(uint64(len(values)))
	nInv.Inverse(&nInv)
	for i := range values {
		values[i].Mul(&values[i], &nInv)
	}
	return nil
}

func (r Radix2) CosetDFT(values []goldilocks.Element, shift goldilocks.Element) error {
	if _, err := checkLength(len(values)); err != nil {
		return err
	}
	scaleByPowers(values, shift)
	return r.DFT(values)
}

func (r Radix2) CosetIDFT(values []goldilocks.Element, shift goldilocks.Element) error {
	if err := r.IDFT(values); err != nil {
		return err
	}
	var shiftInv goldilocks.Element
	shiftInv.Inverse(&shift)
	scaleByPowers(values, shiftInv)
	return nil
}

func (r Radix2) CosetLDEBatch(m matrix.Dense, addedBits int, shift goldilocks.Element) (matrix.Dense, error) {
	height := m.Height()
	if _, err := checkLength(height); err != nil {
		return matrix.Dense{}, err
	}
	if _, err := checkLength(height << addedBits); err != nil {
		return matrix.Dense{}, err
	}

	width := m.Width()
	ldeHeight := height << addedBits
	out := make([]goldilocks.Element, ldeHeight*width)

	parallel.Execute(width, func(start, end int) {
		column := make([]goldilocks.Element, ldeHeight)
		for j := start; j < end; j++ {
			for i := 0; i < height; i++ {
				column[i] = m.At(i, j)
			}
			for i := height; i < ldeHeight; i++ {
				column[i].SetZero()
			}

			// Interpolate over the trace domain, then evaluate the
			// zero-padded coefficients over the larger coset. Lengths
			// were validated above, so neither call can fail.
			if err := r.IDFT(column[:height]); err != nil {
				panic(err)
			}
			if err := r.CosetDFT(column, shift); err != nil {
				panic(err)
			}

			for i := 0; i < ldeHeight; i++ {
				out[i*width+j] = column[i]
			}
		}
	})

	return matrix.MustDense(out, width), nil
}

// ntt runs the in-place decimation-in-time butterflies: bit-reverse the
// input, then combine blocks of doubling size. Natural order in, natural
// order out.
func ntt(values []goldilocks.Element, root goldilocks.Element) {
	n := len(values)
	if n == 1 {
		return
	}
	bitReverse(values)

	logN := bits.TrailingZeros(uint(n))

	// Stage s uses the root of order 2^s; walking the squares of the full
	// root backwards yields each stage generator without extra table space.
	stageRoots := make([]goldilocks.Element, logN)
	stageRoots[logN-1] = root
	for s := logN - 2; s >= 0; s-- {
		stageRoots[s].Square(&stageRoots[s+1])
	}

	for s := 0; s < logN; s++ {
		size := 1 << (s + 1)
		half := size >> 1
		wm := stageRoots[s]
		for start := 0; start < n; start += size {
			var w goldilocks.Element
			w.SetOne()
			for k := 0; k < half; k++ {
				var t goldilocks.Element
				t.Mul(&w, &values[start+half+k])
				u := values[start+k]
				values[start+k].Add(&u, &t)
				values[start+half+k].Sub(&u, &t)
				w.Mul(&w, &wm)
			}
		}
	}
}

// bitReverse applies the bit-reversal permutation to values, whose length
// must be a power of two.
func bitReverse(values []goldilocks.Element) {
	l := uint(len(values))
	shift := uint(bits.UintSize - bits.TrailingZeros(l))

	for i := uint(0); i < l; i++ {
		irev := bits.Reverse(i) >> shift
		if irev > i {
			values[i], values[irev] = values[irev], values[i]
		}
	}
}

func scaleByPowers(values []goldilocks.Element, base goldilocks.Element) {
	var pow goldilocks.Element
	pow.Set(&base)
	for i := 1; i < len(values); i++ {
		values[i].Mul(&values[i], &pow)
		pow.Mul(&pow, &base)
	}
}
