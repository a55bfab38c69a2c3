// Package goldilocks provides arithmetic helpers over the Goldilocks prime
// field p = 2^64 - 2^32 + 1 and its degree-two extension F_p[X]/(X^2 - 7).
//
// The base field implementation comes from gnark-crypto. This package adds
// the two-adic generator tables, batch inversion and the wire-format
// conversions the proving pipeline needs, plus value-semantics arithmetic
// for the quadratic extension in which challenges are sampled.
package goldilocks

import (
	"math/big"

	"github.com/consensys/gnark-crypto/field/goldilocks"
)

// The multiplicative group generator of the field.
var MULTIPLICATIVE_GROUP_GENERATOR goldilocks.Element = goldilocks.NewElement(7)

// The two adicity of the field. The multiplicative group contains a cyclic
// subgroup of order 2^32 and no larger power-of-two subgroup.
var TWO_ADICITY uint64 = 32

// The generator of the maximal power-of-two subgroup.
var POWER_OF_TWO_GENERATOR goldilocks.Element = goldilocks.NewElement(1753635133440165772)

// The modulus of the field.
var MODULUS *big.Int = goldilocks.Modulus()

// PrimitiveRootOfUnity computes a primitive 2^nLog'th root of unity by
// repeated squaring of the power-of-two generator.
func PrimitiveRootOfUnity(nLog uint64) goldilocks.Element {
	if nLog > TWO_ADICITY {
		panic("nLog is greater than TWO_ADICITY")
	}
	res := goldilocks.NewElement(POWER_OF_TWO_GENERATOR.Uint64())
	for i := 0; i < int(TWO_ADICITY-nLog); i++ {
		res.Square(&res)
	}
	return res
}

// TwoAdicSubgroup returns the subgroup of order 2^nLog in generator-power
// order, starting at one.
func TwoAdicSubgroup(nLog uint64) []goldilocks.Element {
	if nLog > TWO_ADICITY {
		panic("nLog is greater than TWO_ADICITY")
	}

	var res []goldilocks.Element
	rootOfUnity := PrimitiveRootOfUnity(nLog)
	res = append(res, goldilocks.NewElement(1))

	for i := 0; i < (1<<nLog)-1; i++ {
		lastElement := res[len(res)-1]
		res = append(res, *lastElement.Mul(&lastElement, &rootOfUnity))
	}

	return res
}

// Exp raises base to the given power.
func Exp(base goldilocks.Element, power uint64) goldilocks.Element {
	var res goldilocks.Element
	res.Exp(base, new(big.Int).SetUint64(power))
	return res
}

// Powers returns the first n powers of base, starting at one.
func Powers(base goldilocks.Element, n int) []goldilocks.Element {
	res := make([]goldilocks.Element, n)
	if n == 0 {
		return res
	}
	res[0].SetOne()
	for i := 1; i < n; i++ {
		res[i].Mul(&res[i-1], &base)
	}
	return res
}

// BatchInvert inverts in with a single field inversion (Montgomery's
// trick). Zero entries stay zero, matching Element.Inverse.
func BatchInvert(in []goldilocks.Element) []goldilocks.Element {
	res := make([]goldilocks.Element, len(in))
	if len(in) == 0 {
		return res
	}

	zeroes := make([]bool, len(in))
	var accumulator goldilocks.Element
	accumulator.SetOne()

	for i := range in {
		if in[i].IsZero() {
			zeroes[i] = true
			continue
		}
		res[i].Set(&accumulator)
		accumulator.Mul(&accumulator, &in[i])
	}

	accumulator.Inverse(&accumulator)

	for i := len(in) - 1; i >= 0; i-- {
		if zeroes[i] {
			continue
		}
		res[i].Mul(&res[i], &accumulator)
		accumulator.Mul(&accumulator, &in[i])
	}

	return res
}
