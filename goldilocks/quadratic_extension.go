package goldilocks

import (
	"math/bits"

	"github.com/consensys/gnark-crypto/field/goldilocks"
)

// The extension is F_p[X] / (X^2 - W).
const W uint64 = 7

// DTH_ROOT is w^((p-1)/2). The Frobenius conjugate of a0 + a1*X is
// a0 + DTH_ROOT*a1*X, i.e. a0 - a1*X.
const DTH_ROOT uint64 = 18446744069414584320

// QuadraticExtension is an element a0 + a1*X of the degree-two extension.
type QuadraticExtension [2]goldilocks.Element

func NewQuadraticExtension(a0, a1 goldilocks.Element) QuadraticExtension {
	return QuadraticExtension{a0, a1}
}

// FromBase embeds a base field element into the extension.
func FromBase(a goldilocks.Element) QuadraticExtension {
	return QuadraticExtension{a, goldilocks.NewElement(0)}
}

func ZeroExtension() QuadraticExtension {
	return QuadraticExtension{}
}

func OneExtension() QuadraticExtension {
	return FromBase(goldilocks.NewElement(1))
}

// Adds two quadratic extension elements.
func (z QuadraticExtension) Add(other QuadraticExtension) QuadraticExtension {
	var res QuadraticExtension
	res[0].Add(&z[0], &other[0])
	res[1].Add(&z[1], &other[1])
	return res
}

// Subtracts two quadratic extension elements.
func (z QuadraticExtension) Sub(other QuadraticExtension) QuadraticExtension {
	var res QuadraticExtension
	res[0].Sub(&z[0], &other[0])
	res[1].Sub(&z[1], &other[1])
	return res
}

func (z QuadraticExtension) Neg() QuadraticExtension {
	var res QuadraticExtension
	res[0].Neg(&z[0])
	res[1].Neg(&z[1])
	return res
}

func (z QuadraticExtension) Double() QuadraticExtension {
	var res QuadraticExtension
	res[0].Double(&z[0])
	res[1].Double(&z[1])
	return res
}

// Multiplies two quadratic extension elements:
// (a0 + a1 X)(b0 + b1 X) = a0 b0 + W a1 b1 + (a0 b1 + a1 b0) X.
func (z QuadraticExtension) Mul(other QuadraticExtension) QuadraticExtension {
	w := goldilocks.NewElement(W)

	var c0, c1, t0, t1 goldilocks.Element
	c0.Mul(&z[0], &other[0])
	t0.Mul(&z[1], &other[1])
	t0.Mul(&t0, &w)
	c0.Add(&c0, &t0)

	c1.Mul(&z[0], &other[1])
	t1.Mul(&z[1], &other[0])
	c1.Add(&c1, &t1)

	return QuadraticExtension{c0, c1}
}

func (z QuadraticExtension) Square() QuadraticExtension {
	return z.Mul(z)
}

// Multiplies a quadratic extension element by a base field scalar.
func (z QuadraticExtension) ScalarMul(scalar goldilocks.Element) QuadraticExtension {
	var res QuadraticExtension
	res[0].Mul(&z[0], &scalar)
	res[1].Mul(&z[1], &scalar)
	return res
}

// Inverse computes 1/z as conj(z) / norm(z) with norm(z) = a0^2 - W a1^2.
// The second return value reports whether z was invertible.
func (z QuadraticExtension) Inverse() (QuadraticExtension, bool) {
	if z.IsZero() {
		return QuadraticExtension{}, false
	}

	w := goldilocks.NewElement(W)

	var norm, t goldilocks.Element
	norm.Square(&z[0])
	t.Square(&z[1])
	t.Mul(&t, &w)
	norm.Sub(&norm, &t)
	norm.Inverse(&norm)

	var res QuadraticExtension
	res[0].Mul(&z[0], &norm)
	res[1].Neg(&z[1])
	res[1].Mul(&res[1], &norm)
	return res, true
}

// Div computes z/other, reporting whether other was invertible.
func (z QuadraticExtension) Div(other QuadraticExtension) (QuadraticExtension, bool) {
	inv, ok := other.Inverse()
	if !ok {
		return QuadraticExtension{}, false
	}
	return z.Mul(inv), true
}

// Exp computes z^power by square-and-multiply over the bits of power.
func (z QuadraticExtension) Exp(power uint64) QuadraticExtension {
	result := OneExtension()
	for i := bits.Len64(power) - 1; i >= 0; i-- {
		result = result.Square()
		if (power>>uint(i))&1 == 1 {
			result = result.Mul(z)
		}
	}
	return result
}

// ExpPowerOf2 computes z^(2^k) by k squarings.
func (z QuadraticExtension) ExpPowerOf2(k int) QuadraticExtension {
	result := z
	for i := 0; i < k; i++ {
		result = result.Square()
	}
	return result
}

func (z QuadraticExtension) IsZero() bool {
	return z[0].IsZero() && z[1].IsZero()
}

func (z QuadraticExtension) Equal(other QuadraticExtension) bool {
	return z[0].Equal(&other[0]) && z[1].Equal(&other[1])
}

func (z QuadraticExtension) String() string {
	return z[0].String() + " + " + z[1].String() + "*X"
}

// ReduceWithPowers computes sum_i terms[i] * scalar^i by reverse Horner.
func ReduceWithPowers(terms []QuadraticExtension, scalar QuadraticExtension) QuadraticExtension {
	sum := ZeroExtension()
	for i := len(terms) - 1; i >= 0; i-- {
		sum = sum.Mul(scalar).Add(terms[i])
	}
	return sum
}

// BatchInvertQE inverts in with a single extension inversion (Montgomery's
// trick). Zero entries stay zero.
func BatchInvertQE(in []QuadraticExtension) []QuadraticExtension {
	res := make([]QuadraticExtension, len(in))
	if len(in) == 0 {
		return res
	}

	zeroes := make([]bool, len(in))
	accumulator := OneExtension()

	for i := range in {
		if in[i].IsZero() {
			zeroes[i] = true
			continue
		}
		res[i] = accumulator
		accumulator = accumulator.Mul(in[i])
	}

	accumulator, _ = accumulator.Inverse()

	for i := len(in) - 1; i >= 0; i-- {
		if zeroes[i] {
			continue
		}
		res[i] = res[i].Mul(accumulator)
		accumulator = accumulator.Mul(in[i])
	}

	return res
}
