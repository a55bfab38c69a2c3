package goldilocks

import (
	"github.com/consensys/gnark-crypto/field/goldilocks"
)

// Wire-format conversions. Proofs carry field elements as canonical uint64
// values and extension elements as [a0, a1] pairs.

func Uint64ArrayToElementArray(input []uint64) []goldilocks.Element {
	output := make([]goldilocks.Element, len(input))
	for i := 0; i < len(input); i++ {
		output[i] = goldilocks.NewElement(input[i])
	}
	return output
}

func ElementArrayToUint64Array(input []goldilocks.Element) []uint64 {
	output := make([]uint64, len(input))
	for i := 0; i < len(input); i++ {
		output[i] = input[i].Uint64()
	}
	return output
}

func Uint64PairToQuadraticExtension(input [2]uint64) QuadraticExtension {
	return NewQuadraticExtension(goldilocks.NewElement(input[0]), goldilocks.NewElement(input[1]))
}

func QuadraticExtensionToUint64Pair(z QuadraticExtension) [2]uint64 {
	return [2]uint64{z[0].Uint64(), z[1].Uint64()}
}

func Uint64PairArrayToQuadraticExtensionArray(input [][2]uint64) []QuadraticExtension {
	output := make([]QuadraticExtension, len(input))
	for i := 0; i < len(input); i++ {
		output[i] = Uint64PairToQuadraticExtension(input[i])
	}
	return output
}

func QuadraticExtensionArrayToUint64PairArray(input []QuadraticExtension) [][2]uint64 {
	output := make([][2]uint64, len(input))
	for i := 0; i < len(input); i++ {
		output[i] = QuadraticExtensionToUint64Pair(input[i])
	}
	return output
}

// FlattenExtensionArray lays out extension elements as consecutive base
// coefficient pairs [a0 b0 a1 b1 ...]; committed codewords store extension
// values this way so Merkle leaves stay base-field rows.
func FlattenExtensionArray(input []QuadraticExtension) []goldilocks.Element {
	output := make([]goldilocks.Element, 2*len(input))
	for i := 0; i < len(input); i++ {
		output[2*i] = input[i][0]
		output[2*i+1] = input[i][1]
	}
	return output
}

// UnflattenExtensionArray is the inverse of FlattenExtensionArray.
func UnflattenExtensionArray(input []goldilocks.Element) []QuadraticExtension {
	if len(input)%2 != 0 {
		panic("flattened extension array must have even length")
	}
	output := make([]QuadraticExtension, len(input)/2)
	for i := 0; i < len(output); i++ {
		output[i] = NewQuadraticExtension(input[2*i], input[2*i+1])
	}
	return output
}
