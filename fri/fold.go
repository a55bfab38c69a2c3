package fri

import (
	"github.com/consensys/gnark-crypto/field/goldilocks"

	gl "github.com/zkmesh/unistark/goldilocks"
)

// The prover evaluates the combined polynomial over the whole domain and
// the verifier re-evaluates it at single points; both go through the
// helpers below so the two computations agree bit for bit.

// twoInv is 1/2, the scaling of the even/odd split in each fold.
var twoInv = computeTwoInv()

func computeTwoInv() goldilocks.Element {
	two := goldilocks.NewElement(2)
	two.Inverse(&two)
	return two
}

// reducedOpenings folds each batch's claimed values with powers of alpha.
func reducedOpenings(openings Openings, alpha gl.QuadraticExtension) []gl.QuadraticExtension {
	reduced := make([]gl.QuadraticExtension, 0, len(openings.Batches))
	for _, batch := range openings.Batches {
		reduced = append(reduced, gl.ReduceWithPowers(batch.Values, alpha))
	}
	return reduced
}

// combineInitial evaluates the combined opening polynomial at one domain
// point x, given the rows opened from every oracle at that point. For each
// batch with point z and claimed reduced value v, it accumulates
//
//	sum = alpha^len(batch) * sum + (reduce(evals, alpha) - v) / (x - z)
//
// denomInverses holds 1/(x - z) per batch; the prover batch-inverts these
// across the domain, the verifier inverts them directly.
func combineInitial(
	instance Instance,
	oracleRows [][][]goldilocks.Element,
	alpha gl.QuadraticExtension,
	denomInverses []gl.QuadraticExtension,
	precomputedReduced []gl.QuadraticExtension,
) gl.QuadraticExtension {
	sum := gl.ZeroExtension()

	for i, batch := range instance.Batches {
		evals := make([]gl.QuadraticExtension, 0, len(batch.Polynomials))
		for _, poly := range batch.Polynomials {
			value := oracleRows[poly.OracleIndex][poly.MatrixIndex][poly.ColumnIndex]
			evals = append(evals, gl.FromBase(value))
		}

		reducedEvals := gl.ReduceWithPowers(evals, alpha)
		numerator := reducedEvals.Sub(precomputedReduced[i])
		sum = alpha.Exp(uint64(len(evals))).Mul(sum)
		sum = numerator.Mul(denomInverses[i]).Add(sum)
	}

	return sum
}

// foldPair maps the codeword pair at (x, -x) to the next round's value at
// x^2. Splitting E into even/odd coefficient halves e and o gives
// E(x) = e(x^2) + x*o(x^2), so
//
//	e(x^2) = (E(x) + E(-x)) / 2
//	o(x^2) = (E(x) - E(-x)) / (2x)
//
// and the fold is e + beta*o. yX and yNegX are E(x) and E(-x); xInv is
// 1/x.
func foldPair(yX, yNegX gl.QuadraticExtension, beta gl.QuadraticExtension, xInv goldilocks.Element) gl.QuadraticExtension {
	var halfXInv goldilocks.Element
	halfXInv.Mul(&twoInv, &xInv)

	e := yX.Add(yNegX).ScalarMul(twoInv)
	o := yX.Sub(yNegX).ScalarMul(halfXInv)
	return e.Add(beta.Mul(o))
}

// domainPoint returns the evaluation-domain point of the given index in a
// round: shift * w^index with w the subgroup generator of that round.
func domainPoint(shift goldilocks.Element, logSize uint64, index int) goldilocks.Element {
	w := gl.PrimitiveRootOfUnity(logSize)
	point := gl.Exp(w, uint64(index))
	point.Mul(&point, &shift)
	return point
}

// evalFinalPoly evaluates the final polynomial's coefficients at a point.
func evalFinalPoly(coeffs []gl.QuadraticExtension, point gl.QuadraticExtension) gl.QuadraticExtension {
	return gl.ReduceWithPowers(coeffs, point)
}
