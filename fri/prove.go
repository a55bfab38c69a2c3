package fri

import (
	"fmt"

	"github.com/consensys/gnark-crypto/field/goldilocks"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/zkmesh/unistark/challenger"
	"github.com/zkmesh/unistark/dft"
	gl "github.com/zkmesh/unistark/goldilocks"
	"github.com/zkmesh/unistark/internal/parallel"
	"github.com/zkmesh/unistark/matrix"
	"github.com/zkmesh/unistark/merkle"
	"github.com/zkmesh/unistark/types"
)

// Prove builds the low-degree proof for the instance's combined opening
// polynomial. oracles holds the prover data of the committed trees, in
// instance order; their matrices must span the full evaluation domain. The
// challenger continues the transcript the commitments were observed on.
func Prove(
	chal *challenger.Challenger,
	instance Instance,
	oracles []*merkle.ProverData,
	openings Openings,
	params *types.FriParams,
	hasher merkle.Hasher,
	transform dft.Transform,
) (types.FriProof, error) {
	if err := params.Validate(); err != nil {
		return types.FriProof{}, err
	}
	if err := checkNoncanonicalIndices(params); err != nil {
		return types.FriProof{}, err
	}
	if len(oracles) != len(instance.Oracles) {
		return types.FriProof{}, fmt.Errorf("fri: %d oracles for %d oracle descriptions", len(oracles), len(instance.Oracles))
	}
	for o, oracle := range oracles {
		if oracle.Height() != params.LdeSize() {
			return types.FriProof{}, fmt.Errorf("fri: oracle %d has height %d, want the domain size %d", o, oracle.Height(), params.LdeSize())
		}
	}

	alpha := chal.GetExtensionChallenge()
	reduced := reducedOpenings(openings, alpha)

	codeword, err := buildCombinedCodeword(instance, oracles, alpha, reduced, params)
	if err != nil {
		return types.FriProof{}, err
	}

	// Commit phase: halve the codeword until it reaches the final length,
	// committing each round's fold pairs and sampling its challenge.
	numRounds := params.NumRounds()
	commitRoots := make([]hexutil.Bytes, 0, numRounds)
	pairTrees := make([]*merkle.ProverData, 0, numRounds)

	shift := gl.MULTIPLICATIVE_GROUP_GENERATOR
	logSize := uint64(params.LdeBits())
	for r := 0; r < numRounds; r++ {
		half := len(codeword) / 2

		root, tree, err := merkle.Commit(hasher, []matrix.Dense{pairMatrix(codeword)})
		if err != nil {
			return types.FriProof{}, fmt.Errorf("fri: committing round %d: %w", r, err)
		}
		commitRoots = append(commitRoots, digestToBytes(root))
		pairTrees = append(pairTrees, tree)

		chal.ObserveDigest(root)
		beta := chal.GetExtensionChallenge()

		xInvs := gl.BatchInvert(cosetPoints(shift, logSize, half))
		next := make([]gl.QuadraticExtension, half)
		parallel.Execute(half, func(start, end int) {
			for p := start; p < end; p++ {
				next[p] = foldPair(codeword[p], codeword[p+half], beta, xInvs[p])
			}
		})

		codeword = next
		shift.Square(&shift)
		logSize--
	}

	// The folded codeword still carries the blowup; interpolating it over
	// its coset leaves the honest coefficients in the low quarter.
	coeffs, err := cosetInterpolateExtension(transform, codeword, shift)
	if err != nil {
		return types.FriProof{}, err
	}
	finalPoly := coeffs[:params.FinalPolyLen()]
	chal.ObserveExtensionElements(finalPoly)

	powWitness := chal.Grind(int(params.Config.ProofOfWorkBits))
	indices := chal.GetIndices(int(params.Config.NumQueryRounds), params.LdeBits())

	queryProofs := make([]types.FriQueryProof, len(indices))
	for q, index := range indices {
		queryProofs[q] = openQueryRound(oracles, pairTrees, index, params)
	}

	return types.FriProof{
		CommitPhaseCommits: commitRoots,
		QueryProofs:        queryProofs,
		FinalPoly:          gl.QuadraticExtensionArrayToUint64PairArray(finalPoly),
		PowWitness:         powWitness.Uint64(),
	}, nil
}

// buildCombinedCodeword evaluates the combined opening polynomial over the
// whole evaluation domain, one combineInitial per point with the batch
// denominators inverted in bulk.
func buildCombinedCodeword(
	instance Instance,
	oracles []*merkle.ProverData,
	alpha gl.QuadraticExtension,
	reduced []gl.QuadraticExtension,
	params *types.FriParams,
) ([]gl.QuadraticExtension, error) {
	n := params.LdeSize()
	points := cosetPoints(gl.MULTIPLICATIVE_GROUP_GENERATOR, uint64(params.LdeBits()), n)

	denomInverses := make([][]gl.QuadraticExtension, len(instance.Batches))
	for b, batch := range instance.Batches {
		denoms := make([]gl.QuadraticExtension, n)
		for i := 0; i < n; i++ {
			denoms[i] = gl.FromBase(points[i]).Sub(batch.Point)
		}
		denomInverses[b] = gl.BatchInvertQE(denoms)
		for i := 0; i < n; i++ {
			if denomInverses[b][i].IsZero() {
				return nil, fmt.Errorf("fri: opening point of batch %d lies on the evaluation domain", b)
			}
		}
	}

	matrices := make([][]matrix.Dense, len(oracles))
	for o := range oracles {
		matrices[o] = oracles[o].Matrices()
	}

	codeword := make([]gl.QuadraticExtension, n)
	parallel.Execute(n, func(start, end int) {
		oracleRows := make([][][]goldilocks.Element, len(matrices))
		for o := range matrices {
			oracleRows[o] = make([][]goldilocks.Element, len(matrices[o]))
		}
		pointInverses := make([]gl.QuadraticExtension, len(denomInverses))

		for i := start; i < end; i++ {
			for o := range matrices {
				for m := range matrices[o] {
					oracleRows[o][m] = matrices[o][m].Row(i)
				}
			}
			for b := range denomInverses {
				pointInverses[b] = denomInverses[b][i]
			}
			codeword[i] = combineInitial(instance, oracleRows, alpha, pointInverses, reduced)
		}
	})

	return codeword, nil
}

// pairMatrix lays the codeword out as fold pairs: row p holds the two
// extension values at positions p and p+half, flattened to base
// coefficients, so one opening authenticates a whole fold input.
func pairMatrix(codeword []gl.QuadraticExtension) matrix.Dense {
	half := len(codeword) / 2
	values := make([]goldilocks.Element, 4*half)
	for p := 0; p < half; p++ {
		values[4*p] = codeword[p][0]
		values[4*p+1] = codeword[p][1]
		values[4*p+2] = codeword[p+half][0]
		values[4*p+3] = codeword[p+half][1]
	}
	return matrix.MustDense(values, 4)
}

// cosetPoints returns the first count points of the coset shift*K with K
// the subgroup of 2^logSize points.
func cosetPoints(shift goldilocks.Element, logSize uint64, count int) []goldilocks.Element {
	w := gl.PrimitiveRootOfUnity(logSize)
	points := make([]goldilocks.Element, count)
	if count == 0 {
		return points
	}
	points[0] = shift
	for p := 1; p < count; p++ {
		points[p].Mul(&points[p-1], &w)
	}
	return points
}

// cosetInterpolateExtension interpolates an extension codeword over its
// coset coordinate-wise; the transform is linear over the base field.
func cosetInterpolateExtension(transform dft.Transform, codeword []gl.QuadraticExtension, shift goldilocks.Element) ([]gl.QuadraticExtension, error) {
	c0 := make([]goldilocks.Element, len(codeword))
	c1 := make([]goldilocks.Element, len(codeword))
	for i := range codeword {
		c0[i] = codeword[i][0]
		c1[i] = codeword[i][1]
	}

	if err := transform.CosetIDFT(c0, shift); err != nil {
		return nil, err
	}
	if err := transform.CosetIDFT(c1, shift); err != nil {
		return nil, err
	}

	coeffs := make([]gl.QuadraticExtension, len(codeword))
	for i := range coeffs {
		coeffs[i] = gl.NewQuadraticExtension(c0[i], c1[i])
	}
	return coeffs, nil
}

// openQueryRound opens every oracle at the sampled index and walks the
// fold rounds opening each pair, mirroring the verifier's walk.
func openQueryRound(
	oracles []*merkle.ProverData,
	pairTrees []*merkle.ProverData,
	index int,
	params *types.FriParams,
) types.FriQueryProof {
	initial := make([]types.BatchOpening, len(oracles))
	for o := range oracles {
		rows, path := oracles[o].Open(index)
		values := make([][]uint64, len(rows))
		for m := range rows {
			values[m] = gl.ElementArrayToUint64Array(rows[m])
		}
		initial[o] = types.BatchOpening{
			Values:   values,
			Siblings: digestsToBytes(path),
		}
	}

	commitPhase := make([]types.CommitPhaseOpening, len(pairTrees))
	idx := index
	logSize := params.LdeBits()
	for r, tree := range pairTrees {
		half := 1 << (logSize - 1)
		pairIndex := idx & (half - 1)

		rows, path := tree.Open(pairIndex)
		commitPhase[r] = types.CommitPhaseOpening{
			Evals: [2][2]uint64{
				{rows[0][0].Uint64(), rows[0][1].Uint64()},
				{rows[0][2].Uint64(), rows[0][3].Uint64()},
			},
			Siblings: digestsToBytes(path),
		}

		idx = pairIndex
		logSize--
	}

	return types.FriQueryProof{
		InitialOpenings:     initial,
		CommitPhaseOpenings: commitPhase,
	}
}

func digestToBytes(d merkle.Digest) hexutil.Bytes {
	b := make(hexutil.Bytes, len(d))
	copy(b, d[:])
	return b
}

func digestsToBytes(ds []merkle.Digest) []hexutil.Bytes {
	out := make([]hexutil.Bytes, len(ds))
	for i := range ds {
		out[i] = digestToBytes(ds[i])
	}
	return out
}
