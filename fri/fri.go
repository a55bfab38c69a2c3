// Package fri implements the fold-and-query low-degree proof. The prover
// folds the combined opening polynomial in half round by round, committing
// to each intermediate codeword, until a short polynomial can be sent in
// the clear; the verifier re-derives every challenge from the transcript
// and spot checks the folding at sampled indices against the commitments.
package fri

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/field/goldilocks"

	"github.com/zkmesh/unistark/challenger"
	gl "github.com/zkmesh/unistark/goldilocks"
	"github.com/zkmesh/unistark/merkle"
	"github.com/zkmesh/unistark/types"
)

// ErrVerification marks proofs rejected by the verifier. Every rejection
// wraps it, so callers can separate forged proofs from operational errors.
var ErrVerification = errors.New("fri: proof verification failed")

// DeriveChallenges replays the proof's commitments into the transcript and
// samples every challenge of the low-degree proof, in the order the prover
// sampled them. It fails when the grinding witness misses the difficulty.
func DeriveChallenges(chal *challenger.Challenger, proof *types.FriProof, params *types.FriParams) (Challenges, error) {
	challenges := Challenges{
		Alpha: chal.GetExtensionChallenge(),
		Betas: make([]gl.QuadraticExtension, 0, len(proof.CommitPhaseCommits)),
	}

	for _, root := range proof.CommitPhaseCommits {
		digest, err := merkle.DigestFromBytes(root)
		if err != nil {
			return Challenges{}, fmt.Errorf("%w: %v", ErrVerification, err)
		}
		chal.ObserveDigest(digest)
		challenges.Betas = append(challenges.Betas, chal.GetExtensionChallenge())
	}

	chal.ObserveExtensionElements(gl.Uint64PairArrayToQuadraticExtensionArray(proof.FinalPoly))

	if !chal.CheckWitness(int(params.Config.ProofOfWorkBits), goldilocks.NewElement(proof.PowWitness)) {
		return Challenges{}, fmt.Errorf("%w: grinding witness does not meet the difficulty", ErrVerification)
	}

	challenges.QueryIndices = chal.GetIndices(int(params.Config.NumQueryRounds), params.LdeBits())
	return challenges, nil
}

// Verify checks a low-degree proof against the instance, the claimed
// openings and the roots of the initial oracles. The challenger must be at
// the same transcript position as the prover's was when it started the
// low-degree proof.
func Verify(
	chal *challenger.Challenger,
	instance Instance,
	openings Openings,
	initialRoots []merkle.Digest,
	proof *types.FriProof,
	params *types.FriParams,
	hasher merkle.Hasher,
) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if err := checkNoncanonicalIndices(params); err != nil {
		return err
	}
	if len(initialRoots) != len(instance.Oracles) {
		return fmt.Errorf("%w: %d roots for %d oracles", ErrVerification, len(initialRoots), len(instance.Oracles))
	}
	if err := validateOpenings(openings, instance); err != nil {
		return err
	}
	if err := validateProofShape(proof, instance, params); err != nil {
		return err
	}

	challenges, err := DeriveChallenges(chal, proof, params)
	if err != nil {
		return err
	}

	commitPhaseRoots, err := digestsFromBytes(proof.CommitPhaseCommits)
	if err != nil {
		return err
	}

	reduced := reducedOpenings(openings, challenges.Alpha)
	finalPoly := gl.Uint64PairArrayToQuadraticExtensionArray(proof.FinalPoly)

	for q, index := range challenges.QueryIndices {
		err := verifyQueryRound(
			instance,
			&challenges,
			reduced,
			initialRoots,
			commitPhaseRoots,
			finalPoly,
			&proof.QueryProofs[q],
			index,
			params,
			hasher,
		)
		if err != nil {
			return fmt.Errorf("query round %d: %w", q, err)
		}
	}
	return nil
}

// verifyQueryRound spot checks one sampled index: the initial oracle rows
// against their roots, the combined evaluation through every fold round,
// and finally the sent polynomial itself.
func verifyQueryRound(
	instance Instance,
	challenges *Challenges,
	reduced []gl.QuadraticExtension,
	initialRoots []merkle.Digest,
	commitPhaseRoots []merkle.Digest,
	finalPoly []gl.QuadraticExtension,
	query *types.FriQueryProof,
	index int,
	params *types.FriParams,
	hasher merkle.Hasher,
) error {
	oracleRows := make([][][]goldilocks.Element, len(instance.Oracles))
	for o, oracle := range instance.Oracles {
		opening := &query.InitialOpenings[o]

		rows := make([][]goldilocks.Element, len(opening.Values))
		for m := range opening.Values {
			rows[m] = gl.Uint64ArrayToElementArray(opening.Values[m])
		}
		siblings, err := digestsFromBytes(opening.Siblings)
		if err != nil {
			return err
		}

		ok, err := merkle.Verify(hasher, initialRoots[o], index, rows, siblings, oracle.MatrixWidths)
		if err != nil {
			return fmt.Errorf("%w: oracle %d: %v", ErrVerification, o, err)
		}
		if !ok {
			return fmt.Errorf("%w: oracle %d opening does not match its root at index %d", ErrVerification, o, index)
		}
		oracleRows[o] = rows
	}

	x := domainPoint(gl.MULTIPLICATIVE_GROUP_GENERATOR, uint64(params.LdeBits()), index)
	denomInverses := make([]gl.QuadraticExtension, len(instance.Batches))
	for i, batch := range instance.Batches {
		denom := gl.FromBase(x).Sub(batch.Point)
		inv, ok := denom.Inverse()
		if !ok {
			return fmt.Errorf("%w: opening point lies on the evaluation domain", ErrVerification)
		}
		denomInverses[i] = inv
	}
	eval := combineInitial(instance, oracleRows, challenges.Alpha, denomInverses, reduced)

	// Walk the fold rounds. idx tracks the query position in the current
	// round's codeword; each round halves the domain by the squaring map.
	shift := gl.MULTIPLICATIVE_GROUP_GENERATOR
	logSize := uint64(params.LdeBits())
	idx := index
	for r := range challenges.Betas {
		half := 1 << (logSize - 1)
		pairIndex := idx & (half - 1)
		slot := idx >> (logSize - 1)

		opening := &query.CommitPhaseOpenings[r]
		pair := [2]gl.QuadraticExtension{
			gl.Uint64PairToQuadraticExtension(opening.Evals[0]),
			gl.Uint64PairToQuadraticExtension(opening.Evals[1]),
		}
		if !pair[slot].Equal(eval) {
			return fmt.Errorf("%w: round %d fold pair does not match the running evaluation", ErrVerification, r)
		}

		row := []goldilocks.Element{pair[0][0], pair[0][1], pair[1][0], pair[1][1]}
		siblings, err := digestsFromBytes(opening.Siblings)
		if err != nil {
			return err
		}
		ok, err := merkle.Verify(hasher, commitPhaseRoots[r], pairIndex, [][]goldilocks.Element{row}, siblings, []int{4})
		if err != nil {
			return fmt.Errorf("%w: round %d: %v", ErrVerification, r, err)
		}
		if !ok {
			return fmt.Errorf("%w: round %d pair opening does not match its commitment", ErrVerification, r)
		}

		xPair := domainPoint(shift, logSize, pairIndex)
		var xPairInv goldilocks.Element
		xPairInv.Inverse(&xPair)
		eval = foldPair(pair[0], pair[1], challenges.Betas[r], xPairInv)

		shift.Square(&shift)
		logSize--
		idx = pairIndex
	}

	xFinal := domainPoint(shift, logSize, idx)
	want := evalFinalPoly(finalPoly, gl.FromBase(xFinal))
	if !eval.Equal(want) {
		return fmt.Errorf("%w: folded evaluation does not match the final polynomial", ErrVerification)
	}
	return nil
}
