package fri

import (
	"fmt"
	"math"

	"github.com/consensys/gnark-crypto/field/goldilocks"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/zkmesh/unistark/merkle"
	"github.com/zkmesh/unistark/types"
)

// checkNoncanonicalIndices guards the query-index sampling: indices come
// from the low bits of field elements, and elements just below 2^64 have
// two 64-bit encodings. The config must keep the probability of hitting
// that range negligible against the per-query soundness error.
func checkNoncanonicalIndices(params *types.FriParams) error {
	numAmbiguousElems := uint64(math.MaxUint64) - goldilocks.Modulus().Uint64() + 1
	queryError := params.Config.Rate()
	pAmbiguous := float64(numAmbiguousElems) / float64(goldilocks.Modulus().Uint64())
	if pAmbiguous >= queryError*1e-5 {
		return fmt.Errorf("fri: a non-negligible portion of field elements permits non-canonical index encodings")
	}
	return nil
}

// validateProofShape checks every length in the proof against the params
// and the instance before any value is used, so the verification loops
// can index freely.
func validateProofShape(proof *types.FriProof, instance Instance, params *types.FriParams) error {
	ldeBits := params.LdeBits()

	if len(proof.CommitPhaseCommits) != params.NumRounds() {
		return fmt.Errorf("%w: expected %d commit phase commitments, got %d",
			ErrVerification, params.NumRounds(), len(proof.CommitPhaseCommits))
	}
	for _, root := range proof.CommitPhaseCommits {
		if len(root) != len(merkle.Digest{}) {
			return fmt.Errorf("%w: commit phase root has %d bytes", ErrVerification, len(root))
		}
	}

	if len(proof.FinalPoly) != params.FinalPolyLen() {
		return fmt.Errorf("%w: final polynomial has %d coefficients, want %d",
			ErrVerification, len(proof.FinalPoly), params.FinalPolyLen())
	}

	if len(proof.QueryProofs) != int(params.Config.NumQueryRounds) {
		return fmt.Errorf("%w: expected %d query rounds, got %d",
			ErrVerification, params.Config.NumQueryRounds, len(proof.QueryProofs))
	}

	for q, query := range proof.QueryProofs {
		if len(query.InitialOpenings) != len(instance.Oracles) {
			return fmt.Errorf("%w: query %d opens %d oracles, want %d",
				ErrVerification, q, len(query.InitialOpenings), len(instance.Oracles))
		}
		for o, opening := range query.InitialOpenings {
			oracle := instance.Oracles[o]
			if len(opening.Values) != len(oracle.MatrixWidths) {
				return fmt.Errorf("%w: query %d oracle %d opens %d matrices, want %d",
					ErrVerification, q, o, len(opening.Values), len(oracle.MatrixWidths))
			}
			for m, row := range opening.Values {
				if len(row) != oracle.MatrixWidths[m] {
					return fmt.Errorf("%w: query %d oracle %d matrix %d row width %d, want %d",
						ErrVerification, q, o, m, len(row), oracle.MatrixWidths[m])
				}
			}
			if len(opening.Siblings) != ldeBits {
				return fmt.Errorf("%w: query %d oracle %d path length %d, want %d",
					ErrVerification, q, o, len(opening.Siblings), ldeBits)
			}
		}

		if len(query.CommitPhaseOpenings) != params.NumRounds() {
			return fmt.Errorf("%w: query %d has %d commit phase openings, want %d",
				ErrVerification, q, len(query.CommitPhaseOpenings), params.NumRounds())
		}
		for r, opening := range query.CommitPhaseOpenings {
			// Round r commits the fold pairs of a codeword of 2^(ldeBits-r)
			// points, a tree of half that height.
			wantPath := ldeBits - r - 1
			if len(opening.Siblings) != wantPath {
				return fmt.Errorf("%w: query %d round %d path length %d, want %d",
					ErrVerification, q, r, len(opening.Siblings), wantPath)
			}
		}
	}

	return nil
}

// validateOpenings checks the claimed evaluations against the instance
// layout.
func validateOpenings(openings Openings, instance Instance) error {
	if len(openings.Batches) != len(instance.Batches) {
		return fmt.Errorf("%w: %d opening batches for %d instance batches",
			ErrVerification, len(openings.Batches), len(instance.Batches))
	}
	for i, batch := range openings.Batches {
		if len(batch.Values) != len(instance.Batches[i].Polynomials) {
			return fmt.Errorf("%w: batch %d claims %d values for %d polynomials",
				ErrVerification, i, len(batch.Values), len(instance.Batches[i].Polynomials))
		}
	}
	return nil
}

func digestsFromBytes(raw []hexutil.Bytes) ([]merkle.Digest, error) {
	digests := make([]merkle.Digest, len(raw))
	for i, b := range raw {
		d, err := merkle.DigestFromBytes(b)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrVerification, err)
		}
		digests[i] = d
	}
	return digests, nil
}
