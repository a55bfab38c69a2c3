package types

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Proof is the complete proof for one statement. Field elements travel as
// canonical uint64 values, extension elements as [a0, a1] pairs, and
// commitments as 0x-prefixed digests.
type Proof struct {
	// DegreeBits is the log2 of the trace height the proof was built for.
	DegreeBits     uint64        `json:"degree_bits"`
	TraceCommit    hexutil.Bytes `json:"trace_commit"`
	QuotientCommit hexutil.Bytes `json:"quotient_commit"`
	Openings       OpenedValues  `json:"openings"`
	OpeningProof   FriProof      `json:"opening_proof"`
}

// OpenedValues are the claimed polynomial evaluations at the out-of-domain
// point zeta (trace and quotient chunks) and at zeta shifted by one trace
// row (trace only).
type OpenedValues struct {
	TraceLocal     [][2]uint64 `json:"trace_local"`
	TraceNext      [][2]uint64 `json:"trace_next"`
	QuotientChunks [][2]uint64 `json:"quotient_chunks"`
}

// FriProof is the low-degree proof for the combined opening polynomial.
type FriProof struct {
	CommitPhaseCommits []hexutil.Bytes `json:"commit_phase_commits"`
	QueryProofs        []FriQueryProof `json:"query_round_proofs"`
	FinalPoly          [][2]uint64     `json:"final_poly"`
	PowWitness         uint64          `json:"pow_witness"`
}

// FriQueryProof answers one sampled index: openings of every initial tree
// at that index, then one fold-pair opening per commit-phase round.
type FriQueryProof struct {
	InitialOpenings     []BatchOpening       `json:"initial_openings"`
	CommitPhaseOpenings []CommitPhaseOpening `json:"commit_phase_openings"`
}

// BatchOpening opens one committed batch at one row index: the row of
// every matrix in the batch plus the shared Merkle path.
type BatchOpening struct {
	Values   [][]uint64      `json:"values"`
	Siblings []hexutil.Bytes `json:"siblings"`
}

// CommitPhaseOpening opens the fold pair of one round: the two extension
// evaluations folding into the next round's value, plus the Merkle path.
type CommitPhaseOpening struct {
	Evals    [2][2]uint64    `json:"evals"`
	Siblings []hexutil.Bytes `json:"siblings"`
}

// ProofWithPublicInputs is the self-contained artifact written to disk:
// proof, statement inputs, and the parameters needed to re-derive the
// verifier's transcript.
type ProofWithPublicInputs struct {
	Config       FriConfig `json:"config"`
	Hasher       string    `json:"hasher"`
	Proof        Proof     `json:"proof"`
	PublicInputs []uint64  `json:"public_inputs"`
}

// Export writes the proof as JSON.
func (p *ProofWithPublicInputs) Export(path string) error {
	proofFile, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create proof file: %w", err)
	}
	defer proofFile.Close()

	jsonString, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal proof: %w", err)
	}
	if _, err := proofFile.Write(jsonString); err != nil {
		return fmt.Errorf("failed to write proof: %w", err)
	}
	return nil
}

// ReadProofWithPublicInputs loads a proof exported by Export.
func ReadProofWithPublicInputs(path string) (ProofWithPublicInputs, error) {
	rawBytes, err := os.ReadFile(path)
	if err != nil {
		return ProofWithPublicInputs{}, fmt.Errorf("failed to read proof file: %w", err)
	}
	return ReadProofWithPublicInputsFromRequest(rawBytes)
}

// ReadProofWithPublicInputsFromRequest parses a proof from a raw JSON
// payload, as received by the web API.
func ReadProofWithPublicInputsFromRequest(data []byte) (ProofWithPublicInputs, error) {
	var proof ProofWithPublicInputs
	if err := json.Unmarshal(data, &proof); err != nil {
		return ProofWithPublicInputs{}, fmt.Errorf("failed to unmarshal proof: %w", err)
	}
	return proof, nil
}
