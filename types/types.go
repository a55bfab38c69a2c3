// Package types holds the proof wire format and the FRI parameter set
// shared by the prover, the verifier and the command line tools.
package types

import (
	"fmt"

	gl "github.com/zkmesh/unistark/goldilocks"
)

// FriConfig is the proof-shape half of the protocol parameters: everything
// that is chosen up front and independent of the trace size.
type FriConfig struct {
	// RateBits is the log2 of the blowup factor between the trace domain
	// and the evaluation domain.
	RateBits uint64 `json:"rate_bits"`
	// LogFinalPolyLen is the log2 of the coefficient count at which
	// folding stops and the polynomial is sent in the clear.
	LogFinalPolyLen uint64 `json:"log_final_poly_len"`
	// NumQueryRounds is the number of spot-check indices sampled after
	// the commit phase.
	NumQueryRounds uint64 `json:"num_query_rounds"`
	// ProofOfWorkBits is the number of leading zero bits the grinding
	// witness must produce before query indices are sampled.
	ProofOfWorkBits uint64 `json:"proof_of_work_bits"`
}

// Rate returns the code rate 2^-RateBits.
func (fc *FriConfig) Rate() float64 {
	return 1.0 / float64(uint64(1)<<fc.RateBits)
}

func (fc *FriConfig) Validate() error {
	if fc.NumQueryRounds == 0 {
		return fmt.Errorf("fri config: at least one query round is required")
	}
	if fc.ProofOfWorkBits == 0 || fc.ProofOfWorkBits > 32 {
		return fmt.Errorf("fri config: proof of work bits %d outside [1, 32]", fc.ProofOfWorkBits)
	}
	if fc.RateBits == 0 || fc.RateBits > 10 {
		return fmt.Errorf("fri config: rate bits %d outside [1, 10]", fc.RateBits)
	}
	return nil
}

// FriParams binds a FriConfig to one proof's trace size.
type FriParams struct {
	Config FriConfig `json:"config"`
	// DegreeBits is the log2 of the trace height.
	DegreeBits uint64 `json:"degree_bits"`
}

// LdeBits is the log2 of the evaluation domain size.
func (p *FriParams) LdeBits() int {
	return int(p.DegreeBits + p.Config.RateBits)
}

// LdeSize is the evaluation domain size.
func (p *FriParams) LdeSize() int {
	return 1 << p.LdeBits()
}

// NumRounds is the number of fold rounds between the evaluation domain
// and the final polynomial.
func (p *FriParams) NumRounds() int {
	return int(p.DegreeBits - p.Config.LogFinalPolyLen)
}

// FinalPolyLen is the coefficient count of the final polynomial.
func (p *FriParams) FinalPolyLen() int {
	return 1 << p.Config.LogFinalPolyLen
}

func (p *FriParams) Validate() error {
	if err := p.Config.Validate(); err != nil {
		return err
	}
	// DegreeBits comes straight off the wire, so bound it in uint64
	// arithmetic before deriving any size: the first clause keeps the sum
	// in the second from wrapping. Query indices are sampled from the low
	// bits of a field element, so the evaluation domain must fit the
	// field's power-of-two subgroups.
	if p.DegreeBits > gl.TWO_ADICITY || p.DegreeBits+p.Config.RateBits > gl.TWO_ADICITY {
		return fmt.Errorf("fri params: degree bits %d with rate bits %d exceed the two-adic subgroup", p.DegreeBits, p.Config.RateBits)
	}
	if p.DegreeBits < p.Config.LogFinalPolyLen {
		return fmt.Errorf("fri params: degree bits %d below final polynomial length bits %d", p.DegreeBits, p.Config.LogFinalPolyLen)
	}
	return nil
}
