// Package stark orchestrates the proving pipeline: commit to the
// low-degree-extended trace, fold the constraints into a quotient and
// commit to it, open everything at an out-of-domain point, and prove the
// combined opening polynomial low-degree with FRI. The verifier replays
// the same transcript from the proof alone.
package stark

import (
	"fmt"
	"math/bits"
	"time"

	"github.com/consensys/gnark-crypto/field/goldilocks"
	"github.com/consensys/gnark/logger"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/zkmesh/unistark/air"
	"github.com/zkmesh/unistark/challenger"
	"github.com/zkmesh/unistark/fri"
	gl "github.com/zkmesh/unistark/goldilocks"
	"github.com/zkmesh/unistark/matrix"
	"github.com/zkmesh/unistark/merkle"
	"github.com/zkmesh/unistark/types"
)

// Prove builds a proof that trace satisfies a's constraints under the
// given public values. The challenger must be fresh; prover and verifier
// each own one for the duration of a single run.
//
// The transcript advances in a fixed global order: degree bits and public
// values, trace root, the folding challenge alpha, quotient root, the
// out-of-domain point zeta, the opened values, then the low-degree proof.
func Prove(
	cfg *Config,
	a air.Air,
	trace matrix.Dense,
	publicValues []goldilocks.Element,
	chal *challenger.Challenger,
) (types.Proof, error) {
	log := logger.Logger()

	degreeBits, err := validateProveInputs(cfg, a, trace, publicValues)
	if err != nil {
		return types.Proof{}, err
	}
	params := cfg.friParams(degreeBits)
	if err := params.Validate(); err != nil {
		return types.Proof{}, fmt.Errorf("%w: %v", ErrShape, err)
	}

	shift := gl.MULTIPLICATIVE_GROUP_GENERATOR
	rateBits := cfg.Fri.RateBits

	// Commit to the trace over the evaluation coset.
	start := time.Now()
	traceLDE, err := cfg.Dft.CosetLDEBatch(trace, int(rateBits), shift)
	if err != nil {
		return types.Proof{}, fmt.Errorf("%w: %v", ErrShape, err)
	}
	traceRoot, traceTree, err := merkle.Commit(cfg.Hasher, []matrix.Dense{traceLDE})
	if err != nil {
		return types.Proof{}, fmt.Errorf("%w: %v", ErrShape, err)
	}
	log.Debug().Dur("took", time.Since(start)).Msg("committed trace")

	chal.ObserveElement(goldilocks.NewElement(degreeBits))
	chal.ObserveElements(publicValues)
	chal.ObserveDigest(traceRoot)
	alpha := chal.GetExtensionChallenge()

	// Fold the constraints, divide by the vanishing polynomial and commit
	// to the quotient chunks.
	start = time.Now()
	numChunks := numQuotientChunks(a)
	codeword := computeQuotientCodeword(a, traceLDE, publicValues, alpha, degreeBits, rateBits)
	chunks, quotientLDE, err := splitQuotientChunks(cfg.Dft, codeword, numChunks, degreeBits)
	if err != nil {
		return types.Proof{}, fmt.Errorf("%w: %v", ErrShape, err)
	}
	quotientRoot, quotientTree, err := merkle.Commit(cfg.Hasher, []matrix.Dense{quotientLDE})
	if err != nil {
		return types.Proof{}, fmt.Errorf("%w: %v", ErrShape, err)
	}
	log.Debug().Dur("took", time.Since(start)).Msg("committed quotient")

	chal.ObserveDigest(quotientRoot)
	zeta := chal.GetExtensionChallenge()

	sel, err := selectorsAt(zeta, degreeBits)
	if err != nil || sel.zh.IsZero() {
		// Probability about 2^-124; a run hitting it fails rather than
		// silently degrading soundness.
		return types.Proof{}, fmt.Errorf("%w: out-of-domain point degenerated into the trace domain", ErrShape)
	}

	gH := gl.PrimitiveRootOfUnity(degreeBits)
	zetaNext := zeta.ScalarMul(gH)

	ov, err := buildOpenedValues(cfg, trace, chunks, zeta, zetaNext)
	if err != nil {
		return types.Proof{}, fmt.Errorf("%w: %v", ErrShape, err)
	}
	ov.observe(chal)

	start = time.Now()
	instance := friInstance(trace.Width(), 2*numChunks, zeta, zetaNext)
	friProof, err := fri.Prove(
		chal,
		instance,
		[]*merkle.ProverData{traceTree, quotientTree},
		ov.friOpenings(),
		params,
		cfg.Hasher,
		cfg.Dft,
	)
	if err != nil {
		return types.Proof{}, err
	}
	log.Debug().Dur("took", time.Since(start)).Msg("proved low degree")

	return types.Proof{
		DegreeBits:     degreeBits,
		TraceCommit:    digestBytes(traceRoot),
		QuotientCommit: digestBytes(quotientRoot),
		Openings:       ov.toWire(),
		OpeningProof:   friProof,
	}, nil
}

// validateProveInputs rejects malformed caller input before any
// cryptographic work. It returns the log2 of the trace height.
func validateProveInputs(cfg *Config, a air.Air, trace matrix.Dense, publicValues []goldilocks.Element) (uint64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrShape, err)
	}
	if a.Width() < 1 {
		return 0, fmt.Errorf("%w: air has no columns", ErrShape)
	}
	if trace.Width() != a.Width() {
		return 0, fmt.Errorf("%w: trace has %d columns, air wants %d", ErrShape, trace.Width(), a.Width())
	}
	if len(publicValues) != a.NumPublicValues() {
		return 0, fmt.Errorf("%w: got %d public values, air wants %d", ErrShape, len(publicValues), a.NumPublicValues())
	}
	if air.CountConstraints(a) == 0 {
		return 0, fmt.Errorf("%w: air emits no constraints", ErrShape)
	}

	height := trace.Height()
	// The transition selector needs two distinct rows, so a single-row
	// trace is rejected rather than proved degenerately.
	if height < 2 || height&(height-1) != 0 {
		return 0, fmt.Errorf("%w: trace height %d is not a power of two >= 2", ErrShape, height)
	}
	if numQuotientChunks(a) > 1<<cfg.Fri.RateBits {
		return 0, fmt.Errorf("%w: constraint degree %d exceeds the blowup %d",
			ErrShape, a.MaxConstraintDegree(), 1<<cfg.Fri.RateBits)
	}
	return uint64(bits.TrailingZeros(uint(height))), nil
}

// buildOpenedValues evaluates the committed polynomials out of domain: the
// trace columns at zeta and zeta*g_H, and both base coordinates of every
// quotient chunk at zeta.
func buildOpenedValues(
	cfg *Config,
	trace matrix.Dense,
	chunks [][]gl.QuadraticExtension,
	zeta, zetaNext gl.QuadraticExtension,
) (openedValues, error) {
	traceCoeffs, err := interpolateColumns(cfg.Dft, trace)
	if err != nil {
		return openedValues{}, err
	}

	ov := openedValues{
		traceLocal:     make([]gl.QuadraticExtension, len(traceCoeffs)),
		traceNext:      make([]gl.QuadraticExtension, len(traceCoeffs)),
		quotientChunks: make([]gl.QuadraticExtension, 0, 2*len(chunks)),
	}
	for j, coeffs := range traceCoeffs {
		ov.traceLocal[j] = evalCoeffsAt(coeffs, zeta)
		ov.traceNext[j] = evalCoeffsAt(coeffs, zetaNext)
	}

	// The committed quotient columns are the chunks' base coordinates, so
	// the claimed openings are per coordinate as well.
	for _, chunk := range chunks {
		for c := 0; c < 2; c++ {
			coeffs := make([]goldilocks.Element, len(chunk))
			for k := range chunk {
				coeffs[k] = chunk[k][c]
			}
			ov.quotientChunks = append(ov.quotientChunks, evalCoeffsAt(coeffs, zeta))
		}
	}
	return ov, nil
}

func digestBytes(d merkle.Digest) hexutil.Bytes {
	b := make(hexutil.Bytes, len(d))
	copy(b, d[:])
	return b
}
