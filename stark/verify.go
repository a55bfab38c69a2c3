package stark

import (
	"fmt"

	"github.com/consensys/gnark-crypto/field/goldilocks"

	"github.com/zkmesh/unistark/air"
	"github.com/zkmesh/unistark/challenger"
	"github.com/zkmesh/unistark/fri"
	gl "github.com/zkmesh/unistark/goldilocks"
	"github.com/zkmesh/unistark/merkle"
	"github.com/zkmesh/unistark/types"
)

// Verify checks a proof against the air and the public values. It never
// touches the original trace: every check runs on the proof's declared
// commitments and openings. Failures are typed: ErrShape for structurally
// invalid input, ErrOodMismatch when the constraint identity fails at the
// out-of-domain point, and fri.ErrVerification for any low-degree check.
//
// Verification is read-only; verifying the same proof twice with fresh
// challengers gives the same result.
func Verify(
	cfg *Config,
	a air.Air,
	proof *types.Proof,
	publicValues []goldilocks.Element,
	chal *challenger.Challenger,
) error {
	numChunks, params, err := validateVerifyInputs(cfg, a, proof, publicValues)
	if err != nil {
		return err
	}
	degreeBits := proof.DegreeBits

	traceRoot, err := merkle.DigestFromBytes(proof.TraceCommit)
	if err != nil {
		return fmt.Errorf("%w: trace commitment: %v", ErrShape, err)
	}
	quotientRoot, err := merkle.DigestFromBytes(proof.QuotientCommit)
	if err != nil {
		return fmt.Errorf("%w: quotient commitment: %v", ErrShape, err)
	}

	// Replay the prover's transcript up to the low-degree proof.
	chal.ObserveElement(goldilocks.NewElement(degreeBits))
	chal.ObserveElements(publicValues)
	chal.ObserveDigest(traceRoot)
	alpha := chal.GetExtensionChallenge()

	chal.ObserveDigest(quotientRoot)
	zeta := chal.GetExtensionChallenge()

	ov := openedValuesFromWire(proof.Openings)
	ov.observe(chal)

	if err := checkOodIdentity(a, &ov, publicValues, alpha, zeta, degreeBits); err != nil {
		return err
	}

	gH := gl.PrimitiveRootOfUnity(degreeBits)
	zetaNext := zeta.ScalarMul(gH)
	instance := friInstance(a.Width(), 2*numChunks, zeta, zetaNext)

	return fri.Verify(
		chal,
		instance,
		ov.friOpenings(),
		[]merkle.Digest{traceRoot, quotientRoot},
		&proof.OpeningProof,
		params,
		cfg.Hasher,
	)
}

// validateVerifyInputs checks the proof's declared dimensions against the
// air and the configuration before any transcript work.
func validateVerifyInputs(cfg *Config, a air.Air, proof *types.Proof, publicValues []goldilocks.Element) (int, *types.FriParams, error) {
	if err := cfg.Validate(); err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrShape, err)
	}
	if a.Width() < 1 {
		return 0, nil, fmt.Errorf("%w: air has no columns", ErrShape)
	}
	if len(publicValues) != a.NumPublicValues() {
		return 0, nil, fmt.Errorf("%w: got %d public values, air wants %d", ErrShape, len(publicValues), a.NumPublicValues())
	}
	if air.CountConstraints(a) == 0 {
		return 0, nil, fmt.Errorf("%w: air emits no constraints", ErrShape)
	}
	if proof.DegreeBits < 1 {
		return 0, nil, fmt.Errorf("%w: proof degree bits %d below the minimum trace height", ErrShape, proof.DegreeBits)
	}

	numChunks := numQuotientChunks(a)
	if numChunks > 1<<cfg.Fri.RateBits {
		return 0, nil, fmt.Errorf("%w: constraint degree %d exceeds the blowup %d",
			ErrShape, a.MaxConstraintDegree(), 1<<cfg.Fri.RateBits)
	}

	params := cfg.friParams(proof.DegreeBits)
	if err := params.Validate(); err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrShape, err)
	}

	if len(proof.Openings.TraceLocal) != a.Width() {
		return 0, nil, fmt.Errorf("%w: %d trace openings for %d columns", ErrShape, len(proof.Openings.TraceLocal), a.Width())
	}
	if len(proof.Openings.TraceNext) != a.Width() {
		return 0, nil, fmt.Errorf("%w: %d next-row openings for %d columns", ErrShape, len(proof.Openings.TraceNext), a.Width())
	}
	if len(proof.Openings.QuotientChunks) != 2*numChunks {
		return 0, nil, fmt.Errorf("%w: %d quotient openings for %d chunk columns", ErrShape, len(proof.Openings.QuotientChunks), 2*numChunks)
	}
	return numChunks, params, nil
}

// checkOodIdentity verifies the algebraic identity at zeta: the
// alpha-folded constraints evaluated on the opened frame must equal the
// claimed quotient times the vanishing polynomial. Pure field arithmetic,
// no commitment access.
func checkOodIdentity(
	a air.Air,
	ov *openedValues,
	publicValues []goldilocks.Element,
	alpha, zeta gl.QuadraticExtension,
	degreeBits uint64,
) error {
	sel, err := selectorsAt(zeta, degreeBits)
	if err != nil || sel.zh.IsZero() {
		return fmt.Errorf("%w: out-of-domain point lies on the trace domain", ErrOodMismatch)
	}

	frame := air.Frame{Local: ov.traceLocal, Next: ov.traceNext}
	b := air.NewBuilder(frame, publicValues, sel.isFirst, sel.isLast, sel.isTransition, alpha)
	a.Eval(b)
	folded := b.Accumulator()

	// chunk_j(zeta) from its two opened base-coordinate columns.
	x := gl.NewQuadraticExtension(goldilocks.NewElement(0), goldilocks.NewElement(1))
	chunkEvals := make([]gl.QuadraticExtension, len(ov.quotientChunks)/2)
	for j := range chunkEvals {
		chunkEvals[j] = ov.quotientChunks[2*j].Add(x.Mul(ov.quotientChunks[2*j+1]))
	}
	// quotient(zeta) = sum_j (zeta^n)^j * chunk_j(zeta).
	quotient := gl.ReduceWithPowers(chunkEvals, sel.zetaPowN)

	if !folded.Equal(quotient.Mul(sel.zh)) {
		return fmt.Errorf("%w: folded constraints disagree with the quotient at the sampled point", ErrOodMismatch)
	}
	return nil
}
