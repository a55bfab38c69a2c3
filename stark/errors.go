package stark

import "errors"

// Verification failures are typed so callers can tell structurally
// malformed inputs from genuine forgery attempts.
var (
	// ErrShape reports invalid trace, proof or configuration dimensions.
	// It is raised before any cryptographic work.
	ErrShape = errors.New("stark: invalid shape")

	// ErrOodMismatch reports that the folded constraints and the claimed
	// quotient disagree at the out-of-domain point.
	ErrOodMismatch = errors.New("stark: out-of-domain constraint check failed")
)
