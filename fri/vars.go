package fri

import (
	gl "github.com/zkmesh/unistark/goldilocks"
)

// PolynomialInfo locates one committed base-field column: which oracle
// (committed tree), which matrix inside that tree's batch, and which
// column of that matrix.
type PolynomialInfo struct {
	OracleIndex int
	MatrixIndex int
	ColumnIndex int
}

// OracleInfo describes one committed tree: the widths of the matrices in
// its batch, in batch order.
type OracleInfo struct {
	MatrixWidths []int
}

// BatchInfo groups the polynomials opened at one out-of-domain point.
type BatchInfo struct {
	Point       gl.QuadraticExtension
	Polynomials []PolynomialInfo
}

// Instance is the opening claim the low-degree proof certifies: a set of
// committed oracles and, per point, the polynomials claimed at it.
type Instance struct {
	Oracles []OracleInfo
	Batches []BatchInfo
}

// OpeningBatch carries the claimed evaluations of one batch, in the same
// order as the batch's polynomial list.
type OpeningBatch struct {
	Values []gl.QuadraticExtension
}

// Openings carries the claimed evaluations of every batch of the instance.
type Openings struct {
	Batches []OpeningBatch
}

// Challenges are the transcript values of one low-degree proof.
type Challenges struct {
	// Alpha folds every opened column into the combined polynomial.
	Alpha gl.QuadraticExtension
	// Betas fold the two halves of each round's codeword, one per round.
	Betas []gl.QuadraticExtension
	// QueryIndices are the spot-check positions in the evaluation domain.
	QueryIndices []int
}
