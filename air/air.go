// Package air defines the algebraic intermediate representation consumed
// by the proving pipeline: a fixed-width execution trace, a list of public
// values, and polynomial constraints over a two-row window.
package air

import (
	"github.com/consensys/gnark-crypto/field/goldilocks"

	gl "github.com/zkmesh/unistark/goldilocks"
)

// Air describes a computation as polynomial constraints over adjacent
// trace rows. Eval sees only extension-field values, so the same body
// serves the prover, which runs it over every point of the low-degree
// extension, and the verifier, which runs it once at the out-of-domain
// point.
type Air interface {
	// Width is the number of trace columns.
	Width() int
	// NumPublicValues is the number of public inputs the statement binds.
	NumPublicValues() int
	// MaxConstraintDegree bounds the degree of every emitted term as a
	// polynomial in the trace columns, including the degree-one selector
	// a transition constraint is weighted by.
	MaxConstraintDegree() int
	// Eval emits every constraint into the builder. The emission order is
	// part of the statement: it determines how constraints fold into the
	// accumulator.
	Eval(b *Builder)
}

// Frame is the two-row evaluation window: the current row and its
// successor in trace order.
type Frame struct {
	Local []gl.QuadraticExtension
	Next  []gl.QuadraticExtension
}

// ZeroFrame returns a frame of the given width with every value zero.
func ZeroFrame(width int) Frame {
	return Frame{
		Local: make([]gl.QuadraticExtension, width),
		Next:  make([]gl.QuadraticExtension, width),
	}
}

// Builder accumulates the constraints an Air emits at one evaluation
// point. Each assertion folds its (selector-weighted) value v into a
// running Horner sum over the challenge alpha:
//
//	acc = acc*alpha + v
//
// so the final accumulator is the alpha-combination of every constraint
// in emission order.
type Builder struct {
	frame        Frame
	publicValues []gl.QuadraticExtension
	isFirstRow   gl.QuadraticExtension
	isLastRow    gl.QuadraticExtension
	isTransition gl.QuadraticExtension
	alpha        gl.QuadraticExtension
	accumulator  gl.QuadraticExtension
	count        int
}

// NewBuilder prepares a builder for one evaluation point. The three
// selector values are the row-domain selector polynomials evaluated at
// that point; alpha is the constraint-folding challenge.
func NewBuilder(frame Frame, publicValues []goldilocks.Element, isFirstRow, isLastRow, isTransition, alpha gl.QuadraticExtension) *Builder {
	publics := make([]gl.QuadraticExtension, len(publicValues))
	for i := range publicValues {
		publics[i] = gl.FromBase(publicValues[i])
	}
	return &Builder{
		frame:        frame,
		publicValues: publics,
		isFirstRow:   isFirstRow,
		isLastRow:    isLastRow,
		isTransition: isTransition,
		alpha:        alpha,
	}
}

// Local returns column i of the current row.
func (b *Builder) Local(i int) gl.QuadraticExtension {
	return b.frame.Local[i]
}

// Next returns column i of the successor row.
func (b *Builder) Next(i int) gl.QuadraticExtension {
	return b.frame.Next[i]
}

// PublicValue returns public input i embedded into the extension.
func (b *Builder) PublicValue(i int) gl.QuadraticExtension {
	return b.publicValues[i]
}

// AssertZero folds a constraint that must hold on every row.
func (b *Builder) AssertZero(v gl.QuadraticExtension) {
	b.fold(v)
}

// AssertZeroFirstRow folds a constraint that must hold on the first row.
func (b *Builder) AssertZeroFirstRow(v gl.QuadraticExtension) {
	b.fold(b.isFirstRow.Mul(v))
}

// AssertZeroLastRow folds a constraint that must hold on the last row.
func (b *Builder) AssertZeroLastRow(v gl.QuadraticExtension) {
	b.fold(b.isLastRow.Mul(v))
}

// AssertZeroTransition folds a constraint that must hold on every row but
// the last, where the successor wraps around the trace domain.
func (b *Builder) AssertZeroTransition(v gl.QuadraticExtension) {
	b.fold(b.isTransition.Mul(v))
}

func (b *Builder) fold(v gl.QuadraticExtension) {
	b.accumulator = b.accumulator.Mul(b.alpha).Add(v)
	b.count++
}

// Accumulator returns the folded combination of every constraint emitted
// so far.
func (b *Builder) Accumulator() gl.QuadraticExtension {
	return b.accumulator
}

// Count returns the number of constraints emitted so far.
func (b *Builder) Count() int {
	return b.count
}

// CountConstraints runs Eval on a zero frame and reports how many
// constraints the Air emits.
func CountConstraints(a Air) int {
	b := NewBuilder(
		ZeroFrame(a.Width()),
		make([]goldilocks.Element, a.NumPublicValues()),
		gl.ZeroExtension(), gl.ZeroExtension(), gl.ZeroExtension(), gl.ZeroExtension(),
	)
	a.Eval(b)
	return b.Count()
}
