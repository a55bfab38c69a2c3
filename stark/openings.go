package stark

import (
	"github.com/consensys/gnark-crypto/field/goldilocks"

	"github.com/zkmesh/unistark/challenger"
	"github.com/zkmesh/unistark/dft"
	"github.com/zkmesh/unistark/fri"
	gl "github.com/zkmesh/unistark/goldilocks"
	"github.com/zkmesh/unistark/matrix"
	"github.com/zkmesh/unistark/types"
)

// openedValues carries the out-of-domain evaluations in extension form:
// every trace column at zeta and at zeta*g_H, and every committed quotient
// column at zeta.
type openedValues struct {
	traceLocal     []gl.QuadraticExtension
	traceNext      []gl.QuadraticExtension
	quotientChunks []gl.QuadraticExtension
}

func (ov *openedValues) toWire() types.OpenedValues {
	return types.OpenedValues{
		TraceLocal:     gl.QuadraticExtensionArrayToUint64PairArray(ov.traceLocal),
		TraceNext:      gl.QuadraticExtensionArrayToUint64PairArray(ov.traceNext),
		QuotientChunks: gl.QuadraticExtensionArrayToUint64PairArray(ov.quotientChunks),
	}
}

func openedValuesFromWire(w types.OpenedValues) openedValues {
	return openedValues{
		traceLocal:     gl.Uint64PairArrayToQuadraticExtensionArray(w.TraceLocal),
		traceNext:      gl.Uint64PairArrayToQuadraticExtensionArray(w.TraceNext),
		quotientChunks: gl.Uint64PairArrayToQuadraticExtensionArray(w.QuotientChunks),
	}
}

// observe absorbs the opened values into the transcript in their wire
// order.
func (ov *openedValues) observe(chal *challenger.Challenger) {
	chal.ObserveExtensionElements(ov.traceLocal)
	chal.ObserveExtensionElements(ov.traceNext)
	chal.ObserveExtensionElements(ov.quotientChunks)
}

// friOpenings lays the values out the way friInstance declares them: the
// zeta batch holds the trace columns then the quotient columns, the
// zeta*g_H batch holds the trace columns again.
func (ov *openedValues) friOpenings() fri.Openings {
	zetaBatch := make([]gl.QuadraticExtension, 0, len(ov.traceLocal)+len(ov.quotientChunks))
	zetaBatch = append(zetaBatch, ov.traceLocal...)
	zetaBatch = append(zetaBatch, ov.quotientChunks...)
	nextBatch := append([]gl.QuadraticExtension{}, ov.traceNext...)
	return fri.Openings{Batches: []fri.OpeningBatch{
		{Values: zetaBatch},
		{Values: nextBatch},
	}}
}

// friInstance describes the two committed oracles and the two opening
// batches of one proof.
func friInstance(traceWidth, quotientWidth int, zeta, zetaNext gl.QuadraticExtension) fri.Instance {
	tracePolys := make([]fri.PolynomialInfo, traceWidth)
	for j := range tracePolys {
		tracePolys[j] = fri.PolynomialInfo{OracleIndex: 0, MatrixIndex: 0, ColumnIndex: j}
	}
	quotientPolys := make([]fri.PolynomialInfo, quotientWidth)
	for j := range quotientPolys {
		quotientPolys[j] = fri.PolynomialInfo{OracleIndex: 1, MatrixIndex: 0, ColumnIndex: j}
	}

	zetaPolys := make([]fri.PolynomialInfo, 0, traceWidth+quotientWidth)
	zetaPolys = append(zetaPolys, tracePolys...)
	zetaPolys = append(zetaPolys, quotientPolys...)

	return fri.Instance{
		Oracles: []fri.OracleInfo{
			{MatrixWidths: []int{traceWidth}},
			{MatrixWidths: []int{quotientWidth}},
		},
		Batches: []fri.BatchInfo{
			{Point: zeta, Polynomials: zetaPolys},
			{Point: zetaNext, Polynomials: tracePolys},
		},
	}
}

// interpolateColumns returns the coefficient form of every column of a
// power-of-two-height matrix.
func interpolateColumns(transform dft.Transform, m matrix.Dense) ([][]goldilocks.Element, error) {
	coeffs := make([][]goldilocks.Element, m.Width())
	for j := range coeffs {
		column := m.Column(j)
		if err := transform.IDFT(column); err != nil {
			return nil, err
		}
		coeffs[j] = column
	}
	return coeffs, nil
}

// evalCoeffsAt evaluates a base-coefficient polynomial at an extension
// point by Horner's rule.
func evalCoeffsAt(coeffs []goldilocks.Element, z gl.QuadraticExtension) gl.QuadraticExtension {
	var res gl.QuadraticExtension
	for i := len(coeffs) - 1; i >= 0; i-- {
		res = res.Mul(z).Add(gl.FromBase(coeffs[i]))
	}
	return res
}
