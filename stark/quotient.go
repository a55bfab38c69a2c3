package stark

import (
	"fmt"

	"github.com/consensys/gnark-crypto/field/goldilocks"

	"github.com/zkmesh/unistark/air"
	"github.com/zkmesh/unistark/dft"
	gl "github.com/zkmesh/unistark/goldilocks"
	"github.com/zkmesh/unistark/internal/parallel"
	"github.com/zkmesh/unistark/matrix"
)

// numQuotientChunks returns how many degree-2^degreeBits pieces the
// quotient polynomial splits into. Folded constraints have degree at most
// MaxConstraintDegree*(n-1), so after the division by the vanishing
// polynomial the quotient fits in MaxConstraintDegree-1 chunks.
func numQuotientChunks(a air.Air) int {
	degree := a.MaxConstraintDegree()
	if degree < 2 {
		degree = 2
	}
	return degree - 1
}

// computeQuotientCodeword evaluates the alpha-folded constraints at every
// point of the evaluation coset and divides them pointwise by the
// vanishing polynomial of the trace domain.
//
// The coset is indexed in natural order, so the trace row at x*g_H sits
// blowup rows further down, wrapping around the coset.
func computeQuotientCodeword(
	a air.Air,
	traceLDE matrix.Dense,
	publicValues []goldilocks.Element,
	alpha gl.QuadraticExtension,
	degreeBits, rateBits uint64,
) []gl.QuadraticExtension {
	n := uint64(1) << degreeBits
	blowup := 1 << rateBits
	size := traceLDE.Height()
	width := traceLDE.Width()

	shift := gl.MULTIPLICATIVE_GROUP_GENERATOR
	omega := gl.PrimitiveRootOfUnity(degreeBits + rateBits)
	points := make([]goldilocks.Element, size)
	points[0] = shift
	for i := 1; i < size; i++ {
		points[i].Mul(&points[i-1], &omega)
	}

	// The last row of the trace domain is g_H^{n-1} = g_H^{-1}.
	gH := gl.PrimitiveRootOfUnity(degreeBits)
	var lastPoint goldilocks.Element
	lastPoint.Inverse(&gH)

	// Z_H(shift*omega^i) = shift^n * (omega^n)^i - 1 cycles with period
	// blowup over the coset.
	one := goldilocks.NewElement(1)
	zhPeriod := make([]goldilocks.Element, blowup)
	acc := gl.Exp(shift, n)
	omegaPowN := gl.Exp(omega, n)
	for j := 0; j < blowup; j++ {
		zhPeriod[j].Sub(&acc, &one)
		acc.Mul(&acc, &omegaPowN)
	}

	// One batch inversion serves both selector denominators and the
	// vanishing values.
	denoms := make([]goldilocks.Element, 0, 2*size+blowup)
	for i := range points {
		var d goldilocks.Element
		d.Sub(&points[i], &one)
		denoms = append(denoms, d)
	}
	for i := range points {
		var d goldilocks.Element
		d.Sub(&points[i], &lastPoint)
		denoms = append(denoms, d)
	}
	denoms = append(denoms, zhPeriod...)
	invs := gl.BatchInvert(denoms)
	firstInvs := invs[:size]
	lastInvs := invs[size : 2*size]
	zhInvs := invs[2*size:]

	codeword := make([]gl.QuadraticExtension, size)
	mask := size - 1
	parallel.Execute(size, func(start, end int) {
		frame := air.ZeroFrame(width)
		for i := start; i < end; i++ {
			localRow := traceLDE.Row(i)
			nextRow := traceLDE.Row((i + blowup) & mask)
			for j := 0; j < width; j++ {
				frame.Local[j] = gl.FromBase(localRow[j])
				frame.Next[j] = gl.FromBase(nextRow[j])
			}

			zh := zhPeriod[i&(blowup-1)]
			var isFirst, isLast goldilocks.Element
			isFirst.Mul(&zh, &firstInvs[i])
			isLast.Mul(&zh, &lastInvs[i])
			transition := denoms[size+i]

			b := air.NewBuilder(
				frame,
				publicValues,
				gl.FromBase(isFirst),
				gl.FromBase(isLast),
				gl.FromBase(transition),
				alpha,
			)
			a.Eval(b)
			codeword[i] = b.Accumulator().ScalarMul(zhInvs[i&(blowup-1)])
		}
	})
	return codeword
}

// splitQuotientChunks interpolates the quotient codeword over the coset
// and splits its coefficients into numChunks blocks of 2^degreeBits. It
// returns the block coefficient vectors and the matrix to commit: the
// blocks evaluated back over the coset, two base columns per block, one
// per extension coordinate.
func splitQuotientChunks(
	transform dft.Transform,
	codeword []gl.QuadraticExtension,
	numChunks int,
	degreeBits uint64,
) ([][]gl.QuadraticExtension, matrix.Dense, error) {
	n := 1 << degreeBits
	size := len(codeword)
	shift := gl.MULTIPLICATIVE_GROUP_GENERATOR

	// The transform is linear over the base field, so each extension
	// coordinate interpolates independently.
	c0 := make([]goldilocks.Element, size)
	c1 := make([]goldilocks.Element, size)
	for i, v := range codeword {
		c0[i] = v[0]
		c1[i] = v[1]
	}
	if err := transform.CosetIDFT(c0, shift); err != nil {
		return nil, matrix.Dense{}, err
	}
	if err := transform.CosetIDFT(c1, shift); err != nil {
		return nil, matrix.Dense{}, err
	}

	// Coefficients past the chunk blocks must vanish; anything left there
	// means the air's declared constraint degree under-reports the true
	// degree.
	for k := numChunks * n; k < size; k++ {
		if !c0[k].IsZero() || !c1[k].IsZero() {
			return nil, matrix.Dense{}, fmt.Errorf("quotient degree exceeds the %d chunks the declared constraint degree allows", numChunks)
		}
	}

	chunks := make([][]gl.QuadraticExtension, numChunks)
	for j := range chunks {
		chunk := make([]gl.QuadraticExtension, n)
		for k := 0; k < n; k++ {
			chunk[k] = gl.NewQuadraticExtension(c0[j*n+k], c1[j*n+k])
		}
		chunks[j] = chunk
	}

	width := 2 * numChunks
	values := make([]goldilocks.Element, size*width)
	for j := 0; j < numChunks; j++ {
		for c := 0; c < 2; c++ {
			column := make([]goldilocks.Element, size)
			for k := 0; k < n; k++ {
				column[k] = chunks[j][k][c]
			}
			if err := transform.CosetDFT(column, shift); err != nil {
				return nil, matrix.Dense{}, err
			}
			for i := 0; i < size; i++ {
				values[i*width+2*j+c] = column[i]
			}
		}
	}
	return chunks, matrix.MustDense(values, width), nil
}

// oodSelectors holds the row-selector and vanishing values at the
// out-of-domain point.
type oodSelectors struct {
	isFirst      gl.QuadraticExtension
	isLast       gl.QuadraticExtension
	isTransition gl.QuadraticExtension
	zh           gl.QuadraticExtension
	zetaPowN     gl.QuadraticExtension
}

// selectorsAt evaluates the selectors at zeta. It fails when zeta lies on
// the trace domain, where the selector denominators vanish.
func selectorsAt(zeta gl.QuadraticExtension, degreeBits uint64) (oodSelectors, error) {
	gH := gl.PrimitiveRootOfUnity(degreeBits)
	var lastPoint goldilocks.Element
	lastPoint.Inverse(&gH)

	zetaPowN := zeta.ExpPowerOf2(int(degreeBits))
	zh := zetaPowN.Sub(gl.OneExtension())
	dFirst := zeta.Sub(gl.OneExtension())
	dLast := zeta.Sub(gl.FromBase(lastPoint))

	dFirstInv, ok := dFirst.Inverse()
	if !ok {
		return oodSelectors{}, fmt.Errorf("point lies on the trace domain")
	}
	dLastInv, ok := dLast.Inverse()
	if !ok {
		return oodSelectors{}, fmt.Errorf("point lies on the trace domain")
	}

	return oodSelectors{
		isFirst:      zh.Mul(dFirstInv),
		isLast:       zh.Mul(dLastInv),
		isTransition: dLast,
		zh:           zh,
		zetaPowN:     zetaPowN,
	}, nil
}
