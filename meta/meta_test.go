package meta

import (
	"testing"

	"github.com/haoxiangmiao/feat3-sub001/lafem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// csrOp adapts a lafem.SparseMatrixCSR to the Operator interface for
// testing SaddlePointMatrix/TupleDiagMatrix composition.
type csrOp struct{ m *lafem.SparseMatrixCSR }

func (o csrOp) Apply(r, x Vector, alpha float64, y Vector) {
	rd := r.(denseAdapter).v
	xd := x.(denseAdapter).v
	var yd *lafem.DenseVector
	if y != nil {
		yd = y.(denseAdapter).v
	}
	lafem.SpMVCSR(rd, o.m, xd, alpha, yd)
}

func TestPowerVectorRecursion(t *testing.T) {
	p := NewPowerVector(3, 2)
	for i := 0; i < 3; i++ {
		p.Block(i).SetAt(0, float64(i))
		p.Block(i).SetAt(1, float64(i) * 2)
	}
	assert.Equal(t, 6, p.Size())
	assert.Equal(t, 1.0, p.At(2)) // block 1, local 0
	assert.Equal(t, 4.0, p.At(5)) // block 2, local 1

	q := NewPowerVector(3, 2)
	q.Copy(p)
	assert.InDelta(t, p.Norm2Sqr(), q.Norm2Sqr(), 1e-12)
	assert.InDelta(t, p.Dot(q), p.Norm2Sqr(), 1e-12)
}

func TestPowerVectorCloneIdempotence(t *testing.T) {
	p := NewPowerVector(2, 3)
	p.Block(0).SetAt(0, 5)
	clone := p.Clone(lafem.CloneDeep)
	clone.Block(0).SetAt(0, 99)
	assert.Equal(t, 5.0, p.At(0))
}

func TestSaddlePointMatrixApply(t *testing.T) {
	// A = 2I (2x2), B = I (2x1 broadcast... use 2x2 identity-like), D = [1 1] (1x2)
	a := lafem.NewCSRFromTriplets(2, 2, []int{0, 1}, []int{0, 1}, []float64{2, 2})
	b := lafem.NewCSRFromTriplets(2, 2, []int{0, 1}, []int{0, 1}, []float64{1, 1})
	d := lafem.NewCSRFromTriplets(1, 2, []int{0, 0}, []int{0, 1}, []float64{1, 1})

	sp := NewSaddlePointMatrix(csrOp{a}, csrOp{b}, csrOp{d})

	u := lafem.NewDenseVectorFromSlice([]float64{1, 2})
	pvec := lafem.NewDenseVectorFromSlice([]float64{10, 20})
	x := NewTupleVector(WrapDense(u), WrapDense(pvec))

	ru := lafem.NewDenseVector(2)
	rp := lafem.NewDenseVector(1)
	r := NewTupleVector(WrapDense(ru), WrapDense(rp))

	sp.Apply(r, x)

	require.InDelta(t, 2*1+10, ru.At(0), 1e-9)
	require.InDelta(t, 2*2+20, ru.At(1), 1e-9)
	require.InDelta(t, 1+2, rp.At(0), 1e-9)
}

func TestTupleDiagMatrixDirectSum(t *testing.T) {
	a := lafem.NewCSRFromTriplets(2, 2, []int{0, 1}, []int{0, 1}, []float64{3, 3})
	b := lafem.NewCSRFromTriplets(1, 1, []int{0}, []int{0}, []float64{5})
	diag := NewTupleDiagMatrix(csrOp{a}, csrOp{b})

	x := NewTupleVector(WrapDense(lafem.NewDenseVectorFromSlice([]float64{1, 2})), WrapDense(lafem.NewDenseVectorFromSlice([]float64{4})))
	r := NewTupleVector(WrapDense(lafem.NewDenseVector(2)), WrapDense(lafem.NewDenseVector(1)))
	diag.Apply(r, x, 1, nil)

	assert.InDelta(t, 3.0, r.Block(0).(denseAdapter).v.At(0), 1e-9)
	assert.InDelta(t, 6.0, r.Block(0).(denseAdapter).v.At(1), 1e-9)
	assert.InDelta(t, 20.0, r.Block(1).(denseAdapter).v.At(0), 1e-9)
}
