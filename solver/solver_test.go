package solver

import (
	"testing"

	"github.com/haoxiangmiao/feat3-sub001/lafem"
	"github.com/haoxiangmiao/feat3-sub001/meta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// spd5 builds the classic 5x5 tridiagonal SPD test matrix (2 on the
// diagonal, -1 off-diagonal), the standard toy Poisson-1D system used
// for property 9.
func spd5() *lafem.SparseMatrixCSR {
	var rows, cols []int
	var vals []float64
	n := 5
	for i := 0; i < n; i++ {
		rows = append(rows, i)
		cols = append(cols, i)
		vals = append(vals, 2)
		if i > 0 {
			rows = append(rows, i)
			cols = append(cols, i-1)
			vals = append(vals, -1)
		}
		if i < n-1 {
			rows = append(rows, i)
			cols = append(cols, i+1)
			vals = append(vals, -1)
		}
	}
	return lafem.NewCSRFromTriplets(n, n, rows, cols, vals)
}

func TestPCGConvergesOnSPD(t *testing.T) {
	a := spd5()
	op := CSROperator{M: a}
	b := lafem.NewDenseVectorFromSlice([]float64{1, 0, 0, 0, 1})
	x := lafem.NewDenseVector(5)

	pcg := NewPCG(op, nil)
	pcg.SetMaxIter(20)
	pcg.SetTolRel(1e-10)
	pcg.Init()
	defer pcg.Done()

	status := pcg.Apply(x, b)
	assert.Equal(t, StatusSuccess, status)

	residual := lafem.NewDenseVector(5)
	op.Apply(residual, x, -1, b)
	assert.Less(t, lafem.Norm2(residual), 1e-8)
}

func TestRichardsonWithJacobiPrecon(t *testing.T) {
	a := spd5()
	op := CSROperator{M: a}
	jac := NewJacobi(a, 1.0)
	jac.Init()

	r := NewRichardson(op, jac, 0.5)
	r.SetMaxIter(500)
	r.SetTolRel(1e-9)
	r.Init()

	b := lafem.NewDenseVectorFromSlice([]float64{1, 1, 1, 1, 1})
	x := lafem.NewDenseVector(5)
	status := r.Apply(x, b)
	assert.Equal(t, StatusSuccess, status)
}

func TestSORMonotonicityOnSPD(t *testing.T) {
	// §8 property 9: ||b - A x_{k+1}|| <= ||b - A x_k|| for omega in (0,2).
	a := spd5()
	op := CSROperator{M: a}
	b := lafem.NewDenseVectorFromSlice([]float64{1, 2, 3, 2, 1})
	x := lafem.NewDenseVector(5)

	sor := NewSOR(a, 1.2)
	sor.Init()

	residual := lafem.NewDenseVector(5)
	op.Apply(residual, x, -1, b)
	prevNorm := lafem.Norm2(residual)

	for k := 0; k < 20; k++ {
		status := sor.Apply(x, b)
		require.Equal(t, StatusSuccess, status)
		op.Apply(residual, x, -1, b)
		norm := lafem.Norm2(residual)
		assert.LessOrEqual(t, norm, prevNorm+1e-12)
		prevNorm = norm
	}
}

func TestBiCGStabConvergesOnNonsymmetric(t *testing.T) {
	rows := []int{0, 0, 1, 1, 2, 2}
	cols := []int{0, 1, 0, 1, 1, 2}
	vals := []float64{4, 1, 0, 3, -1, 2}
	a := lafem.NewCSRFromTriplets(3, 3, rows, cols, vals)
	op := CSROperator{M: a}

	b := lafem.NewDenseVectorFromSlice([]float64{5, 3, 1})
	x := lafem.NewDenseVector(3)

	solver := NewBiCGStab(op, nil)
	solver.SetMaxIter(50)
	solver.SetTolRel(1e-10)
	solver.Init()

	status := solver.Apply(x, b)
	assert.Equal(t, StatusSuccess, status)

	residual := lafem.NewDenseVector(3)
	op.Apply(residual, x, -1, b)
	assert.Less(t, lafem.Norm2(residual), 1e-7)
}

// identityBlock is a trivial BlockMethod exact-solving A*correction =
// defect when A is the identity (the §8 property 10 configuration).
type identityBlock struct{}

func (identityBlock) Init()                                  {}
func (identityBlock) Done()                                  {}
func (identityBlock) Apply(correction, defect meta.Vector) Status {
	correction.Copy(defect)
	return StatusSuccess
}

// identityOperator implements meta.Operator as the identity map, used
// to build a simple invertible saddle-point system for the Schur
// preconditioner test.
type identityOperator struct{ scale float64 }

func (o identityOperator) Apply(r, x meta.Vector, alpha float64, y meta.Vector) {
	r.Scale(x, alpha*o.scale)
	if y != nil {
		r.Axpy(r, y, 1)
	}
}

func TestSchurPreconConvergesQuickly(t *testing.T) {
	// §8 property 10 configuration on [A B; D 0], A=I, B=D=I (invertible,
	// full rank, same-sized u/p blocks so the toy identity operator is
	// dimensionally well-posed), with identity inner solves for both A^-1
	// and S^-1. One application of the SchurFull variant carries out the
	// block-LU steps below. The identity S^-1 ignores the sign of
	// S = -D*A^-1*B, so the result is that block-LU action, not the exact
	// solution (u=3, p=-2) of the system.
	b := identityOperator{scale: 1}
	d := identityOperator{scale: 1}
	precon := NewSchur(b, d, identityBlock{}, identityBlock{}, SchurFull)
	precon.Init()
	defer precon.Done()

	uDefect := lafem.NewDenseVectorFromSlice([]float64{1})
	pDefect := lafem.NewDenseVectorFromSlice([]float64{3})
	defect := meta.NewTupleVector(meta.WrapDense(uDefect), meta.WrapDense(pDefect))

	uCorr := lafem.NewDenseVector(1)
	pCorr := lafem.NewDenseVector(1)
	correction := meta.NewTupleVector(meta.WrapDense(uCorr), meta.WrapDense(pCorr))

	status := precon.Apply(correction, defect)
	require.Equal(t, StatusSuccess, status)
	// u1 = fu = 1; p = fp - D*u1 = 3 - 1 = 2; u2 = B*p = 2; u = u1 - u2 = -1.
	assert.InDelta(t, -1.0, uCorr.At(0), 1e-9)
	assert.InDelta(t, 2.0, pCorr.At(0), 1e-9)
}

func TestDenseDirectSolverSolvesExactly(t *testing.T) {
	// Same 2x2 system as the Schwarz patch smoother would see for a
	// two-dof overlap region: [[2,1],[1,2]] * x = [4,5].
	a := mat.NewDense(2, 2, []float64{2, 1, 1, 2})
	solver := NewDenseDirectSolver(a)
	solver.Init()
	defer solver.Done()

	defect := lafem.NewDenseVectorFromSlice([]float64{4, 5})
	correction := lafem.NewDenseVector(2)
	status := solver.Apply(correction, defect)
	require.Equal(t, StatusSuccess, status)
	assert.InDelta(t, 1.0, correction.At(0), 1e-9)
	assert.InDelta(t, 2.0, correction.At(1), 1e-9)
}
