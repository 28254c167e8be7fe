package solver

import (
	"math"

	"github.com/haoxiangmiao/feat3-sub001/lafem"
)

// FGMRES is the flexible restarted GMRES method, allowing the
// preconditioner to vary between Krylov steps (e.g. an inner multigrid
// V-cycle run to a loose tolerance), grounded on gonum's
// linsolve/gmres.go Arnoldi-process-plus-Givens-rotation construction,
// adapted to this package's run-to-completion Apply contract with an
// explicit restart length.
type FGMRES struct {
	Base
	A       Operator
	Precon  Method
	Restart int // Krylov subspace dimension before restart (default 30)

	n        int
	v        []*lafem.DenseVector // orthonormal basis, len Restart+1
	z        []*lafem.DenseVector // preconditioned basis, len Restart
	h        [][]float64          // Hessenberg, (Restart+1) x Restart
	cs, sn   []float64            // Givens rotation coefficients
	g        []float64            // transformed RHS
	scratch  *lafem.DenseVector
}

// NewFGMRES builds an FGMRES solver for operator a with optional
// (possibly varying) preconditioner precon and Krylov restart length
// restart (pass 0 for the default of 30).
func NewFGMRES(a Operator, precon Method, restart int) *FGMRES {
	if restart <= 0 {
		restart = 30
	}
	return &FGMRES{Base: NewBase("FGMRES"), A: a, Precon: precon, Restart: restart}
}

func (f *FGMRES) Init() {
	if f.Precon != nil {
		f.Precon.Init()
	}
}

func (f *FGMRES) Done() {
	if f.Precon != nil {
		f.Precon.Done()
	}
}

func (f *FGMRES) alloc(n int) {
	if f.n == n && f.v != nil {
		return
	}
	f.n = n
	m := f.Restart
	f.v = make([]*lafem.DenseVector, m+1)
	f.z = make([]*lafem.DenseVector, m)
	for i := range f.v {
		f.v[i] = lafem.NewDenseVector(n)
	}
	for i := range f.z {
		f.z[i] = lafem.NewDenseVector(n)
	}
	f.h = make([][]float64, m+1)
	for i := range f.h {
		f.h[i] = make([]float64, m)
	}
	f.cs = make([]float64, m)
	f.sn = make([]float64, m)
	f.g = make([]float64, m+1)
	f.scratch = lafem.NewDenseVector(n)
}

func (f *FGMRES) precondition(out, in *lafem.DenseVector) {
	if f.Precon == nil {
		lafem.Copy(out, in)
		return
	}
	lafem.Scale(out, out, 0)
	f.Precon.Apply(out, in)
}

// Apply runs FGMRES with restarts until convergence or MaxIter total
// Krylov steps have been taken.
func (f *FGMRES) Apply(correction, defect *lafem.DenseVector) Status {
	f.alloc(defect.Size())
	f.A.Apply(f.scratch, correction, -1, defect)
	f.start(lafem.Norm2(f.scratch))
	if f.converged(f.defectInit) {
		return StatusSuccess
	}

	total := 0
	for total < f.MaxIter {
		beta := lafem.Norm2(f.scratch)
		if beta == 0 {
			return StatusSuccess
		}
		lafem.Scale(f.v[0], f.scratch, 1/beta)
		f.g[0] = beta
		for i := 1; i < len(f.g); i++ {
			f.g[i] = 0
		}

		m := f.Restart
		k := 0
		for ; k < m && total < f.MaxIter; k++ {
			total++
			f.precondition(f.z[k], f.v[k])
			f.A.Apply(f.v[k+1], f.z[k], 1, nil)

			for i := 0; i <= k; i++ {
				f.h[i][k] = lafem.Dot(f.v[k+1], f.v[i])
				lafem.Axpy(f.v[k+1], f.v[i], f.v[k+1], -f.h[i][k])
			}
			hNext := lafem.Norm2(f.v[k+1])
			f.h[k+1][k] = hNext
			if hNext > 1e-300 {
				lafem.Scale(f.v[k+1], f.v[k+1], 1/hNext)
			}

			for i := 0; i < k; i++ {
				applyGivens(f.h[i], f.h[i+1], k, f.cs[i], f.sn[i])
			}
			cs, sn := givensCoeffs(f.h[k][k], f.h[k+1][k])
			f.cs[k], f.sn[k] = cs, sn
			f.h[k][k] = cs*f.h[k][k] + sn*f.h[k+1][k]
			f.h[k+1][k] = 0
			f.g[k+1] = -sn * f.g[k]
			f.g[k] = cs * f.g[k]

			resid := math.Abs(f.g[k+1])
			f.defectFinal = resid
			if f.diverged(resid) {
				return StatusDiverged
			}
			if f.converged(resid) {
				k++
				break
			}
		}
		f.updateSolution(correction, k)
		if f.converged(f.defectFinal) {
			return StatusSuccess
		}
		f.A.Apply(f.scratch, correction, -1, defect)
		norm := lafem.Norm2(f.scratch)
		f.defectFinal = norm
		if f.converged(norm) {
			return StatusSuccess
		}
		if f.diverged(norm) {
			return StatusDiverged
		}
	}
	return StatusMaxIter
}

// updateSolution solves the k x k upper-triangular system H*y = g by
// back substitution and accumulates correction += sum_i y_i * z_i.
func (f *FGMRES) updateSolution(correction *lafem.DenseVector, k int) {
	if k == 0 {
		return
	}
	y := make([]float64, k)
	for i := k - 1; i >= 0; i-- {
		sum := f.g[i]
		for j := i + 1; j < k; j++ {
			sum -= f.h[i][j] * y[j]
		}
		y[i] = sum / f.h[i][i]
	}
	for i := 0; i < k; i++ {
		lafem.Axpy(correction, f.z[i], correction, y[i])
	}
}

func givensCoeffs(a, b float64) (cs, sn float64) {
	if b == 0 {
		return 1, 0
	}
	r := math.Hypot(a, b)
	return a / r, b / r
}

func applyGivens(hi, hi1 []float64, k int, cs, sn float64) {
	a, b := hi[k], hi1[k]
	hi[k] = cs*a + sn*b
	hi1[k] = -sn*a + cs*b
}
