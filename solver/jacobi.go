package solver

import "github.com/haoxiangmiao/feat3-sub001/lafem"

// Jacobi is the damped Jacobi smoother/preconditioner: correction[i] +=
// omega * (defect[i] - (A*correction)[i]) / A[i,i], which from a zero
// correction is omega * defect[i] / A[i,i]. Grounded on §4.1's CSR row-scan contract;
// the diagonal is extracted once in Init and cached.
type Jacobi struct {
	Base
	A     *lafem.SparseMatrixCSR
	Omega float64

	diagInv *lafem.DenseVector
}

// NewJacobi builds a Jacobi smoother over CSR matrix a with damping
// factor omega (1.0 for undamped Jacobi).
func NewJacobi(a *lafem.SparseMatrixCSR, omega float64) *Jacobi {
	return &Jacobi{Base: NewBase("Jacobi"), A: a, Omega: omega}
}

func (j *Jacobi) Init() {
	n := j.A.Rows()
	j.diagInv = lafem.NewDenseVector(n)
	d := j.diagInv.Elements()
	rp, ci, val := j.A.RowPtr(), j.A.ColInd(), j.A.Values()
	for i := 0; i < n; i++ {
		d[i] = 0
		for k := rp[i]; k < rp[i+1]; k++ {
			if ci[k] == i {
				d[i] = 1 / val[k]
				break
			}
		}
	}
}

func (j *Jacobi) Done() { j.diagInv = nil }

// Apply performs one damped-Jacobi sweep (a single application, as
// §4.7 expects of a smoother handle used inside a multigrid cycle); a
// caller wanting an iterative Jacobi *solver* instead wraps this in
// Richardson with omega=1 and this as the preconditioner.
func (j *Jacobi) Apply(correction, defect *lafem.DenseVector) Status {
	n := defect.Size()
	ax := lafem.NewDenseVector(n)
	lafem.SpMVCSR(ax, j.A, correction, 1, nil)
	cd, dd, axd, invd := correction.Elements(), defect.Elements(), ax.Elements(), j.diagInv.Elements()
	for i := 0; i < n; i++ {
		cd[i] += j.Omega * invd[i] * (dd[i] - axd[i])
	}
	return StatusSuccess
}
