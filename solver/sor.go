package solver

import "github.com/haoxiangmiao/feat3-sub001/lafem"

// SOR is the (damped) successive-over-relaxation smoother: a single
// forward Gauss-Seidel sweep with relaxation factor omega, applied
// directly against the CSR row structure (§4.1). Used both standalone
// as a coarse-grid smoother and as the building block for SSOR (forward
// then backward sweep) inside the Schwarz layer-0 functor (§4.9).
type SOR struct {
	Base
	A        *lafem.SparseMatrixCSR
	Omega    float64
	Symmetric bool // true selects SSOR (forward sweep then backward sweep)
}

// NewSOR builds an SOR smoother over CSR matrix a with relaxation omega
// (1.0 recovers plain Gauss-Seidel).
func NewSOR(a *lafem.SparseMatrixCSR, omega float64) *SOR {
	return &SOR{Base: NewBase("SOR"), A: a, Omega: omega}
}

// NewSSOR builds a symmetric SOR smoother (forward then backward
// sweep), the standard choice for a self-adjoint preconditioner inside
// PCG.
func NewSSOR(a *lafem.SparseMatrixCSR, omega float64) *SOR {
	return &SOR{Base: NewBase("SSOR"), A: a, Omega: omega, Symmetric: true}
}

func (s *SOR) Init() {}
func (s *SOR) Done() {}

// Apply performs one (S)SOR sweep: correction[i] = correction[i] +
// omega * (defect[i] - sum_j A[i,j]*correction[j]) / A[i,i], the sum
// including j == i, row by row in increasing i (and, if Symmetric, once
// more in decreasing i).
func (s *SOR) Apply(correction, defect *lafem.DenseVector) Status {
	s.sweepForward(correction, defect)
	if s.Symmetric {
		s.sweepBackward(correction, defect)
	}
	return StatusSuccess
}

func (s *SOR) sweepForward(correction, defect *lafem.DenseVector) {
	rp, ci, val := s.A.RowPtr(), s.A.ColInd(), s.A.Values()
	cd, dd := correction.Elements(), defect.Elements()
	for i := 0; i < s.A.Rows(); i++ {
		s.relaxRow(i, rp, ci, val, cd, dd)
	}
}

func (s *SOR) sweepBackward(correction, defect *lafem.DenseVector) {
	rp, ci, val := s.A.RowPtr(), s.A.ColInd(), s.A.Values()
	cd, dd := correction.Elements(), defect.Elements()
	for i := s.A.Rows() - 1; i >= 0; i-- {
		s.relaxRow(i, rp, ci, val, cd, dd)
	}
}

func (s *SOR) relaxRow(i int, rp, ci []int, val []float64, cd, dd []float64) {
	var sum float64
	var diag float64
	for k := rp[i]; k < rp[i+1]; k++ {
		if ci[k] == i {
			diag = val[k]
			continue
		}
		sum += val[k] * cd[ci[k]]
	}
	if diag == 0 {
		return
	}
	cd[i] += s.Omega * (dd[i] - sum - diag*cd[i]) / diag
}
