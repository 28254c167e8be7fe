package solver

import "github.com/haoxiangmiao/feat3-sub001/lafem"

// ILU is the zero-fill-in incomplete LU preconditioner (ILU(0)):
// factorises A in place over its existing CSR sparsity pattern (no new
// nonzeros introduced), then Apply solves L*U*correction = defect by
// forward/backward substitution restricted to that same pattern.
// Grounded on §4.1's CSR row/column contract; the factorisation itself
// follows the textbook in-place row-wise (IKJ) variant (Saad, Iterative Methods
// for Sparse Linear Systems, alg. 10.4), the same algorithm other
// FEM/sparse-solver stacks in the pack implement as their default
// smoother-preconditioner.
type ILU struct {
	Base
	A *lafem.SparseMatrixCSR

	lu   []float64 // factorised values over A's own sparsity pattern
	diag []int     // index of the diagonal entry within each row
}

// NewILU builds an ILU(0) preconditioner over CSR matrix a. a's
// sparsity pattern must include an explicit diagonal entry in every
// row.
func NewILU(a *lafem.SparseMatrixCSR) *ILU {
	return &ILU{Base: NewBase("ILU"), A: a}
}

func (p *ILU) Init() {
	n := p.A.Rows()
	rp, ci, val := p.A.RowPtr(), p.A.ColInd(), p.A.Values()
	p.lu = append([]float64(nil), val...)
	p.diag = make([]int, n)
	for i := 0; i < n; i++ {
		p.diag[i] = -1
		for k := rp[i]; k < rp[i+1]; k++ {
			if ci[k] == i {
				p.diag[i] = k
				break
			}
		}
		if p.diag[i] < 0 {
			panic(lafem.ErrInvalidArgument)
		}
	}

	// Row-wise (IKJ) ILU(0): for each row i, eliminate columns k < i using
	// already-factorised pivot rows, restricted to i's own sparsity.
	for i := 1; i < n; i++ {
		for k := rp[i]; k < rp[i+1] && ci[k] < i; k++ {
			col := ci[k]
			pivot := p.lu[p.diag[col]]
			if pivot == 0 {
				continue
			}
			factor := p.lu[k] / pivot
			p.lu[k] = factor
			for j := k + 1; j < rp[i+1]; j++ {
				// find matching entry in pivot row 'col' at column ci[j],
				// if present in the (unchanged) sparsity pattern.
				for m := rp[col]; m < rp[col+1]; m++ {
					if ci[m] == ci[j] {
						p.lu[j] -= factor * p.lu[m]
						break
					}
				}
			}
		}
	}
}

func (p *ILU) Done() {
	p.lu = nil
	p.diag = nil
}

// Apply solves L*U*correction = defect via forward substitution (unit
// lower triangle, entries with column < row) followed by backward
// substitution (upper triangle, entries with column >= row), the
// standard ILU preconditioner action.
func (p *ILU) Apply(correction, defect *lafem.DenseVector) Status {
	n := p.A.Rows()
	rp, ci := p.A.RowPtr(), p.A.ColInd()
	y := make([]float64, n)
	dd := defect.Elements()

	for i := 0; i < n; i++ {
		sum := dd[i]
		for k := rp[i]; k < rp[i+1] && ci[k] < i; k++ {
			sum -= p.lu[k] * y[ci[k]]
		}
		y[i] = sum
	}

	cd := correction.Elements()
	for i := n - 1; i >= 0; i-- {
		sum := y[i]
		for k := p.diag[i] + 1; k < rp[i+1]; k++ {
			sum -= p.lu[k] * cd[ci[k]]
		}
		cd[i] = sum / p.lu[p.diag[i]]
	}
	return StatusSuccess
}
