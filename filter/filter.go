// Package filter implements the boundary-condition filters of §3/§4.5:
// unit, slip, mean, and sequential filter-chain composition, plus
// tuple/power per-block application for meta-containers.
package filter

import (
	"github.com/haoxiangmiao/feat3-sub001/lafem"
)

// Filter is the common contract every boundary-condition filter
// implements: FilterMat rewrites a system matrix's structure,
// FilterRHS/FilterSol rewrite a defect/solution vector. §4.5:
// FilterMat must be called before any FilterRHS/FilterSol on a linear
// system. All filters are idempotent once the matrix has been
// filtered to match.
type Filter interface {
	FilterMat(a *lafem.SparseMatrixCSR)
	FilterRHS(d *lafem.DenseVector)
	FilterSol(x *lafem.DenseVector)
}
