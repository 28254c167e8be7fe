package filter

import "github.com/haoxiangmiao/feat3-sub001/lafem"

// UnitFilter holds an index list and a matching value list (e.g.
// Dirichlet boundary data): FilterSol sets x[i]=v[i], FilterRHS sets
// d[i]=0, FilterMat replaces row i with the identity row e_i (§3).
type UnitFilter struct {
	Indices []int
	Values  []float64
}

var _ Filter = (*UnitFilter)(nil)

// NewUnitFilter builds a UnitFilter over the given (index, value)
// pairs. indices and values must be the same length.
func NewUnitFilter(indices []int, values []float64) *UnitFilter {
	if len(indices) != len(values) {
		panic(lafem.ErrSizeMismatch)
	}
	idx := make([]int, len(indices))
	copy(idx, indices)
	val := make([]float64, len(values))
	copy(val, values)
	return &UnitFilter{Indices: idx, Values: val}
}

// FilterSol sets x[i] = v[i] for every filtered index.
func (f *UnitFilter) FilterSol(x *lafem.DenseVector) {
	data := x.Elements()
	for k, i := range f.Indices {
		data[i] = f.Values[k]
	}
}

// FilterRHS sets d[i] = 0 for every filtered index (a defect vector
// has no correction to apply at a constrained dof).
func (f *UnitFilter) FilterRHS(d *lafem.DenseVector) {
	data := d.Elements()
	for _, i := range f.Indices {
		data[i] = 0
	}
}

// FilterMat replaces every filtered row of a with the identity row e_i.
func (f *UnitFilter) FilterMat(a *lafem.SparseMatrixCSR) {
	rp, ci, val := a.RowPtr(), a.ColInd(), a.Values()
	for _, i := range f.Indices {
		for k := rp[i]; k < rp[i+1]; k++ {
			if ci[k] == i {
				val[k] = 1
			} else {
				val[k] = 0
			}
		}
	}
}
