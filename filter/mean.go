package filter

import "github.com/haoxiangmiao/feat3-sub001/lafem"

// MeanFilter is a rank-1 projection enforcing ∫u = 0 (§3): it holds a
// weight vector w (the cubature/volume weight of each dof) and its
// squared norm w·w; FilterSol/FilterRHS subtract the weighted mean from every
// component: x -= (w·x / w·w) * w.
type MeanFilter struct {
	weights   *lafem.DenseVector
	weightSqr float64
}

var _ Filter = (*MeanFilter)(nil)

// NewMeanFilter builds a MeanFilter from a per-dof weight vector
// (typically the lumped mass/volume of each dof).
func NewMeanFilter(weights *lafem.DenseVector) *MeanFilter {
	return &MeanFilter{weights: weights, weightSqr: lafem.Dot(weights, weights)}
}

func (f *MeanFilter) project(v *lafem.DenseVector) {
	if f.weightSqr == 0 {
		return
	}
	coeff := lafem.Dot(f.weights, v) / f.weightSqr
	data := v.Elements()
	w := f.weights.Elements()
	for i := range data {
		data[i] -= coeff * w[i]
	}
}

// FilterSol enforces the zero-mean constraint on a solution vector.
func (f *MeanFilter) FilterSol(x *lafem.DenseVector) { f.project(x) }

// FilterRHS enforces the zero-mean constraint on a defect vector.
func (f *MeanFilter) FilterRHS(d *lafem.DenseVector) { f.project(d) }

// FilterMat is a no-op: the mean constraint is a rank-1 vector-space
// projection, not a row rewrite (mirrors the real implementation,
// which never mutates the matrix for a pure compatibility condition).
func (f *MeanFilter) FilterMat(a *lafem.SparseMatrixCSR) {}
