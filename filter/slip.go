package filter

import "github.com/haoxiangmiao/feat3-sub001/lafem"

// SlipFilter holds a sparse normal-vector field ν[i] over a set of
// blocked dofs (e.g. vertex coordinates on a slip boundary): it removes
// the component of a blocked vector along ν[i], leaving the tangential
// space free (§3, §4.5).
//
// Unlike UnitFilter, SlipFilter does not rewrite the system matrix: the
// normal constraint is enforced purely at the vector level (FilterSol/
// FilterRHS), matching the assembly-time idiom the source uses where
// the slip normal field is computed and synchronised independently of
// the matrix structure (§4.5). FilterMat is therefore a documented
// no-op — callers must not rely on it to change conditioning the way
// UnitFilter's row replacement does.
type SlipFilter struct {
	indices []int
	normals [][]float64 // one unit-length normal per index, length = blockSize
}

var _ Filter = (*SlipFilter)(nil)

// NewSlipFilter builds a SlipFilter from a set of (index, normal)
// pairs. Every normal must already be normalised by the caller (the
// assembly-time normalisation of §4.5 happens before construction, not
// here, so unit tests can supply exact normals).
func NewSlipFilter(indices []int, normals [][]float64) *SlipFilter {
	if len(indices) != len(normals) {
		panic(lafem.ErrSizeMismatch)
	}
	idx := make([]int, len(indices))
	copy(idx, indices)
	nrm := make([][]float64, len(normals))
	for i, n := range normals {
		nrm[i] = append([]float64(nil), n...)
	}
	return &SlipFilter{indices: idx, normals: nrm}
}

func removeNormalComponent(block, normal []float64) {
	var dot float64
	for i, n := range normal {
		dot += block[i] * n
	}
	for i, n := range normal {
		block[i] -= dot * n
	}
}

// FilterSolBlocked removes the normal component at every filtered
// index of a blocked vector: x[i] -= (x[i]·ν[i])ν[i] (§3).
func (f *SlipFilter) FilterSolBlocked(x *lafem.DenseVectorBlocked) {
	for k, i := range f.indices {
		removeNormalComponent(x.Block(i), f.normals[k])
	}
}

// FilterRHSBlocked applies the same normal-removal to a blocked defect
// vector.
func (f *SlipFilter) FilterRHSBlocked(d *lafem.DenseVectorBlocked) {
	f.FilterSolBlocked(d)
}

// FilterSol/FilterRHS/FilterMat satisfy the scalar Filter interface by
// operating on the flat raw view of a blocked vector sharing this
// filter's blockSize; callers working with blocked coordinate vectors
// should prefer FilterSolBlocked/FilterRHSBlocked directly.
func (f *SlipFilter) FilterSol(x *lafem.DenseVector) {
	blockSize := 0
	if len(f.normals) > 0 {
		blockSize = len(f.normals[0])
	}
	if blockSize == 0 {
		return
	}
	data := x.Elements()
	for k, i := range f.indices {
		block := data[i*blockSize : i*blockSize+blockSize]
		removeNormalComponent(block, f.normals[k])
	}
}

func (f *SlipFilter) FilterRHS(d *lafem.DenseVector) { f.FilterSol(d) }

func (f *SlipFilter) FilterMat(a *lafem.SparseMatrixCSR) {}
