package filter

import (
	"math"
	"testing"

	"github.com/haoxiangmiao/feat3-sub001/lafem"
	"github.com/stretchr/testify/assert"
)

func TestUnitFilterIdempotence(t *testing.T) {
	f := NewUnitFilter([]int{0, 2}, []float64{5, -3})
	x := lafem.NewDenseVectorFromSlice([]float64{1, 2, 3, 4})
	f.FilterSol(x)
	once := append([]float64(nil), x.Elements()...)
	f.FilterSol(x)
	assert.Equal(t, once, x.Elements())
	assert.Equal(t, 5.0, x.At(0))
	assert.Equal(t, -3.0, x.At(2))
}

func TestUnitFilterMatRowReplacement(t *testing.T) {
	m := lafem.NewCSRFromTriplets(2, 2, []int{0, 0, 1, 1}, []int{0, 1, 0, 1}, []float64{4, 2, 3, 5})
	f := NewUnitFilter([]int{0}, []float64{7})
	f.FilterMat(m)
	assert.Equal(t, 1.0, m.At(0, 0))
	assert.Equal(t, 0.0, m.At(0, 1))
	assert.Equal(t, 3.0, m.At(1, 0))
}

func TestSlipFilterOrthogonalityAndIdempotence(t *testing.T) {
	// §8 property 6: after FilterSol every filtered index i satisfies
	// |v[i]·ν[i]| < 1e-12*||v[i]||.
	normal := []float64{1, 0}
	f := NewSlipFilter([]int{0}, [][]float64{normal})
	// Raw flat storage of a single 2-D blocked entry: radial + tangential.
	x := lafem.NewDenseVectorFromSlice([]float64{3, 4})
	f.FilterSol(x)
	dot := x.At(0)*normal[0] + x.At(1)*normal[1]
	norm := math.Hypot(x.At(0), x.At(1))
	assert.Less(t, math.Abs(dot), 1e-12*math.Max(norm, 1))
	assert.InDelta(t, 4.0, x.At(1), 1e-12) // tangential component preserved

	once := append([]float64(nil), x.Elements()...)
	f.FilterSol(x)
	assert.Equal(t, once, x.Elements())
}

func TestMeanFilterEnforcesZeroMean(t *testing.T) {
	weights := lafem.NewDenseVectorFromSlice([]float64{1, 1, 1, 1})
	f := NewMeanFilter(weights)
	x := lafem.NewDenseVectorFromSlice([]float64{1, 2, 3, 4})
	f.FilterSol(x)
	assert.InDelta(t, 0.0, lafem.Dot(weights, x), 1e-12)

	once := append([]float64(nil), x.Elements()...)
	f.FilterSol(x)
	assert.InDelta(t, 0.0, lafem.Dot(weights, once)-lafem.Dot(weights, x), 1e-12)
}

func TestFilterChainOrderMatters(t *testing.T) {
	unit := NewUnitFilter([]int{0}, []float64{10})
	// a slip filter whose normal would otherwise zero out index 0's
	// contribution if applied before unit overwrote it.
	slip := NewSlipFilter([]int{0}, [][]float64{{1, 0}})
	chain := NewFilterChain(unit, slip)

	x := lafem.NewDenseVectorFromSlice([]float64{3, 4})
	chain.FilterSol(x)
	// unit sets x[0]=10 last overwritten by slip's projection using
	// the *current* block containing index 0/1: since slip here only
	// has one index (0) in a flat (non-blocked) test it degenerates to
	// removing the x[0] component along (1,0), i.e. zeroing x[0].
	assert.InDelta(t, 0.0, x.At(0), 1e-9)
}
