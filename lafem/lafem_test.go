package lafem

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDenseVectorCloneIdempotence(t *testing.T) {
	v := NewDenseVectorFromSlice([]float64{1, 2, 3, 4})
	clone := v.Clone(CloneDeep)
	assert.Equal(t, v.Elements(), clone.Elements())
	clone.SetAt(0, 99)
	assert.NotEqual(t, v.At(0), clone.At(0), "mutating a deep clone must not affect the source")
}

func TestDenseVectorShallowAliases(t *testing.T) {
	v := NewDenseVectorFromSlice([]float64{1, 2, 3})
	shallow := v.Clone(CloneShallow)
	shallow.SetAt(0, 42)
	assert.Equal(t, 42.0, v.At(0), "shallow clone must alias storage")
}

func TestDenseVectorBinaryRoundTrip(t *testing.T) {
	// S5: 17-element vector, binary round trip must be bit-exact.
	data := make([]float64, 17)
	for i := range data {
		data[i] = float64(i) * 1.5
	}
	v := NewDenseVectorFromSlice(data)
	var buf bytes.Buffer
	require.NoError(t, WriteDenseVectorBinary(&buf, v))
	got, err := ReadDenseVectorBinary(&buf)
	require.NoError(t, err)
	assert.Equal(t, v.Elements(), got.Elements())
}

func TestDenseVectorMatrixMarketRoundTrip(t *testing.T) {
	data := []float64{1.0 / 3.0, -2.5, 0, 1e10}
	v := NewDenseVectorFromSlice(data)
	var buf bytes.Buffer
	require.NoError(t, WriteDenseVectorMatrixMarket(&buf, v))
	got, err := ReadDenseVectorMatrixMarket(&buf)
	require.NoError(t, err)
	require.Equal(t, v.Size(), got.Size())
	for i := range data {
		assert.InDelta(t, data[i], got.At(i), 1e-12)
	}
}

func TestCSRRoundTrip(t *testing.T) {
	m := NewCSRFromTriplets(3, 3,
		[]int{0, 0, 1, 2},
		[]int{0, 2, 1, 2},
		[]float64{4, 1, 5, 6})
	var buf bytes.Buffer
	require.NoError(t, WriteCSRBinary(&buf, m))
	got, err := ReadCSRBinary(&buf)
	require.NoError(t, err)
	assert.Equal(t, m.RowPtr(), got.RowPtr())
	assert.Equal(t, m.ColInd(), got.ColInd())
	assert.Equal(t, m.Values(), got.Values())
}

func TestSpMVMatchesDense(t *testing.T) {
	// §8 property 3: A*x equals A.ToDense()*x within tolerance.
	m := NewCSRFromTriplets(3, 3,
		[]int{0, 0, 1, 2, 2},
		[]int{0, 2, 1, 0, 2},
		[]float64{4, 1, 5, 2, 6})
	x := NewDenseVectorFromSlice([]float64{1, 2, 3})
	r := NewDenseVector(3)
	SpMVCSR(r, m, x, 1, nil)

	dense := m.ToDense()
	for i := 0; i < 3; i++ {
		var want float64
		for j := 0; j < 3; j++ {
			want += dense.At(i, j) * x.At(j)
		}
		assert.InDelta(t, want, r.At(i), 1e-9)
	}
}

func TestCSRTransposeIdempotence(t *testing.T) {
	// §8 property 4: (P^T)^T == P.
	m := NewCSRFromTriplets(2, 3, []int{0, 0, 1}, []int{0, 2, 1}, []float64{4, 1, 5})
	tt := m.Transpose().Transpose()
	assert.Equal(t, m.ToDense().RawMatrix().Data, tt.ToDense().RawMatrix().Data)
}

func TestBandedSpMVOutOfRangeRejected(t *testing.T) {
	assert.Panics(t, func() {
		NewBandedLayout(3, 3, []int{100})
	})
}

func TestBandedSpMV(t *testing.T) {
	// Offset o addresses column i+o+1-rows, so for rows=3 the offsets
	// 1, 2, 3 are the sub-, main and super-diagonal.
	m := NewBandedLayout(3, 3, []int{1, 2, 3})
	vals := m.Values()
	// main diagonal = 2, off-diagonals = -1 (1-D Laplace stencil).
	for i := 0; i < 3; i++ {
		vals[1*3+i] = 2
	}
	for i := 0; i < 2; i++ {
		vals[2*3+i] = -1 // super-diagonal
		vals[0*3+i+1] = -1 // sub-diagonal
	}
	x := NewDenseVectorFromSlice([]float64{1, 1, 1})
	r := NewDenseVector(3)
	SpMVBanded(r, m, x, 1, nil)
	assert.InDelta(t, 1.0, r.At(0), 1e-12)
	assert.InDelta(t, 0.0, r.At(1), 1e-12)
	assert.InDelta(t, 1.0, r.At(2), 1e-12)
}

func TestSparseVectorLazySortLastWriterWins(t *testing.T) {
	v := NewSparseVector(5)
	v.Insert(2, 1.0)
	v.Insert(0, 5.0)
	v.Insert(2, 9.0) // duplicate index, last writer wins
	assert.Equal(t, 9.0, v.At(2))
	assert.Equal(t, 2, v.UsedElements())
}

func TestNorm2Sqr(t *testing.T) {
	v := NewDenseVectorFromSlice([]float64{3, 4})
	assert.InDelta(t, 25.0, Norm2Sqr(v), 1e-12)
	assert.InDelta(t, 5.0, Norm2(v), 1e-12)
}

func TestAxpySpecialCases(t *testing.T) {
	x := NewDenseVectorFromSlice([]float64{1, 2, 3})
	y := NewDenseVectorFromSlice([]float64{10, 10, 10})
	r := NewDenseVector(3)

	Axpy(r, x, y, 1)
	assert.Equal(t, []float64{11, 12, 13}, r.Elements())

	Axpy(r, x, y, -1)
	assert.Equal(t, []float64{9, 8, 7}, r.Elements())

	Axpy(r, x, y, 0)
	assert.Equal(t, y.Elements(), r.Elements())
}

func TestComponentInvert(t *testing.T) {
	x := NewDenseVectorFromSlice([]float64{2, 4, 5})
	r := NewDenseVector(3)
	ComponentInvert(r, x, 1)
	assert.InDelta(t, 0.5, r.At(0), 1e-12)
	assert.False(t, math.IsNaN(r.At(0)))
}

// TestSpMVBCSRMatchesTileView exercises the mat.Dense-backed tile gemv
// (§4.13): two 2x2 tiles on the diagonal of a 2-tile-row matrix, each
// block a distinct rotation-like matrix, checked against a
// hand-computed block matvec.
func TestSpMVBCSRMatchesTileView(t *testing.T) {
	rowPtr := []int{0, 1, 2}
	colInd := []int{0, 1}
	a := NewBCSRLayout(2, 2, 2, 2, rowPtr, colInd)
	copy(a.Tile(0), []float64{2, 0, 0, 2})
	copy(a.Tile(1), []float64{1, 1, 0, 1})

	tile0 := a.TileView(0)
	assert.Equal(t, 2.0, tile0.At(0, 0))
	assert.Equal(t, 2.0, tile0.At(1, 1))

	x := NewDenseVectorBlocked(2, 2)
	copy(x.Block(0), []float64{1, 2})
	copy(x.Block(1), []float64{3, 4})

	r := NewDenseVectorBlocked(2, 2)
	SpMVBCSR(r, a, x, 1, nil)

	assert.InDeltaSlice(t, []float64{2, 4}, r.Block(0), 1e-12)
	assert.InDeltaSlice(t, []float64{7, 4}, r.Block(1), 1e-12)
}
