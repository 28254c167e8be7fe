package transfer

import (
	"context"
	"testing"

	"github.com/haoxiangmiao/feat3-sub001/lafem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProlongationPreservesConstants(t *testing.T) {
	// §8 property 8: for constant coarse vector c*1, P*(c*1) == c*1 on
	// the fine space after weight-rescaling. Two fine dofs each
	// receive contributions from a single coarse dof with weights 2
	// and 3; after row rescaling by 1/rowsum, each fine row becomes a
	// convex combination summing to 1.
	entries := []CubatureEntry{
		{FineRow: 0, CoarseCol: 0, Weight: 2},
		{FineRow: 1, CoarseCol: 0, Weight: 3},
	}
	tr, err := NewTransfer(context.Background(), nil, 2, 1, entries)
	require.NoError(t, err)

	coarse := lafem.NewDenseVectorFromSlice([]float64{7})
	fine := lafem.NewDenseVector(2)
	tr.Prolongate(fine, coarse)
	assert.InDelta(t, 7.0, fine.At(0), 1e-12)
	assert.InDelta(t, 7.0, fine.At(1), 1e-12)
}

func TestTransposeIdentity(t *testing.T) {
	entries := []CubatureEntry{
		{FineRow: 0, CoarseCol: 0, Weight: 1},
		{FineRow: 1, CoarseCol: 0, Weight: 1},
		{FineRow: 1, CoarseCol: 1, Weight: 1},
	}
	tr, err := NewTransfer(context.Background(), nil, 2, 2, entries)
	require.NoError(t, err)

	// (P^T)^T == P.
	tt := tr.R().Transpose()
	assert.Equal(t, tr.P().ToDense().RawMatrix().Data, tt.ToDense().RawMatrix().Data)
}
