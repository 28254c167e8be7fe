package gate

import (
	"context"
	"testing"

	"github.com/haoxiangmiao/feat3-sub001/lafem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoRankOverlap builds two 2-dof local vectors sharing one interface
// dof: rank 0's local dof 1 and rank 1's local dof 0 are the same
// global dof.
func twoRankOverlap(t *testing.T) (g0, g1 *Gate) {
	t.Helper()
	comms := NewChannelCommGroup(2)
	g0 = NewGate(comms[0], 2, map[int]*Mirror{1: NewMirror([]int{1})})
	g1 = NewGate(comms[1], 2, map[int]*Mirror{0: NewMirror([]int{0})})
	return g0, g1
}

func TestGatePartitionOfUnity(t *testing.T) {
	// §8 property 7: sum of (mirror_k * local_k) over ranks equals the
	// global value for a vector obtained by duplicating on each rank.
	g0, g1 := twoRankOverlap(t)

	v0 := lafem.NewDenseVectorFromSlice([]float64{1, 5})
	v1 := lafem.NewDenseVectorFromSlice([]float64{5, 2})

	errc := make(chan error, 2)
	go func() { errc <- g0.Sync0(context.Background(), v0) }()
	go func() { errc <- g1.Sync0(context.Background(), v1) }()
	require.NoError(t, <-errc)
	require.NoError(t, <-errc)

	// The shared dof (rank0 idx1 / rank1 idx0) should now equal the
	// global sum 5+5=10 on both ranks.
	assert.InDelta(t, 10.0, v0.At(1), 1e-12)
	assert.InDelta(t, 10.0, v1.At(0), 1e-12)
	// Non-shared dofs are untouched.
	assert.InDelta(t, 1.0, v0.At(0), 1e-12)
	assert.InDelta(t, 2.0, v1.At(1), 1e-12)
}

func TestGateSync1Averages(t *testing.T) {
	g0, g1 := twoRankOverlap(t)

	v0 := lafem.NewDenseVectorFromSlice([]float64{1, 5})
	v1 := lafem.NewDenseVectorFromSlice([]float64{5, 2})

	errc := make(chan error, 2)
	go func() { errc <- g0.Sync1(context.Background(), v0) }()
	go func() { errc <- g1.Sync1(context.Background(), v1) }()
	require.NoError(t, <-errc)
	require.NoError(t, <-errc)

	// Frequency at the shared dof is 2 (appears on both ranks), so
	// Sync1 divides the sum (10) by 2.
	assert.InDelta(t, 5.0, v0.At(1), 1e-12)
	assert.InDelta(t, 5.0, v1.At(0), 1e-12)
}

func TestGateGlobalNorm(t *testing.T) {
	comms := NewChannelCommGroup(2)
	g0 := NewGate(comms[0], 1, map[int]*Mirror{})
	g1 := NewGate(comms[1], 1, map[int]*Mirror{})

	v0 := lafem.NewDenseVectorFromSlice([]float64{3})
	v1 := lafem.NewDenseVectorFromSlice([]float64{4})

	type result struct {
		n   float64
		err error
	}
	rc := make(chan result, 2)
	go func() { n, err := g0.GlobalNorm2(context.Background(), v0); rc <- result{n, err} }()
	go func() { n, err := g1.GlobalNorm2(context.Background(), v1); rc <- result{n, err} }()
	r1 := <-rc
	r2 := <-rc
	require.NoError(t, r1.err)
	require.NoError(t, r2.err)
	assert.InDelta(t, 5.0, r1.n, 1e-12)
	assert.InDelta(t, 5.0, r2.n, 1e-12)
}
