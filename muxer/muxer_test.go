package muxer

import (
	"context"
	"testing"

	"github.com/haoxiangmiao/feat3-sub001/gate"
	"github.com/haoxiangmiao/feat3-sub001/lafem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendJoinAndSplitSend(t *testing.T) {
	comms := gate.NewChannelCommGroup(2)
	// rank 0 is the child, rank 1 is the parent; both sides agree on a
	// 2-dof coarse vector mapped onto the child's first two local dofs.
	child := NewChildMuxer(comms[0], 1, gate.NewMirror([]int{0, 1}))
	parent := NewParentMuxer(comms[1], map[int]*gate.Mirror{0: gate.NewMirror([]int{0, 1})})

	fine := lafem.NewDenseVectorFromSlice([]float64{3, 7})
	coarse := lafem.NewDenseVector(2)

	errc := make(chan error, 2)
	go func() { errc <- child.SendJoin(context.Background(), nil, fine) }()
	go func() { errc <- parent.SendJoin(context.Background(), coarse, nil) }()
	require.NoError(t, <-errc)
	require.NoError(t, <-errc)

	assert.InDelta(t, 3.0, coarse.At(0), 1e-12)
	assert.InDelta(t, 7.0, coarse.At(1), 1e-12)

	// Now split back down.
	coarse2 := lafem.NewDenseVectorFromSlice([]float64{11, 13})
	fine2 := lafem.NewDenseVector(2)
	errc2 := make(chan error, 2)
	go func() { errc2 <- child.SplitSend(context.Background(), fine2, nil) }()
	go func() { errc2 <- parent.SplitSend(context.Background(), nil, coarse2) }()
	require.NoError(t, <-errc2)
	require.NoError(t, <-errc2)

	assert.InDelta(t, 11.0, fine2.At(0), 1e-12)
	assert.InDelta(t, 13.0, fine2.At(1), 1e-12)
}

func TestIdentityNoOpAgglomeration(t *testing.T) {
	comms := gate.NewChannelCommGroup(1)
	parent := NewParentMuxer(comms[0], map[int]*gate.Mirror{0: gate.NewMirror([]int{0, 1, 2})})
	assert.True(t, parent.isIdentityNoOp())
}
