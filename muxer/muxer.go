// Package muxer implements the parent/child coarse-layer redistribution
// of §4.4: bidirectional agglomeration between a fine-layer process set
// and a coarse-layer parent process.
package muxer

import (
	"context"

	"github.com/haoxiangmiao/feat3-sub001/gate"
	"github.com/haoxiangmiao/feat3-sub001/lafem"
)

// childLink is one (childRank, mirror) pair held by a parent-side
// Muxer, the parent's view of that child's owned dofs.
type childLink struct {
	rank   int
	mirror *gate.Mirror
}

// Muxer mediates the agglomeration of several fine-layer ranks onto one
// coarse-layer parent rank (§4.4). Exactly one of (children) / (parent,
// parentMirror) is populated, selecting parent or child role.
type Muxer struct {
	comm gate.Comm

	// Parent-side state: one child-mirror per child.
	children []childLink

	// Child-side state: the single parent and the mirror onto the
	// dofs this child owns in the parent's coarse vector.
	isChild      bool
	parentRank   int
	parentMirror *gate.Mirror
}

// NewParentMuxer builds the parent side of a muxer, given the rank and
// mirror for each child process.
func NewParentMuxer(comm gate.Comm, children map[int]*gate.Mirror) *Muxer {
	m := &Muxer{comm: comm}
	for rank, mirror := range children {
		m.children = append(m.children, childLink{rank: rank, mirror: mirror})
	}
	return m
}

// NewChildMuxer builds the child side of a muxer, given the parent's
// rank and the mirror onto this child's owned dofs.
func NewChildMuxer(comm gate.Comm, parentRank int, parentMirror *gate.Mirror) *Muxer {
	return &Muxer{comm: comm, isChild: true, parentRank: parentRank, parentMirror: parentMirror}
}

// isIdentityNoOp reports whether this muxer agglomerates exactly one
// child, living on this same rank, through an identity mirror (§4.4).
// That case needs no communication: SendJoin and SplitSend copy the
// vector's values locally (a copy, not an alias). A single child on
// another rank still goes through the send/receive path.
func (m *Muxer) isIdentityNoOp() bool {
	if m.isChild || len(m.children) != 1 || m.children[0].rank != m.comm.Rank() {
		return false
	}
	mirror := m.children[0].mirror
	for i, idx := range mirror.Indices {
		if idx != i {
			return false
		}
	}
	return true
}

// SendJoin redistributes a fine-layer defect/solution vector onto the
// coarse-layer parent's vector: on each child, owned dofs are sent
// through the parent-mirror; on the parent, child-mirrors scatter-add
// into coarseVec (§4.4).
func (m *Muxer) SendJoin(ctx context.Context, coarseVec, fineVec *lafem.DenseVector) error {
	if m.isChild {
		buf := make([]float64, m.parentMirror.Len())
		m.parentMirror.Gather(buf, fineVec)
		req := m.comm.Isend(buf, m.parentRank, 1)
		return m.comm.Waitall(ctx, []gate.Request{req})
	}
	if m.isIdentityNoOp() {
		lafem.Copy(coarseVec, fineVec)
		return nil
	}
	var reqs []gate.Request
	bufs := make([][]float64, len(m.children))
	for i, c := range m.children {
		bufs[i] = make([]float64, c.mirror.Len())
		reqs = append(reqs, m.comm.Irecv(bufs[i], c.rank, 1))
	}
	if err := m.comm.Waitall(ctx, reqs); err != nil {
		return err
	}
	for i, c := range m.children {
		c.mirror.ScatterAdd(coarseVec, bufs[i])
	}
	return nil
}

// SplitSend is the transpose of SendJoin: the parent scatters coarseVec
// back down to each child's fineVec through its mirror.
func (m *Muxer) SplitSend(ctx context.Context, fineVec, coarseVec *lafem.DenseVector) error {
	if m.isChild {
		buf := make([]float64, m.parentMirror.Len())
		req := m.comm.Irecv(buf, m.parentRank, 2)
		if err := m.comm.Waitall(ctx, []gate.Request{req}); err != nil {
			return err
		}
		m.parentMirror.ScatterAdd(fineVec, buf)
		return nil
	}
	if m.isIdentityNoOp() {
		lafem.Copy(fineVec, coarseVec)
		return nil
	}
	var reqs []gate.Request
	for _, c := range m.children {
		buf := make([]float64, c.mirror.Len())
		c.mirror.Gather(buf, coarseVec)
		reqs = append(reqs, m.comm.Isend(buf, c.rank, 2))
	}
	return m.comm.Waitall(ctx, reqs)
}
