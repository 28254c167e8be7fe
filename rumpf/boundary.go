package rumpf

import (
	"github.com/haoxiangmiao/feat3-sub001/filter"
	"github.com/haoxiangmiao/feat3-sub001/lafem"
)

// Boundary bundles the two coordinate-vector filters §4.10 describes:
// a unit filter pinning Dirichlet vertices to fixed coordinates, and a
// slip filter projecting out the normal component of the displacement
// at vertices free to slide along a chart.
type Boundary struct {
	Dirichlet *filter.UnitFilter
	Slip      *filter.SlipFilter
}

// applyToPositions clamps Dirichlet vertices back to their fixed
// coordinates and re-projects slip vertices onto their tangent plane,
// both acting on the flat (x0,y0,x1,y1,...) coordinate vector.
func (b *Boundary) applyToPositions(flat []float64) {
	blocked := toBlocked(flat)
	if b.Dirichlet != nil {
		b.Dirichlet.FilterSol(blocked.Raw())
	}
	if b.Slip != nil {
		b.Slip.FilterSolBlocked(blocked)
	}
	copy(flat, blocked.Raw().Elements())
}

// applyToGradient zeroes the gradient at Dirichlet vertices (no force
// moves a pinned vertex) and removes the normal component of the
// gradient at slip vertices (no force acts normal to the chart).
func (b *Boundary) applyToGradient(flat []float64) {
	blocked := toBlocked(flat)
	if b.Dirichlet != nil {
		b.Dirichlet.FilterRHS(blocked.Raw())
	}
	if b.Slip != nil {
		b.Slip.FilterRHSBlocked(blocked)
	}
	copy(flat, blocked.Raw().Elements())
}

// toBlocked copies a flat (x,y)-interleaved coordinate slice into a
// fresh DenseVectorBlocked with blockSize 2.
func toBlocked(flat []float64) *lafem.DenseVectorBlocked {
	b := lafem.NewDenseVectorBlocked(len(flat)/2, 2)
	copy(b.Raw().Elements(), flat)
	return b
}
