package filter

import (
	"github.com/haoxiangmiao/feat3-sub001/lafem"
	"github.com/haoxiangmiao/feat3-sub001/meta"
)

// TupleFilter applies one filter per block of a meta.TupleVector
// (§4.2/§4.5): e.g. a unit filter on the velocity block and a mean
// filter on the pressure block of a Stokes saddle-point system.
type TupleFilter struct {
	blocks []BlockFilter
}

// BlockFilter is a filter that operates on a meta.Vector block rather
// than a raw lafem.DenseVector directly; DenseFilter below adapts a
// scalar Filter to this interface.
type BlockFilter interface {
	FilterSolBlock(x meta.Vector)
	FilterRHSBlock(d meta.Vector)
}

// DenseFilter adapts a scalar Filter to BlockFilter for a block that is
// a plain DenseVector wrapped with meta.WrapDense.
type DenseFilter struct{ F Filter }

func (d DenseFilter) FilterSolBlock(x meta.Vector) {
	dv := x.(interface{ Unwrap() *lafem.DenseVector }).Unwrap()
	d.F.FilterSol(dv)
}

func (d DenseFilter) FilterRHSBlock(x meta.Vector) {
	dv := x.(interface{ Unwrap() *lafem.DenseVector }).Unwrap()
	d.F.FilterRHS(dv)
}

// NewTupleFilter composes one BlockFilter per TupleVector block, in
// block order.
func NewTupleFilter(blocks ...BlockFilter) *TupleFilter {
	return &TupleFilter{blocks: blocks}
}

// FilterSol applies each block's filter to the matching TupleVector
// block.
func (t *TupleFilter) FilterSol(x *meta.TupleVector) {
	if x.N() != len(t.blocks) {
		panic(lafem.ErrSizeMismatch)
	}
	for i, bf := range t.blocks {
		bf.FilterSolBlock(x.Block(i))
	}
}

// FilterRHS applies each block's filter to the matching TupleVector
// block.
func (t *TupleFilter) FilterRHS(d *meta.TupleVector) {
	if d.N() != len(t.blocks) {
		panic(lafem.ErrSizeMismatch)
	}
	for i, bf := range t.blocks {
		bf.FilterRHSBlock(d.Block(i))
	}
}

// PowerFilter applies the same scalar Filter to every block of a
// meta.PowerVector (§4.2/§4.5: per-block application over a
// homogeneous power-vector, e.g. a unit filter shared across all
// velocity components).
type PowerFilter struct {
	F Filter
}

// NewPowerFilter builds a PowerFilter applying f to every block.
func NewPowerFilter(f Filter) *PowerFilter { return &PowerFilter{F: f} }

// FilterSol applies F to every block of p.
func (pf *PowerFilter) FilterSol(p *meta.PowerVector) {
	for i := 0; i < p.N(); i++ {
		pf.F.FilterSol(p.Block(i))
	}
}

// FilterRHS applies F to every block of p.
func (pf *PowerFilter) FilterRHS(p *meta.PowerVector) {
	for i := 0; i < p.N(); i++ {
		pf.F.FilterRHS(p.Block(i))
	}
}
