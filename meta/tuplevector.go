package meta

import "github.com/haoxiangmiao/feat3-sub001/lafem"

// TupleVector is a heterogeneous recursive head/tail composition
// (unlike PowerVector, its blocks need not share a type), used e.g. to
// pair a blocked velocity vector with a scalar pressure vector in a
// saddle-point system. Every operation forwards to sub-components
// (§4.2).
type TupleVector struct {
	blocks []Vector
}

// NewTupleVector composes the given blocks into a TupleVector.
func NewTupleVector(blocks ...Vector) *TupleVector {
	if len(blocks) == 0 {
		panic(lafem.ErrInvalidArgument)
	}
	return &TupleVector{blocks: blocks}
}

// N reports the number of blocks.
func (t *TupleVector) N() int { return len(t.blocks) }

// Block returns the i-th sub-vector.
func (t *TupleVector) Block(i int) Vector { return t.blocks[i] }

// Size reports the total flat length across all blocks.
func (t *TupleVector) Size() int {
	total := 0
	for _, b := range t.blocks {
		total += b.Size()
	}
	return total
}

func (t *TupleVector) requireConformant(o *TupleVector) {
	if t.N() != o.N() {
		panic(lafem.ErrSizeMismatch)
	}
}

// Axpy computes this = alpha*x + y block-wise.
func (t *TupleVector) Axpy(x, y *TupleVector, alpha float64) {
	t.requireConformant(x)
	t.requireConformant(y)
	for i := range t.blocks {
		t.blocks[i].Axpy(x.blocks[i], y.blocks[i], alpha)
	}
}

// Dot computes the sum over blocks of each block's dot product.
func (t *TupleVector) Dot(o *TupleVector) float64 {
	t.requireConformant(o)
	var sum float64
	for i := range t.blocks {
		sum += t.blocks[i].Dot(o.blocks[i])
	}
	return sum
}

// Norm2Sqr computes the sum over blocks of each block's squared norm.
func (t *TupleVector) Norm2Sqr() float64 {
	var sum float64
	for _, b := range t.blocks {
		sum += b.Norm2Sqr()
	}
	return sum
}

// Scale scales every block in place by alpha.
func (t *TupleVector) Scale(x *TupleVector, alpha float64) {
	t.requireConformant(x)
	for i := range t.blocks {
		t.blocks[i].Scale(x.blocks[i], alpha)
	}
}

// Copy copies x's blocks into this vector's blocks.
func (t *TupleVector) Copy(x *TupleVector) {
	t.requireConformant(x)
	for i := range t.blocks {
		t.blocks[i].Copy(x.blocks[i])
	}
}

// Clone returns a new TupleVector under the given CloneMode, recursing
// into every block.
func (t *TupleVector) Clone(mode lafem.CloneMode) *TupleVector {
	blocks := make([]Vector, len(t.blocks))
	for i, b := range t.blocks {
		blocks[i] = b.Clone(mode)
	}
	return &TupleVector{blocks: blocks}
}
