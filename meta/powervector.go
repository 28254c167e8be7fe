// Package meta implements the recursive meta-containers of §4.2:
// TupleVector, PowerVector, SaddlePointMatrix, and TupleDiagMatrix.
// Every operation forwards to sub-components, mirroring gonum's
// floats package reductions (gonum.org/v1/gonum/floats) rather than
// reinventing slice-level sum/dot/scale primitives.
package meta

import (
	"fmt"

	"github.com/haoxiangmiao/feat3-sub001/lafem"
	"gonum.org/v1/gonum/floats"
)

// PowerVector is a homogeneous recursive head/tail composition of n
// copies of the same sub-vector type, addressed as a single flat index
// space. It is the fixed-arity counterpart of TupleVector.
type PowerVector struct {
	blocks []*lafem.DenseVector
}

// NewPowerVector builds a PowerVector of n blocks, each of the given
// size.
func NewPowerVector(n, size int) *PowerVector {
	if n <= 0 {
		panic(lafem.ErrInvalidArgument)
	}
	blocks := make([]*lafem.DenseVector, n)
	for i := range blocks {
		blocks[i] = lafem.NewDenseVector(size)
	}
	return &PowerVector{blocks: blocks}
}

// N reports the number of blocks.
func (p *PowerVector) N() int { return len(p.blocks) }

// Block returns the i-th sub-vector.
func (p *PowerVector) Block(i int) *lafem.DenseVector { return p.blocks[i] }

// Size reports the total flat length across all blocks.
func (p *PowerVector) Size() int {
	total := 0
	for _, b := range p.blocks {
		total += b.Size()
	}
	return total
}

// locate routes a flat index to the (block, local-index) pair that
// covers it, per §4.2's "flat index is routed to the first block that
// covers it".
func (p *PowerVector) locate(flat int) (block, local int) {
	for i, b := range p.blocks {
		if flat < b.Size() {
			return i, flat
		}
		flat -= b.Size()
	}
	panic(lafem.ErrInvalidArgument)
}

// At returns the value at a flat index, recursing into the owning
// block.
func (p *PowerVector) At(flat int) float64 {
	b, l := p.locate(flat)
	return p.blocks[b].At(l)
}

// SetAt sets the value at a flat index.
func (p *PowerVector) SetAt(flat int, val float64) {
	b, l := p.locate(flat)
	p.blocks[b].SetAt(l, val)
}

func (p *PowerVector) requireConformant(o *PowerVector) {
	if p.N() != o.N() {
		panic(lafem.ErrSizeMismatch)
	}
}

// Axpy computes this = alpha*x + y block-wise.
func (p *PowerVector) Axpy(x, y *PowerVector, alpha float64) {
	p.requireConformant(x)
	p.requireConformant(y)
	for i := range p.blocks {
		lafem.Axpy(p.blocks[i], x.blocks[i], y.blocks[i], alpha)
	}
}

// Dot computes the sum over blocks of each block's dot product,
// exactly the §4.2 recursive contract.
func (p *PowerVector) Dot(o *PowerVector) float64 {
	p.requireConformant(o)
	partial := make([]float64, len(p.blocks))
	for i := range p.blocks {
		partial[i] = lafem.Dot(p.blocks[i], o.blocks[i])
	}
	return floats.Sum(partial)
}

// Norm2Sqr computes the sum over blocks of each block's squared norm.
func (p *PowerVector) Norm2Sqr() float64 {
	partial := make([]float64, len(p.blocks))
	for i, b := range p.blocks {
		partial[i] = lafem.Norm2Sqr(b)
	}
	return floats.Sum(partial)
}

// Scale scales every block in place by alpha.
func (p *PowerVector) Scale(x *PowerVector, alpha float64) {
	p.requireConformant(x)
	for i := range p.blocks {
		lafem.Scale(p.blocks[i], x.blocks[i], alpha)
	}
}

// Copy copies x's blocks into this vector's blocks.
func (p *PowerVector) Copy(x *PowerVector) {
	p.requireConformant(x)
	for i := range p.blocks {
		lafem.Copy(p.blocks[i], x.blocks[i])
	}
}

// Clone returns a new PowerVector under the given CloneMode, recursing
// into every block.
func (p *PowerVector) Clone(mode lafem.CloneMode) *PowerVector {
	blocks := make([]*lafem.DenseVector, len(p.blocks))
	for i, b := range p.blocks {
		blocks[i] = b.Clone(mode)
	}
	return &PowerVector{blocks: blocks}
}

// Format implements fmt.Formatter, recursing into every block.
func (p *PowerVector) Format(f fmt.State, c rune) {
	for i, b := range p.blocks {
		if i > 0 {
			fmt.Fprint(f, " | ")
		}
		b.Format(f, c)
	}
}
