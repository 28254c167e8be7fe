package meta

import "github.com/haoxiangmiao/feat3-sub001/lafem"

// Operator is any linear operator usable as a SaddlePointMatrix or
// TupleDiagMatrix block: it computes r = alpha*this*x + y (y may be
// nil), the same contract as lafem.SpMVCSR generalised to a Vector
// operand/result.
type Operator interface {
	Apply(r, x Vector, alpha float64, y Vector)
}

// SaddlePointMatrix is the logical block layout
//
//	[A B]
//	[D 0]
//
// of §3: not a physical concatenation, only a reference composition
// over the three sub-matrices.
type SaddlePointMatrix struct {
	A, B, D Operator
}

// NewSaddlePointMatrix composes A, B, D into a saddle-point operator.
func NewSaddlePointMatrix(a, b, d Operator) *SaddlePointMatrix {
	return &SaddlePointMatrix{A: a, B: b, D: d}
}

// Apply dispatches to the three sub-matrices with block vectors (u,p):
//
//	r_u = A*u + B*p
//	r_p = D*u
//
// per §4.2.
func (m *SaddlePointMatrix) Apply(r, x *TupleVector) {
	if r.N() != 2 || x.N() != 2 {
		panic(lafem.ErrSizeMismatch)
	}
	u, p := x.Block(0), x.Block(1)
	ru, rp := r.Block(0), r.Block(1)

	// r_u = A*u (into ru), then r_u += B*p via a second accumulate.
	m.A.Apply(ru, u, 1, nil)
	tmp := ru.Clone(lafem.CloneLayout)
	m.B.Apply(tmp, p, 1, nil)
	ru.Axpy(tmp, ru, 1)

	m.D.Apply(rp, u, 1, nil)
}

// TupleDiagMatrix is a block-diagonal composition of n operators;
// Apply is the direct sum of each operator applied to its own block
// (§4.2).
type TupleDiagMatrix struct {
	blocks []Operator
}

// NewTupleDiagMatrix composes the given diagonal blocks.
func NewTupleDiagMatrix(blocks ...Operator) *TupleDiagMatrix {
	return &TupleDiagMatrix{blocks: blocks}
}

// Apply computes r_i = alpha*blocks[i]*x_i + y_i for every block.
func (m *TupleDiagMatrix) Apply(r, x *TupleVector, alpha float64, y *TupleVector) {
	if r.N() != len(m.blocks) || x.N() != len(m.blocks) {
		panic(lafem.ErrSizeMismatch)
	}
	for i, op := range m.blocks {
		var yi Vector
		if y != nil {
			yi = y.Block(i)
		}
		op.Apply(r.Block(i), x.Block(i), alpha, yi)
	}
}
