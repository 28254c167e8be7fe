package solver

import (
	"github.com/haoxiangmiao/feat3-sub001/lafem"
	"github.com/haoxiangmiao/feat3-sub001/meta"
)

// denseUnwrapper is satisfied by the meta.Vector leaf produced by
// meta.WrapDense, letting a flat solver.Method/Operator be bolted onto
// a meta.Vector-typed seam without every block-typed component needing
// to know about lafem.DenseVector directly.
type denseUnwrapper interface {
	Unwrap() *lafem.DenseVector
}

func unwrapDense(v meta.Vector) *lafem.DenseVector {
	u, ok := v.(denseUnwrapper)
	if !ok {
		panic("solver: expected a DenseVector-backed meta.Vector leaf")
	}
	return u.Unwrap()
}

// FlatBlockMethod adapts a flat Method to BlockMethod, for use as a
// Schur preconditioner's AInv/SInv (§4.9) when that saddle-point block
// is a plain DenseVector leaf (meta.WrapDense) rather than a further
// composed PowerVector.
type FlatBlockMethod struct{ Method }

func (f FlatBlockMethod) Apply(correction, defect meta.Vector) Status {
	return f.Method.Apply(unwrapDense(correction), unwrapDense(defect))
}

var _ BlockMethod = FlatBlockMethod{}

// DenseMetaOperator adapts a flat Operator to meta.Operator, for use as
// a meta.SaddlePointMatrix's B/D off-diagonal block when that block is
// a plain CSR matrix over DenseVector-backed leaves.
type DenseMetaOperator struct{ Op Operator }

func (d DenseMetaOperator) Apply(r, x meta.Vector, alpha float64, y meta.Vector) {
	var yv *lafem.DenseVector
	if y != nil {
		yv = unwrapDense(y)
	}
	d.Op.Apply(unwrapDense(r), unwrapDense(x), alpha, yv)
}

var _ meta.Operator = DenseMetaOperator{}
