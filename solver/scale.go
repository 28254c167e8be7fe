package solver

import "github.com/haoxiangmiao/feat3-sub001/lafem"

// Scale is the trivial scalar preconditioner: correction += factor *
// defect, the cheapest possible M^-1 (§4.7's scale/scale-diagonal
// preconditioner pair).
type Scale struct {
	Base
	Factor float64
}

// NewScale builds a scalar-multiple preconditioner.
func NewScale(factor float64) *Scale { return &Scale{Base: NewBase("Scale"), Factor: factor} }

func (s *Scale) Init() {}
func (s *Scale) Done() {}

func (s *Scale) Apply(correction, defect *lafem.DenseVector) Status {
	lafem.Axpy(correction, defect, correction, s.Factor)
	return StatusSuccess
}

// ScaleDiag is the diagonal-scaling preconditioner: correction[i] +=
// diag[i] * defect[i], e.g. the inverse lumped-mass diagonal of a
// pressure mass matrix used as a cheap Schur-complement approximation
// (§4.9).
type ScaleDiag struct {
	Base
	Diag *lafem.DenseVector
}

// NewScaleDiag builds a diagonal-scaling preconditioner from a
// precomputed per-dof scale vector (the caller is responsible for
// having already inverted it, e.g. via lafem.ComponentInvert).
func NewScaleDiag(diag *lafem.DenseVector) *ScaleDiag {
	return &ScaleDiag{Base: NewBase("ScaleDiag"), Diag: diag}
}

func (s *ScaleDiag) Init() {}
func (s *ScaleDiag) Done() {}

func (s *ScaleDiag) Apply(correction, defect *lafem.DenseVector) Status {
	cd, dd, diag := correction.Elements(), defect.Elements(), s.Diag.Elements()
	for i := range cd {
		cd[i] += diag[i] * dd[i]
	}
	return StatusSuccess
}
