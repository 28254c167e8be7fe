package solver

import "github.com/haoxiangmiao/feat3-sub001/lafem"

// Richardson is the damped (optionally preconditioned) Richardson
// iteration x_{k+1} = x_k + omega * Precon^-1 * (defect - A*x_k),
// the simplest smoother/solver of §4.7, grounded on the same
// correction-from-defect recurrence gonum's linsolve.CG builds its more
// elaborate search direction on top of (linsolve/cg.go).
type Richardson struct {
	Base
	A       Operator
	Precon  Method // nil means unpreconditioned (identity)
	Omega   float64
	scratch *lafem.DenseVector
	residual *lafem.DenseVector
}

// NewRichardson builds a Richardson solver/smoother for operator a with
// damping factor omega and optional preconditioner precon (nil for
// none).
func NewRichardson(a Operator, precon Method, omega float64) *Richardson {
	return &Richardson{Base: NewBase("Richardson"), A: a, Precon: precon, Omega: omega}
}

func (r *Richardson) Init() {
	if r.Precon != nil {
		r.Precon.Init()
	}
}

func (r *Richardson) Done() {
	if r.Precon != nil {
		r.Precon.Done()
	}
}

// Apply solves A*correction ≈ defect, overwriting correction with the
// result; correction is used both as the initial guess (caller-supplied,
// typically zero) and the output, per §4.7's in-place convention. defect
// is read-only.
func (r *Richardson) Apply(correction, defect *lafem.DenseVector) Status {
	n := defect.Size()
	if r.scratch == nil || r.scratch.Size() != n {
		r.scratch = lafem.NewDenseVector(n)
		r.residual = lafem.NewDenseVector(n)
	}
	r.A.Apply(r.residual, correction, -1, defect)
	r.start(lafem.Norm2(r.residual))
	if r.converged(r.defectInit) {
		return StatusSuccess
	}

	for r.iter = 1; r.iter <= r.MaxIter; r.iter++ {
		step := r.scratch
		if r.Precon != nil {
			lafem.Scale(step, step, 0)
			if st := r.Precon.Apply(step, r.residual); st == StatusDiverged {
				return StatusDiverged
			}
		} else {
			lafem.Copy(step, r.residual)
		}
		lafem.Axpy(correction, step, correction, r.Omega)

		r.A.Apply(r.residual, correction, -1, defect)
		norm := lafem.Norm2(r.residual)
		r.defectFinal = norm
		if r.diverged(norm) {
			return StatusDiverged
		}
		if r.converged(norm) {
			return StatusSuccess
		}
	}
	return StatusMaxIter
}
