package solver

import "github.com/haoxiangmiao/feat3-sub001/lafem"

// BiCGStab is the (right-)preconditioned stabilised biconjugate
// gradient method for general (non-symmetric) A, grounded on gonum's
// linsolve/bicgstab.go recurrence (rho/alpha/omega updates against a
// fixed shadow residual r0hat) adapted to this package's
// run-to-completion Apply contract.
type BiCGStab struct {
	Base
	A      Operator
	Precon Method

	r, r0hat, p, v, s, t, ph, sh *lafem.DenseVector
}

// NewBiCGStab builds a BiCGStab solver for operator a with optional
// preconditioner precon (nil for none).
func NewBiCGStab(a Operator, precon Method) *BiCGStab {
	return &BiCGStab{Base: NewBase("BiCGStab"), A: a, Precon: precon}
}

func (b *BiCGStab) Init() {
	if b.Precon != nil {
		b.Precon.Init()
	}
}

func (b *BiCGStab) Done() {
	if b.Precon != nil {
		b.Precon.Done()
	}
}

func (b *BiCGStab) alloc(n int) {
	if b.r != nil && b.r.Size() == n {
		return
	}
	b.r = lafem.NewDenseVector(n)
	b.r0hat = lafem.NewDenseVector(n)
	b.p = lafem.NewDenseVector(n)
	b.v = lafem.NewDenseVector(n)
	b.s = lafem.NewDenseVector(n)
	b.t = lafem.NewDenseVector(n)
	b.ph = lafem.NewDenseVector(n)
	b.sh = lafem.NewDenseVector(n)
}

func (b *BiCGStab) precondition(out, in *lafem.DenseVector) {
	if b.Precon == nil {
		lafem.Copy(out, in)
		return
	}
	lafem.Scale(out, out, 0)
	b.Precon.Apply(out, in)
}

func (b *BiCGStab) Apply(correction, defect *lafem.DenseVector) Status {
	n := defect.Size()
	b.alloc(n)
	b.A.Apply(b.r, correction, -1, defect)
	b.start(lafem.Norm2(b.r))
	if b.converged(b.defectInit) {
		return StatusSuccess
	}
	lafem.Copy(b.r0hat, b.r)

	rho, alpha, omega := 1.0, 1.0, 1.0
	lafem.Scale(b.p, b.p, 0)
	lafem.Scale(b.v, b.v, 0)

	for b.iter = 1; b.iter <= b.MaxIter; b.iter++ {
		rhoNew := lafem.Dot(b.r0hat, b.r)
		if rhoNew == 0 {
			return StatusStagnated
		}
		if b.iter > 1 {
			if omega == 0 {
				return StatusStagnated
			}
			beta := (rhoNew / rho) * (alpha / omega)
			// p = r + beta*(p - omega*v)
			lafem.Axpy(b.p, b.v, b.p, -omega)
			lafem.Axpy(b.p, b.p, b.r, beta)
		} else {
			lafem.Copy(b.p, b.r)
		}
		rho = rhoNew

		b.precondition(b.ph, b.p)
		b.A.Apply(b.v, b.ph, 1, nil)
		denom := lafem.Dot(b.r0hat, b.v)
		if denom == 0 {
			return StatusStagnated
		}
		alpha = rho / denom

		lafem.Axpy(b.s, b.v, b.r, -alpha)
		if sn := lafem.Norm2(b.s); b.converged(sn) {
			lafem.Axpy(correction, b.ph, correction, alpha)
			b.defectFinal = sn
			return StatusSuccess
		}

		b.precondition(b.sh, b.s)
		b.A.Apply(b.t, b.sh, 1, nil)
		tt := lafem.Dot(b.t, b.t)
		if tt == 0 {
			omega = 0
		} else {
			omega = lafem.Dot(b.t, b.s) / tt
		}

		lafem.Axpy(correction, b.ph, correction, alpha)
		lafem.Axpy(correction, b.sh, correction, omega)
		lafem.Axpy(b.r, b.t, b.s, -omega)

		norm := lafem.Norm2(b.r)
		b.defectFinal = norm
		if b.diverged(norm) {
			return StatusDiverged
		}
		if b.converged(norm) {
			return StatusSuccess
		}
		if omega == 0 {
			return StatusStagnated
		}
	}
	return StatusMaxIter
}
