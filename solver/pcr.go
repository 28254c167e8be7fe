package solver

import "github.com/haoxiangmiao/feat3-sub001/lafem"

// PCR is the preconditioned conjugate residual method, applicable to
// symmetric (possibly indefinite) A where PCG's positive-definiteness
// requirement may fail — e.g. as the smoother sitting inside a
// saddle-point Schur complement solve (§4.9). Grounded on the same
// Krylov short-recurrence shape as PCG (pcg.go) but minimising the
// A-norm of the residual instead of the energy norm.
type PCR struct {
	Base
	A      Operator
	Precon Method

	r, z, p, ap, az *lafem.DenseVector
}

// NewPCR builds a PCR solver for operator a with optional
// preconditioner precon.
func NewPCR(a Operator, precon Method) *PCR {
	return &PCR{Base: NewBase("PCR"), A: a, Precon: precon}
}

func (c *PCR) Init() {
	if c.Precon != nil {
		c.Precon.Init()
	}
}

func (c *PCR) Done() {
	if c.Precon != nil {
		c.Precon.Done()
	}
}

func (c *PCR) alloc(n int) {
	if c.r != nil && c.r.Size() == n {
		return
	}
	c.r = lafem.NewDenseVector(n)
	c.z = lafem.NewDenseVector(n)
	c.p = lafem.NewDenseVector(n)
	c.ap = lafem.NewDenseVector(n)
	c.az = lafem.NewDenseVector(n)
}

func (c *PCR) precondition(out, in *lafem.DenseVector) {
	if c.Precon == nil {
		lafem.Copy(out, in)
		return
	}
	lafem.Scale(out, out, 0)
	c.Precon.Apply(out, in)
}

func (c *PCR) Apply(correction, defect *lafem.DenseVector) Status {
	n := defect.Size()
	c.alloc(n)
	c.A.Apply(c.r, correction, -1, defect)
	c.start(lafem.Norm2(c.r))
	if c.converged(c.defectInit) {
		return StatusSuccess
	}

	c.precondition(c.z, c.r)
	lafem.Copy(c.p, c.z)
	c.A.Apply(c.az, c.z, 1, nil)
	lafem.Copy(c.ap, c.az)
	rzOld := lafem.Dot(c.r, c.az)

	for c.iter = 1; c.iter <= c.MaxIter; c.iter++ {
		apap := lafem.Dot(c.ap, c.ap)
		if apap == 0 {
			return StatusStagnated
		}
		alpha := rzOld / apap

		lafem.Axpy(correction, c.p, correction, alpha)
		lafem.Axpy(c.r, c.ap, c.r, -alpha)

		norm := lafem.Norm2(c.r)
		c.defectFinal = norm
		if c.diverged(norm) {
			return StatusDiverged
		}
		if c.converged(norm) {
			return StatusSuccess
		}

		c.precondition(c.z, c.r)
		c.A.Apply(c.az, c.z, 1, nil)
		rzNew := lafem.Dot(c.r, c.az)
		if rzOld == 0 {
			return StatusStagnated
		}
		beta := rzNew / rzOld
		lafem.Axpy(c.p, c.p, c.z, beta)
		lafem.Axpy(c.ap, c.ap, c.az, beta)
		rzOld = rzNew
	}
	return StatusMaxIter
}
