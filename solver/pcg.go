package solver

import "github.com/haoxiangmiao/feat3-sub001/lafem"

// PCG is the preconditioned conjugate gradient method for symmetric
// positive-definite A, grounded on gonum's linsolve/cg.go recurrence
// (rho_k = <r_k, z_k>, beta_k = rho_k/rho_{k-1}, p_k = z_k + beta_k*p_{k-1},
// alpha_k = rho_k / <p_k, A p_k>) adapted to this package's
// run-to-completion Apply contract.
type PCG struct {
	Base
	A      Operator
	Precon Method // nil means unpreconditioned CG

	r, z, p, ap *lafem.DenseVector
}

// NewPCG builds a PCG solver for operator a with optional preconditioner
// precon (nil for plain CG).
func NewPCG(a Operator, precon Method) *PCG {
	return &PCG{Base: NewBase("PCG"), A: a, Precon: precon}
}

func (c *PCG) Init() {
	if c.Precon != nil {
		c.Precon.Init()
	}
}

func (c *PCG) Done() {
	if c.Precon != nil {
		c.Precon.Done()
	}
}

func (c *PCG) alloc(n int) {
	if c.r != nil && c.r.Size() == n {
		return
	}
	c.r = lafem.NewDenseVector(n)
	c.z = lafem.NewDenseVector(n)
	c.p = lafem.NewDenseVector(n)
	c.ap = lafem.NewDenseVector(n)
}

func (c *PCG) Apply(correction, defect *lafem.DenseVector) Status {
	n := defect.Size()
	c.alloc(n)
	c.A.Apply(c.r, correction, -1, defect)

	c.start(lafem.Norm2(c.r))
	if c.converged(c.defectInit) {
		return StatusSuccess
	}

	rho := c.precondition(c.z, c.r)
	lafem.Copy(c.p, c.z)

	for c.iter = 1; c.iter <= c.MaxIter; c.iter++ {
		c.A.Apply(c.ap, c.p, 1, nil)
		pAp := lafem.Dot(c.p, c.ap)
		if pAp == 0 {
			return StatusStagnated
		}
		alpha := rho / pAp

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

		rhoNew := c.precondition(c.z, c.r)
		if rho == 0 {
			return StatusStagnated
		}
		beta := rhoNew / rho
		lafem.Axpy(c.p, c.p, c.z, beta)
		rho = rhoNew
	}
	return StatusMaxIter
}

// precondition computes z = Precon^-1 * r (or z = r when unpreconditioned)
// and returns <r, z>.
func (c *PCG) precondition(z, r *lafem.DenseVector) float64 {
	if c.Precon == nil {
		lafem.Copy(z, r)
	} else {
		lafem.Scale(z, z, 0)
		c.Precon.Apply(z, r)
	}
	return lafem.Dot(r, z)
}
