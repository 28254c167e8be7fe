package solver

import (
	"github.com/haoxiangmiao/feat3-sub001/lafem"
	"gonum.org/v1/gonum/mat"
)

// DenseDirectSolver is a one-shot direct solve of a small dense local
// system via gonum's mat.LU, grounded on mat.LU.SolveVecTo (mat/lu.go):
// the exact local solve a Schwarz patch (§4.9) uses once its patch is
// small enough that factorising it outright beats an iterative inner
// Method.
type DenseDirectSolver struct {
	Base
	A  *mat.Dense
	lu mat.LU
}

// NewDenseDirectSolver builds a direct solver over the local dense
// system a, factorised lazily on first Init.
func NewDenseDirectSolver(a *mat.Dense) *DenseDirectSolver {
	return &DenseDirectSolver{Base: NewBase("DenseDirectSolver"), A: a}
}

func (d *DenseDirectSolver) Init() { d.lu.Factorize(d.A) }
func (d *DenseDirectSolver) Done() {}

// Apply solves A*correction = defect exactly via the cached LU
// factorisation.
func (d *DenseDirectSolver) Apply(correction, defect *lafem.DenseVector) Status {
	b := mat.NewVecDense(defect.Size(), defect.Elements())
	var x mat.VecDense
	if err := d.lu.SolveVecTo(&x, false, b); err != nil {
		return StatusDiverged
	}
	copy(correction.Elements(), x.RawVector().Data)
	return StatusSuccess
}
