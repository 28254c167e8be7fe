package solver

import (
	"context"

	"github.com/haoxiangmiao/feat3-sub001/gate"
	"github.com/haoxiangmiao/feat3-sub001/lafem"
	"github.com/haoxiangmiao/feat3-sub001/muxer"
	"github.com/haoxiangmiao/feat3-sub001/transfer"
)

// Cycle selects the multigrid cycle shape (§4.7): one recursive coarse
// solve per level for a V-cycle, two for a W-cycle.
type Cycle int

const (
	CycleV Cycle = iota
	CycleW
)

// Level is one grid level of a MultiGrid hierarchy: its system operator,
// optional interface Gate (nil on a single-process level), pre/post
// smoothers, the Transfer pair connecting it to the next coarser level
// (nil at the coarsest level), and an optional Muxer for entering a
// coarse layer with a different process count (§4.4).
type Level struct {
	A            Operator
	Gate         *gate.Gate
	PreSmoother  Method
	PostSmoother Method
	SmoothSteps  int
	Transfer     *transfer.Transfer
	Muxer        *muxer.Muxer

	defect     *lafem.DenseVector
	correction *lafem.DenseVector
	coarseDef  *lafem.DenseVector
	coarseCor  *lafem.DenseVector
}

// MultiGrid is the geometric multigrid solver of §4.7: pre/post
// smoother from config per level, configurable coarse solver,
// prolongation/restriction through Transfer, and on entering a level
// the muxer joins the child defect onto the parent coarse vector.
type MultiGrid struct {
	Base
	Levels       []*Level // finest first, coarsest last
	CoarseSolver Method
	CycleShape   Cycle
	Ctx          context.Context
}

// NewMultiGrid builds a MultiGrid solver over the given level hierarchy
// (finest first) with the given coarse-grid solver and cycle shape.
func NewMultiGrid(levels []*Level, coarseSolver Method, shape Cycle) *MultiGrid {
	return &MultiGrid{Base: NewBase("MultiGrid"), Levels: levels, CoarseSolver: coarseSolver, CycleShape: shape}
}

func (mg *MultiGrid) Init() {
	for _, l := range mg.Levels {
		if l.PreSmoother != nil {
			l.PreSmoother.Init()
		}
		if l.PostSmoother != nil && l.PostSmoother != l.PreSmoother {
			l.PostSmoother.Init()
		}
		if l.Transfer != nil {
			coarseSize := l.Transfer.R().Rows()
			l.coarseDef = lafem.NewDenseVector(coarseSize)
			l.coarseCor = lafem.NewDenseVector(coarseSize)
		}
	}
	mg.CoarseSolver.Init()
}

func (mg *MultiGrid) Done() {
	for _, l := range mg.Levels {
		if l.PreSmoother != nil {
			l.PreSmoother.Done()
		}
		if l.PostSmoother != nil && l.PostSmoother != l.PreSmoother {
			l.PostSmoother.Done()
		}
	}
	mg.CoarseSolver.Done()
}

func (mg *MultiGrid) ctx() context.Context {
	if mg.Ctx != nil {
		return mg.Ctx
	}
	return context.Background()
}

// Apply runs one multigrid cycle starting at the finest level.
func (mg *MultiGrid) Apply(correction, defect *lafem.DenseVector) Status {
	finest := mg.Levels[0]
	norm := lafem.Norm2(defect)
	mg.start(norm)
	if mg.converged(norm) {
		return StatusSuccess
	}

	var st Status
	for mg.iter = 1; mg.iter <= mg.MaxIter; mg.iter++ {
		st = mg.cycle(0, correction, defect)
		if st == StatusDiverged || st == StatusAborted {
			return st
		}
		finest.A.Apply(finest.defect, correction, -1, defect)
		resid := lafem.Norm2(finest.defect)
		mg.defectFinal = resid
		if mg.diverged(resid) {
			return StatusDiverged
		}
		if mg.converged(resid) {
			return StatusSuccess
		}
	}
	return StatusMaxIter
}

// cycle runs one V/W-cycle recursion starting at level idx, smoothing,
// restricting the residual to the coarser level, recursing, prolongating
// the coarse correction back and post-smoothing, bottoming out at
// mg.CoarseSolver on the last level.
func (mg *MultiGrid) cycle(idx int, correction, defect *lafem.DenseVector) Status {
	l := mg.Levels[idx]
	if l.defect == nil || l.defect.Size() != defect.Size() {
		l.defect = lafem.NewDenseVector(defect.Size())
		l.correction = lafem.NewDenseVector(defect.Size())
	}

	if idx == len(mg.Levels)-1 {
		return mg.CoarseSolver.Apply(correction, defect)
	}

	steps := l.SmoothSteps
	if steps <= 0 {
		steps = 1
	}
	if l.PreSmoother != nil {
		for s := 0; s < steps; s++ {
			if st := l.PreSmoother.Apply(correction, defect); st == StatusDiverged {
				return st
			}
		}
	}

	l.A.Apply(l.defect, correction, -1, defect)
	if l.Gate != nil {
		if err := l.Gate.Sync0(mg.ctx(), l.defect); err != nil {
			return StatusAborted
		}
	}

	l.Transfer.Restrict(l.coarseDef, l.defect)
	if l.Muxer != nil {
		joined := lafem.NewDenseVector(l.coarseDef.Size())
		if err := l.Muxer.SendJoin(mg.ctx(), joined, l.coarseDef); err != nil {
			return StatusAborted
		}
		lafem.Copy(l.coarseDef, joined)
	}

	lafem.Scale(l.coarseCor, l.coarseCor, 0)
	reps := 1
	if mg.CycleShape == CycleW {
		reps = 2
	}
	var st Status
	for r := 0; r < reps; r++ {
		st = mg.cycle(idx+1, l.coarseCor, l.coarseDef)
		if st == StatusDiverged || st == StatusAborted {
			return st
		}
	}

	if l.Muxer != nil {
		split := lafem.NewDenseVector(l.coarseCor.Size())
		if err := l.Muxer.SplitSend(mg.ctx(), split, l.coarseCor); err != nil {
			return StatusAborted
		}
		lafem.Copy(l.coarseCor, split)
	}

	l.Transfer.Prolongate(l.correction, l.coarseCor)
	lafem.Axpy(correction, l.correction, correction, 1)

	if l.PostSmoother != nil {
		for s := 0; s < steps; s++ {
			if st := l.PostSmoother.Apply(correction, defect); st == StatusDiverged {
				return st
			}
		}
	}
	return StatusSuccess
}
