// Package solver implements the multilevel solver/smoother stack of
// §4.7-§4.9: Richardson, PCG, BiCGStab, FGMRES, PCR, Jacobi/SOR/ILU
// preconditioners, geometric multigrid, the Schur-complement block
// preconditioner, and the ScaRC Schwarz/block-precon layer.
//
// Every Method's iterate loop is grounded on gonum's linsolve package
// (gonum.org/v1/gonum/linsolve): the same residual/search-direction
// recurrences CG, BiCGStab and GMRES use there (linsolve/cg.go,
// bicgstab.go, gmres.go), adapted from linsolve's resume-driven
// Init/Iterate(ctx) state machine to the run-to-completion Apply
// contract §4.7 specifies (apply(correction, defect) -> Status),
// because here Apply plays double duty as both an outer solve and an
// inner preconditioner action (§4.7: "Inner A^-1 and S^-1 are
// themselves solver handles").
package solver

// Status is the outcome of a solver Apply call (§4.7). Solver failure
// is not a fatal error — it is returned as Status alongside a nil
// error, letting an outer nonlinear driver retry or abort (§7).
type Status int

const (
	StatusUndefined Status = iota
	StatusSuccess
	StatusMaxIter
	StatusStagnated
	StatusDiverged
	StatusAborted
	StatusIntervalTooSmall
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusMaxIter:
		return "max_iter"
	case StatusStagnated:
		return "stagnated"
	case StatusDiverged:
		return "diverged"
	case StatusAborted:
		return "aborted"
	case StatusIntervalTooSmall:
		return "interval_too_small"
	default:
		return "undefined"
	}
}

// divergenceFactor is the §5 divergence-detection threshold:
// ||r_{k+1}|| > divergenceFactor * ||r_0|| is fatal to the iteration.
const divergenceFactor = 1e6
