package solver

import (
	"math"

	"github.com/haoxiangmiao/feat3-sub001/lafem"
)

// Operator is anything that can apply a linear map to a DenseVector in
// the alpha/y-accumulate shape SpMVCSR already uses (§4.1), so every
// solver below is agnostic to the concrete matrix format backing A.
type Operator interface {
	// Apply computes r = alpha*A*x (+y if y != nil).
	Apply(r *lafem.DenseVector, x *lafem.DenseVector, alpha float64, y *lafem.DenseVector)
}

// CSROperator adapts a *lafem.SparseMatrixCSR to Operator.
type CSROperator struct{ M *lafem.SparseMatrixCSR }

func (o CSROperator) Apply(r, x *lafem.DenseVector, alpha float64, y *lafem.DenseVector) {
	lafem.SpMVCSR(r, o.M, x, alpha, y)
}

// Method is the uniform solver interface of §4.7: every linear solver,
// smoother and preconditioner in this package implements it, so that an
// inner solver handle (e.g. the coarse-grid solver inside a multigrid
// cycle, or Ŝ^-1 inside the Schur preconditioner) is interchangeable
// with any other. Apply plays double duty as an outer solve (run to
// convergence) and an inner preconditioner action (a single, possibly
// inexact, application) — which role it plays is a property of the
// concrete method's configured tolerances, not of the interface.
type Method interface {
	// Init prepares internal state (scratch vectors, factorisations)
	// ahead of repeated Apply calls against operators of a fixed size.
	Init()
	// Apply computes an approximate correction solving A*correction ≈
	// defect and returns the convergence Status.
	Apply(correction, defect *lafem.DenseVector) Status
	// Done releases internal state acquired by Init.
	Done()
	SetMaxIter(n int)
	SetTolRel(tol float64)
	SetTolAbs(tol float64)
	SetPlot(plot bool)
}

// Base holds the option/bookkeeping fields every concrete Method
// embeds, mirroring the common solver_base.hpp fields of the original
// (max_iter, tol_rel, tol_abs, plot) without repeating their storage in
// every leaf type.
type Base struct {
	MaxIter int
	TolRel  float64
	TolAbs  float64
	Plot    bool
	Name    string

	iter        int
	defectInit  float64
	defectFinal float64
}

// NewBase returns a Base with the §5 default tolerances (tol_rel=1e-8,
// no absolute floor, max_iter=100).
func NewBase(name string) Base {
	return Base{MaxIter: 100, TolRel: 1e-8, TolAbs: 0, Name: name}
}

func (b *Base) SetMaxIter(n int)      { b.MaxIter = n }
func (b *Base) SetTolRel(tol float64) { b.TolRel = tol }
func (b *Base) SetTolAbs(tol float64) { b.TolAbs = tol }
func (b *Base) SetPlot(plot bool)     { b.Plot = plot }

// Iterations returns the iteration count of the most recent Apply call.
func (b *Base) Iterations() int { return b.iter }

// converged reports whether defect has dropped far enough relative to
// defectInit (the initial defect norm recorded at the start of Apply)
// to satisfy either the relative or absolute tolerance.
func (b *Base) converged(defect float64) bool {
	if b.TolAbs > 0 && defect <= b.TolAbs {
		return true
	}
	if b.defectInit == 0 {
		return defect <= b.TolAbs
	}
	return defect <= b.TolRel*b.defectInit
}

// diverged reports whether defect has blown up relative to the initial
// defect (§5's divergenceFactor threshold).
func (b *Base) diverged(defect float64) bool {
	return math.IsNaN(defect) || math.IsInf(defect, 0) ||
		(b.defectInit > 0 && defect > divergenceFactor*b.defectInit)
}

// start resets the per-Apply bookkeeping and records the initial
// defect norm used by converged/diverged.
func (b *Base) start(defectNorm float64) {
	b.iter = 0
	b.defectInit = defectNorm
	b.defectFinal = defectNorm
}
