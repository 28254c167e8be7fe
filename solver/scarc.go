package solver

import "github.com/haoxiangmiao/feat3-sub001/lafem"

// ScaRCFunctor wraps a linear solver (Method) plus an optional inner
// preconditioner handle, itself a ScaRCFunctor (§4.9): composing
// functors nests an outer global (layer-1, gate-synchronised) solve
// around an inner local (layer-0, unsynchronised) Schwarz block
// smoother, e.g. Richardson_0(Schwarz(Richardson_1(JacobiSpMV))).
// ScaRCFunctor itself is just the Method delegation; Layer distinguishes
// how the wrapped solver was built (over the global distributed matrix
// vs. a per-patch local system) purely for bookkeeping/logging, since
// the gate-synchronisation decision is baked into the concrete Method's
// Operator and is not re-derived here.
type ScaRCFunctor struct {
	Base
	Inner Method
	Layer Layer
}

// Layer distinguishes a ScaRCFunctor's role in the two-layer Schwarz
// hierarchy (§4.9).
type Layer int

const (
	// Layer1 operates on the globally distributed matrix with
	// gate-based residual computation.
	Layer1 Layer = iota
	// Layer0 operates on the per-patch local system with no
	// synchronisation, used as a Schwarz block smoother.
	Layer0
)

// NewScaRCFunctor wraps inner as a ScaRCFunctor tagged with the given
// layer.
func NewScaRCFunctor(inner Method, layer Layer) *ScaRCFunctor {
	return &ScaRCFunctor{Base: NewBase("ScaRCFunctor"), Inner: inner, Layer: layer}
}

func (f *ScaRCFunctor) Init() { f.Inner.Init() }
func (f *ScaRCFunctor) Done() { f.Inner.Done() }

func (f *ScaRCFunctor) Apply(correction, defect *lafem.DenseVector) Status {
	return f.Inner.Apply(correction, defect)
}

// Schwarz is the additive Schwarz block smoother of §4.9: the domain is
// partitioned into overlapping patches, each with its own local system
// and a Layer0 Method solving it; Apply runs every patch's local solve
// against its restriction of defect and accumulates the (optionally
// damped) patch corrections back into the global correction vector with
// no inter-patch synchronisation.
type Schwarz struct {
	Base
	Patches []Patch
	Damping float64
}

// Patch is one overlapping Schwarz block: Indices maps local patch dof
// i to its global dof index, and Solver is the Layer0 Method solving
// the local system restricted to those dofs.
type Patch struct {
	Indices []int
	Solver  Method
}

// NewSchwarz builds an additive Schwarz smoother over the given patches
// with correction damping factor (1.0 for undamped additive Schwarz).
func NewSchwarz(patches []Patch, damping float64) *Schwarz {
	return &Schwarz{Base: NewBase("Schwarz"), Patches: patches, Damping: damping}
}

func (s *Schwarz) Init() {
	for _, p := range s.Patches {
		p.Solver.Init()
	}
}

func (s *Schwarz) Done() {
	for _, p := range s.Patches {
		p.Solver.Done()
	}
}

// Apply restricts defect onto each patch, runs the patch's local
// solver, and scatter-adds the damped local correction back into the
// global correction vector. Overlapping patches accumulate additively,
// the defining trait of additive (as opposed to multiplicative) Schwarz.
func (s *Schwarz) Apply(correction, defect *lafem.DenseVector) Status {
	for _, p := range s.Patches {
		n := len(p.Indices)
		localDefect := lafem.NewDenseVector(n)
		localCorrection := lafem.NewDenseVector(n)
		dd := defect.Elements()
		ld := localDefect.Elements()
		for i, g := range p.Indices {
			ld[i] = dd[g]
		}
		if st := p.Solver.Apply(localCorrection, localDefect); st == StatusDiverged {
			return st
		}
		lc := localCorrection.Elements()
		cd := correction.Elements()
		for i, g := range p.Indices {
			cd[g] += s.Damping * lc[i]
		}
	}
	return StatusSuccess
}
