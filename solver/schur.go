package solver

import (
	"github.com/haoxiangmiao/feat3-sub001/lafem"
	"github.com/haoxiangmiao/feat3-sub001/meta"
)

// BlockMethod mirrors Method's contract (§4.7's uniform solver
// interface) but operates on a meta.Vector block instead of a flat
// lafem.DenseVector, letting the velocity/pressure sub-solves inside a
// Schur preconditioner be themselves arbitrarily composed (e.g. the
// velocity block solve may be a MultiGrid V-cycle over a PowerVector).
type BlockMethod interface {
	Init()
	Apply(correction, defect meta.Vector) Status
	Done()
}

// SchurVariant selects which triangular part of the 2x2 block system
// the preconditioner solves exactly (§4.9):
//
//	[A B]   [u]   [f_u]
//	[D 0] * [p] = [f_p]
type SchurVariant int

const (
	// SchurDiagonal solves only the diagonal blocks: u = A^-1 f_u, p = S^-1 f_p.
	SchurDiagonal SchurVariant = iota
	// SchurLower solves A then S using the just-computed u.
	SchurLower
	// SchurUpper solves S then A using the just-computed p.
	SchurUpper
	// SchurFull is the exact 2x2 block-LU action (two A-solves).
	SchurFull
)

// Schur is the Schur-complement block preconditioner of §4.9 over a
// meta.SaddlePointMatrix [A B; D 0]: AInv and SInv are themselves
// solver handles (BlockMethod) approximating A^-1 and the Schur
// complement inverse S^-1 ≈ -(D A^-1 B)^-1.
type Schur struct {
	Base
	B, D    meta.Operator
	AInv    BlockMethod
	SInv    BlockMethod
	Variant SchurVariant
}

// NewSchur builds a Schur preconditioner for the given off-diagonal
// blocks B, D and inner solver handles aInv, sInv.
func NewSchur(b, d meta.Operator, aInv, sInv BlockMethod, variant SchurVariant) *Schur {
	return &Schur{Base: NewBase("Schur"), B: b, D: d, AInv: aInv, SInv: sInv, Variant: variant}
}

func (s *Schur) Init() {
	s.AInv.Init()
	s.SInv.Init()
}

func (s *Schur) Done() {
	s.AInv.Done()
	s.SInv.Done()
}

// Apply computes the preconditioner action for TupleVector correction
// (blocks [u, p]) given defect (blocks [f_u, f_p]), per Variant.
func (s *Schur) Apply(correction, defect *meta.TupleVector) Status {
	if correction.N() != 2 || defect.N() != 2 {
		panic(lafem.ErrSizeMismatch)
	}
	u, p := correction.Block(0), correction.Block(1)
	fu, fp := defect.Block(0), defect.Block(1)

	switch s.Variant {
	case SchurDiagonal:
		s.AInv.Apply(u, fu)
		s.SInv.Apply(p, fp)
	case SchurLower:
		s.AInv.Apply(u, fu)
		rp := s.residualP(fp, u)
		s.SInv.Apply(p, rp)
	case SchurUpper:
		s.SInv.Apply(p, fp)
		ru := s.residualU(fu, p)
		s.AInv.Apply(u, ru)
	case SchurFull:
		// Block-LU action: A u1 = fu; S p = fp - D u1; A u2 = B p; u = u1 - u2.
		u1 := fu.Clone(lafem.CloneLayout)
		s.AInv.Apply(u1, fu)
		rp := s.residualP(fp, u1)
		s.SInv.Apply(p, rp)
		bp := p.Clone(lafem.CloneLayout)
		s.B.Apply(bp, p, 1, nil)
		u2 := fu.Clone(lafem.CloneLayout)
		s.AInv.Apply(u2, bp)
		u.Copy(u1)
		u.Axpy(u2, u, -1)
	}
	return StatusSuccess
}

// residualP computes f_p - D*u.
func (s *Schur) residualP(fp, u meta.Vector) meta.Vector {
	out := fp.Clone(lafem.CloneLayout)
	s.D.Apply(out, u, -1, fp)
	return out
}

// residualU computes f_u - B*p, the SchurUpper variant's second solve's
// right-hand side.
func (s *Schur) residualU(fu, p meta.Vector) meta.Vector {
	out := fu.Clone(lafem.CloneLayout)
	s.B.Apply(out, p, -1, fu)
	return out
}
