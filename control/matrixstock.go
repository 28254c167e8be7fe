package control

import (
	"fmt"

	"github.com/haoxiangmiao/feat3-sub001/filter"
	"github.com/haoxiangmiao/feat3-sub001/gate"
	"github.com/haoxiangmiao/feat3-sub001/lafem"
	"github.com/haoxiangmiao/feat3-sub001/meta"
	"github.com/haoxiangmiao/feat3-sub001/solver"
	"github.com/haoxiangmiao/feat3-sub001/transfer"
)

// MatrixStock owns the per-level matrices, gates, muxers, filters and
// transfers a control-factory DAG is resolved against (§4.11): the
// factory only ever looks things up by name here, never constructs a
// matrix itself. A level name is whatever the assembly-contract
// component (out of scope, §1) chose to register it under.
type MatrixStock struct {
	matrices  map[string]*lafem.SparseMatrixCSR
	gates     map[string]*gate.Gate
	transfers map[string]*transfer.Transfer
	filters   map[string]filter.Filter
}

// NewMatrixStock builds an empty stock ready for registration.
func NewMatrixStock() *MatrixStock {
	return &MatrixStock{
		matrices:  make(map[string]*lafem.SparseMatrixCSR),
		gates:     make(map[string]*gate.Gate),
		transfers: make(map[string]*transfer.Transfer),
		filters:   make(map[string]filter.Filter),
	}
}

func (s *MatrixStock) RegisterMatrix(name string, m *lafem.SparseMatrixCSR) { s.matrices[name] = m }
func (s *MatrixStock) RegisterGate(name string, g *gate.Gate)               { s.gates[name] = g }
func (s *MatrixStock) RegisterTransfer(name string, t *transfer.Transfer)   { s.transfers[name] = t }
func (s *MatrixStock) RegisterFilter(name string, f filter.Filter)          { s.filters[name] = f }

func (s *MatrixStock) Matrix(name string) (*lafem.SparseMatrixCSR, error) {
	m, ok := s.matrices[name]
	if !ok {
		return nil, fmt.Errorf("control: %w: matrix %q", ErrMissingSection, name)
	}
	return m, nil
}

func (s *MatrixStock) Operator(name string) (solver.Operator, error) {
	m, err := s.Matrix(name)
	if err != nil {
		return nil, err
	}
	return solver.CSROperator{M: m}, nil
}

// MetaOperator returns the named matrix as a meta.Operator, for use as
// a meta.SaddlePointMatrix's B/D off-diagonal block (§4.9's Schur
// preconditioner).
func (s *MatrixStock) MetaOperator(name string) (meta.Operator, error) {
	op, err := s.Operator(name)
	if err != nil {
		return nil, err
	}
	return solver.DenseMetaOperator{Op: op}, nil
}

func (s *MatrixStock) Gate(name string) (*gate.Gate, error) {
	g, ok := s.gates[name]
	if !ok {
		return nil, fmt.Errorf("control: %w: gate %q", ErrMissingSection, name)
	}
	return g, nil
}

func (s *MatrixStock) Transfer(name string) (*transfer.Transfer, error) {
	t, ok := s.transfers[name]
	if !ok {
		return nil, fmt.Errorf("control: %w: transfer %q", ErrMissingSection, name)
	}
	return t, nil
}
