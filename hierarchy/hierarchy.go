// Package hierarchy implements the LevelHierarchy and MeshNode tree of
// §3: the sequence of (mesh, space, gate, muxer, filter, matrix,
// transfer) a multigrid solve climbs, plus the Topology adjacency table
// a Gate's mirrors are built from. Mesh/space assembly itself is out of
// scope (§1); this package only holds the per-level containers a
// control.Factory wires into solver.Method trees and owns their
// top-down teardown order.
package hierarchy

import (
	"fmt"

	"github.com/haoxiangmiao/feat3-sub001/filter"
	"github.com/haoxiangmiao/feat3-sub001/gate"
	"github.com/haoxiangmiao/feat3-sub001/lafem"
	"github.com/haoxiangmiao/feat3-sub001/muxer"
	"github.com/haoxiangmiao/feat3-sub001/transfer"
)

// Error is the sentinel error type for this package.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrUnknownLevel is returned when a level index is out of range.
	ErrUnknownLevel Error = "hierarchy: unknown level"
	// ErrNotFinest is returned by operations that only make sense on
	// the finest level of a hierarchy.
	ErrNotFinest Error = "hierarchy: not the finest level"
)

// Level is one entry of a LevelHierarchy (§3): the mesh and space
// themselves are opaque to this package (out of scope, §1) and are
// carried only as an untyped handle the caller's assembly contract
// attaches meaning to. Gate, MuxerToCoarser, Filter and Transfer are
// all optional — the coarsest level typically has no MuxerToCoarser or
// TransferToCoarser, and a serial run has no Gate at all.
type Level struct {
	// Name identifies the level within its hierarchy (e.g. "level3"),
	// matching the naming a control.MatrixStock registers containers
	// under.
	Name string

	// Space is the opaque FE-space handle for this level (out of
	// scope, §1: only consumed, never interpreted, by this package).
	Space any

	Gate             *gate.Gate
	MuxerToCoarser   *muxer.Muxer
	Filter           filter.Filter
	Matrix           *lafem.SparseMatrixCSR
	TransferToCoarser *transfer.Transfer
}

// LevelHierarchy is an ordered sequence of Levels, finest first (index
// 0), coarsest last, per §3. Each level uniquely owns its mesh and
// space; Gates and Muxers hold only references and mirrors onto data
// owned elsewhere, so tearing a hierarchy down top-to-bottom never
// double-frees shared state.
type LevelHierarchy struct {
	levels []*Level
}

// NewLevelHierarchy builds an empty hierarchy ready for levels to be
// appended finest-first.
func NewLevelHierarchy() *LevelHierarchy {
	return &LevelHierarchy{}
}

// Append adds lvl as the new coarsest level of the hierarchy.
func (h *LevelHierarchy) Append(lvl *Level) {
	h.levels = append(h.levels, lvl)
}

// NumLevels reports how many levels the hierarchy holds.
func (h *LevelHierarchy) NumLevels() int { return len(h.levels) }

// Level returns the level at the given index (0 = finest).
func (h *LevelHierarchy) Level(i int) (*Level, error) {
	if i < 0 || i >= len(h.levels) {
		return nil, fmt.Errorf("%w: index %d", ErrUnknownLevel, i)
	}
	return h.levels[i], nil
}

// Finest returns the finest (index 0) level.
func (h *LevelHierarchy) Finest() (*Level, error) { return h.Level(0) }

// Coarsest returns the coarsest (last index) level.
func (h *LevelHierarchy) Coarsest() (*Level, error) { return h.Level(len(h.levels) - 1) }

// ByName looks a level up by its Name.
func (h *LevelHierarchy) ByName(name string) (*Level, error) {
	for _, lvl := range h.levels {
		if lvl.Name == name {
			return lvl, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
}

// Teardown releases each level's containers from coarsest to finest —
// the reverse of assembly order per §3's "levels are destroyed
// top-down" rule read from the coarse end, since the coarse levels
// were assembled last and depend on nothing finer. release is called
// once per level; with a nil release the levels are only dropped.
// Either way the hierarchy is empty afterwards.
func (h *LevelHierarchy) Teardown(release func(*Level)) {
	for i := len(h.levels) - 1; i >= 0; i-- {
		if release != nil {
			release(h.levels[i])
		}
		h.levels[i] = nil
	}
	h.levels = h.levels[:0]
}
