package hierarchy

import (
	"fmt"

	"github.com/haoxiangmiao/feat3-sub001/gate"
)

// Link is one neighbour-rank adjacency entry of a Topology: rank owns
// the dofs mirror gathers from this process's local vector (§4.3's
// "load balancer" view of who owns which patch, grounded on the
// original's kernel/load_balancer.hpp / kernel/manager_comp_coord.hpp).
type Link struct {
	Rank   int
	Mirror *gate.Mirror
}

// Topology is the per-level neighbour-rank adjacency table a Gate is
// built from: an undirected adjacency list keyed by this process's own
// links to its neighbours, computed once (typically by a
// control.Factory) from the domain decomposition and shared across
// every container living on that level.
type Topology struct {
	links []Link
}

// NewTopology builds a Topology from the given neighbour links. A rank
// appearing twice is a configuration error (a process cannot have two
// distinct mirrors onto the same neighbour).
func NewTopology(links []Link) (*Topology, error) {
	seen := make(map[int]bool, len(links))
	for _, l := range links {
		if seen[l.Rank] {
			return nil, fmt.Errorf("hierarchy: duplicate neighbour rank %d in topology", l.Rank)
		}
		seen[l.Rank] = true
	}
	t := &Topology{links: append([]Link(nil), links...)}
	return t, nil
}

// Neighbours returns the ranks this topology is adjacent to, in the
// order they were registered.
func (t *Topology) Neighbours() []int {
	ranks := make([]int, len(t.links))
	for i, l := range t.links {
		ranks[i] = l.Rank
	}
	return ranks
}

// Degree reports how many neighbours this topology has.
func (t *Topology) Degree() int { return len(t.links) }

// MirrorFor returns the mirror onto the given neighbour rank, or nil if
// rank is not a neighbour.
func (t *Topology) MirrorFor(rank int) *gate.Mirror {
	for _, l := range t.links {
		if l.Rank == rank {
			return l.Mirror
		}
	}
	return nil
}

// BuildGate constructs the Gate this topology describes over localSize
// local dofs, using comm as the transport.
func (t *Topology) BuildGate(comm gate.Comm, localSize int) *gate.Gate {
	pairs := make(map[int]*gate.Mirror, len(t.links))
	for _, l := range t.links {
		pairs[l.Rank] = l.Mirror
	}
	return gate.NewGate(comm, localSize, pairs)
}
