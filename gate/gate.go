package gate

import (
	"context"
	"math"

	"github.com/haoxiangmiao/feat3-sub001/lafem"
)

// neighbour pairs a rank with the Mirror onto the interface dofs it
// shares with this rank.
type neighbour struct {
	rank   int
	mirror *Mirror
}

// Gate is a per-rank interface-synchronisation object: it holds one
// Mirror per neighbouring rank plus a per-dof frequency vector (the sum
// of 1-per-appearance across all owning ranks), and drives the
// overlap-sum synchronisation of §4.3. A Gate instance serialises its
// own synchronisations; distinct Gates are independent (§5).
type Gate struct {
	comm       Comm
	neighbours []neighbour
	freq       *lafem.DenseVector
	localSize  int
}

// NewGate builds a Gate over localSize local dofs, given the list of
// (neighbourRank, mirror) pairs. freq is computed as the per-dof
// multiplicity: every dof starts at local count 1 and accumulates one
// more for every neighbour mirror that also covers it, exactly as
// sync_0 would compute it from an all-ones vector. The count is taken
// locally from the mirrors, so NewGate exchanges nothing with the
// neighbours.
func NewGate(comm Comm, localSize int, pairs map[int]*Mirror) *Gate {
	g := &Gate{comm: comm, localSize: localSize}
	for rank, m := range pairs {
		g.neighbours = append(g.neighbours, neighbour{rank: rank, mirror: m})
	}
	g.freq = lafem.NewDenseVector(localSize)
	freq := g.freq.Elements()
	for i := range freq {
		freq[i] = 1
	}
	for _, n := range g.neighbours {
		for _, idx := range n.mirror.Indices {
			freq[idx]++
		}
	}
	return g
}

// Frequency returns the per-dof multiplicity vector used by Sync1.
func (g *Gate) Frequency() *lafem.DenseVector { return g.freq }

// Sync0 performs overlap-sum synchronisation (§4.3 sync_0): for each
// neighbour, gather local interface values with the mirror into a send
// buffer, post non-blocking receives before sends (§5, to avoid
// unexpected-message buffering blow-up), then on completion scatter-add
// the receive buffer into v. After one round-trip every interface dof
// equals the global sum of all ranks' contributions.
func (g *Gate) Sync0(ctx context.Context, v *lafem.DenseVector) error {
	if v.Size() != g.localSize {
		return lafem.ErrSizeMismatch
	}
	if len(g.neighbours) == 0 {
		return nil
	}
	recvBufs := make([][]float64, len(g.neighbours))
	sendBufs := make([][]float64, len(g.neighbours))
	var reqs []Request

	// Post all receives first.
	for i, n := range g.neighbours {
		recvBufs[i] = make([]float64, n.mirror.Len())
		reqs = append(reqs, g.comm.Irecv(recvBufs[i], n.rank, 0))
	}
	// Then post all sends.
	for i, n := range g.neighbours {
		sendBufs[i] = make([]float64, n.mirror.Len())
		n.mirror.Gather(sendBufs[i], v)
		reqs = append(reqs, g.comm.Isend(sendBufs[i], n.rank, 0))
	}
	if err := g.comm.Waitall(ctx, reqs); err != nil {
		return err
	}
	for i, n := range g.neighbours {
		n.mirror.ScatterAdd(v, recvBufs[i])
	}
	return nil
}

// Sync1 converts a type-0 (sum-of-contributions) vector to a type-1
// (averaged) vector: Sync0 followed by a component-wise divide by the
// frequency vector (§4.3 sync_1).
func (g *Gate) Sync1(ctx context.Context, v *lafem.DenseVector) error {
	if err := g.Sync0(ctx, v); err != nil {
		return err
	}
	data := v.Elements()
	freq := g.freq.Elements()
	for i := range data {
		data[i] /= freq[i]
	}
	return nil
}

// GlobalDot computes the globally distributed dot product of two
// vectors that have already been made consistent across ranks: local
// reduce, then allreduce(SUM).
func (g *Gate) GlobalDot(ctx context.Context, x, y *lafem.DenseVector) (float64, error) {
	local := lafem.Dot(x, y)
	send := []float64{local}
	recv := make([]float64, 1)
	if err := g.comm.Allreduce(ctx, send, recv, SUM); err != nil {
		return 0, err
	}
	return recv[0], nil
}

// GlobalNorm2 computes the globally distributed 2-norm: local
// sum-of-squares reduce, allreduce(SUM), then sqrt.
func (g *Gate) GlobalNorm2(ctx context.Context, x *lafem.DenseVector) (float64, error) {
	local := lafem.Norm2Sqr(x)
	send := []float64{local}
	recv := make([]float64, 1)
	if err := g.comm.Allreduce(ctx, send, recv, SUM); err != nil {
		return 0, err
	}
	return math.Sqrt(recv[0]), nil
}

// Comm returns the underlying transport, e.g. so a caller can check
// Rank()/Size() without threading a second reference through.
func (g *Gate) Comm() Comm { return g.comm }
