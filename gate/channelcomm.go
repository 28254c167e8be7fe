package gate

import (
	"context"
	"math"
	"sync"
)

// broker is the shared state behind a group of ChannelComm ranks: an
// in-process stand-in for an MPI communicator, built so that
// gate/muxer code written against the abstract Comm interface can be
// exercised deterministically in tests without a real MPI binding
// (§9 design note: "introduce an opaque Comm abstraction").
type broker struct {
	size int

	mu       sync.Mutex
	inboxes  map[[3]int]chan []float64 // key: {dest, src, tag}
	arCond   *sync.Cond
	arRound  int
	arArrive map[int]int // round -> count of ranks arrived
	arData   map[int][][]float64
	arResult map[int][]float64
}

func newBroker(size int) *broker {
	b := &broker{
		size:     size,
		inboxes:  make(map[[3]int]chan []float64),
		arArrive: make(map[int]int),
		arData:   make(map[int][][]float64),
		arResult: make(map[int][]float64),
	}
	b.arCond = sync.NewCond(&b.mu)
	return b
}

func (b *broker) chanFor(dest, src, tag int) chan []float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := [3]int{dest, src, tag}
	ch, ok := b.inboxes[key]
	if !ok {
		ch = make(chan []float64, 64)
		b.inboxes[key] = ch
	}
	return ch
}

// NewChannelCommGroup creates n Comm instances sharing a broker, the
// in-process equivalent of launching n MPI ranks.
func NewChannelCommGroup(n int) []Comm {
	b := newBroker(n)
	comms := make([]Comm, n)
	for r := 0; r < n; r++ {
		comms[r] = &ChannelComm{rank: r, b: b}
	}
	return comms
}

// ChannelComm is a Comm implementation backed by an in-process broker,
// used by tests that exercise multi-rank Gate/Muxer synchronisation
// (e.g. §8 scenario S2) without a real MPI transport.
type ChannelComm struct {
	rank int
	b    *broker
}

var _ Comm = (*ChannelComm)(nil)

func (c *ChannelComm) Rank() int { return c.rank }
func (c *ChannelComm) Size() int { return c.b.size }

func (c *ChannelComm) Bcast(ctx context.Context, buf []byte, root int) error {
	// Every rank already holds the same process-local buf in this
	// in-process harness; Bcast is therefore a no-op save for the
	// root-validity check a real transport would also perform.
	if root < 0 || root >= c.b.size {
		panic("gate: bcast root out of range")
	}
	return nil
}

func (c *ChannelComm) Allreduce(ctx context.Context, send, recv []float64, op ReduceOp) error {
	b := c.b
	b.mu.Lock()
	round := b.arRound
	b.arData[round] = append(b.arData[round], append([]float64(nil), send...))
	b.arArrive[round]++
	arrived := b.arArrive[round]
	if arrived == b.size {
		result := make([]float64, len(send))
		switch op {
		case SUM:
			for _, v := range b.arData[round] {
				for i, x := range v {
					result[i] += x
				}
			}
		case MAX:
			for i := range result {
				result[i] = math.Inf(-1)
			}
			for _, v := range b.arData[round] {
				for i, x := range v {
					if x > result[i] {
						result[i] = x
					}
				}
			}
		case MIN:
			for i := range result {
				result[i] = math.Inf(1)
			}
			for _, v := range b.arData[round] {
				for i, x := range v {
					if x < result[i] {
						result[i] = x
					}
				}
			}
		}
		b.arResult[round] = result
		b.arRound++
		b.arCond.Broadcast()
	} else {
		for b.arArrive[round] < b.size {
			b.arCond.Wait()
		}
	}
	copy(recv, b.arResult[round])
	b.mu.Unlock()
	return nil
}

type channelRequest struct{ done_ chan struct{} }

func (channelRequest) done() {}

func (c *ChannelComm) Isend(data []float64, dest, tag int) Request {
	ch := c.b.chanFor(dest, c.rank, tag)
	payload := append([]float64(nil), data...)
	req := &channelRequest{done_: make(chan struct{})}
	go func() {
		ch <- payload
		close(req.done_)
	}()
	return req
}

func (c *ChannelComm) Irecv(buf []float64, src, tag int) Request {
	ch := c.b.chanFor(c.rank, src, tag)
	req := &channelRequest{done_: make(chan struct{})}
	go func() {
		data := <-ch
		copy(buf, data)
		close(req.done_)
	}()
	return req
}

func (c *ChannelComm) Waitall(ctx context.Context, reqs []Request) error {
	for _, r := range reqs {
		if r == nil {
			continue
		}
		cr := r.(*channelRequest)
		select {
		case <-cr.done_:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (c *ChannelComm) Sendrecv(send []float64, dest int, recv []float64, src int) error {
	sreq := c.Isend(send, dest, 0)
	rreq := c.Irecv(recv, src, 0)
	return c.Waitall(context.Background(), []Request{sreq, rreq})
}
