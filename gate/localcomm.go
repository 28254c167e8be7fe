package gate

import "context"

// SerialComm is the single-rank, no-transport Comm implementation: the
// "serial fallback" of §9's open question. It reports Size() == 1 and
// gives the collectives their one-rank meaning: Bcast from root 0 and
// Waitall are no-ops, and Allreduce copies send into recv. Every
// point-to-point call (Isend, Irecv, Sendrecv) and a Bcast from any
// other root panics, so a caller that accidentally builds a Gate/Muxer
// with neighbours over it fails loudly instead of computing a
// silently-wrong answer.
type SerialComm struct{}

var _ Comm = SerialComm{}

func (SerialComm) Rank() int { return 0 }
func (SerialComm) Size() int { return 1 }

func (SerialComm) Bcast(ctx context.Context, buf []byte, root int) error {
	if root != 0 {
		panic("gate: SerialComm has only rank 0")
	}
	return nil
}

func (SerialComm) Allreduce(ctx context.Context, send, recv []float64, op ReduceOp) error {
	copy(recv, send)
	return nil
}

type serialRequest struct{}

func (serialRequest) done() {}

func (SerialComm) Isend(data []float64, dest, tag int) Request {
	panic("gate: SerialComm has no peers to send to")
}

func (SerialComm) Irecv(buf []float64, src, tag int) Request {
	panic("gate: SerialComm has no peers to receive from")
}

func (SerialComm) Waitall(ctx context.Context, reqs []Request) error { return nil }

func (SerialComm) Sendrecv(send []float64, dest int, recv []float64, src int) error {
	panic("gate: SerialComm has no peers to exchange with")
}
