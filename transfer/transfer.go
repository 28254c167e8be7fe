// Package transfer implements the two-level grid-transfer operators of
// §4.6: prolongation P built from a cubature-weighted L2 projection
// over the refinement stencil, weight-rescaled by the synchronised
// inverse weight vector, and restriction R = P^T as a physical
// transpose.
package transfer

import (
	"context"

	"github.com/haoxiangmiao/feat3-sub001/gate"
	"github.com/haoxiangmiao/feat3-sub001/lafem"
)

// Transfer is a two-level (prolongation, restriction) operator pair.
type Transfer struct {
	p *lafem.SparseMatrixCSR
	r *lafem.SparseMatrixCSR
}

// CubatureEntry is one (fineRow, coarseCol, weight) contribution
// produced by integrating fine basis functions against parent coarse
// basis functions with a cubature rule over the refinement stencil
// (§4.6). Building this list is the assembly contract's responsibility
// (out of scope, §1); Transfer only consumes it.
type CubatureEntry struct {
	FineRow, CoarseCol int
	Weight             float64
}

// NewTransfer builds P from the given cubature entries (a fine-level
// row may receive contributions from several coarse columns), rescales
// its rows by the inverse of the fine-level gate-synchronised weight
// vector (so a constant coarse vector is preserved after rescaling,
// §8 property 8), and sets R = P^T as a true physical transpose.
func NewTransfer(ctx context.Context, fineGate *gate.Gate, fineRows, coarseCols int, entries []CubatureEntry) (*Transfer, error) {
	rows := make([]int, len(entries))
	cols := make([]int, len(entries))
	vals := make([]float64, len(entries))
	for i, e := range entries {
		rows[i] = e.FineRow
		cols[i] = e.CoarseCol
		vals[i] = e.Weight
	}
	p := lafem.NewCSRFromTriplets(fineRows, coarseCols, rows, cols, vals)

	weight := lafem.NewDenseVector(fineRows)
	rp, _, val := p.RowPtr(), p.ColInd(), p.Values()
	wd := weight.Elements()
	for i := 0; i < fineRows; i++ {
		var sum float64
		for k := rp[i]; k < rp[i+1]; k++ {
			sum += val[k]
		}
		wd[i] = sum
	}
	if fineGate != nil {
		if err := fineGate.Sync0(ctx, weight); err != nil {
			return nil, err
		}
	}
	inv := lafem.NewDenseVector(fineRows)
	lafem.ComponentInvert(inv, weight, 1)
	invd := inv.Elements()
	rp2, _, val2 := p.RowPtr(), p.ColInd(), p.Values()
	for i := 0; i < fineRows; i++ {
		for k := rp2[i]; k < rp2[i+1]; k++ {
			val2[k] *= invd[i]
		}
	}

	return &Transfer{p: p, r: p.Transpose()}, nil
}

// P returns the prolongation operator (coarse -> fine).
func (t *Transfer) P() *lafem.SparseMatrixCSR { return t.p }

// R returns the restriction operator (fine -> coarse), the physical
// transpose of P.
func (t *Transfer) R() *lafem.SparseMatrixCSR { return t.r }

// Prolongate computes fine = P * coarse.
func (t *Transfer) Prolongate(fine, coarse *lafem.DenseVector) {
	lafem.SpMVCSR(fine, t.p, coarse, 1, nil)
}

// Restrict computes coarse = R * fine.
func (t *Transfer) Restrict(coarse, fine *lafem.DenseVector) {
	lafem.SpMVCSR(coarse, t.r, fine, 1, nil)
}
