package lafem

import "gonum.org/v1/gonum/mat"

// SpMVCSR computes r = alpha*A*x + y (or, when y is nil and alpha==1,
// the simple r = A*x form), sequentially row by row, skipping
// zero-length rows. alpha == -1 with r aliasing a defect vector and y
// the right-hand side computes the classical defect = y - A*x form
// used throughout the solver stack (§4.1).
func SpMVCSR(r *DenseVector, a *SparseMatrixCSR, x *DenseVector, alpha float64, y *DenseVector) {
	if x.Size() != a.Cols() {
		panic(ErrSizeMismatch)
	}
	if r.Size() != a.Rows() {
		panic(ErrSizeMismatch)
	}
	if y != nil && y.Size() != a.Rows() {
		panic(ErrSizeMismatch)
	}
	rp, ci, val := a.RowPtr(), a.ColInd(), a.Values()
	xd := x.Elements()
	rd := r.Elements()
	for i := 0; i < a.Rows(); i++ {
		if rp[i] == rp[i+1] {
			if y != nil {
				rd[i] = y.Elements()[i]
			} else {
				rd[i] = 0
			}
			continue
		}
		var sum float64
		for k := rp[i]; k < rp[i+1]; k++ {
			sum += val[k] * xd[ci[k]]
		}
		sum *= alpha
		if y != nil {
			sum += y.Elements()[i]
		}
		rd[i] = sum
	}
}

// Defect computes d = b - A*x, the SpMV alpha=-1 dispatch case.
func Defect(d *DenseVector, a *SparseMatrixCSR, b, x *DenseVector) {
	SpMVCSR(d, a, x, -1, b)
}

// SpMVBanded computes r = alpha*A*x + y (y may be nil) for a banded
// matrix: row i
// traverses num_offsets diagonals; diagonal d with offset o
// contributes val[d*rows+i] * x[i+o+1-rows] when that column index is
// in [0, columns), per §4.1.
func SpMVBanded(r *DenseVector, a *SparseMatrixBanded, x *DenseVector, alpha float64, y *DenseVector) {
	if x.Size() != a.cols {
		panic(ErrSizeMismatch)
	}
	if r.Size() != a.rows {
		panic(ErrSizeMismatch)
	}
	rd := r.Elements()
	xd := x.Elements()
	val := a.val.Data()
	for i := 0; i < a.rows; i++ {
		var sum float64
		for d, o := range a.offsets {
			col := i + o + 1 - a.rows
			if col < 0 || col >= a.cols {
				continue
			}
			sum += val[d*a.rows+i] * xd[col]
		}
		sum *= alpha
		if y != nil {
			sum += y.Elements()[i]
		}
		rd[i] = sum
	}
}

// SpMVBCSR computes r = alpha*A*x + y for a block-CSR matrix: each
// stored tile contributes a dense m*n gemv against the corresponding
// block of x, accumulated into the corresponding block of r. The
// per-tile gemv is driven through gonum's mat.Dense/mat.VecDense
// (TileView), the same BLAS-backed MulVec every gonum dense solve uses.
func SpMVBCSR(r *DenseVectorBlocked, a *SparseMatrixBCSR, x *DenseVectorBlocked, alpha float64, y *DenseVectorBlocked) {
	if x.BlockSize() != a.blockCols || r.BlockSize() != a.blockRows {
		panic(ErrSizeMismatch)
	}
	if x.Size() != a.cols || r.Size() != a.rows {
		panic(ErrSizeMismatch)
	}
	rp, ci := a.rowPtr.Data(), a.colInd.Data()
	acc := mat.NewVecDense(a.blockRows, make([]float64, a.blockRows))
	for i := 0; i < a.rows; i++ {
		out := r.Block(i)
		if y != nil {
			copy(out, y.Block(i))
		} else {
			for k := range out {
				out[k] = 0
			}
		}
		for k := rp[i]; k < rp[i+1]; k++ {
			tile := a.TileView(k)
			in := mat.NewVecDense(a.blockCols, x.Block(ci[k]))
			acc.MulVec(tile, in)
			for row := 0; row < a.blockRows; row++ {
				out[row] += alpha * acc.AtVec(row)
			}
		}
	}
}
