package lafem

import "gonum.org/v1/gonum/mat"

// SparseMatrixBCSR stores tiles of a compile-time block shape
// (blockRows x blockCols) in compressed-row form: rowPtr/colInd index
// tiles, not scalars, and val holds blockRows*blockCols values
// contiguously per stored tile (len(colInd) tiles in all).
type SparseMatrixBCSR struct {
	rows, cols           int // logical (tile) dimensions
	blockRows, blockCols int
	rowPtr               *Handle[int]
	colInd               *Handle[int]
	val                  *Handle[float64]
}

// NewBCSRLayout builds a BCSR matrix from a fixed tile sparsity pattern
// with zero-filled tile values (symbolic assembly).
func NewBCSRLayout(rows, cols, blockRows, blockCols int, rowPtr, colInd []int) *SparseMatrixBCSR {
	if rows <= 0 || cols <= 0 || blockRows <= 0 || blockCols <= 0 {
		panic(ErrInvalidArgument)
	}
	if len(rowPtr) != rows+1 {
		panic(ErrSizeMismatch)
	}
	nTiles := len(colInd)
	return &SparseMatrixBCSR{
		rows: rows, cols: cols,
		blockRows: blockRows, blockCols: blockCols,
		rowPtr: WrapHandle(rowPtr),
		colInd: WrapHandle(colInd),
		val:    NewHandle[float64](nTiles * blockRows * blockCols),
	}
}

// Tile returns the dense blockRows*blockCols values for the k-th
// stored tile (row-major), as a slice aliasing backing storage.
func (m *SparseMatrixBCSR) Tile(k int) []float64 {
	n := m.blockRows * m.blockCols
	return m.val.Data()[k*n : (k+1)*n]
}

// TileView returns the k-th stored tile as a mat.Dense view over the
// same backing storage Tile(k) aliases, so a tile's gemv in
// SpMVBCSR can be driven through gonum's mat.Dense.MulVec instead of a
// hand-rolled loop.
func (m *SparseMatrixBCSR) TileView(k int) *mat.Dense {
	return mat.NewDense(m.blockRows, m.blockCols, m.Tile(k))
}

func (m *SparseMatrixBCSR) Rows() int          { return m.rows }
func (m *SparseMatrixBCSR) Cols() int          { return m.cols }
func (m *SparseMatrixBCSR) BlockShape() (int, int) { return m.blockRows, m.blockCols }
func (m *SparseMatrixBCSR) RowPtr() []int      { return m.rowPtr.Data() }
func (m *SparseMatrixBCSR) ColInd() []int      { return m.colInd.Data() }

// Clone returns a new SparseMatrixBCSR under the given CloneMode.
func (m *SparseMatrixBCSR) Clone(mode CloneMode) *SparseMatrixBCSR {
	switch mode {
	case CloneShallow:
		return &SparseMatrixBCSR{rows: m.rows, cols: m.cols, blockRows: m.blockRows, blockCols: m.blockCols,
			rowPtr: m.rowPtr.Alias(), colInd: m.colInd.Alias(), val: m.val.Alias()}
	case CloneWeak:
		return &SparseMatrixBCSR{rows: m.rows, cols: m.cols, blockRows: m.blockRows, blockCols: m.blockCols,
			rowPtr: m.rowPtr.Alias(), colInd: m.colInd.Alias(), val: m.val.Fresh()}
	case CloneLayout:
		return &SparseMatrixBCSR{rows: m.rows, cols: m.cols, blockRows: m.blockRows, blockCols: m.blockCols,
			rowPtr: m.rowPtr.Fresh(), colInd: m.colInd.Fresh(), val: m.val.ZeroLike()}
	default:
		return &SparseMatrixBCSR{rows: m.rows, cols: m.cols, blockRows: m.blockRows, blockCols: m.blockCols,
			rowPtr: m.rowPtr.Fresh(), colInd: m.colInd.Fresh(), val: m.val.Fresh()}
	}
}
