package lafem

import "gonum.org/v1/gonum/mat"

// SparseMatrixCSR is a compressed-sparse-row matrix: row_ptr has
// rows+1 entries, col_ind and val each have nnz entries. It implements
// gonum's mat.Matrix interface (Dims/At/T), the same conformance
// james-bowman/sparse's COO type targets, so CSR matrices can be
// dropped into any gonum mat helper that accepts a Matrix.
type SparseMatrixCSR struct {
	rows, cols int
	rowPtr     *Handle[int]
	colInd     *Handle[int]
	val        *Handle[float64]
}

var _ mat.Matrix = (*SparseMatrixCSR)(nil)

// NewCSRFromTriplets builds a CSR matrix from unordered (row, col, value)
// triplets by counting-sort compression, the same cumsum/compress
// construction james-bowman/sparse's COO.ToCSR uses. Duplicate (row,
// col) pairs are summed.
func NewCSRFromTriplets(rows, cols int, row, col []int, data []float64) *SparseMatrixCSR {
	if rows <= 0 || cols <= 0 {
		panic(ErrInvalidArgument)
	}
	if len(row) != len(col) || len(col) != len(data) {
		panic(ErrSizeMismatch)
	}
	counts := make([]int, rows+1)
	for _, r := range row {
		counts[r]++
	}
	rowPtr := make([]int, rows+1)
	nz := 0
	for i := 0; i < rows; i++ {
		rowPtr[i] = nz
		nz += counts[i]
		counts[i] = rowPtr[i]
	}
	rowPtr[rows] = nz

	colInd := make([]int, len(col))
	val := make([]float64, len(data))
	for k, r := range row {
		p := counts[r]
		colInd[p] = col[k]
		val[p] = data[k]
		counts[r]++
	}

	m := &SparseMatrixCSR{
		rows: rows, cols: cols,
		rowPtr: WrapHandle(rowPtr),
		colInd: WrapHandle(colInd),
		val:    WrapHandle(val),
	}
	m.dedupe()
	return m
}

// NewCSRLayout builds a CSR matrix from a fixed sparsity pattern
// (row_ptr, col_ind) with zero-filled values, the symbolic-assembly
// contract of §3.
func NewCSRLayout(rows, cols int, rowPtr, colInd []int) *SparseMatrixCSR {
	if rows <= 0 || cols <= 0 {
		panic(ErrInvalidArgument)
	}
	if len(rowPtr) != rows+1 {
		panic(ErrSizeMismatch)
	}
	for i := 0; i < rows; i++ {
		if rowPtr[i] > rowPtr[i+1] || rowPtr[i+1] > len(colInd) {
			panic(ErrInvalidArgument)
		}
	}
	return &SparseMatrixCSR{
		rows: rows, cols: cols,
		rowPtr: WrapHandle(rowPtr),
		colInd: WrapHandle(colInd),
		val:    NewHandle[float64](len(colInd)),
	}
}

func (m *SparseMatrixCSR) dedupe() {
	rp := m.rowPtr.Data()
	ci := m.colInd.Data()
	v := m.val.Data()
	seen := make(map[int]int, m.cols)
	newCI := ci[:0]
	newV := v[:0]
	newRP := make([]int, m.rows+1)
	for i := 0; i < m.rows; i++ {
		for k := range seen {
			delete(seen, k)
		}
		start := len(newCI)
		for j := rp[i]; j < rp[i+1]; j++ {
			c := ci[j]
			if pos, ok := seen[c]; ok {
				newV[pos] += v[j]
				continue
			}
			seen[c] = len(newCI)
			newCI = append(newCI, c)
			newV = append(newV, v[j])
		}
		newRP[i] = start
	}
	newRP[m.rows] = len(newCI)
	m.rowPtr = WrapHandle(newRP)
	m.colInd = WrapHandle(newCI)
	m.val = WrapHandle(newV)
}

// Dims implements mat.Matrix.
func (m *SparseMatrixCSR) Dims() (r, c int) { return m.rows, m.cols }

// At implements mat.Matrix; it scans the requested row's stored column
// indices (typically short for FE stencils).
func (m *SparseMatrixCSR) At(i, j int) float64 {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(ErrInvalidArgument)
	}
	rp, ci, v := m.rowPtr.Data(), m.colInd.Data(), m.val.Data()
	for k := rp[i]; k < rp[i+1]; k++ {
		if ci[k] == j {
			return v[k]
		}
	}
	return 0
}

// T implements mat.Matrix via gonum's implicit-transpose wrapper.
func (m *SparseMatrixCSR) T() mat.Matrix { return mat.Transpose{Matrix: m} }

// NNZ reports the number of stored entries.
func (m *SparseMatrixCSR) NNZ() int { return m.val.Len() }

// RowPtr, ColInd, Values expose the three backing arrays for direct
// indexed access by SpMV and assembly code.
func (m *SparseMatrixCSR) RowPtr() []int      { return m.rowPtr.Data() }
func (m *SparseMatrixCSR) ColInd() []int      { return m.colInd.Data() }
func (m *SparseMatrixCSR) Values() []float64  { return m.val.Data() }
func (m *SparseMatrixCSR) Rows() int          { return m.rows }
func (m *SparseMatrixCSR) Cols() int          { return m.cols }

// ToDense materialises the matrix into a gonum mat.Dense, matching
// james-bowman/sparse's COO.ToDense convention.
func (m *SparseMatrixCSR) ToDense() *mat.Dense {
	d := mat.NewDense(m.rows, m.cols, nil)
	rp, ci, v := m.rowPtr.Data(), m.colInd.Data(), m.val.Data()
	for i := 0; i < m.rows; i++ {
		for k := rp[i]; k < rp[i+1]; k++ {
			d.Set(i, ci[k], v[k])
		}
	}
	return d
}

// Transpose physically transposes the matrix (not a logical view),
// matching §4.6's "R = P^T (physical transpose, not a logical view)"
// contract for transfer operators.
func (m *SparseMatrixCSR) Transpose() *SparseMatrixCSR {
	rp, ci, v := m.rowPtr.Data(), m.colInd.Data(), m.val.Data()
	row := make([]int, len(ci))
	for i := 0; i < m.rows; i++ {
		for k := rp[i]; k < rp[i+1]; k++ {
			row[k] = i
		}
	}
	return NewCSRFromTriplets(m.cols, m.rows, ci, row, v)
}

// Clone returns a new SparseMatrixCSR under the given CloneMode.
func (m *SparseMatrixCSR) Clone(mode CloneMode) *SparseMatrixCSR {
	switch mode {
	case CloneShallow:
		return &SparseMatrixCSR{rows: m.rows, cols: m.cols, rowPtr: m.rowPtr.Alias(), colInd: m.colInd.Alias(), val: m.val.Alias()}
	case CloneWeak:
		return &SparseMatrixCSR{rows: m.rows, cols: m.cols, rowPtr: m.rowPtr.Alias(), colInd: m.colInd.Alias(), val: m.val.Fresh()}
	case CloneLayout:
		return &SparseMatrixCSR{rows: m.rows, cols: m.cols, rowPtr: m.rowPtr.Fresh(), colInd: m.colInd.Fresh(), val: m.val.ZeroLike()}
	default:
		return &SparseMatrixCSR{rows: m.rows, cols: m.cols, rowPtr: m.rowPtr.Fresh(), colInd: m.colInd.Fresh(), val: m.val.Fresh()}
	}
}
