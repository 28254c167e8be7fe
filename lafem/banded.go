package lafem

// SparseMatrixBanded stores numOffsets diagonals of a rows x cols
// matrix: an offset array and a rows*numOffsets value array,
// diagonal-major. In row i, offset o addresses column i+o+1-rows, so
// the main diagonal has offset rows-1. Offsets
// that would address storage outside the logical matrix for every row
// are rejected at construction (§3).
type SparseMatrixBanded struct {
	rows, cols int
	offsets    []int
	val        *Handle[float64]
}

// NewBandedLayout validates the offsets against the matrix shape and
// allocates zero-filled diagonal storage.
func NewBandedLayout(rows, cols int, offsets []int) *SparseMatrixBanded {
	if rows <= 0 || cols <= 0 {
		panic(ErrInvalidArgument)
	}
	for _, o := range offsets {
		// The diagonal must address at least one valid (row, col)
		// pair: col = i + o + 1 - rows must land in [0, cols) for some
		// i in [0, rows).
		lo := 0 + o + 1 - rows
		hi := (rows - 1) + o + 1 - rows
		if hi < 0 || lo >= cols {
			panic(ErrOffsetOutOfRange)
		}
	}
	off := make([]int, len(offsets))
	copy(off, offsets)
	return &SparseMatrixBanded{
		rows: rows, cols: cols,
		offsets: off,
		val:     NewHandle[float64](rows * len(offsets)),
	}
}

func (m *SparseMatrixBanded) Rows() int        { return m.rows }
func (m *SparseMatrixBanded) Cols() int        { return m.cols }
func (m *SparseMatrixBanded) NumOffsets() int  { return len(m.offsets) }
func (m *SparseMatrixBanded) Offsets() []int   { return m.offsets }
func (m *SparseMatrixBanded) Values() []float64 { return m.val.Data() }

// At returns the logical (i,j) entry, 0 if (i,j) is not on a stored
// diagonal.
func (m *SparseMatrixBanded) At(i, j int) float64 {
	for d, o := range m.offsets {
		if j == i+o+1-m.rows {
			return m.val.Data()[d*m.rows+i]
		}
	}
	return 0
}

// Clone returns a new SparseMatrixBanded under the given CloneMode.
// Offsets never change size across clone modes (the diagonal structure
// is a compile-time-ish property fixed at construction).
func (m *SparseMatrixBanded) Clone(mode CloneMode) *SparseMatrixBanded {
	off := make([]int, len(m.offsets))
	copy(off, m.offsets)
	switch mode {
	case CloneShallow:
		return &SparseMatrixBanded{rows: m.rows, cols: m.cols, offsets: m.offsets, val: m.val.Alias()}
	case CloneLayout:
		return &SparseMatrixBanded{rows: m.rows, cols: m.cols, offsets: off, val: m.val.ZeroLike()}
	default:
		return &SparseMatrixBanded{rows: m.rows, cols: m.cols, offsets: off, val: m.val.Fresh()}
	}
}
