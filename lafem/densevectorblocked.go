package lafem

// DenseVectorBlocked is a 1-D buffer of fixed-size tiles of B scalars,
// e.g. the per-vertex (u1,u2) block of a 2-D velocity field. The blocked
// view is a zero-copy reinterpretation of a flat DenseVector: raw_size
// = size*B.
type DenseVectorBlocked struct {
	raw        *DenseVector
	blockSize  int
	logicalLen int
}

// NewDenseVectorBlocked allocates size blocks of blockSize scalars each.
func NewDenseVectorBlocked(size, blockSize int) *DenseVectorBlocked {
	if blockSize <= 0 {
		panic(ErrInvalidArgument)
	}
	return &DenseVectorBlocked{
		raw:        NewDenseVector(size * blockSize),
		blockSize:  blockSize,
		logicalLen: size,
	}
}

// BlockSize reports B.
func (v *DenseVectorBlocked) BlockSize() int { return v.blockSize }

// Size reports the number of logical (blocked) entries.
func (v *DenseVectorBlocked) Size() int { return v.logicalLen }

// RawSize reports size*B, the flat element count.
func (v *DenseVectorBlocked) RawSize() int { return v.raw.Size() }

// Raw returns the flat, zero-copy DenseVector view over the same
// storage. Mutating the returned vector mutates this one.
func (v *DenseVectorBlocked) Raw() *DenseVector { return v.raw }

// Block returns the scalar slice for logical entry i (length B). The
// slice aliases the backing storage.
func (v *DenseVectorBlocked) Block(i int) []float64 {
	b := v.blockSize
	return v.raw.Elements()[i*b : i*b+b]
}

// Clone returns a new DenseVectorBlocked under the given CloneMode,
// delegating to the underlying flat vector.
func (v *DenseVectorBlocked) Clone(mode CloneMode) *DenseVectorBlocked {
	return &DenseVectorBlocked{
		raw:        v.raw.Clone(mode),
		blockSize:  v.blockSize,
		logicalLen: v.logicalLen,
	}
}
