package lafem

import "fmt"

// DenseVector is a contiguous buffer of scalar values, the simplest
// lafem container: a single Handle of elements and no index arrays.
// Modelled on gonum's mat.VecDense raw-storage pattern (mat/vector.go),
// with the refcounted clone-mode handle §5 requires layered on top.
type DenseVector struct {
	elements *Handle[float64]
}

// NewDenseVector allocates a fresh vector of the given size, zero
// filled.
func NewDenseVector(size int) *DenseVector {
	if size < 0 {
		panic(ErrInvalidArgument)
	}
	return &DenseVector{elements: NewHandle[float64](size)}
}

// NewDenseVectorFromSlice wraps data directly as the vector's element
// handle without copying; the caller must not retain other mutable
// references to data.
func NewDenseVectorFromSlice(data []float64) *DenseVector {
	return &DenseVector{elements: WrapHandle(data)}
}

// Size returns the number of elements.
func (v *DenseVector) Size() int { return v.elements.Len() }

// Elements returns the backing slice for direct indexed access.
func (v *DenseVector) Elements() []float64 { return v.elements.Data() }

// At returns the i-th element.
func (v *DenseVector) At(i int) float64 { return v.elements.Data()[i] }

// SetAt sets the i-th element. Panics with ErrSizeMismatch-adjacent
// behaviour is left to the caller; this mirrors mat.VecDense.SetVec's
// unchecked-by-default style when called through Elements().
func (v *DenseVector) SetAt(i int, val float64) { v.elements.Data()[i] = val }

// Clone returns a new DenseVector under the given CloneMode. DenseVector
// has no index arrays, so Weak and Deep behave identically: Shallow
// aliases the element handle, everything else allocates fresh storage
// (Layout zero-fills it, matching the "structure only" contract of
// symbolic assembly even though a dense vector carries no structure of
// its own beyond its length).
func (v *DenseVector) Clone(mode CloneMode) *DenseVector {
	switch mode {
	case CloneShallow:
		return &DenseVector{elements: v.elements.Alias()}
	case CloneLayout:
		return &DenseVector{elements: v.elements.ZeroLike()}
	case CloneWeak, CloneDeep:
		return &DenseVector{elements: v.elements.Fresh()}
	default:
		panic(ErrInvalidArgument)
	}
}

// Format implements fmt.Formatter for debug printing, in the spirit of
// gonum's mat.Formatted helpers.
func (v *DenseVector) Format(f fmt.State, c rune) {
	fmt.Fprintf(f, "%v", v.elements.Data())
}
