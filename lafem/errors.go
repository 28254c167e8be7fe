// Package lafem implements the distributed linear-algebra container
// hierarchy: typed scalar buffers, sparse and dense matrices, and the
// BLAS-1/SpMV primitives that operate on them.
package lafem

// Error represents a lafem package error. Values are comparable with
// errors.Is and recoverable by callers that have a policy for them (see
// the solver-status vs. fatal-error split in the error taxonomy).
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrSizeMismatch is raised when two operands of an operation have
	// incompatible sizes (vector length, matrix shape, nnz, blocksize).
	ErrSizeMismatch = Error("lafem: size mismatch")
	// ErrInvalidArgument is raised for a bad option, non-positive
	// blocksize, or malformed shape, always before any state mutation.
	ErrInvalidArgument = Error("lafem: invalid argument")
	// ErrNotSquare is raised where an operation requires a square matrix.
	ErrNotSquare = Error("lafem: matrix is not square")
	// ErrOffsetOutOfRange is raised when a banded-matrix diagonal offset
	// would address storage outside the logical matrix.
	ErrOffsetOutOfRange = Error("lafem: banded diagonal offset out of range")
	// ErrNotAssembled is raised when a numerical operation is attempted
	// on a container that has only been symbolically assembled.
	ErrNotAssembled = Error("lafem: container has not been numerically assembled")
	// ErrParse is raised by the binary/MatrixMarket readers on malformed
	// input.
	ErrParse = Error("lafem: parse error")
)
