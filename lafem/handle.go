package lafem

// CloneMode selects how much of a container's backing storage a clone
// shares with its source, per §5 of the shared-resource policy.
type CloneMode int

const (
	// CloneShallow aliases every handle; no allocation occurs.
	CloneShallow CloneMode = iota
	// CloneWeak allocates fresh value storage but aliases index storage.
	CloneWeak
	// CloneLayout copies index storage (rows/cols structure) into fresh
	// arrays and allocates fresh, zero-filled value storage; used for
	// symbolic assembly.
	CloneLayout
	// CloneDeep allocates fresh storage for every handle.
	CloneDeep
)

// Handle is an independently reference-counted typed buffer. It is the
// single storage primitive every lafem container (elements, indices,
// scalar_index) is built from: a container never owns raw slices
// directly, only Handles, so that shallow/weak/layout clones can share
// exactly the parts of storage the clone mode calls for.
//
// A Handle is a single-writer / multi-reader value: code that holds an
// aliased Handle (refcount > 1) must never write through it. Clone
// confines writes to freshly allocated Handles, per §5.
type Handle[T any] struct {
	data []T
	refs *int
}

// NewHandle allocates a fresh, uniquely-owned Handle around n zero
// values of T.
func NewHandle[T any](n int) *Handle[T] {
	one := 1
	return &Handle[T]{data: make([]T, n), refs: &one}
}

// WrapHandle creates a uniquely-owned Handle around an existing slice
// without copying it. The caller must not retain other references to
// data.
func WrapHandle[T any](data []T) *Handle[T] {
	one := 1
	return &Handle[T]{data: data, refs: &one}
}

// Len reports the number of elements in the handle.
func (h *Handle[T]) Len() int {
	if h == nil {
		return 0
	}
	return len(h.data)
}

// Data returns the underlying slice for direct indexed access. Callers
// must respect the single-writer contract: do not write through a
// handle whose RefCount is greater than one.
func (h *Handle[T]) Data() []T {
	if h == nil {
		return nil
	}
	return h.data
}

// RefCount reports how many handles currently alias this storage.
func (h *Handle[T]) RefCount() int {
	if h == nil {
		return 0
	}
	return *h.refs
}

// Alias returns a new Handle sharing this handle's storage and bumping
// the shared refcount (Shallow clone semantics for a single array).
func (h *Handle[T]) Alias() *Handle[T] {
	*h.refs++
	return &Handle[T]{data: h.data, refs: h.refs}
}

// Fresh returns a new, uniquely-owned Handle holding a copy of this
// handle's values (Deep/Weak clone semantics for a single array).
func (h *Handle[T]) Fresh() *Handle[T] {
	cp := make([]T, len(h.data))
	copy(cp, h.data)
	return WrapHandle(cp)
}

// ZeroLike returns a new, uniquely-owned Handle of the same length as
// this one, zero-filled (Layout clone semantics for a single array).
func (h *Handle[T]) ZeroLike() *Handle[T] {
	return NewHandle[T](len(h.data))
}

// Release drops this handle's reference. Handles are released in LIFO
// order by container destructors; Go's garbage collector performs the
// actual deallocation once the refcount (and any other Go references)
// drop to zero, but Release lets callers assert on the invariant in
// tests and in debug builds.
func (h *Handle[T]) Release() {
	if h == nil || h.refs == nil {
		return
	}
	if *h.refs > 0 {
		*h.refs--
	}
}
