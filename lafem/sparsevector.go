package lafem

import "sort"

// defaultAllocIncrement is the default growth increment for a
// SparseVector's backing storage (§3).
const defaultAllocIncrement = 1000

// sparseMaxIndex marks a duplicate entry discarded during sort-collapse
// (§3: "sentinel MAX marks duplicates, then second sort buries them").
const sparseMaxIndex = int(^uint(0) >> 1)

// SparseVector stores an unordered set of (index, value) tuples with
// lazy insertion-sort on first read access, modelled on the COO
// insertion idiom of james-bowman/sparse's COO type (append now, sort
// once, later). Duplicate indices collapse on sort with last-writer-wins
// semantics.
type SparseVector struct {
	size           int
	indices        []int
	values         []float64
	sorted         bool
	allocIncrement int
}

// NewSparseVector creates an empty sparse vector over a logical space
// of the given size.
func NewSparseVector(size int) *SparseVector {
	if size < 0 {
		panic(ErrInvalidArgument)
	}
	return &SparseVector{size: size, sorted: true, allocIncrement: defaultAllocIncrement}
}

// Size reports the logical dimension.
func (v *SparseVector) Size() int { return v.size }

// UsedElements reports the number of stored (index,value) tuples after
// duplicate collapse. Triggers a sort if the vector is unsorted.
func (v *SparseVector) UsedElements() int {
	v.ensureSorted()
	return len(v.indices)
}

// Insert appends a new (index, value) tuple without sorting,
// marking the vector unsorted. Growth doubles allocIncrement (default
// 1000), matching the source's growth policy.
func (v *SparseVector) Insert(index int, value float64) {
	if index < 0 || index >= v.size {
		panic(ErrInvalidArgument)
	}
	if len(v.indices) == cap(v.indices) {
		grow := v.allocIncrement
		if grow == 0 {
			grow = defaultAllocIncrement
		}
		ni := make([]int, len(v.indices), len(v.indices)+grow)
		copy(ni, v.indices)
		nv := make([]float64, len(v.values), len(v.values)+grow)
		copy(nv, v.values)
		v.indices, v.values = ni, nv
		v.allocIncrement *= 2
	}
	v.indices = append(v.indices, index)
	v.values = append(v.values, value)
	v.sorted = false
}

// ensureSorted performs the lazy insertion-sort, collapsing duplicates
// with last-writer-wins semantics: among tuples sharing an index, all
// but the last-inserted are marked with the sparseMaxIndex sentinel by
// a first stable sort on (index, insertion order), then buried by a
// second sort that pushes sentinel-marked entries to the tail, which is
// then trimmed.
//
// §9 open question: SparseVector reads and writes share this sort path,
// so concurrent reads are unsafe even though the type is nominally
// immutable between writes; callers must serialise access exactly as
// the original does (single rank, single goroutine per vector).
func (v *SparseVector) ensureSorted() {
	if v.sorted {
		return
	}
	type tuple struct {
		idx int
		val float64
		ord int
	}
	tuples := make([]tuple, len(v.indices))
	for i, idx := range v.indices {
		tuples[i] = tuple{idx: idx, val: v.values[i], ord: i}
	}
	sort.SliceStable(tuples, func(i, j int) bool { return tuples[i].idx < tuples[j].idx })
	for i := 0; i < len(tuples)-1; i++ {
		if tuples[i].idx == tuples[i+1].idx {
			tuples[i].idx = sparseMaxIndex
		}
	}
	sort.SliceStable(tuples, func(i, j int) bool {
		if tuples[i].idx != tuples[j].idx {
			return tuples[i].idx < tuples[j].idx
		}
		return tuples[i].ord < tuples[j].ord
	})
	n := len(tuples)
	for n > 0 && tuples[n-1].idx == sparseMaxIndex {
		n--
	}
	tuples = tuples[:n]
	v.indices = v.indices[:0]
	v.values = v.values[:0]
	for _, t := range tuples {
		v.indices = append(v.indices, t.idx)
		v.values = append(v.values, t.val)
	}
	v.sorted = true
}

// At returns the value stored at index, or 0 if absent. Triggers the
// lazy sort if the vector is unsorted.
func (v *SparseVector) At(index int) float64 {
	v.ensureSorted()
	i := sort.SearchInts(v.indices, index)
	if i < len(v.indices) && v.indices[i] == index {
		return v.values[i]
	}
	return 0
}

// DoNonZero visits every stored entry in index order after sorting,
// in the style of james-bowman/sparse's COO.DoNonZero.
func (v *SparseVector) DoNonZero(fn func(index int, value float64)) {
	v.ensureSorted()
	for i, idx := range v.indices {
		fn(idx, v.values[i])
	}
}

// Clone returns a new SparseVector under the given CloneMode. Shallow
// aliases both backing slices (safe only because writes go through
// Insert, which reallocates on growth rather than mutating shared
// storage in place); Layout clones the index structure with zeroed
// values; Weak and Deep copy everything.
func (v *SparseVector) Clone(mode CloneMode) *SparseVector {
	v.ensureSorted()
	switch mode {
	case CloneShallow:
		return &SparseVector{size: v.size, indices: v.indices, values: v.values, sorted: true, allocIncrement: v.allocIncrement}
	case CloneLayout:
		idx := make([]int, len(v.indices))
		copy(idx, v.indices)
		return &SparseVector{size: v.size, indices: idx, values: make([]float64, len(idx)), sorted: true, allocIncrement: v.allocIncrement}
	default:
		idx := make([]int, len(v.indices))
		copy(idx, v.indices)
		val := make([]float64, len(v.values))
		copy(val, v.values)
		return &SparseVector{size: v.size, indices: idx, values: val, sorted: true, allocIncrement: v.allocIncrement}
	}
}
