package gate

import "github.com/haoxiangmiao/feat3-sub001/lafem"

// Mirror projects a local vector onto the interface dofs shared with
// one neighbour: Gather packs those dof values into a send buffer;
// Scatter adds a received buffer back into the corresponding dofs of a
// local vector (§3).
type Mirror struct {
	// Indices lists, in a fixed order, the local dof indices this
	// mirror covers.
	Indices []int
}

// NewMirror builds a Mirror over the given local dof indices.
func NewMirror(indices []int) *Mirror {
	idx := make([]int, len(indices))
	copy(idx, indices)
	return &Mirror{Indices: idx}
}

// Len reports the number of dofs this mirror covers (the buffer
// length it gathers into / scatters from).
func (m *Mirror) Len() int { return len(m.Indices) }

// Gather packs v's values at the mirror's indices into buf (len(buf)
// == m.Len()).
func (m *Mirror) Gather(buf []float64, v *lafem.DenseVector) {
	if len(buf) != len(m.Indices) {
		panic(lafem.ErrSizeMismatch)
	}
	data := v.Elements()
	for i, idx := range m.Indices {
		buf[i] = data[idx]
	}
}

// ScatterAdd adds buf's values into v at the mirror's indices
// (len(buf) == m.Len()).
func (m *Mirror) ScatterAdd(v *lafem.DenseVector, buf []float64) {
	if len(buf) != len(m.Indices) {
		panic(lafem.ErrSizeMismatch)
	}
	data := v.Elements()
	for i, idx := range m.Indices {
		data[idx] += buf[i]
	}
}
