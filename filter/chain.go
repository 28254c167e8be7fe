package filter

import "github.com/haoxiangmiao/feat3-sub001/lafem"

// FilterChain applies a sequence of filters in order (§3/§4.5): order
// matters, e.g. a slip filter applied after a unit filter would
// re-enable dofs the unit filter just zeroed if the order were
// reversed.
type FilterChain struct {
	chain []Filter
}

var _ Filter = (*FilterChain)(nil)

// NewFilterChain composes filters into a sequential chain, applied in
// the given order.
func NewFilterChain(filters ...Filter) *FilterChain {
	return &FilterChain{chain: filters}
}

// FilterSol applies every filter in order.
func (c *FilterChain) FilterSol(x *lafem.DenseVector) {
	for _, f := range c.chain {
		f.FilterSol(x)
	}
}

// FilterRHS applies every filter in order.
func (c *FilterChain) FilterRHS(d *lafem.DenseVector) {
	for _, f := range c.chain {
		f.FilterRHS(d)
	}
}

// FilterMat applies every filter in order.
func (c *FilterChain) FilterMat(a *lafem.SparseMatrixCSR) {
	for _, f := range c.chain {
		f.FilterMat(a)
	}
}
