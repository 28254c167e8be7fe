package meta

import "github.com/haoxiangmiao/feat3-sub001/lafem"

// Vector is the minimal interface every lafem/meta vector type
// satisfies, letting meta-containers recurse over heterogeneous
// sub-components (e.g. a TupleVector of a blocked velocity PowerVector
// and a scalar pressure DenseVector in a Stokes saddle-point system).
type Vector interface {
	Size() int
	Axpy(x, y Vector, alpha float64)
	Dot(o Vector) float64
	Norm2Sqr() float64
	Scale(x Vector, alpha float64)
	Copy(x Vector)
	Clone(mode lafem.CloneMode) Vector
}

// denseAdapter wraps a *lafem.DenseVector to satisfy Vector, letting a
// plain DenseVector sit as a leaf in a TupleVector/SaddlePointMatrix
// alongside PowerVector blocks.
type denseAdapter struct{ v *lafem.DenseVector }

// WrapDense adapts a DenseVector to the Vector interface.
func WrapDense(v *lafem.DenseVector) Vector { return denseAdapter{v} }

// Unwrap returns the underlying DenseVector.
func (d denseAdapter) Unwrap() *lafem.DenseVector { return d.v }

func (d denseAdapter) Size() int { return d.v.Size() }

func (d denseAdapter) Axpy(x, y Vector, alpha float64) {
	lafem.Axpy(d.v, x.(denseAdapter).v, y.(denseAdapter).v, alpha)
}

func (d denseAdapter) Dot(o Vector) float64 {
	return lafem.Dot(d.v, o.(denseAdapter).v)
}

func (d denseAdapter) Norm2Sqr() float64 { return lafem.Norm2Sqr(d.v) }

func (d denseAdapter) Scale(x Vector, alpha float64) {
	lafem.Scale(d.v, x.(denseAdapter).v, alpha)
}

func (d denseAdapter) Copy(x Vector) { lafem.Copy(d.v, x.(denseAdapter).v) }

func (d denseAdapter) Clone(mode lafem.CloneMode) Vector {
	return denseAdapter{d.v.Clone(mode)}
}

var _ Vector = denseAdapter{}

// powerAdapter adapts *PowerVector to the Vector interface so a
// PowerVector can be used as a TupleVector/SaddlePointMatrix leaf.
type powerAdapter struct{ v *PowerVector }

// WrapPower adapts a PowerVector to the Vector interface.
func WrapPower(v *PowerVector) Vector { return powerAdapter{v} }

func (p powerAdapter) Unwrap() *PowerVector { return p.v }

func (p powerAdapter) Size() int { return p.v.Size() }

func (p powerAdapter) Axpy(x, y Vector, alpha float64) {
	p.v.Axpy(x.(powerAdapter).v, y.(powerAdapter).v, alpha)
}

func (p powerAdapter) Dot(o Vector) float64 { return p.v.Dot(o.(powerAdapter).v) }

func (p powerAdapter) Norm2Sqr() float64 { return p.v.Norm2Sqr() }

func (p powerAdapter) Scale(x Vector, alpha float64) { p.v.Scale(x.(powerAdapter).v, alpha) }

func (p powerAdapter) Copy(x Vector) { p.v.Copy(x.(powerAdapter).v) }

func (p powerAdapter) Clone(mode lafem.CloneMode) Vector {
	return powerAdapter{p.v.Clone(mode)}
}

var _ Vector = powerAdapter{}
