package lafem

import (
	"math"

	"gonum.org/v1/gonum/blas/blas64"
)

// vec wraps a DenseVector's storage as a unit-stride blas64.Vector, the
// same adaptation gonum's mat.VecDense uses internally to call down to
// blas64 (mat/vector.go).
func vec(v *DenseVector) blas64.Vector {
	return blas64.Vector{N: v.Size(), Data: v.Elements(), Inc: 1}
}

func requireSameSize(a, b *DenseVector) {
	if a.Size() != b.Size() {
		panic(ErrSizeMismatch)
	}
}

// Axpy computes this = alpha*x + y element-wise, in place into
// receiver r. alpha in {1,-1,0} dispatches to the specialised
// sum/difference/copy cases the original implementation special-cases
// for performance; here that dispatch only changes which blas64 call is
// made, not the asymptotic cost, but it preserves the §4.1 contract
// that those three cases never pay for a multiply-by-one.
func Axpy(r, x, y *DenseVector, alpha float64) {
	requireSameSize(x, y)
	requireSameSize(r, x)
	switch alpha {
	case 0:
		Copy(r, y)
		return
	case 1:
		Sum(r, x, y)
		return
	case -1:
		Difference(r, y, x)
		return
	}
	if r == x && r != y {
		// r aliases x: scale it first, then add y.
		blas64.Scal(alpha, vec(r))
		blas64.Axpy(1, vec(y), vec(r))
		return
	}
	if r != y {
		Copy(r, y)
	}
	blas64.Axpy(alpha, vec(x), vec(r))
}

// Sum computes r = x + y.
func Sum(r, x, y *DenseVector) {
	requireSameSize(x, y)
	requireSameSize(r, x)
	rd, xd, yd := r.Elements(), x.Elements(), y.Elements()
	for i := range rd {
		rd[i] = xd[i] + yd[i]
	}
}

// Difference computes r = x - y.
func Difference(r, x, y *DenseVector) {
	requireSameSize(x, y)
	requireSameSize(r, x)
	rd, xd, yd := r.Elements(), x.Elements(), y.Elements()
	for i := range rd {
		rd[i] = xd[i] - yd[i]
	}
}

// Copy copies y's elements into r.
func Copy(r, y *DenseVector) {
	requireSameSize(r, y)
	copy(r.Elements(), y.Elements())
}

// Scale computes r = alpha*x in place into r (aliasing r==x is
// permitted, as in blas64.Scal).
func Scale(r, x *DenseVector, alpha float64) {
	requireSameSize(r, x)
	if r != x {
		Copy(r, x)
	}
	blas64.Scal(alpha, vec(r))
}

// ComponentProduct computes r[i] = x[i]*y[i].
func ComponentProduct(r, x, y *DenseVector) {
	requireSameSize(x, y)
	requireSameSize(r, x)
	rd, xd, yd := r.Elements(), x.Elements(), y.Elements()
	for i := range rd {
		rd[i] = xd[i] * yd[i]
	}
}

// ComponentInvert computes r[i] = alpha/x[i]. Behaviour is undefined
// (matches the source contract) when x[i] == 0.
func ComponentInvert(r, x *DenseVector, alpha float64) {
	requireSameSize(r, x)
	rd, xd := r.Elements(), x.Elements()
	for i := range rd {
		rd[i] = alpha / xd[i]
	}
}

// Dot computes the inner product of x and y.
func Dot(x, y *DenseVector) float64 {
	requireSameSize(x, y)
	return blas64.Dot(vec(x), vec(y))
}

// TripleDot computes x^T diag(this) y = sum_i this[i]*x[i]*y[i].
func TripleDot(this, x, y *DenseVector) float64 {
	requireSameSize(this, x)
	requireSameSize(x, y)
	td, xd, yd := this.Elements(), x.Elements(), y.Elements()
	var sum float64
	for i := range td {
		sum += td[i] * xd[i] * yd[i]
	}
	return sum
}

// Norm2 computes the Euclidean norm of x.
func Norm2(x *DenseVector) float64 {
	return blas64.Nrm2(vec(x))
}

// Norm2Sqr computes the squared Euclidean norm of x (e.g. for gate
// reductions, §4.3) as the square of Norm2; an infinite norm is
// returned unchanged.
func Norm2Sqr(x *DenseVector) float64 {
	n := Norm2(x)
	if math.IsInf(n, 1) {
		return n
	}
	return n * n
}
