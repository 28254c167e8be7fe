// Package rumpf implements the Rumpf mesh-quality functional of §4.10:
// a per-cell hyperelastic energy penalising both shape distortion and
// volume change, its closed-form gradient w.r.t. vertex coordinates,
// adaptive per-cell scale computation, Dirichlet/slip boundary handling
// via the filter package, and moving/rotating-chart time stepping.
//
// Only the 2-D P1 (triangle) variant is implemented in full; D1/D2/Q1
// are distinguished by FunctionalKind and share the same closed-form
// term structure, differing in which of fac_det/fac_rec_det are active
// (see 2d-P1-D2 in original_source for the reference derivation this is
// grounded on).
package rumpf

import "math"

// FunctionalKind selects which Rumpf energy variant §4.10 is computing.
// D1 uses only the det-penalty term; D2 adds the reciprocal-det barrier
// that keeps the energy finite as det(A) -> 0; Q1Hack stands for the
// quadrilateral shortcut of summing D2 energies over P1 triangles (the
// original implementation takes it rather than deriving a native Q1
// form). Here Q1Hack evaluates exactly the P1D2 per-triangle energy:
// Mesh holds triangles only, and no quadrilateral is split into
// triangles in this package.
type FunctionalKind int

const (
	P1D1 FunctionalKind = iota
	P1D2
	Q1Hack
)

// Params holds the three weighting factors of §4.10's energy plus the
// regularisation factor controlling the finite-barrier epsilon.
type Params struct {
	FacNorm   float64
	FacDet    float64
	FacRecDet float64
	FacReg    float64
}

// epsilon computes ε = 2√(1+fac_reg²) + 2·fac_reg² + 2 + √(1+fac_reg²)·fac_reg²,
// §4.10's finite-barrier offset guaranteeing det(A)+ε never reaches 0.
func (p Params) epsilon() float64 {
	s := math.Sqrt(1 + p.FacReg*p.FacReg)
	return 2*s + 2*p.FacReg*p.FacReg + 2 + s*p.FacReg*p.FacReg
}

// Triangle2D is one 2-D P1 cell: three vertex coordinates (row-major,
// v in [0,3), d in [0,2)) and the per-cell optimal scale h.
type Triangle2D struct {
	X [3][2]float64
	H [2]float64
}

// refGrad is the constant reference-triangle gradient of the P1 basis
// functions (the unit right triangle with vertices (0,0),(1,0),(0,1)):
// row i is ∇φ_i, i.e. d/dξ, d/dη of the i-th barycentric coordinate.
var refGrad = [3][2]float64{
	{-1, -1},
	{1, 0},
	{0, 1},
}

// jacobian computes J = Σ_i x_i ⊗ ∇φ_i, the 2x2 reference-to-physical
// Jacobian of the affine P1 map, in row-major [Jxx,Jxy; Jyx,Jyy] layout.
func (t *Triangle2D) jacobian() (j [2][2]float64) {
	for i := 0; i < 3; i++ {
		for d := 0; d < 2; d++ {
			for k := 0; k < 2; k++ {
				j[d][k] += t.X[i][d] * refGrad[i][k]
			}
		}
	}
	return
}

// scaledJacobian computes A = J * diag(1/h), §4.10's h-scaled Jacobian.
func (t *Triangle2D) scaledJacobian() (a [2][2]float64) {
	j := t.jacobian()
	for d := 0; d < 2; d++ {
		a[d][0] = j[d][0] / t.H[0]
		a[d][1] = j[d][1] / t.H[1]
	}
	return
}

// Value computes this cell's contribution to F(x,h) per §4.10.
func (t *Triangle2D) Value(p Params, kind FunctionalKind) float64 {
	a := t.scaledJacobian()
	frob := a[0][0]*a[0][0] + a[0][1]*a[0][1] + a[1][0]*a[1][0] + a[1][1]*a[1][1]
	det := a[0][0]*a[1][1] - a[0][1]*a[1][0]

	val := p.FacNorm * frob
	switch kind {
	case P1D1:
		val += p.FacDet * det * det
	default: // P1D2, Q1Hack
		val += p.FacDet * det * det
		denom := det + p.epsilon()
		val += p.FacRecDet / (denom * denom)
	}
	return val
}

// Gradient computes dF/dx_i_d for this cell via the chain rule through
// A = J*diag(1/h): dA/dx_i_d is the rank-1 outer product ∇φ_i (scaled
// by 1/h) placed in row d, letting dF/dA (closed form below) be
// contracted against it directly rather than assembling a full 3x2x2x2
// tensor.
func (t *Triangle2D) Gradient(p Params, kind FunctionalKind, grad *[3][2]float64) {
	a := t.scaledJacobian()
	frobDA := [2][2]float64{
		{2 * a[0][0], 2 * a[0][1]},
		{2 * a[1][0], 2 * a[1][1]},
	}
	det := a[0][0]*a[1][1] - a[0][1]*a[1][0]
	// d(det)/dA = [[a11,-a10],[-a01,a00]] (cofactor matrix).
	detDA := [2][2]float64{
		{a[1][1], -a[1][0]},
		{-a[0][1], a[0][0]},
	}

	var dFdA [2][2]float64
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			dFdA[r][c] = p.FacNorm*frobDA[r][c] + 2*p.FacDet*det*detDA[r][c]
		}
	}
	if kind != P1D1 {
		denom := det + p.epsilon()
		coeff := -2 * p.FacRecDet / (denom * denom * denom)
		for r := 0; r < 2; r++ {
			for c := 0; c < 2; c++ {
				dFdA[r][c] += coeff * detDA[r][c]
			}
		}
	}

	for i := 0; i < 3; i++ {
		for d := 0; d < 2; d++ {
			// dA[d][k]/dx_i_d = refGrad[i][k]/h[k] when the row matches d, 0 otherwise.
			grad[i][d] = dFdA[d][0]*refGrad[i][0]/t.H[0] + dFdA[d][1]*refGrad[i][1]/t.H[1]
		}
	}
}

// MinAngle returns the smallest interior angle (radians) of the
// triangle, used by Driver to detect mesh deterioration (§4.10).
func (t *Triangle2D) MinAngle() float64 {
	side := func(a, b [2]float64) float64 {
		return math.Hypot(b[0]-a[0], b[1]-a[1])
	}
	a := side(t.X[1], t.X[2])
	b := side(t.X[0], t.X[2])
	c := side(t.X[0], t.X[1])
	angle := func(opp, s1, s2 float64) float64 {
		cosv := (s1*s1 + s2*s2 - opp*opp) / (2 * s1 * s2)
		cosv = math.Max(-1, math.Min(1, cosv))
		return math.Acos(cosv)
	}
	angles := []float64{angle(a, b, c), angle(b, a, c), angle(c, a, b)}
	min := angles[0]
	for _, v := range angles[1:] {
		if v < min {
			min = v
		}
	}
	return min
}
