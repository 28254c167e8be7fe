package rumpf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unitSquareMesh builds a two-cell (one quad split into two triangles)
// unit square mesh, vertices ordered (0,0),(1,0),(1,1),(0,1).
func unitSquareMesh() *Mesh {
	return &Mesh{
		Vertices: [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Cells:    [][3]int{{0, 1, 2}, {0, 2, 3}},
	}
}

func defaultParams() Params {
	return Params{FacNorm: 1, FacDet: 1, FacRecDet: 1e-2, FacReg: 1e-8}
}

func TestFunctionalGradientMatchesFiniteDifference(t *testing.T) {
	mesh := unitSquareMesh()
	h := [][2]float64{{1, 1}, {1, 1}}
	fn := &MeshFunctional{Mesh: mesh, Params: defaultParams(), Kind: P1D2, H: h}

	x := flatten(mesh.Vertices)
	g := make([]float64, len(x))
	fn.Grad(x, g)

	const eps = 1e-6
	for i := range x {
		xp := append([]float64(nil), x...)
		xm := append([]float64(nil), x...)
		xp[i] += eps
		xm[i] -= eps
		fd := (fn.Value(xp) - fn.Value(xm)) / (2 * eps)
		assert.InDelta(t, fd, g[i], 1e-4, "component %d", i)
	}
}

func TestMinAngleImprovesAfterOptimize(t *testing.T) {
	// A deliberately skewed mesh: vertex 2 dragged toward vertex 1,
	// shrinking one triangle's minimum angle.
	mesh := &Mesh{
		Vertices: [][2]float64{{0, 0}, {1, 0}, {1.3, 0.2}, {0, 1}},
		Cells:    [][3]int{{0, 1, 2}, {0, 2, 3}},
	}
	initialMinAngle := mesh.MinAngle([][2]float64{{1, 1}, {1, 1}})

	scale := NewScaleComputer(ScaleOnceUniform, nil)
	boundary := &Boundary{} // corner vertices unconstrained for this smoke test
	driver := NewDriver(mesh, defaultParams(), P1D2, scale, boundary)
	driver.MaxIter = 100
	driver.TolGrad = 1e-7

	_, err := driver.Optimize()
	require.NoError(t, err)

	h := scale.Compute(mesh)
	finalMinAngle := mesh.MinAngle(h)
	assert.Greater(t, finalMinAngle, initialMinAngle)
}

func TestMovingChartAppliesConstantPerStepDisplacement(t *testing.T) {
	mesh := unitSquareMesh()
	chart := &MovingChart{Name: "moving_top", Indices: []int{2, 3}, Translation: [2]float64{0.1, 0}}
	chart.Step(mesh)
	chart.Step(mesh)
	assert.InDelta(t, 1.2, mesh.Vertices[2][0], 1e-12)
	assert.InDelta(t, 0.2, mesh.Vertices[3][0], 1e-12)
}

func TestRotatingChartRotatesAboutCentre(t *testing.T) {
	mesh := &Mesh{Vertices: [][2]float64{{1, 0}}}
	chart := &RotatingChart{Indices: []int{0}, Centre: [2]float64{0, 0}, Angle: math.Pi / 2}
	chart.Step(mesh)
	assert.InDelta(t, 0.0, mesh.Vertices[0][0], 1e-9)
	assert.InDelta(t, 1.0, mesh.Vertices[0][1], 1e-9)
}
