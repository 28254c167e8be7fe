package rumpf

import "math"

// Mesh is the minimal triangle-soup view rumpf needs: vertex
// coordinates and the cell-to-vertex connectivity. Full mesh I/O,
// refinement and charts live outside this package's scope (§1); Mesh is
// the narrow contract rumpf consumes.
type Mesh struct {
	Vertices [][2]float64
	Cells    [][3]int
}

// cellArea computes the unsigned area of triangle cell c.
func (m *Mesh) cellArea(c [3]int) float64 {
	x0, x1, x2 := m.Vertices[c[0]], m.Vertices[c[1]], m.Vertices[c[2]]
	return math.Abs((x1[0]-x0[0])*(x2[1]-x0[1])-(x2[0]-x0[0])*(x1[1]-x0[1])) / 2
}

// triangleAt gathers cell index ci's current vertex coordinates and
// scale into a Triangle2D for functional evaluation.
func (m *Mesh) triangleAt(ci int, h [][2]float64) Triangle2D {
	c := m.Cells[ci]
	var t Triangle2D
	for v := 0; v < 3; v++ {
		t.X[v] = m.Vertices[c[v]]
	}
	t.H = h[ci]
	return t
}

// MinAngle returns the minimum interior angle (radians) over all cells,
// the quantity Driver checks against the mesh_deteriorated floor.
func (m *Mesh) MinAngle(h [][2]float64) float64 {
	min := math.Inf(1)
	for ci := range m.Cells {
		t := m.triangleAt(ci, h)
		if a := t.MinAngle(); a < min {
			min = a
		}
	}
	return min
}

// flatten/unflatten convert between the mesh's [][2]float64 vertex
// layout and nlcg's flat []float64 optimisation vector (x,y
// interleaved), the glue between Mesh and nlcg.Functional.
func flatten(vertices [][2]float64) []float64 {
	flat := make([]float64, 2*len(vertices))
	for i, v := range vertices {
		flat[2*i], flat[2*i+1] = v[0], v[1]
	}
	return flat
}

func unflattenInto(vertices [][2]float64, flat []float64) {
	for i := range vertices {
		vertices[i][0], vertices[i][1] = flat[2*i], flat[2*i+1]
	}
}
