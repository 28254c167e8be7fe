package rumpf

// MeshFunctional assembles the per-cell Rumpf energy (functional.go)
// over an entire mesh and exposes it as an nlcg.Functional, with
// boundary filtering applied to both the solution vector (via
// Driver.Optimize) and the gradient (here, directly).
type MeshFunctional struct {
	Mesh     *Mesh
	Params   Params
	Kind     FunctionalKind
	H        [][2]float64 // per-cell scale, held fixed for the life of one optimise() call
	Boundary *Boundary
}

// Value computes F(x,h) = Σ_K cellValue(K), reading vertex positions
// from the flat (x,y)-interleaved slice x rather than m.Mesh.Vertices,
// so nlcg can probe trial points without mutating the mesh.
func (f *MeshFunctional) Value(x []float64) float64 {
	var total float64
	for ci, c := range f.Mesh.Cells {
		t := Triangle2D{H: f.H[ci]}
		for v := 0; v < 3; v++ {
			t.X[v] = [2]float64{x[2*c[v]], x[2*c[v]+1]}
		}
		total += t.Value(f.Params, f.Kind)
	}
	return total
}

// Grad accumulates each cell's local gradient into the global gradient
// vector g (scatter-add over shared vertices, the FEM assembly idiom),
// then applies boundary filtering.
func (f *MeshFunctional) Grad(x, g []float64) {
	for i := range g {
		g[i] = 0
	}
	var local [3][2]float64
	for ci, c := range f.Mesh.Cells {
		t := Triangle2D{H: f.H[ci]}
		for v := 0; v < 3; v++ {
			t.X[v] = [2]float64{x[2*c[v]], x[2*c[v]+1]}
		}
		t.Gradient(f.Params, f.Kind, &local)
		for v := 0; v < 3; v++ {
			g[2*c[v]] += local[v][0]
			g[2*c[v]+1] += local[v][1]
		}
	}
	if f.Boundary != nil {
		f.Boundary.applyToGradient(g)
	}
}
