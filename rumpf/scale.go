package rumpf

import "math"

// ScaleMode selects how the per-cell optimal scale h is (re)computed
// across NLCG iterations (§4.10 / §6's scale_computation key).
type ScaleMode int

const (
	// ScaleOnceUniform computes h once from the initial mesh (every
	// cell gets the same h, derived from the total domain area divided
	// by the cell count) and never recomputes it.
	ScaleOnceUniform ScaleMode = iota
	// ScaleCurrentUniform recomputes the same uniform h from the
	// current (possibly distorted) mesh on every Compute call;
	// Driver.Optimize calls Compute once, so h stays fixed within one
	// optimisation.
	ScaleCurrentUniform
	// ScaleIterConcentration evaluates a user-supplied concentration
	// function at each cell's centroid to redistribute h non-uniformly,
	// concentrating small cells where the function is large.
	ScaleIterConcentration
)

// ConcFunction evaluates a concentration weight at a physical point;
// larger values request smaller cells there.
type ConcFunction func(x, y float64) float64

// ScaleComputer (re)computes the per-cell scale vectors h used by the
// Rumpf functional, per the configured ScaleMode.
type ScaleComputer struct {
	Mode ScaleMode
	Conc ConcFunction

	uniform [2]float64
	frozen  bool
}

// NewScaleComputer builds a ScaleComputer for the given mode; conc is
// only consulted when mode is ScaleIterConcentration.
func NewScaleComputer(mode ScaleMode, conc ConcFunction) *ScaleComputer {
	return &ScaleComputer{Mode: mode, Conc: conc}
}

// Compute returns the per-cell scale table for the current mesh state,
// one [2]float64 per cell (isotropic scale: h[0]==h[1] in every mode
// implemented here, matching the original's default 2-D isotropic
// scaling).
func (s *ScaleComputer) Compute(m *Mesh) [][2]float64 {
	h := make([][2]float64, len(m.Cells))
	switch s.Mode {
	case ScaleOnceUniform:
		if !s.frozen {
			s.uniform = s.computeUniform(m)
			s.frozen = true
		}
		for i := range h {
			h[i] = s.uniform
		}
	case ScaleCurrentUniform:
		u := s.computeUniform(m)
		for i := range h {
			h[i] = u
		}
	case ScaleIterConcentration:
		for i, c := range m.Cells {
			cx, cy := centroid(m, c)
			w := 1.0
			if s.Conc != nil {
				w = s.Conc(cx, cy)
			}
			target := targetEdgeFromArea(m.cellArea(c)) / math.Max(w, 1e-12)
			h[i] = [2]float64{target, target}
		}
	}
	return h
}

// computeUniform derives a single isotropic scale shared by every cell
// from the mean cell area of the current mesh, so a perfectly regular
// mesh has h matching its actual cell size.
func (s *ScaleComputer) computeUniform(m *Mesh) [2]float64 {
	var total float64
	for _, c := range m.Cells {
		total += m.cellArea(c)
	}
	mean := total / float64(len(m.Cells))
	edge := targetEdgeFromArea(mean)
	return [2]float64{edge, edge}
}

// targetEdgeFromArea returns the edge length of an equilateral triangle
// with the given area, the natural per-cell length scale for h.
func targetEdgeFromArea(area float64) float64 {
	return math.Sqrt(4 * area / math.Sqrt(3))
}

func centroid(m *Mesh, c [3]int) (float64, float64) {
	x0, x1, x2 := m.Vertices[c[0]], m.Vertices[c[1]], m.Vertices[c[2]]
	return (x0[0] + x1[0] + x2[0]) / 3, (x0[1] + x1[1] + x2[1]) / 3
}
