package nlcg

import (
	"testing"

	"github.com/haoxiangmiao/feat3-sub001/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quadratic is F(x) = 0.5 * sum (x_i - target_i)^2, a strictly convex
// bowl whose unique minimiser is target.
type quadratic struct{ target []float64 }

func (q quadratic) Value(x []float64) float64 {
	var sum float64
	for i, t := range q.target {
		d := x[i] - t
		sum += 0.5 * d * d
	}
	return sum
}

func (q quadratic) Grad(x, g []float64) {
	for i, t := range q.target {
		g[i] = x[i] - t
	}
}

func TestNLCGConvergesOnQuadraticStrongWolfe(t *testing.T) {
	fn := quadratic{target: []float64{3, -2, 5}}
	opt := NewNLCG(fn, FletcherReeves, &StrongWolfeLinesearch{})
	opt.TolGrad = 1e-9
	res := opt.Minimize([]float64{0, 0, 0})
	require.Equal(t, solver.StatusSuccess, res.Status)
	assert.InDelta(t, 3.0, res.X[0], 1e-5)
	assert.InDelta(t, -2.0, res.X[1], 1e-5)
	assert.InDelta(t, 5.0, res.X[2], 1e-5)
}

func TestNLCGConvergesOnQuadraticMQC(t *testing.T) {
	fn := quadratic{target: []float64{1, 1}}
	opt := NewNLCG(fn, PolakRibiere, &MQCLinesearch{})
	opt.TolGrad = 1e-9
	res := opt.Minimize([]float64{10, -10})
	require.Equal(t, solver.StatusSuccess, res.Status)
	assert.InDelta(t, 1.0, res.X[0], 1e-4)
	assert.InDelta(t, 1.0, res.X[1], 1e-4)
}

func TestNLCGConvergesOnQuadraticHybridDY(t *testing.T) {
	fn := quadratic{target: []float64{4, -1, 0.5}}
	opt := NewNLCG(fn, HybridDY, &StrongWolfeLinesearch{})
	opt.TolGrad = 1e-9
	res := opt.Minimize([]float64{0, 0, 0})
	require.Equal(t, solver.StatusSuccess, res.Status)
	assert.InDelta(t, 4.0, res.X[0], 1e-5)
	assert.InDelta(t, -1.0, res.X[1], 1e-5)
	assert.InDelta(t, 0.5, res.X[2], 1e-5)
}

// TestNLCGDescentProperty exercises §8 property 11: F(x_{k+1}) < F(x_k)
// unless ||grad F(x_k)|| < tol, by checking the objective value
// recorded at the optimum is no larger than at the start.
func TestNLCGDescentProperty(t *testing.T) {
	fn := quadratic{target: []float64{2}}
	opt := NewNLCG(fn, HestenesStiefel, &StrongWolfeLinesearch{})
	f0 := fn.Value([]float64{100})
	res := opt.Minimize([]float64{100})
	assert.Less(t, res.F, f0)
}
