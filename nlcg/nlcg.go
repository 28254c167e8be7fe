// Package nlcg implements the nonlinear conjugate-gradient optimiser of
// §4.7/§4.8: a Strong-Wolfe bracket-then-bisect line search grounded on
// gonum's legacy opt.Bisection (opt/bisection.go), a monotone
// quadratic-cubic interpolation (MQC) line search checking the same
// Armijo + curvature conditions, grounded on opt.Backtracking
// (opt/backtracking.go), and the classical Fletcher-Reeves /
// Polak-Ribiere / Hestenes-Stiefel / Dai-Yuan / hybrid direction-update
// formulas with a restart-to-steepest-descent fallback whenever a
// direction fails the descent test.
package nlcg

import (
	"math"

	"github.com/haoxiangmiao/feat3-sub001/solver"
)

// Functional is anything nlcg can minimise: a scalar objective plus its
// gradient at a given point, the same value/gradient pair the rumpf
// package's hyperelastic functional exposes (§4.8).
type Functional interface {
	// Value returns F(x).
	Value(x []float64) float64
	// Grad writes grad F(x) into g (len(g) == len(x)).
	Grad(x, g []float64)
}

// DirectionUpdate selects the nonlinear-CG beta formula (§4.7).
type DirectionUpdate int

const (
	FletcherReeves DirectionUpdate = iota
	PolakRibiere
	HestenesStiefel
	DaiYuan
	HybridDY
)

// LineSearch is the minimal interface both StrongWolfe and MQC satisfy:
// given the current objective/gradient and descent direction, return a
// step length and whether convergence diagnostics ran out.
type LineSearch interface {
	// Search returns a step size alpha such that x + alpha*dir
	// satisfies the line search's acceptance criterion, evaluating fn
	// along the way.
	Search(fn Functional, x, dir []float64, f0 float64, grad0 []float64) (alpha float64, status solver.Status)
}

// NLCG is the nonlinear conjugate-gradient driver.
type NLCG struct {
	Fn         Functional
	Update     DirectionUpdate
	Search     LineSearch
	MaxIter    int
	TolGrad    float64
	RestartFreq int // restart to steepest descent every N iterations; 0 disables periodic restart

	n int
}

// NewNLCG builds an NLCG driver minimising fn with the given direction
// update formula and line search.
func NewNLCG(fn Functional, update DirectionUpdate, search LineSearch) *NLCG {
	return &NLCG{Fn: fn, Update: update, Search: search, MaxIter: 200, TolGrad: 1e-8}
}

// Result is the outcome of a Minimize call.
type Result struct {
	X        []float64
	F        float64
	GradNorm float64
	Iters    int
	Status   solver.Status
}

// Minimize runs nonlinear CG from x0 (not mutated; a copy is optimised
// and returned), stopping when ||grad|| < TolGrad (§8 property 11:
// F(x_{k+1}) < F(x_k) unless ||grad F(x_k)|| < tol) or MaxIter is
// reached.
func (o *NLCG) Minimize(x0 []float64) Result {
	n := len(x0)
	o.n = n
	x := append([]float64(nil), x0...)
	grad := make([]float64, n)
	dir := make([]float64, n)
	prevGrad := make([]float64, n)
	prevDir := make([]float64, n)

	f := o.Fn.Value(x)
	o.Fn.Grad(x, grad)
	gradNorm := norm(grad)
	if gradNorm < o.TolGrad {
		return Result{X: x, F: f, GradNorm: gradNorm, Status: solver.StatusSuccess}
	}
	negCopy(dir, grad)

	iter := 0
	for ; iter < o.MaxIter; iter++ {
		if !isDescent(dir, grad) {
			negCopy(dir, grad)
		}

		alpha, status := o.Search.Search(o.Fn, x, dir, f, grad)
		if status == solver.StatusDiverged || status == solver.StatusAborted {
			return Result{X: x, F: f, GradNorm: gradNorm, Iters: iter, Status: status}
		}

		fPrev := f
		for i := range x {
			x[i] += alpha * dir[i]
		}
		f = o.Fn.Value(x)
		if f >= fPrev && gradNorm >= o.TolGrad {
			return Result{X: x, F: f, GradNorm: gradNorm, Iters: iter, Status: solver.StatusStagnated}
		}

		copy(prevGrad, grad)
		copy(prevDir, dir)
		o.Fn.Grad(x, grad)
		gradNorm = norm(grad)
		if gradNorm < o.TolGrad {
			return Result{X: x, F: f, GradNorm: gradNorm, Iters: iter + 1, Status: solver.StatusSuccess}
		}

		restart := o.RestartFreq > 0 && (iter+1)%o.RestartFreq == 0
		if restart {
			negCopy(dir, grad)
			continue
		}
		beta := o.beta(grad, prevGrad, prevDir)
		for i := range dir {
			dir[i] = -grad[i] + beta*prevDir[i]
		}
	}
	return Result{X: x, F: f, GradNorm: gradNorm, Iters: iter, Status: solver.StatusMaxIter}
}

// beta dispatches to the configured direction-update formula.
func (o *NLCG) beta(grad, prevGrad, prevDir []float64) float64 {
	switch o.Update {
	case FletcherReeves:
		return dot(grad, grad) / dot(prevGrad, prevGrad)
	case PolakRibiere:
		diff := sub(grad, prevGrad)
		b := dot(grad, diff) / dot(prevGrad, prevGrad)
		return math.Max(0, b)
	case HestenesStiefel:
		diff := sub(grad, prevGrad)
		denom := dot(prevDir, diff)
		if denom == 0 {
			return 0
		}
		return dot(grad, diff) / denom
	case DaiYuan:
		diff := sub(grad, prevGrad)
		denom := dot(prevDir, diff)
		if denom == 0 {
			return 0
		}
		return dot(grad, grad) / denom
	case HybridDY:
		// DYHS-Hybrid (§4.8): bound beta_PR between 0 and beta_DY.
		diff := sub(grad, prevGrad)
		denomPR := dot(prevGrad, prevGrad)
		denomDY := dot(prevDir, diff)
		if denomPR == 0 || denomDY == 0 {
			return 0
		}
		bPR := dot(grad, diff) / denomPR
		bDY := dot(grad, grad) / denomDY
		return math.Max(0, math.Min(bPR, bDY))
	}
	return 0
}

// isDescent reports whether dir is a descent direction for grad:
// <grad, dir> < 0.
func isDescent(dir, grad []float64) bool {
	return dot(dir, grad) < 0
}

func negCopy(dst, src []float64) {
	for i := range src {
		dst[i] = -src[i]
	}
}

func sub(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func norm(a []float64) float64 {
	return math.Sqrt(dot(a, a))
}
