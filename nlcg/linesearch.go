package nlcg

import (
	"math"

	"github.com/haoxiangmiao/feat3-sub001/solver"
)

// armijoMet reports whether the Armijo sufficient-decrease condition
// holds, grounded on gonum's opt.ArmijioConditionMet (opt/aux.go).
func armijoMet(currObj, initObj, initGrad, step, funConst float64) bool {
	return currObj <= initObj+funConst*step*initGrad
}

// strongWolfeMet reports whether the strong Wolfe conditions hold,
// grounded on gonum's opt.StrongWolfeConditionsMet (opt/aux.go).
func strongWolfeMet(currObj, currGrad, initObj, initGrad, step, funConst, gradConst float64) bool {
	if currObj > initObj+funConst*step*initGrad {
		return false
	}
	return math.Abs(currGrad) < gradConst*math.Abs(initGrad)
}

// StrongWolfeLinesearch is a bracket-then-bisect line search satisfying
// the strong Wolfe conditions, grounded directly on gonum's
// opt.Bisection (opt/bisection.go): expand the step while the
// directional derivative stays negative and the objective keeps
// decreasing, bracket on the first sign change or objective increase,
// then bisect the bracket until both Wolfe conditions hold or MaxIter
// is exhausted.
type StrongWolfeLinesearch struct {
	TolDecrease  float64 // Armijo constant c1; defaults to 1e-3
	TolCurvature float64 // curvature constant c2; defaults to 0.3
	MaxIter      int     // defaults to 20
	InitStep     float64 // defaults to 1.0
}

// minIntervalWidth is the §4.8 "interval_too_small" bracket-collapse
// tolerance shared by both line searches.
const minIntervalWidth = 1e-12

func (s *StrongWolfeLinesearch) defaults() (c1, c2 float64, maxIter int, init float64) {
	c1, c2, maxIter, init = s.TolDecrease, s.TolCurvature, s.MaxIter, s.InitStep
	if c1 <= 0 {
		c1 = 1e-3
	}
	if c2 <= 0 {
		c2 = 0.3
	}
	if maxIter <= 0 {
		maxIter = 20
	}
	if init <= 0 {
		init = 1.0
	}
	return
}

// Search runs the bracket-then-bisect strong-Wolfe line search.
func (s *StrongWolfeLinesearch) Search(fn Functional, x, dir []float64, f0 float64, grad0 []float64) (float64, solver.Status) {
	c1, c2, maxIter, step := s.defaults()
	g0 := dot(grad0, dir)
	if g0 >= 0 {
		return 0, solver.StatusAborted
	}

	n := len(x)
	trial := make([]float64, n)
	g := make([]float64, n)

	minStep, maxStep := 0.0, math.Inf(1)
	minF := f0

	eval := func(a float64) (f, dGrad float64) {
		for i := range trial {
			trial[i] = x[i] + a*dir[i]
		}
		f = fn.Value(trial)
		fn.Grad(trial, g)
		dGrad = dot(g, dir)
		return
	}

	for iter := 0; iter < maxIter; iter++ {
		f, dGrad := eval(step)
		if strongWolfeMet(f, dGrad, f0, g0, step, c1, c2) {
			return step, solver.StatusSuccess
		}
		if math.IsInf(maxStep, 1) {
			switch {
			case dGrad > 0:
				maxStep = step
				step = (minStep + maxStep) / 2
			case f <= minF:
				minStep = step
				minF = f
				step *= 2
			default:
				maxStep = step
				step = (minStep + maxStep) / 2
			}
			continue
		}
		if dGrad < 0 {
			if f <= minF {
				minStep = step
				minF = f
			} else {
				maxStep = step
			}
		} else {
			maxStep = step
		}
		if maxStep-minStep < minIntervalWidth {
			return step, solver.StatusIntervalTooSmall
		}
		step = (minStep + maxStep) / 2
	}
	return step, solver.StatusMaxIter
}

// MQCLinesearch is a monotone quadratic-cubic interpolation line search
// satisfying the same Armijo + curvature pair of conditions as
// StrongWolfeLinesearch (§4.8), grounded on gonum's opt.Backtracking
// (opt/backtracking.go) for its safeguarded-shrinkage fallback whenever
// the interpolated model produces no usable step: the first trial step
// that violates the decrease condition (or overshoots the minimiser)
// brackets the minimiser between the two most recent (step, value,
// slope) samples; a quadratic fits the first such pair, a cubic fits
// every pair after, and bisection is the safeguard when neither model
// has an admissible root inside the bracket.
type MQCLinesearch struct {
	TolDecrease  float64 // Armijo constant c1; defaults to 1e-3
	TolCurvature float64 // curvature constant c2; defaults to 0.3
	Decrease     float64 // safeguard shrink/growth factor; defaults to 0.5
	MaxIter      int     // defaults to 30
	InitStep     float64 // defaults to 1.0
}

func (m *MQCLinesearch) defaults() (c1, c2, decrease float64, maxIter int, init float64) {
	c1, c2, decrease, maxIter, init = m.TolDecrease, m.TolCurvature, m.Decrease, m.MaxIter, m.InitStep
	if c1 <= 0 {
		c1 = 1e-3
	}
	if c2 <= 0 {
		c2 = 0.3
	}
	if decrease <= 0 || decrease >= 1 {
		decrease = 0.5
	}
	if maxIter <= 0 {
		maxIter = 30
	}
	if init <= 0 {
		init = 1.0
	}
	return
}

// quadraticMinimizer fits a quadratic through (0, f0, g0) and
// (step1, f1) and returns its interior minimiser, or ok=false if the
// quadratic has non-positive curvature (no interior minimiser).
func quadraticMinimizer(f0, g0, step1, f1 float64) (float64, bool) {
	denom := 2 * (f1 - f0 - g0*step1)
	if denom <= 0 {
		return 0, false
	}
	return -g0 * step1 * step1 / denom, true
}

// cubicMinimizer fits a cubic through two (step, value, slope) samples
// and returns the step minimising it, or ok=false if the cubic has no
// real admissible root (Nocedal & Wright, Numerical Optimization,
// eq. 3.59).
func cubicMinimizer(step0, f0, g0, step1, f1, g1 float64) (float64, bool) {
	if step0 == step1 {
		return 0, false
	}
	d1 := g0 + g1 - 3*(f0-f1)/(step0-step1)
	disc := d1*d1 - g0*g1
	if disc < 0 {
		return 0, false
	}
	d2 := math.Sqrt(disc)
	if step1 < step0 {
		d2 = -d2
	}
	denom := g1 - g0 + 2*d2
	if denom == 0 {
		return 0, false
	}
	return step1 - (step1-step0)*(g1+d2-d1)/denom, true
}

// Search runs the monotone quadratic-cubic interpolation line search.
func (m *MQCLinesearch) Search(fn Functional, x, dir []float64, f0 float64, grad0 []float64) (float64, solver.Status) {
	c1, c2, decrease, maxIter, step := m.defaults()
	g0 := dot(grad0, dir)
	if g0 >= 0 {
		return 0, solver.StatusAborted
	}

	trial := make([]float64, len(x))
	g := make([]float64, len(x))
	eval := func(a float64) (f, slope float64) {
		for i := range trial {
			trial[i] = x[i] + a*dir[i]
		}
		f = fn.Value(trial)
		fn.Grad(trial, g)
		slope = dot(g, dir)
		return
	}

	lo, hi := 0.0, math.Inf(1)
	bracketed := false
	prevStep, prevF, prevSlope := 0.0, f0, g0

	for iter := 0; iter < maxIter; iter++ {
		f, slope := eval(step)

		armijo := armijoMet(f, f0, g0, step, c1)
		if armijo && math.Abs(slope) <= c2*math.Abs(g0) {
			return step, solver.StatusSuccess
		}

		if bracketed && hi-lo < minIntervalWidth {
			return step, solver.StatusIntervalTooSmall
		}

		var next float64
		var ok bool
		switch {
		case !armijo || (iter > 0 && f >= prevF):
			// Decrease condition violated: the minimiser lies between
			// prevStep and step.
			lo, hi = minMax(prevStep, step)
			bracketed = true
			next, ok = cubicMinimizer(prevStep, prevF, prevSlope, step, f, slope)
		case slope >= 0:
			// Armijo holds but the step overshoots the minimiser: also
			// bracketed, just on the ascending side.
			lo, hi = minMax(prevStep, step)
			bracketed = true
			next, ok = cubicMinimizer(prevStep, prevF, prevSlope, step, f, slope)
		default:
			// Still descending with the decrease condition satisfied:
			// extrapolate past step using a quadratic model.
			lo = step
			next, ok = quadraticMinimizer(f0, g0, step, f)
			if !ok || next <= step {
				next = step / decrease
			}
			if next > 4*step {
				next = 4 * step
			}
		}
		if bracketed && (!ok || next <= lo || next >= hi) {
			next = (lo + hi) / 2
		}

		if bracketed && math.Abs(next-step) < minIntervalWidth {
			return step, solver.StatusIntervalTooSmall
		}

		prevStep, prevF, prevSlope = step, f, slope
		step = next
	}
	return step, solver.StatusMaxIter
}

func minMax(a, b float64) (float64, float64) {
	if a < b {
		return a, b
	}
	return b, a
}
