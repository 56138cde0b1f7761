package optimization

import (
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// linearEquality is the constraint aᵀw = b.
type linearEquality struct {
	name string
	a    []float64
	b    float64
}

func (c linearEquality) residual(w []float64) float64 {
	return floats.Dot(c.a, w) - c.b
}

// problem is a smooth objective over long-only, fully invested weights.
type problem struct {
	n          int
	objective  func(w []float64) float64
	gradient   func(grad, w []float64)
	equalities []linearEquality
}

// simplexWeights maps unconstrained z onto the simplex with a softmax, so
// every candidate satisfies w_i in [0,1] and Σw = 1 exactly.
func simplexWeights(dst, z []float64) []float64 {
	if dst == nil {
		dst = make([]float64, len(z))
	}
	maxZ := floats.Max(z)
	var sum float64
	for i, v := range z {
		dst[i] = math.Exp(v - maxZ)
		sum += dst[i]
	}
	floats.Scale(1/sum, dst)
	return dst
}

// solve minimizes the problem with an augmented Lagrangian outer loop for
// the equality constraints and BFGS for the inner unconstrained solve,
// falling back to Nelder-Mead when the line search fails. The starting
// point is the equal-weight vector.
func solve(p problem, opts Options, log zerolog.Logger) *Result {
	opts = opts.withDefaults()

	z := make([]float64, p.n)
	lambda := make([]float64, len(p.equalities))
	rho := opts.Penalty

	w := make([]float64, p.n)
	gw := make([]float64, p.n)
	h := make([]float64, len(p.equalities))

	residuals := func(w []float64) {
		for k, c := range p.equalities {
			h[k] = c.residual(w)
		}
	}

	inner := optimize.Problem{
		Func: func(z []float64) float64 {
			simplexWeights(w, z)
			residuals(w)
			f := p.objective(w)
			for k := range h {
				f += lambda[k]*h[k] + rho/2*h[k]*h[k]
			}
			return f
		},
		Grad: func(grad, z []float64) {
			simplexWeights(w, z)
			residuals(w)
			p.gradient(gw, w)
			for k, c := range p.equalities {
				floats.AddScaled(gw, lambda[k]+rho*h[k], c.a)
			}
			// Chain rule through the softmax: dL/dz_i = w_i (g_i - wᵀg).
			wg := floats.Dot(w, gw)
			for i := range grad {
				grad[i] = w[i] * (gw[i] - wg)
			}
		},
	}

	settings := &optimize.Settings{
		GradientThreshold: 1e-10,
		MajorIterations:   opts.MaxIterations,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-14,
			Relative:   1e-12,
			Iterations: 50,
		},
	}
	if opts.Debug {
		settings.Recorder = &iterationLogger{log: log}
	}

	res := &Result{}
	prevViolation := math.Inf(1)
	outer := 1
	if len(p.equalities) > 0 {
		outer = opts.OuterIterations
	}

	for iter := 0; iter < outer; iter++ {
		status, failed := minimizeInner(inner, z, settings, res, log)
		res.Status = status

		simplexWeights(w, z)
		residuals(w)
		res.MaxViolation = 0
		for _, v := range h {
			res.MaxViolation = math.Max(res.MaxViolation, math.Abs(v))
		}

		if opts.Debug {
			log.Debug().
				Int("outer", iter).
				Float64("penalty", rho).
				Floats64("multipliers", lambda).
				Float64("max_violation", res.MaxViolation).
				Str("status", status.String()).
				Msg("Constraint iteration")
		}

		if failed || res.MaxViolation <= opts.ConstraintTolerance {
			break
		}

		for k := range lambda {
			lambda[k] += rho * h[k]
		}
		if res.MaxViolation > 0.25*prevViolation {
			rho = math.Min(rho*10, maxPenalty)
		}
		prevViolation = res.MaxViolation
	}

	res.Weights = simplexWeights(nil, z)
	res.Success = !res.Status.Early() && res.MaxViolation <= opts.ConstraintTolerance
	return res
}

// minimizeInner runs BFGS from z and falls back to Nelder-Mead from the
// best point found. z is updated in place. failed reports that neither
// method produced a usable point.
func minimizeInner(p optimize.Problem, z []float64, settings *optimize.Settings, res *Result, log zerolog.Logger) (optimize.Status, bool) {
	result, err := optimize.Minimize(p, z, settings, &optimize.BFGS{})
	if result != nil {
		res.Iterations += result.MajorIterations
		res.FuncEvaluations += result.FuncEvaluations
		if !math.IsInf(result.F, 1) {
			copy(z, result.X)
		}
	}
	if err == nil {
		return result.Status, false
	}

	log.Debug().Err(err).Msg("BFGS failed, retrying with Nelder-Mead")

	result, err = optimize.Minimize(p, z, settings, &optimize.NelderMead{})
	if result != nil {
		res.Iterations += result.MajorIterations
		res.FuncEvaluations += result.FuncEvaluations
		if !math.IsInf(result.F, 1) {
			copy(z, result.X)
		}
	}
	if err != nil {
		log.Debug().Err(err).Msg("Nelder-Mead failed")
		return optimize.Failure, true
	}
	return result.Status, false
}

// iterationLogger records solver progress through zerolog.
type iterationLogger struct {
	log zerolog.Logger
}

func (r *iterationLogger) Init() error { return nil }

func (r *iterationLogger) Record(loc *optimize.Location, op optimize.Operation, stats *optimize.Stats) error {
	if op != optimize.MajorIteration {
		return nil
	}
	r.log.Debug().
		Int("iteration", stats.MajorIterations).
		Int("evaluations", stats.FuncEvaluations).
		Float64("f", loc.F).
		Floats64("weights", simplexWeights(nil, loc.X)).
		Msg("Solver iteration")
	return nil
}
