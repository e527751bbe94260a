package estimators

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/san-kum/survlab/internal/lifetime"
	"github.com/san-kum/survlab/internal/optim"
)

const (
	defaultMaxIterations = 5000
	// objective value standing in for a non-finite likelihood
	infeasible = 1e300
)

type ParametricEstimator struct {
	law           law
	MaxIterations int
}

func NewParametric(l law) *ParametricEstimator {
	return &ParametricEstimator{law: l, MaxIterations: defaultMaxIterations}
}

func (p *ParametricEstimator) Strategy() Strategy { return p.law.strategy() }

// Fit maximises the censored, left-truncated log-likelihood
//
//	sum_{event} log h(t_i) - sum_i [H(t_i) - H(a_i)]
//
// over log-parameters, starting from the best point of a coarse grid.
func (p *ParametricEstimator) Fit(ctx context.Context, rec lifetime.Records) (Fitted, error) {
	s := p.law.strategy()
	if err := rec.Validate(); err != nil {
		return nil, &FitError{Strategy: s, Err: err}
	}
	if rec.Events() == 0 {
		return nil, &FitError{Strategy: s, Err: ErrNoEvents}
	}

	grid := optim.NewGridSearch(p.law.paramNames(), p.law.startGrid(rec.MaxTime()))
	start, _, err := grid.Search(ctx, func(x []float64) float64 {
		return negLogLikelihood(p.law, x, rec)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, &FitError{Strategy: s, Err: fmt.Errorf("%w: %v", ErrNotConverged, err)}
	}

	x0 := make([]float64, len(start))
	for i, v := range start {
		x0[i] = math.Log(v)
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			v := negLogLikelihood(p.law, expAll(x), rec)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return infeasible
			}
			return v
		},
	}
	settings := &optimize.Settings{
		MajorIterations: p.MaxIterations,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Relative:   1e-10,
			Iterations: 100,
		},
		Recorder: contextRecorder{ctx: ctx},
	}

	result, err := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &FitError{Strategy: s, Err: fmt.Errorf("%w: %v", ErrNotConverged, err)}
	}
	if result.F >= infeasible || math.IsNaN(result.F) {
		return nil, &FitError{Strategy: s, Err: ErrNotConverged}
	}

	return &ParametricFit{
		law:    p.law,
		params: expAll(result.X),
		logLik: -result.F,
		nObs:   rec.Len(),
		iters:  result.MajorIterations,
	}, nil
}

func negLogLikelihood(l law, p []float64, rec lifetime.Records) float64 {
	ll := 0.0
	for i, t := range rec.Time {
		if rec.Event[i] {
			ll += l.logHazard(p, t)
		}
		ll -= l.cumHazard(p, t)
		if a := rec.Entry[i]; a > 0 {
			ll += l.cumHazard(p, a)
		}
	}
	if math.IsNaN(ll) || math.IsInf(ll, 0) {
		return math.Inf(1)
	}
	return -ll
}

func expAll(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = math.Exp(v)
	}
	return out
}

// contextRecorder aborts the optimisation once ctx is done.
type contextRecorder struct {
	ctx context.Context
}

func (r contextRecorder) Init() error { return r.ctx.Err() }

func (r contextRecorder) Record(*optimize.Location, optimize.Operation, *optimize.Stats) error {
	return r.ctx.Err()
}

type ParametricFit struct {
	law    law
	params []float64
	logLik float64
	nObs   int
	iters  int
}

func (f *ParametricFit) Strategy() Strategy { return f.law.strategy() }

func (f *ParametricFit) Survival(t float64) float64 {
	if t <= 0 {
		return 1
	}
	return math.Exp(-f.law.cumHazard(f.params, t))
}

func (f *ParametricFit) Hazard(t float64) float64 {
	if t <= 0 {
		return 0
	}
	return math.Exp(f.law.logHazard(f.params, t))
}

func (f *ParametricFit) Params() []Param {
	names := f.law.paramNames()
	out := make([]Param, len(names))
	for i, n := range names {
		out[i] = Param{Name: n, Value: f.params[i]}
	}
	return out
}

func (f *ParametricFit) Curve(timeline []float64) Curve {
	c := Curve{
		Strategy: f.law.strategy(),
		Time:     append([]float64(nil), timeline...),
		Survival: make([]float64, len(timeline)),
	}
	for i, t := range timeline {
		c.Survival[i] = f.Survival(t)
	}
	return c
}

func (f *ParametricFit) LogLikelihood() float64 { return f.logLik }
func (f *ParametricFit) NumParams() int         { return len(f.params) }
func (f *ParametricFit) NumObs() int            { return f.nObs }
func (f *ParametricFit) Iterations() int        { return f.iters }
