package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/survlab/internal/estimators"
)

type fakeFit struct {
	strategy estimators.Strategy
	surv     func(float64) float64
}

func (f fakeFit) Strategy() estimators.Strategy    { return f.strategy }
func (f fakeFit) Survival(t float64) float64       { return f.surv(t) }
func (f fakeFit) Params() []estimators.Param       { return nil }
func (f fakeFit) Curve([]float64) estimators.Curve { return estimators.Curve{} }

type fakeLikelihoodFit struct {
	fakeFit
	ll   float64
	k, n int
}

func (f fakeLikelihoodFit) LogLikelihood() float64 { return f.ll }
func (f fakeLikelihoodFit) NumParams() int         { return f.k }
func (f fakeLikelihoodFit) NumObs() int            { return f.n }

func exponential(rate float64) func(float64) float64 {
	return func(t float64) float64 { return math.Exp(-rate * t) }
}

func TestInformationCriteria(t *testing.T) {
	fit := fakeLikelihoodFit{
		fakeFit: fakeFit{strategy: estimators.Weibull, surv: exponential(1)},
		ll:      -100,
		k:       2,
		n:       50,
	}

	tests := []struct {
		metric Metric
		want   float64
	}{
		{NewLogLikelihood(), -100},
		{NewAIC(), 204},
		{NewBIC(), 2*math.Log(50) + 200},
	}

	for _, tt := range tests {
		t.Run(tt.metric.Name(), func(t *testing.T) {
			tt.metric.Observe(fit)
			if math.Abs(tt.metric.Value()-tt.want) > 1e-9 {
				t.Errorf("expected %f, got %f", tt.want, tt.metric.Value())
			}
			tt.metric.Reset()
			if !math.IsNaN(tt.metric.Value()) {
				t.Errorf("expected NaN after reset, got %f", tt.metric.Value())
			}
		})
	}
}

func TestLikelihoodMetricsSkipNonParametric(t *testing.T) {
	fit := fakeFit{strategy: estimators.KaplanMeier, surv: exponential(1)}
	for _, m := range []Metric{NewLogLikelihood(), NewAIC(), NewBIC()} {
		m.Observe(fit)
		if !math.IsNaN(m.Value()) {
			t.Errorf("%s: expected NaN for a non-likelihood fit, got %f", m.Name(), m.Value())
		}
	}
}

func TestMedianLife(t *testing.T) {
	m := NewMedianLife(100)
	m.Observe(fakeFit{surv: exponential(0.1)})

	want := math.Ln2 / 0.1
	if math.Abs(m.Value()-want) > 1e-6 {
		t.Errorf("expected median %f, got %f", want, m.Value())
	}

	m.Observe(fakeFit{surv: exponential(0.001)})
	if !math.IsNaN(m.Value()) {
		t.Errorf("expected NaN when survival stays above one half, got %f", m.Value())
	}
}

func TestMedianLifeOfStepFunction(t *testing.T) {
	step := func(t float64) float64 {
		switch {
		case t < 3:
			return 1
		case t < 7:
			return 0.6
		default:
			return 0.2
		}
	}
	m := NewMedianLife(10)
	m.Observe(fakeFit{surv: step})
	if math.Abs(m.Value()-7) > 1e-6 {
		t.Errorf("expected median at the step age 7, got %f", m.Value())
	}
}

func TestSummarizeKeepsFitOrder(t *testing.T) {
	fits := []estimators.Fitted{
		fakeLikelihoodFit{fakeFit: fakeFit{strategy: estimators.Gamma, surv: exponential(1)}, ll: -10, k: 2, n: 10},
		fakeFit{strategy: estimators.KaplanMeier, surv: exponential(1)},
		fakeLikelihoodFit{fakeFit: fakeFit{strategy: estimators.Exponential, surv: exponential(1)}, ll: -11, k: 1, n: 10},
	}

	s := Summarize(fits, Default(50))

	if got := len(s.Columns); got != 4 {
		t.Fatalf("expected 4 columns, got %d", got)
	}
	order := []estimators.Strategy{estimators.Gamma, estimators.KaplanMeier, estimators.Exponential}
	for i, r := range s.Rows {
		if r.Strategy != order[i] {
			t.Errorf("row %d: expected %s, got %s", i, order[i], r.Strategy)
		}
	}

	best, ok := s.Best("aic")
	if !ok {
		t.Fatal("expected a best row")
	}
	// Gamma: 4+20 = 24, Exponential: 2+22 = 24; ties keep the first.
	if best.Strategy != estimators.Gamma {
		t.Errorf("expected Gamma, got %s", best.Strategy)
	}

	if _, ok := s.Best("missing"); ok {
		t.Error("expected no row for an unknown column")
	}
}
