package estimators

import (
	"context"

	"github.com/san-kum/survlab/internal/lifetime"
)

type Estimator interface {
	Strategy() Strategy
	Fit(ctx context.Context, rec lifetime.Records) (Fitted, error)
}

type Fitted interface {
	Strategy() Strategy
	Survival(t float64) float64
	Params() []Param
	Curve(timeline []float64) Curve
}

// Likelihood is implemented by models fitted by maximum likelihood.
type Likelihood interface {
	LogLikelihood() float64
	NumParams() int
	NumObs() int
}

type Param struct {
	Name  string
	Value float64
}

// Curve is a survival function sampled on a timeline. Lower and Upper are
// set only for estimators with a confidence band.
type Curve struct {
	Strategy Strategy
	Time     []float64
	Survival []float64
	Lower    []float64
	Upper    []float64
}

func (c Curve) Name() string { return c.Strategy.String() }

func (c Curve) HasBand() bool { return len(c.Lower) == len(c.Time) && len(c.Upper) == len(c.Time) }

// Timeline returns n evenly spaced ages from 0 to maxTime inclusive.
func Timeline(maxTime float64, n int) []float64 {
	if n < 2 {
		n = 2
	}
	out := make([]float64, n)
	step := maxTime / float64(n-1)
	for i := range out {
		out[i] = float64(i) * step
	}
	out[n-1] = maxTime
	return out
}
