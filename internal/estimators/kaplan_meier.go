package estimators

import (
	"context"
	"math"
	"sort"

	"github.com/san-kum/survlab/internal/lifetime"
)

// z-score of the two-sided 95% pointwise band.
const bandZ = 1.959963984540054

type KaplanMeierEstimator struct{}

func NewKaplanMeier() *KaplanMeierEstimator {
	return &KaplanMeierEstimator{}
}

func (k *KaplanMeierEstimator) Strategy() Strategy { return KaplanMeier }

// Fit computes the product-limit estimate. The risk set at an event age u
// holds the units with entry < u <= time.
func (k *KaplanMeierEstimator) Fit(ctx context.Context, rec lifetime.Records) (Fitted, error) {
	if err := rec.Validate(); err != nil {
		return nil, &FitError{Strategy: KaplanMeier, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n := rec.Len()
	times := append([]float64(nil), rec.Time...)
	entries := append([]float64(nil), rec.Entry...)
	sort.Float64s(times)
	sort.Float64s(entries)

	deaths := make(map[float64]int)
	for i := 0; i < n; i++ {
		if rec.Event[i] {
			deaths[rec.Time[i]]++
		}
	}
	eventTimes := make([]float64, 0, len(deaths))
	for t := range deaths {
		eventTimes = append(eventTimes, t)
	}
	sort.Float64s(eventTimes)

	fit := &KaplanMeierFit{
		times: make([]float64, 0, len(eventTimes)),
		surv:  make([]float64, 0, len(eventTimes)),
		lower: make([]float64, 0, len(eventTimes)),
		upper: make([]float64, 0, len(eventTimes)),
	}

	s := 1.0
	greenwood := 0.0
	for _, u := range eventTimes {
		atRisk := countBelow(entries, u) - countBelow(times, u)
		d := deaths[u]
		if atRisk <= 0 {
			continue
		}
		s *= 1 - float64(d)/float64(atRisk)
		if atRisk > d {
			greenwood += float64(d) / (float64(atRisk) * float64(atRisk-d))
		} else {
			greenwood = math.Inf(1)
		}
		lo, hi := logLogBand(s, greenwood)

		fit.times = append(fit.times, u)
		fit.surv = append(fit.surv, s)
		fit.lower = append(fit.lower, lo)
		fit.upper = append(fit.upper, hi)
		fit.atRisk = append(fit.atRisk, atRisk)
		fit.deaths = append(fit.deaths, d)
	}

	return fit, nil
}

// countBelow returns the number of sorted values strictly below x.
func countBelow(sorted []float64, x float64) int {
	return sort.SearchFloat64s(sorted, x)
}

func logLogBand(s, greenwood float64) (float64, float64) {
	if s <= 0 || s >= 1 || math.IsInf(greenwood, 0) {
		return s, s
	}
	logS := math.Log(s)
	theta := bandZ * math.Sqrt(greenwood) / math.Abs(logS)
	return math.Pow(s, math.Exp(theta)), math.Pow(s, math.Exp(-theta))
}

type KaplanMeierFit struct {
	times  []float64
	surv   []float64
	lower  []float64
	upper  []float64
	atRisk []int
	deaths []int
}

func (f *KaplanMeierFit) Strategy() Strategy { return KaplanMeier }

// Survival evaluates the right-continuous step function.
func (f *KaplanMeierFit) Survival(t float64) float64 {
	j := f.index(t)
	if j < 0 {
		return 1
	}
	return f.surv[j]
}

// Band returns the 95% log-log confidence band at t.
func (f *KaplanMeierFit) Band(t float64) (float64, float64) {
	j := f.index(t)
	if j < 0 {
		return 1, 1
	}
	return f.lower[j], f.upper[j]
}

func (f *KaplanMeierFit) index(t float64) int {
	return sort.Search(len(f.times), func(i int) bool { return f.times[i] > t }) - 1
}

// Steps returns the event ages and the survival value after each of them.
func (f *KaplanMeierFit) Steps() ([]float64, []float64) {
	return append([]float64(nil), f.times...), append([]float64(nil), f.surv...)
}

// Table returns the risk set and failure count at each event age.
func (f *KaplanMeierFit) Table() (times []float64, atRisk, deaths []int) {
	return append([]float64(nil), f.times...),
		append([]int(nil), f.atRisk...),
		append([]int(nil), f.deaths...)
}

func (f *KaplanMeierFit) Params() []Param {
	return []Param{{Name: "event_times", Value: float64(len(f.times))}}
}

func (f *KaplanMeierFit) Curve(timeline []float64) Curve {
	c := Curve{
		Strategy: KaplanMeier,
		Time:     append([]float64(nil), timeline...),
		Survival: make([]float64, len(timeline)),
		Lower:    make([]float64, len(timeline)),
		Upper:    make([]float64, len(timeline)),
	}
	for i, t := range timeline {
		c.Survival[i] = f.Survival(t)
		c.Lower[i], c.Upper[i] = f.Band(t)
	}
	return c
}
