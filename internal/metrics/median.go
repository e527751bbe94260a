package metrics

import (
	"math"

	"github.com/san-kum/survlab/internal/estimators"
)

const bisectIterations = 200

// MedianLife is the smallest age at which survival drops to one half.
// It is NaN when survival stays above one half up to the horizon.
type MedianLife struct {
	name    string
	horizon float64
	value   float64
}

func NewMedianLife(horizon float64) *MedianLife {
	return &MedianLife{name: "median_life", horizon: horizon, value: math.NaN()}
}

func (m *MedianLife) Name() string { return m.name }

func (m *MedianLife) Observe(fit estimators.Fitted) {
	m.value = quantileAge(fit.Survival, 0.5, m.horizon)
}

func (m *MedianLife) Value() float64 { return m.value }

func (m *MedianLife) Reset() { m.value = math.NaN() }

// quantileAge bisects for the first t in [0, horizon] with surv(t) <= p.
// surv must be non-increasing.
func quantileAge(surv func(float64) float64, p, horizon float64) float64 {
	if horizon <= 0 || surv(horizon) > p {
		return math.NaN()
	}
	lo, hi := 0.0, horizon
	for i := 0; i < bisectIterations && hi-lo > 1e-12*horizon; i++ {
		mid := 0.5 * (lo + hi)
		if surv(mid) <= p {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi
}
