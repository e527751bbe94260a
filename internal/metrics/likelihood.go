package metrics

import (
	"math"

	"github.com/san-kum/survlab/internal/estimators"
)

type LogLikelihood struct {
	name  string
	value float64
}

func NewLogLikelihood() *LogLikelihood {
	return &LogLikelihood{name: "loglik", value: math.NaN()}
}

func (l *LogLikelihood) Name() string { return l.name }

func (l *LogLikelihood) Observe(fit estimators.Fitted) {
	lik, ok := fit.(estimators.Likelihood)
	if !ok {
		l.value = math.NaN()
		return
	}
	l.value = lik.LogLikelihood()
}

func (l *LogLikelihood) Value() float64 { return l.value }

func (l *LogLikelihood) Reset() { l.value = math.NaN() }

// AIC is the Akaike information criterion, 2k - 2ℓ.
type AIC struct {
	name  string
	value float64
}

func NewAIC() *AIC {
	return &AIC{name: "aic", value: math.NaN()}
}

func (a *AIC) Name() string { return a.name }

func (a *AIC) Observe(fit estimators.Fitted) {
	lik, ok := fit.(estimators.Likelihood)
	if !ok {
		a.value = math.NaN()
		return
	}
	a.value = 2*float64(lik.NumParams()) - 2*lik.LogLikelihood()
}

func (a *AIC) Value() float64 { return a.value }

func (a *AIC) Reset() { a.value = math.NaN() }

// BIC is the Bayesian information criterion, k ln(n) - 2ℓ.
type BIC struct {
	name  string
	value float64
}

func NewBIC() *BIC {
	return &BIC{name: "bic", value: math.NaN()}
}

func (b *BIC) Name() string { return b.name }

func (b *BIC) Observe(fit estimators.Fitted) {
	lik, ok := fit.(estimators.Likelihood)
	if !ok || lik.NumObs() == 0 {
		b.value = math.NaN()
		return
	}
	b.value = float64(lik.NumParams())*math.Log(float64(lik.NumObs())) - 2*lik.LogLikelihood()
}

func (b *BIC) Value() float64 { return b.value }

func (b *BIC) Reset() { b.value = math.NaN() }
