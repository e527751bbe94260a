package estimators

import (
	"fmt"
	"strings"
)

type Strategy int

const (
	KaplanMeier Strategy = iota
	Weibull
	Gompertz
	Exponential
	Gamma
	LogLogistic
)

var strategyNames = [...]string{
	KaplanMeier: "KaplanMeier",
	Weibull:     "Weibull",
	Gompertz:    "Gompertz",
	Exponential: "Exponential",
	Gamma:       "Gamma",
	LogLogistic: "LogLogistic",
}

var strategyInfo = [...]string{
	KaplanMeier: "non-parametric product-limit",
	Weibull:     "wear-out / infant mortality",
	Gompertz:    "exponentially ageing hazard",
	Exponential: "constant hazard",
	Gamma:       "summed exponential stages",
	LogLogistic: "non-monotone hazard",
}

func (s Strategy) String() string {
	if s < 0 || int(s) >= len(strategyNames) {
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
	return strategyNames[s]
}

func (s Strategy) Description() string {
	if s < 0 || int(s) >= len(strategyInfo) {
		return ""
	}
	return strategyInfo[s]
}

func (s Strategy) Parametric() bool {
	return s != KaplanMeier
}

// AllStrategies returns every strategy in display order.
func AllStrategies() []Strategy {
	return []Strategy{KaplanMeier, Weibull, Gompertz, Exponential, Gamma, LogLogistic}
}

func StrategyNames() []string {
	all := AllStrategies()
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = s.String()
	}
	return names
}

// ParseStrategy resolves a display name. Matching is case-insensitive.
func ParseStrategy(name string) (Strategy, error) {
	for _, s := range AllStrategies() {
		if strings.EqualFold(s.String(), strings.TrimSpace(name)) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %s (available: %s)", ErrUnknownStrategy, name, strings.Join(StrategyNames(), ", "))
}

// New constructs a fresh estimator for s.
func New(s Strategy) Estimator {
	switch s {
	case KaplanMeier:
		return NewKaplanMeier()
	case Weibull:
		return NewParametric(weibullLaw{})
	case Gompertz:
		return NewParametric(gompertzLaw{})
	case Exponential:
		return NewParametric(exponentialLaw{})
	case Gamma:
		return NewParametric(gammaLaw{})
	case LogLogistic:
		return NewParametric(logLogisticLaw{})
	}
	panic(fmt.Sprintf("estimators: unhandled strategy %d", int(s)))
}
