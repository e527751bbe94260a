// Package estimators fits survival models to lifetime data.
//
// Every supported strategy is a variant of the closed [Strategy] enum:
//
//   - [KaplanMeier]: non-parametric product-limit estimator
//   - [Weibull], [Gompertz], [Exponential], [Gamma], [LogLogistic]:
//     parametric lifetime laws fitted by maximum likelihood
//
// All estimators honour right censoring (event == false) and left
// truncation (entry > 0). Parametric laws are parametrised by a shape and a
// rate, the rate being the inverse of the usual scale.
//
// # Example
//
//	est := estimators.New(estimators.Weibull)
//	fit, err := est.Fit(ctx, records)
//	curve := fit.Curve(estimators.Timeline(records.MaxTime(), 200))
//
// # Thread Safety
//
// Estimators hold no state between fits; each call to New returns a fresh
// instance, and fitted models are immutable.
package estimators
