// Package lifetime provides the record types for reliability lifetime data.
//
// A lifetime data set is a collection of per-unit observations with three
// aligned fields:
//
//   - time: age of the unit when observation ended
//   - event: whether the failure was observed (false means right censored)
//   - entry: age at which the unit entered observation (left truncation)
//
// Index i across the three fields always refers to the same unit. Optional
// covariates trail the primary fields and are carried along unchanged.
//
// # Example
//
//	rec, err := lifetime.New(
//	    []float64{12.5, 30.1},
//	    []bool{true, false},
//	    []float64{0, 10},
//	)
//	time, event, entry := rec.Tuple()
package lifetime
