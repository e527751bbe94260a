package metrics

import "github.com/san-kum/survlab/internal/estimators"

// Metric scores a single fitted model. Value reports the last observation
// and is NaN when the model does not support the metric.
type Metric interface {
	Name() string
	Observe(fit estimators.Fitted)
	Value() float64
	Reset()
}

// Default returns the goodness-of-fit metrics shown next to a figure.
func Default(horizon float64) []Metric {
	return []Metric{
		NewLogLikelihood(),
		NewAIC(),
		NewBIC(),
		NewMedianLife(horizon),
	}
}
