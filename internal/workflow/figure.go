package workflow

import "github.com/san-kum/survlab/internal/estimators"

// Figure is the plot surface of one cycle: fixed axis labels and the curves
// in strategy order.
type Figure struct {
	Title  string
	XLabel string
	YLabel string
	Curves []estimators.Curve
}

func (f *Figure) Names() []string {
	names := make([]string, len(f.Curves))
	for i, c := range f.Curves {
		names[i] = c.Name()
	}
	return names
}

func (f *Figure) Len() int { return len(f.Curves) }

// MaxTime is the last age on the shared timeline.
func (f *Figure) MaxTime() float64 {
	if len(f.Curves) == 0 || len(f.Curves[0].Time) == 0 {
		return 0
	}
	t := f.Curves[0].Time
	return t[len(t)-1]
}
