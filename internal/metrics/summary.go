package metrics

import "github.com/san-kum/survlab/internal/estimators"

type Row struct {
	Strategy estimators.Strategy
	Params   []estimators.Param
	Values   []float64
}

// Summary is a goodness-of-fit table, one row per fitted model in input order.
type Summary struct {
	Columns []string
	Rows    []Row
}

func Summarize(fits []estimators.Fitted, ms []Metric) Summary {
	s := Summary{
		Columns: make([]string, len(ms)),
		Rows:    make([]Row, 0, len(fits)),
	}
	for i, m := range ms {
		s.Columns[i] = m.Name()
	}
	for _, fit := range fits {
		row := Row{
			Strategy: fit.Strategy(),
			Params:   fit.Params(),
			Values:   make([]float64, len(ms)),
		}
		for i, m := range ms {
			m.Reset()
			m.Observe(fit)
			row.Values[i] = m.Value()
		}
		s.Rows = append(s.Rows, row)
	}
	return s
}

// Best returns the row with the smallest value in the named column, ignoring
// NaN entries.
func (s Summary) Best(column string) (Row, bool) {
	col := -1
	for i, c := range s.Columns {
		if c == column {
			col = i
			break
		}
	}
	if col < 0 {
		return Row{}, false
	}
	var best Row
	found := false
	for _, r := range s.Rows {
		v := r.Values[col]
		if v != v {
			continue
		}
		if !found || v < best.Values[col] {
			best = r
			found = true
		}
	}
	return best, found
}
