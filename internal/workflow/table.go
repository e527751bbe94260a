package workflow

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/san-kum/survlab/internal/lifetime"
)

var TableColumns = []string{"time", "event", "entry"}

// Table is the tabular view of a record set. Covariates are not shown.
type Table struct {
	Columns []string
	Rows    []lifetime.Row
	Summary lifetime.Summary
}

// RenderTable returns one row per unit in record order.
func (w *Workflow) RenderTable(rec lifetime.Records) Table {
	t := Table{
		Columns: append([]string(nil), TableColumns...),
		Rows:    make([]lifetime.Row, rec.Len()),
		Summary: rec.Summary(),
	}
	for i := range t.Rows {
		t.Rows[i] = rec.Row(i)
	}
	return t
}

func (t Table) Len() int { return len(t.Rows) }

// Write prints the first limit rows as aligned columns. A limit <= 0 prints
// every row.
func (t Table) Write(out io.Writer, limit int) error {
	n := len(t.Rows)
	if limit > 0 && limit < n {
		n = limit
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tTIME\tEVENT\tENTRY")
	for i, r := range t.Rows[:n] {
		fmt.Fprintf(w, "%d\t%.4f\t%t\t%.4f\n", i, r.Time, r.Event, r.Entry)
	}
	if n < len(t.Rows) {
		fmt.Fprintf(w, "...\t%d more\t\t\n", len(t.Rows)-n)
	}
	return w.Flush()
}
