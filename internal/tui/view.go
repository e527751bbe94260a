package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/survlab/internal/plot"
	"github.com/san-kum/survlab/internal/viz"
	"github.com/san-kum/survlab/internal/workflow"
)

const (
	leftWidth   = 52
	histBins    = 40
	minPlotSize = 30
)

// tableRows is how many data rows fit in the results pane.
func (m model) tableRows() int {
	return max(m.height/5, 4)
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("  s u r v l a b") + "  " + m.styles.Dim.Render("survival analysis of lifetime data") + "\n")
	b.WriteString(m.styles.Dim.Render("  "+viz.Separator(max(m.width-4, 20))) + "\n")

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.panel(paneDatasets, m.datasets.view(m.styles, m.theme, m.focus == paneDatasets, nil)),
		m.panel(paneStrategies, m.strategies.view(m.styles, m.theme, m.focus == paneStrategies, m.seriesSlot())),
	)
	right := m.panel(paneResults, m.viewResults())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right) + "\n")

	b.WriteString(m.styles.KeyHint.Render("  tab pane  ↑↓ move  space select  x clear  s save png  e save run  t theme  q quit") + "\n")
	if m.toast != "" {
		b.WriteString("  " + m.toast + "\n")
	}
	return b.String()
}

// seriesSlot maps a strategy to its curve index in the shown figure, which
// is the colour the plot gives it. While a cycle is running the pick order
// is used.
func (m model) seriesSlot() func(string) int {
	if m.loading || m.result == nil || m.result.Figure == nil {
		return nil
	}
	names := m.result.Figure.Names()
	return func(label string) int {
		for i, n := range names {
			if n == label {
				return i
			}
		}
		return -1
	}
}

func (m model) panel(p pane, content string) string {
	style := m.styles.Panel
	if m.focus == p {
		style = m.styles.Focused
	}
	if p != paneResults {
		style = style.Width(leftWidth)
	}
	return style.Render(content)
}

func (m model) plotWidth() int {
	return max(m.width-leftWidth-22, minPlotSize)
}

func (m model) viewResults() string {
	var b strings.Builder

	switch {
	case m.err != nil:
		b.WriteString(m.styles.Error.Render("Error: "+m.err.Error()) + "\n")
		return b.String()
	case m.result == nil:
		b.WriteString(m.styles.Dim.Render("fitting...") + "\n")
		return b.String()
	}
	res := m.result

	b.WriteString(m.styles.Title.Render("Input data") + "  " + m.styles.Dim.Render(res.Table.Summary.String()))
	if m.loading {
		b.WriteString("  " + m.styles.Dim.Render("fitting..."))
	}
	b.WriteString("\n\n")
	b.WriteString(m.viewTable(res.Table))
	b.WriteString("\n" + m.styles.Label.Render("failure ages ") + m.styles.Value.Render(failureSparkline(res.Table, m.plotWidth())) + "\n\n")

	b.WriteString(m.styles.Title.Render("Survival analysis") + "\n\n")
	if res.Advisory != "" {
		b.WriteString(m.styles.Advisory.Render("⚠ "+res.Advisory) + "\n")
		return b.String()
	}

	opts := plot.TerminalOptions{
		Width:  m.plotWidth(),
		Height: max(m.opts.PlotHeight, 8),
		Theme:  m.theme,
		Color:  true,
	}
	graph, err := plot.Terminal(res.Figure, opts)
	if err != nil {
		b.WriteString(m.styles.Error.Render(err.Error()) + "\n")
	} else {
		b.WriteString(graph + "\n\n")
	}
	b.WriteString(m.viewSummary(res))
	return b.String()
}

func (m model) viewTable(t workflow.Table) string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render(fmt.Sprintf("%6s  %10s  %6s  %10s", "#", "time", "event", "entry")) + "\n")

	end := min(m.offset+m.tableRows(), t.Len())
	for i := m.offset; i < end; i++ {
		r := t.Rows[i]
		event := m.styles.Dim.Render(fmt.Sprintf("%6t", r.Event))
		if r.Event {
			event = m.styles.Value.Render(fmt.Sprintf("%6t", r.Event))
		}
		b.WriteString(fmt.Sprintf("%6d  %10.3f  %s  %10.3f\n", i, r.Time, event, r.Entry))
	}
	b.WriteString(m.styles.Dim.Render(fmt.Sprintf("rows %d-%d of %d", m.offset+1, end, t.Len())) + "\n")
	return b.String()
}

func (m model) viewSummary(res *workflow.RenderResult) string {
	var b strings.Builder
	header := fmt.Sprintf("%-13s %-30s", "strategy", "parameters")
	for _, c := range res.Summary.Columns {
		header += fmt.Sprintf(" %11s", c)
	}
	b.WriteString(m.styles.Header.Render(header) + "\n")

	for i, row := range res.Summary.Rows {
		swatch := m.styles.Text.Foreground(m.theme.SeriesColor(i).Lipgloss())
		params := make([]string, len(row.Params))
		for j, p := range row.Params {
			params[j] = fmt.Sprintf("%s=%.4g", p.Name, p.Value)
		}
		line := fmt.Sprintf("%-30s", strings.Join(params, " "))
		for _, v := range row.Values {
			line += " " + formatMetric(v)
		}
		b.WriteString(swatch.Render(fmt.Sprintf("%-13s", row.Strategy)) + " " + m.styles.Text.Render(line) + "\n")
	}
	for _, f := range res.Failures {
		b.WriteString(m.styles.Error.Render("skipped "+f.Error()) + "\n")
	}
	return b.String()
}

func formatMetric(v float64) string {
	if math.IsNaN(v) {
		return fmt.Sprintf("%11s", "-")
	}
	return fmt.Sprintf("%11.3f", v)
}

func failureSparkline(t workflow.Table, width int) string {
	var ages []float64
	for _, r := range t.Rows {
		if r.Event {
			ages = append(ages, r.Time)
		}
	}
	bins := min(histBins, max(width, 1))
	return viz.Sparkline(viz.Histogram(ages, 0, t.Summary.MaxTime, bins), bins)
}
