package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles is the set of lipgloss styles derived from one theme.
type Styles struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Panel    lipgloss.Style
	Focused  lipgloss.Style
	Selected lipgloss.Style
	Text     lipgloss.Style
	Dim      lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	KeyHint  lipgloss.Style
	Advisory lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Text).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Muted),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 1),
		Focused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		Text:     lipgloss.NewStyle().Foreground(t.Text),
		Dim:      lipgloss.NewStyle().Foreground(t.Muted),
		Label:    lipgloss.NewStyle().Foreground(t.Muted),
		Value:    lipgloss.NewStyle().Bold(true).Foreground(t.Secondary),
		KeyHint:  lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		Advisory: lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		Error:    lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		Success:  lipgloss.NewStyle().Bold(true).Foreground(t.Success),
	}
}

// Sparkline renders values scaled to their own min..max as block glyphs,
// sampling down to width cells.
func Sparkline(values []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	var sb strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / rng
		idx := int(norm * float64(len(chars)-1))
		idx = max(0, min(idx, len(chars)-1))
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}

// Histogram counts values into n equal-width bins over [lo, hi].
func Histogram(values []float64, lo, hi float64, n int) []float64 {
	bins := make([]float64, n)
	if n == 0 || hi <= lo {
		return bins
	}
	w := (hi - lo) / float64(n)
	for _, v := range values {
		if v < lo || v > hi {
			continue
		}
		i := int((v - lo) / w)
		if i >= n {
			i = n - 1
		}
		bins[i]++
	}
	return bins
}

func Separator(width int) string {
	if width < 8 {
		return strings.Repeat("─", max(width, 0))
	}
	mid := width / 2
	return strings.Repeat("─", mid-2) + " ◆ " + strings.Repeat("─", width-mid-1)
}
