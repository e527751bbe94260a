package viz

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// Swatch is one series colour in the 256-colour terminal palette and as a
// CSS hex code for raster and vector output.
type Swatch struct {
	ANSI asciigraph.AnsiColor
	Hex  string
}

func (s Swatch) Lipgloss() lipgloss.Color {
	return lipgloss.Color(strconv.Itoa(int(s.ANSI)))
}

type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Series    []Swatch
}

// SeriesColor returns the swatch of the i-th curve.
func (t Theme) SeriesColor(i int) Swatch {
	if len(t.Series) == 0 {
		return Swatch{ANSI: asciigraph.Default, Hex: "#000000"}
	}
	return t.Series[i%len(t.Series)]
}

var (
	ThemeDefault = Theme{
		Name:      "default",
		Primary:   lipgloss.Color("86"),
		Secondary: lipgloss.Color("255"),
		Accent:    lipgloss.Color("213"),
		Text:      lipgloss.Color("255"),
		Muted:     lipgloss.Color("242"),
		Success:   lipgloss.Color("82"),
		Warning:   lipgloss.Color("220"),
		Error:     lipgloss.Color("196"),
		Series: []Swatch{
			{ANSI: asciigraph.DodgerBlue, Hex: "#0087ff"},
			{ANSI: asciigraph.DarkOrange, Hex: "#ff8700"},
			{ANSI: asciigraph.LimeGreen, Hex: "#5fd75f"},
			{ANSI: asciigraph.IndianRed, Hex: "#d75f5f"},
			{ANSI: asciigraph.MediumPurple, Hex: "#8787d7"},
			{ANSI: asciigraph.Gold, Hex: "#ffd700"},
		},
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#00ff00"),
		Secondary: lipgloss.Color("#00cc00"),
		Accent:    lipgloss.Color("#88ff88"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
		Success:   lipgloss.Color("#88ff88"),
		Warning:   lipgloss.Color("#ffff00"),
		Error:     lipgloss.Color("#ff0000"),
		Series: []Swatch{
			{ANSI: asciigraph.Lime, Hex: "#00ff00"},
			{ANSI: asciigraph.LightGreen, Hex: "#87ff87"},
			{ANSI: asciigraph.Yellow, Hex: "#ffff00"},
			{ANSI: asciigraph.ForestGreen, Hex: "#228b22"},
			{ANSI: asciigraph.Olive, Hex: "#808000"},
			{ANSI: asciigraph.SeaGreen, Hex: "#2e8b57"},
		},
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Accent:    lipgloss.Color("#0088ff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Success:   lipgloss.Color("#00ff00"),
		Warning:   lipgloss.Color("#ffaa00"),
		Error:     lipgloss.Color("#ff0000"),
		Series: []Swatch{
			{ANSI: asciigraph.Default, Hex: "#000000"},
			{ANSI: asciigraph.Gray, Hex: "#808080"},
			{ANSI: asciigraph.Blue, Hex: "#0000ff"},
			{ANSI: asciigraph.Red, Hex: "#ff0000"},
			{ANSI: asciigraph.DarkGray, Hex: "#a9a9a9"},
			{ANSI: asciigraph.Navy, Hex: "#000080"},
		},
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Primary:   lipgloss.Color("#0077be"),
		Secondary: lipgloss.Color("#00a8cc"),
		Accent:    lipgloss.Color("#ffd700"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
		Success:   lipgloss.Color("#00ff88"),
		Warning:   lipgloss.Color("#ffcc00"),
		Error:     lipgloss.Color("#ff4444"),
		Series: []Swatch{
			{ANSI: asciigraph.DeepSkyBlue, Hex: "#00bfff"},
			{ANSI: asciigraph.Aqua, Hex: "#00ffff"},
			{ANSI: asciigraph.SteelBlue, Hex: "#4682b4"},
			{ANSI: asciigraph.Gold, Hex: "#ffd700"},
			{ANSI: asciigraph.Teal, Hex: "#008080"},
			{ANSI: asciigraph.CornflowerBlue, Hex: "#6495ed"},
		},
	}

	Themes = []Theme{
		ThemeDefault,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeOcean,
	}
)

// GetTheme returns a theme by name, falling back to the default theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeDefault
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
