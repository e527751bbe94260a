package viz

import (
	"testing"
	"unicode/utf8"
)

func TestGetThemeFallsBackToDefault(t *testing.T) {
	if got := GetTheme("ocean").Name; got != "ocean" {
		t.Errorf("expected ocean, got %s", got)
	}
	if got := GetTheme("nope").Name; got != "default" {
		t.Errorf("expected default fallback, got %s", got)
	}
}

func TestSeriesColorWraps(t *testing.T) {
	th := ThemeDefault
	n := len(th.Series)
	if th.SeriesColor(n) != th.SeriesColor(0) {
		t.Error("expected palette to wrap around")
	}
	if (Theme{}).SeriesColor(3).Hex != "#000000" {
		t.Error("expected black for an empty palette")
	}
}

func TestEveryThemeHasSixSeriesColors(t *testing.T) {
	for _, th := range Themes {
		if len(th.Series) != 6 {
			t.Errorf("%s: expected 6 series colours, got %d", th.Name, len(th.Series))
		}
	}
}

func TestSparkline(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		width  int
		want   string
	}{
		{"empty", nil, 4, "────"},
		{"ramp", []float64{0, 1, 2}, 3, "▁▄█"},
		{"flat", []float64{2, 2, 2}, 3, "▁▁▁"},
		{"zero width", []float64{1}, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sparkline(tt.values, tt.width); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestHistogram(t *testing.T) {
	got := Histogram([]float64{0, 0.5, 1, 9.9, 10, 11}, 0, 10, 5)
	want := []float64{3, 0, 0, 0, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("bin %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestSeparatorWidth(t *testing.T) {
	for _, w := range []int{4, 20, 41} {
		if got := utf8.RuneCountInString(Separator(w)); got != w {
			t.Errorf("width %d: got %d runes", w, got)
		}
	}
}
