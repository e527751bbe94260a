package plot

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/san-kum/survlab/internal/viz"
	"github.com/san-kum/survlab/internal/workflow"
)

type ChartOptions struct {
	Width  int
	Height int
	Theme  viz.Theme
	// Band draws confidence bands for curves that carry one.
	Band bool
}

func DefaultChartOptions() ChartOptions {
	return ChartOptions{
		Width:  1000,
		Height: 560,
		Theme:  viz.ThemeDefault,
		Band:   true,
	}
}

func buildChart(fig *workflow.Figure, opts ChartOptions) chart.Chart {
	series := make([]chart.Series, 0, fig.Len())
	for i, c := range fig.Curves {
		color := drawing.ColorFromHex(opts.Theme.SeriesColor(i).Hex)
		series = append(series, chart.ContinuousSeries{
			Name:    c.Name(),
			XValues: c.Time,
			YValues: c.Survival,
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: 2,
			},
		})
		if opts.Band && c.HasBand() {
			band := chart.Style{
				StrokeColor:     color.WithAlpha(120),
				StrokeWidth:     1,
				StrokeDashArray: []float64{4, 3},
			}
			series = append(series,
				chart.ContinuousSeries{Name: c.Name() + " 95% lower", XValues: c.Time, YValues: c.Lower, Style: band},
				chart.ContinuousSeries{Name: c.Name() + " 95% upper", XValues: c.Time, YValues: c.Upper, Style: band},
			)
		}
	}

	ch := chart.Chart{
		Title:  fig.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name: fig.XLabel,
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: fig.MaxTime(),
			},
		},
		YAxis: chart.YAxis{
			Name: fig.YLabel,
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: 1,
			},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch
}

func render(fig *workflow.Figure, w io.Writer, provider chart.RendererProvider, opts ChartOptions) error {
	if fig == nil || fig.Len() == 0 {
		return ErrEmptyFigure
	}
	ch := buildChart(fig, opts)
	if err := ch.Render(provider, w); err != nil {
		return fmt.Errorf("render figure: %w", err)
	}
	return nil
}

func PNG(fig *workflow.Figure, w io.Writer, opts ChartOptions) error {
	return render(fig, w, chart.PNG, opts)
}

func SVG(fig *workflow.Figure, w io.Writer, opts ChartOptions) error {
	return render(fig, w, chart.SVG, opts)
}

// WriteFile renders fig to path, choosing PNG or SVG from the extension.
// Parent directories are created as needed.
func WriteFile(fig *workflow.Figure, path string, opts ChartOptions) error {
	var renderFn func(*workflow.Figure, io.Writer, ChartOptions) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		renderFn = PNG
	case ".svg":
		renderFn = SVG
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	var buf bytes.Buffer
	if err := renderFn(fig, &buf, opts); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
