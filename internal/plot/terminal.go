package plot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/survlab/internal/viz"
	"github.com/san-kum/survlab/internal/workflow"
)

var (
	ErrEmptyFigure       = errors.New("plot: figure has no curves")
	ErrUnsupportedFormat = errors.New("plot: unsupported figure format")
)

type TerminalOptions struct {
	Width  int
	Height int
	Theme  viz.Theme
	// Color enables ANSI series colours and the coloured legend. Without it
	// the curve names are listed in the caption.
	Color bool
}

func DefaultTerminalOptions() TerminalOptions {
	return TerminalOptions{
		Width:  72,
		Height: 16,
		Theme:  viz.ThemeDefault,
		Color:  true,
	}
}

// Terminal draws every curve of fig on one 0..1 grid.
func Terminal(fig *workflow.Figure, opts TerminalOptions) (string, error) {
	if fig == nil || fig.Len() == 0 {
		return "", ErrEmptyFigure
	}

	data := make([][]float64, fig.Len())
	colors := make([]asciigraph.AnsiColor, fig.Len())
	for i, c := range fig.Curves {
		data[i] = c.Survival
		colors[i] = opts.Theme.SeriesColor(i).ANSI
	}

	caption := fmt.Sprintf("%s vs %s (0 .. %.2f)", fig.YLabel, fig.XLabel, fig.MaxTime())
	options := []asciigraph.Option{
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(1),
		asciigraph.Precision(2),
	}
	if opts.Color {
		options = append(options,
			asciigraph.Caption(caption),
			asciigraph.SeriesColors(colors...),
			asciigraph.SeriesLegends(fig.Names()...),
		)
	} else {
		options = append(options,
			asciigraph.Caption(caption+": "+strings.Join(fig.Names(), ", ")),
		)
	}

	return asciigraph.PlotMany(data, options...), nil
}
