package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/survlab/internal/estimators"
	"github.com/san-kum/survlab/internal/logger"
	"github.com/san-kum/survlab/internal/plot"
	"github.com/san-kum/survlab/internal/storage"
	"github.com/san-kum/survlab/internal/viz"
	"github.com/san-kum/survlab/internal/workflow"
)

type Options struct {
	Workflow   *workflow.Workflow
	Store      *storage.Store
	Dataset    string
	Strategies []string
	Theme      string
	PlotWidth  int
	PlotHeight int
	Chart      plot.ChartOptions
	// FigureDir receives PNG files saved with the s key.
	FigureDir string
}

type pane int

const (
	paneDatasets pane = iota
	paneStrategies
	paneResults
	numPanes
)

type cycleMsg struct {
	seq int
	res *workflow.RenderResult
	err error
}

type savedMsg struct {
	text string
	err  error
}

type model struct {
	opts       Options
	datasets   selector
	strategies selector
	focus      pane

	seq     int
	cancel  context.CancelFunc
	first   tea.Cmd
	loading bool
	result  *workflow.RenderResult
	err     error
	offset  int
	toast   string

	theme  viz.Theme
	styles viz.Styles
	width  int
	height int
}

func newModel(opts Options) model {
	cat := opts.Workflow.Catalog()
	dsOpts := make([]option, 0, len(cat.Names()))
	for _, d := range cat.Datasets() {
		dsOpts = append(dsOpts, option{label: d.Name})
	}
	stOpts := make([]option, 0, len(estimators.AllStrategies()))
	for _, s := range estimators.AllStrategies() {
		stOpts = append(stOpts, option{label: s.String(), desc: s.Description()})
	}

	m := model{
		opts:       opts,
		datasets:   newSelector("Dataset", dsOpts, false),
		strategies: newSelector("Survival strategy", stOpts, true),
		theme:      viz.GetTheme(opts.Theme),
		width:      120,
		height:     40,
	}
	m.styles = viz.NewStyles(m.theme)

	m.datasets.setSelected([]string{opts.Dataset})
	if m.datasets.current() == "" && len(dsOpts) > 0 {
		m.datasets.setSelected([]string{dsOpts[0].label})
	}
	m.strategies.setSelected(opts.Strategies)

	// Init runs the first cycle; a later selection change cancels it.
	var first tea.Cmd
	m, first = m.evaluate()
	m.first = first
	return m
}

func (m model) Init() tea.Cmd {
	return m.first
}

// evaluate starts a fresh cycle for the current selection and abandons any
// cycle still running.
func (m model) evaluate() (model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.seq++
	m.loading = true
	return m, m.cycle(ctx, m.seq)
}

func (m model) cycle(ctx context.Context, seq int) tea.Cmd {
	wf := m.opts.Workflow
	dataset := m.datasets.current()
	names := m.strategies.selected()
	return func() tea.Msg {
		res, err := wf.EvaluateCycle(ctx, dataset, names)
		return cycleMsg{seq: seq, res: res, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case cycleMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		m.offset = 0
		m.result, m.err = msg.res, msg.err
		if msg.err != nil {
			logger.L().Warn("cycle.failed", "dataset", m.datasets.current(), "err", msg.err)
		}
		return m, nil
	case savedMsg:
		if msg.err != nil {
			m.toast = m.styles.Error.Render(msg.err.Error())
		} else {
			m.toast = m.styles.Success.Render(msg.text)
		}
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.toast = ""
	switch msg.String() {
	case "q", "ctrl+c":
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit
	case "tab":
		m.focus = (m.focus + 1) % numPanes
		return m, nil
	case "shift+tab":
		m.focus = (m.focus + numPanes - 1) % numPanes
		return m, nil
	case "t":
		m.theme = nextTheme(m.theme)
		m.styles = viz.NewStyles(m.theme)
		return m, nil
	case "s":
		return m, m.saveFigure()
	case "e":
		return m, m.saveRun()
	}

	switch m.focus {
	case paneDatasets:
		return m.datasetKey(msg)
	case paneStrategies:
		return m.strategyKey(msg)
	case paneResults:
		return m.resultsKey(msg)
	}
	return m, nil
}

func (m model) datasetKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.datasets.up()
	case "down", "j":
		m.datasets.down()
	case "enter", " ":
		if m.datasets.toggle() {
			return m.evaluate()
		}
	}
	return m, nil
}

func (m model) strategyKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.strategies.up()
	case "down", "j":
		m.strategies.down()
	case "enter", " ":
		if m.strategies.toggle() {
			return m.evaluate()
		}
	case "x":
		if m.strategies.clear() {
			return m.evaluate()
		}
	}
	return m, nil
}

func (m model) resultsKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.result == nil {
		return m, nil
	}
	last := max(m.result.Table.Len()-m.tableRows(), 0)
	switch msg.String() {
	case "up", "k":
		m.offset = max(m.offset-1, 0)
	case "down", "j":
		m.offset = min(m.offset+1, last)
	case "pgup":
		m.offset = max(m.offset-m.tableRows(), 0)
	case "pgdown":
		m.offset = min(m.offset+m.tableRows(), last)
	case "home", "g":
		m.offset = 0
	case "end", "G":
		m.offset = last
	}
	return m, nil
}

func (m model) saveFigure() tea.Cmd {
	if m.result == nil || m.result.Figure == nil {
		return func() tea.Msg { return savedMsg{err: errors.New("nothing to save: no figure")} }
	}
	fig := m.result.Figure
	name := fmt.Sprintf("%s_%s.png", storage.Slug(m.result.Dataset), time.Now().Format("20060102_150405"))
	path := filepath.Join(m.opts.FigureDir, name)
	opts := m.opts.Chart
	opts.Theme = m.theme
	return func() tea.Msg {
		if err := plot.WriteFile(fig, path, opts); err != nil {
			return savedMsg{err: err}
		}
		logger.L().Info("figure.saved", "path", path)
		return savedMsg{text: "saved " + path}
	}
}

func (m model) saveRun() tea.Cmd {
	if m.result == nil {
		return func() tea.Msg { return savedMsg{err: errors.New("nothing to save: no result")} }
	}
	if m.opts.Store == nil {
		return func() tea.Msg { return savedMsg{err: errors.New("no run store configured")} }
	}
	res := m.result
	st := m.opts.Store
	cfg := m.opts.Workflow.Config()
	return func() tea.Msg {
		if err := st.Init(); err != nil {
			return savedMsg{err: err}
		}
		id, err := st.Save(storage.NewMetadata(res, cfg), res.Figure)
		if err != nil {
			return savedMsg{err: err}
		}
		logger.L().Info("run.saved", "id", id, "dataset", res.Dataset)
		return savedMsg{text: "saved run " + id}
	}
}

func nextTheme(t viz.Theme) viz.Theme {
	for i, th := range viz.Themes {
		if th.Name == t.Name {
			return viz.Themes[(i+1)%len(viz.Themes)]
		}
	}
	return viz.ThemeDefault
}

// Run starts the interactive program and blocks until the user quits.
func Run(opts Options) error {
	p := tea.NewProgram(wrapSafe(newModel(opts), logger.L()), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
