package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/survlab/internal/datasets"
	"github.com/san-kum/survlab/internal/estimators"
	"github.com/san-kum/survlab/internal/lifetime"
	"github.com/san-kum/survlab/internal/logger"
	"github.com/san-kum/survlab/internal/metrics"
)

const (
	XLabel = "Age [year]"
	YLabel = "Survival probability"

	// Advisory is shown instead of a figure when no strategy is selected.
	Advisory = "Please choose at least one strategy"

	DefaultTimelinePoints = 200

	// median life is searched up to this multiple of the last observed age
	medianHorizonFactor = 4
)

type FitPolicy string

const (
	PolicyAbort FitPolicy = "abort"
	PolicySkip  FitPolicy = "skip"
)

func ParseFitPolicy(s string) (FitPolicy, error) {
	switch p := FitPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyAbort, PolicySkip:
		return p, nil
	case "":
		return PolicyAbort, nil
	}
	return "", fmt.Errorf("%w: %q (want abort or skip)", ErrUnknownPolicy, s)
}

type Config struct {
	TimelinePoints int
	Policy         FitPolicy
	// Parallel fits strategies concurrently. The figure keeps selection
	// order either way.
	Parallel bool
}

func DefaultConfig() Config {
	return Config{
		TimelinePoints: DefaultTimelinePoints,
		Policy:         PolicyAbort,
	}
}

type Workflow struct {
	catalog      *datasets.Catalog
	cfg          Config
	newEstimator func(estimators.Strategy) estimators.Estimator
}

func New(catalog *datasets.Catalog, cfg Config) *Workflow {
	if cfg.TimelinePoints < 2 {
		cfg.TimelinePoints = DefaultTimelinePoints
	}
	if cfg.Policy == "" {
		cfg.Policy = PolicyAbort
	}
	return &Workflow{
		catalog:      catalog,
		cfg:          cfg,
		newEstimator: estimators.New,
	}
}

func (w *Workflow) Catalog() *datasets.Catalog { return w.catalog }

func (w *Workflow) Config() Config { return w.cfg }

// SelectDataset resolves name in the catalog and runs its loader.
func (w *Workflow) SelectDataset(name string) (lifetime.Records, error) {
	return w.catalog.Load(name)
}

// SelectStrategies parses names in the given order. Repeated names are
// dropped after their first occurrence; an empty selection is valid.
func (w *Workflow) SelectStrategies(names []string) ([]estimators.Strategy, error) {
	out := make([]estimators.Strategy, 0, len(names))
	seen := make(map[estimators.Strategy]bool, len(names))
	for _, n := range names {
		s, err := estimators.ParseStrategy(n)
		if err != nil {
			return nil, err
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out, nil
}

// FitAndOverlay fits a fresh estimator per strategy and overlays the curves
// on a shared timeline in selection order.
func (w *Workflow) FitAndOverlay(ctx context.Context, strategies []estimators.Strategy, rec lifetime.Records) (*Figure, error) {
	fig, _, _, err := w.overlay(ctx, strategies, rec)
	return fig, err
}

func (w *Workflow) overlay(ctx context.Context, strategies []estimators.Strategy, rec lifetime.Records) (*Figure, []estimators.Fitted, []Failure, error) {
	fig := &Figure{
		XLabel: XLabel,
		YLabel: YLabel,
		Curves: make([]estimators.Curve, 0, len(strategies)),
	}
	timeline := estimators.Timeline(rec.MaxTime(), w.cfg.TimelinePoints)
	fits := make([]estimators.Fitted, 0, len(strategies))
	var failures []Failure

	if err := ctx.Err(); err != nil {
		return nil, nil, nil, err
	}
	outcomes := w.fitAll(ctx, strategies, rec)
	if err := ctx.Err(); err != nil {
		return nil, nil, nil, err
	}

	for i, s := range strategies {
		out := outcomes[i]
		if out.err != nil {
			if errors.Is(out.err, context.Canceled) || errors.Is(out.err, context.DeadlineExceeded) {
				return nil, nil, nil, out.err
			}
			logger.L().Warn("fit.failed", "strategy", s.String(), "policy", string(w.cfg.Policy), "err", out.err)
			if w.cfg.Policy != PolicySkip {
				return nil, nil, nil, out.err
			}
			failures = append(failures, Failure{Strategy: s, Err: out.err})
			continue
		}
		attrs := []any{
			"strategy", s.String(),
			"params", paramString(out.fit.Params()),
			"elapsed", out.elapsed,
		}
		if it, ok := out.fit.(interface{ Iterations() int }); ok {
			attrs = append(attrs, "iterations", it.Iterations())
		}
		logger.L().Debug("fit.done", attrs...)

		fits = append(fits, out.fit)
		fig.Curves = append(fig.Curves, out.fit.Curve(timeline))
	}
	return fig, fits, failures, nil
}

func paramString(ps []estimators.Param) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = fmt.Sprintf("%s=%.6g", p.Name, p.Value)
	}
	return strings.Join(parts, " ")
}

// RenderResult is everything one cycle produces. Exactly one of Figure and
// Advisory is set.
type RenderResult struct {
	Dataset  string
	Table    Table
	Figure   *Figure
	Advisory string
	Failures []Failure
	Fits     []estimators.Fitted
	Summary  metrics.Summary
}

// EvaluateCycle runs load, table, selection and fit-and-overlay from
// scratch.
func (w *Workflow) EvaluateCycle(ctx context.Context, dataset string, strategyNames []string) (*RenderResult, error) {
	rec, err := w.SelectDataset(dataset)
	if err != nil {
		return nil, err
	}
	res := &RenderResult{
		Dataset: dataset,
		Table:   w.RenderTable(rec),
	}

	strategies, err := w.SelectStrategies(strategyNames)
	if err != nil {
		return nil, err
	}
	if len(strategies) == 0 {
		res.Advisory = Advisory
		logger.L().Info("cycle.evaluated", "dataset", dataset, "strategies", 0, "advisory", true)
		return res, nil
	}

	fig, fits, failures, err := w.overlay(ctx, strategies, rec)
	if err != nil {
		return nil, err
	}
	fig.Title = dataset
	res.Figure = fig
	res.Fits = fits
	res.Failures = failures
	res.Summary = metrics.Summarize(fits, metrics.Default(medianHorizonFactor*rec.MaxTime()))

	logger.L().Info("cycle.evaluated",
		"dataset", dataset,
		"strategies", len(strategies),
		"curves", len(fig.Curves),
		"failures", len(failures),
	)
	return res, nil
}
