package automation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/survlab/internal/config"
	"github.com/san-kum/survlab/internal/estimators"
	"github.com/san-kum/survlab/internal/logger"
	"github.com/san-kum/survlab/internal/plot"
	"github.com/san-kum/survlab/internal/workflow"
)

var ErrEmptyScenario = errors.New("automation: scenario has no cycles")

// Scenario is a scripted sequence of comparison cycles.
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Cycles      []Cycle `yaml:"cycles"`
}

// Cycle selects a dataset and strategies, either listed or by preset name.
// Output, when set, is a .png or .svg path for the figure.
type Cycle struct {
	Dataset    string   `yaml:"dataset"`
	Strategies []string `yaml:"strategies"`
	Preset     string   `yaml:"preset,omitempty"`
	Output     string   `yaml:"output,omitempty"`
}

// ScenarioError reports the 1-based cycle that stopped a scenario.
type ScenarioError struct {
	Cycle   int
	Dataset string
	Err     error
}

func (e *ScenarioError) Error() string {
	return fmt.Sprintf("cycle %d (%s): %v", e.Cycle, e.Dataset, e.Err)
}

func (e *ScenarioError) Unwrap() error { return e.Err }

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Cycles) == 0 {
		return nil, ErrEmptyScenario
	}
	return &scenario, nil
}

func (c Cycle) strategyNames() ([]string, error) {
	if c.Preset == "" {
		return c.Strategies, nil
	}
	p := config.GetPreset(c.Preset)
	if p == nil {
		return nil, fmt.Errorf("unknown preset: %s", c.Preset)
	}
	return append(p.Strategies, c.Strategies...), nil
}

// RunScenario evaluates every cycle in order and writes requested figures.
// Progress lines go to out. The first failing cycle stops the scenario and
// the results gathered so far are returned with the error.
func RunScenario(ctx context.Context, scenario *Scenario, wf *workflow.Workflow, out io.Writer, opts plot.ChartOptions) ([]*workflow.RenderResult, error) {
	results := make([]*workflow.RenderResult, 0, len(scenario.Cycles))

	for i, c := range scenario.Cycles {
		fmt.Fprintf(out, "Running cycle %d/%d: %s\n", i+1, len(scenario.Cycles), c.Dataset)

		names, err := c.strategyNames()
		if err != nil {
			return results, &ScenarioError{Cycle: i + 1, Dataset: c.Dataset, Err: err}
		}

		res, err := wf.EvaluateCycle(ctx, c.Dataset, names)
		if err != nil {
			return results, &ScenarioError{Cycle: i + 1, Dataset: c.Dataset, Err: err}
		}

		switch {
		case res.Advisory != "":
			fmt.Fprintf(out, "  %s\n", res.Advisory)
		case c.Output != "":
			if err := plot.WriteFile(res.Figure, c.Output, opts); err != nil {
				return results, &ScenarioError{Cycle: i + 1, Dataset: c.Dataset, Err: err}
			}
			fmt.Fprintf(out, "  wrote %s\n", c.Output)
		}
		for _, f := range res.Failures {
			fmt.Fprintf(out, "  skipped %v\n", f)
		}

		results = append(results, res)
	}

	logger.L().Info("scenario.done", "name", scenario.Name, "cycles", len(results))
	return results, nil
}

// SweepResult is the best-scoring strategy on one dataset.
type SweepResult struct {
	Dataset  string
	Best     estimators.Strategy
	AIC      float64
	Curves   int
	Advisory string
}

// RunSweep evaluates one strategy selection against every catalog dataset
// and picks the lowest AIC per dataset. Datasets where no likelihood model
// was fitted report a NaN AIC.
func RunSweep(ctx context.Context, wf *workflow.Workflow, strategies []string, out io.Writer) ([]SweepResult, error) {
	names := wf.Catalog().Names()
	results := make([]SweepResult, 0, len(names))

	for i, name := range names {
		res, err := wf.EvaluateCycle(ctx, name, strategies)
		if err != nil {
			return results, &ScenarioError{Cycle: i + 1, Dataset: name, Err: err}
		}

		sr := SweepResult{Dataset: name, AIC: math.NaN(), Advisory: res.Advisory}
		if res.Figure != nil {
			sr.Curves = res.Figure.Len()
		}
		if best, ok := res.Summary.Best("aic"); ok {
			sr.Best = best.Strategy
			sr.AIC = best.Values[aicColumn(res)]
		}
		results = append(results, sr)

		fmt.Fprintf(out, "Sweep %d/%d: %s\n", i+1, len(names), name)
	}
	return results, nil
}

func aicColumn(res *workflow.RenderResult) int {
	for i, c := range res.Summary.Columns {
		if c == "aic" {
			return i
		}
	}
	return -1
}
