package automation

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/survlab/internal/datasets"
	"github.com/san-kum/survlab/internal/estimators"
	"github.com/san-kum/survlab/internal/plot"
	"github.com/san-kum/survlab/internal/workflow"
)

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newWorkflow() *workflow.Workflow {
	return workflow.New(datasets.Default(), workflow.Config{TimelinePoints: 40})
}

func TestLoadScenario(t *testing.T) {
	g := NewWithT(t)
	path := writeScenario(t, `
name: nightly
description: compare ageing laws
cycles:
  - dataset: Circuit Breaker
    strategies: [KaplanMeier, Weibull]
    output: cb.png
  - dataset: Power Transformer
    preset: km
`)

	sc, err := LoadScenario(path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(sc.Name).To(Equal("nightly"))
	g.Expect(sc.Cycles).To(HaveLen(2))
	g.Expect(sc.Cycles[0].Strategies).To(Equal([]string{"KaplanMeier", "Weibull"}))
	g.Expect(sc.Cycles[1].Preset).To(Equal("km"))
}

func TestLoadScenarioWithoutCycles(t *testing.T) {
	g := NewWithT(t)
	_, err := LoadScenario(writeScenario(t, "name: empty\n"))
	g.Expect(err).To(MatchError(ErrEmptyScenario))
}

func TestRunScenario(t *testing.T) {
	g := NewWithT(t)
	out := filepath.Join(t.TempDir(), "figs", "cb.svg")
	sc := &Scenario{
		Name: "smoke",
		Cycles: []Cycle{
			{Dataset: datasets.CircuitBreaker, Strategies: []string{"KaplanMeier", "Exponential"}, Output: out},
			{Dataset: datasets.PowerTransformer},
			{Dataset: datasets.InsulatorString, Preset: "km"},
		},
	}

	var log bytes.Buffer
	results, err := RunScenario(context.Background(), sc, newWorkflow(), &log, plot.DefaultChartOptions())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(results).To(HaveLen(3))

	g.Expect(results[0].Figure.Names()).To(Equal([]string{"KaplanMeier", "Exponential"}))
	g.Expect(results[1].Advisory).To(Equal(workflow.Advisory))
	g.Expect(results[2].Figure.Names()).To(Equal([]string{"KaplanMeier"}))

	g.Expect(out).To(BeARegularFile())
	g.Expect(log.String()).To(ContainSubstring("Running cycle 3/3: Insulator String"))
	g.Expect(log.String()).To(ContainSubstring(workflow.Advisory))
}

func TestRunScenarioReportsFailingCycle(t *testing.T) {
	g := NewWithT(t)
	sc := &Scenario{
		Cycles: []Cycle{
			{Dataset: datasets.CircuitBreaker, Strategies: []string{"KaplanMeier"}},
			{Dataset: "Bushing", Strategies: []string{"KaplanMeier"}},
			{Dataset: datasets.PowerTransformer, Strategies: []string{"KaplanMeier"}},
		},
	}

	results, err := RunScenario(context.Background(), sc, newWorkflow(), &bytes.Buffer{}, plot.DefaultChartOptions())
	g.Expect(results).To(HaveLen(1))
	g.Expect(err).To(MatchError(datasets.ErrUnknownDataset))

	var se *ScenarioError
	g.Expect(errors.As(err, &se)).To(BeTrue())
	g.Expect(se.Cycle).To(Equal(2))
	g.Expect(se.Error()).To(HavePrefix("cycle 2 (Bushing)"))
}

func TestRunScenarioUnknownPreset(t *testing.T) {
	g := NewWithT(t)
	sc := &Scenario{Cycles: []Cycle{{Dataset: datasets.CircuitBreaker, Preset: "fancy"}}}
	_, err := RunScenario(context.Background(), sc, newWorkflow(), &bytes.Buffer{}, plot.DefaultChartOptions())
	g.Expect(err).To(MatchError(ContainSubstring("unknown preset: fancy")))
}

func TestRunSweep(t *testing.T) {
	g := NewWithT(t)
	var log bytes.Buffer
	results, err := RunSweep(context.Background(), newWorkflow(), []string{"KaplanMeier", "Exponential", "Weibull"}, &log)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(results).To(HaveLen(3))

	for _, r := range results {
		g.Expect(r.Curves).To(Equal(3))
		g.Expect(r.Best).To(BeElementOf(estimators.Exponential, estimators.Weibull))
		g.Expect(math.IsNaN(r.AIC)).To(BeFalse())
	}
	g.Expect(log.String()).To(ContainSubstring("Sweep 3/3"))
}

func TestRunSweepKaplanMeierOnly(t *testing.T) {
	g := NewWithT(t)
	results, err := RunSweep(context.Background(), newWorkflow(), []string{"KaplanMeier"}, &bytes.Buffer{})
	g.Expect(err).NotTo(HaveOccurred())
	for _, r := range results {
		g.Expect(math.IsNaN(r.AIC)).To(BeTrue())
	}
}
