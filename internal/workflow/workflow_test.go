package workflow

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/survlab/internal/datasets"
	"github.com/san-kum/survlab/internal/estimators"
	"github.com/san-kum/survlab/internal/lifetime"
)

var errBoom = errors.New("boom")

type failingEstimator struct {
	strategy estimators.Strategy
}

func (f failingEstimator) Strategy() estimators.Strategy { return f.strategy }

func (f failingEstimator) Fit(context.Context, lifetime.Records) (estimators.Fitted, error) {
	return nil, &estimators.FitError{Strategy: f.strategy, Err: errBoom}
}

// failOn makes every strategy in bad fail to fit.
func failOn(bad ...estimators.Strategy) func(estimators.Strategy) estimators.Estimator {
	return func(s estimators.Strategy) estimators.Estimator {
		for _, b := range bad {
			if s == b {
				return failingEstimator{strategy: s}
			}
		}
		return estimators.New(s)
	}
}

// slowEstimator delays the fit so that later strategies finish first.
type slowEstimator struct {
	estimators.Estimator
	delay time.Duration
}

func (s slowEstimator) Fit(ctx context.Context, rec lifetime.Records) (estimators.Fitted, error) {
	time.Sleep(s.delay)
	return s.Estimator.Fit(ctx, rec)
}

var _ = Describe("Workflow", func() {
	var (
		wf  *Workflow
		ctx context.Context
	)

	BeforeEach(func() {
		wf = New(datasets.Default(), Config{TimelinePoints: 60})
		ctx = context.Background()
	})

	Describe("SelectDataset", func() {
		It("loads every catalog entry with aligned fields", func() {
			for _, name := range wf.Catalog().Names() {
				rec, err := wf.SelectDataset(name)
				Expect(err).NotTo(HaveOccurred())
				Expect(rec.Event).To(HaveLen(rec.Len()))
				Expect(rec.Entry).To(HaveLen(rec.Len()))
			}
		})

		It("rejects names outside the catalog", func() {
			_, err := wf.SelectDataset("Bushing")
			Expect(err).To(MatchError(datasets.ErrUnknownDataset))

			var unknown *datasets.UnknownDatasetError
			Expect(errors.As(err, &unknown)).To(BeTrue())
			Expect(unknown.Available).To(ConsistOf(datasets.CircuitBreaker, datasets.PowerTransformer, datasets.InsulatorString))
		})
	})

	Describe("RenderTable", func() {
		It("has one row per unit and the three primary columns", func() {
			rec, err := wf.SelectDataset(datasets.InsulatorString)
			Expect(err).NotTo(HaveOccurred())

			table := wf.RenderTable(rec)
			Expect(table.Columns).To(Equal([]string{"time", "event", "entry"}))
			Expect(table.Len()).To(Equal(rec.Len()))
			Expect(table.Rows[0]).To(Equal(rec.Row(0)))
			Expect(table.Summary.Units).To(Equal(rec.Len()))
		})
	})

	Describe("SelectStrategies", func() {
		It("keeps the caller's order and drops repeats", func() {
			got, err := wf.SelectStrategies([]string{"Gamma", "KaplanMeier", "Gamma", "Weibull"})
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal([]estimators.Strategy{estimators.Gamma, estimators.KaplanMeier, estimators.Weibull}))
		})

		It("accepts an empty selection", func() {
			got, err := wf.SelectStrategies(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeEmpty())
		})

		It("rejects unknown names", func() {
			_, err := wf.SelectStrategies([]string{"Weibull", "Lognormal"})
			Expect(err).To(MatchError(estimators.ErrUnknownStrategy))
		})
	})

	Describe("EvaluateCycle", func() {
		It("draws one Kaplan-Meier curve for Circuit Breaker", func() {
			res, err := wf.EvaluateCycle(ctx, datasets.CircuitBreaker, []string{"KaplanMeier"})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Advisory).To(BeEmpty())
			Expect(res.Figure).NotTo(BeNil())
			Expect(res.Figure.Names()).To(Equal([]string{"KaplanMeier"}))
			Expect(res.Figure.XLabel).To(Equal("Age [year]"))
			Expect(res.Figure.YLabel).To(Equal("Survival probability"))
			Expect(res.Figure.Title).To(Equal(datasets.CircuitBreaker))
		})

		It("shows the advisory and no figure when nothing is selected", func() {
			res, err := wf.EvaluateCycle(ctx, datasets.PowerTransformer, []string{})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Advisory).To(Equal("Please choose at least one strategy"))
			Expect(res.Figure).To(BeNil())
			Expect(res.Table.Len()).To(BeNumerically(">", 0))
		})

		It("overlays curves in selection order", func() {
			res, err := wf.EvaluateCycle(ctx, datasets.InsulatorString, []string{"Weibull", "Gamma", "LogLogistic"})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Figure.Names()).To(Equal([]string{"Weibull", "Gamma", "LogLogistic"}))
			Expect(res.Summary.Rows).To(HaveLen(3))

			for _, c := range res.Figure.Curves {
				Expect(c.Time).To(HaveLen(60))
				Expect(c.Time).To(Equal(res.Figure.Curves[0].Time))
				Expect(c.Survival[0]).To(BeNumerically("~", 1, 1e-9))
			}
		})

		It("gives identical figures for identical inputs", func() {
			names := []string{"KaplanMeier", "Exponential", "Gompertz"}
			first, err := wf.EvaluateCycle(ctx, datasets.PowerTransformer, names)
			Expect(err).NotTo(HaveOccurred())
			second, err := wf.EvaluateCycle(ctx, datasets.PowerTransformer, names)
			Expect(err).NotTo(HaveOccurred())

			Expect(second.Table).To(Equal(first.Table))
			Expect(second.Figure).To(Equal(first.Figure))
		})

		It("does not let an earlier selection leak into the next cycle", func() {
			_, err := wf.EvaluateCycle(ctx, datasets.CircuitBreaker, []string{"Weibull", "Gamma"})
			Expect(err).NotTo(HaveOccurred())

			res, err := wf.EvaluateCycle(ctx, datasets.CircuitBreaker, []string{"Exponential"})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Figure.Names()).To(Equal([]string{"Exponential"}))
		})

		It("fails fast on an unknown dataset", func() {
			_, err := wf.EvaluateCycle(ctx, "Bushing", []string{"Weibull"})
			Expect(err).To(MatchError(datasets.ErrUnknownDataset))
		})

		It("stops when the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := wf.EvaluateCycle(cctx, datasets.CircuitBreaker, []string{"KaplanMeier"})
			Expect(err).To(MatchError(context.Canceled))
		})
	})

	It("keeps selection order when earlier fits finish last", func() {
		wf = New(datasets.Default(), Config{TimelinePoints: 60, Parallel: true})
		wf.newEstimator = func(s estimators.Strategy) estimators.Estimator {
			if s == estimators.KaplanMeier {
				return slowEstimator{Estimator: estimators.New(s), delay: 50 * time.Millisecond}
			}
			return estimators.New(s)
		}

		res, err := wf.EvaluateCycle(ctx, datasets.InsulatorString, []string{"KaplanMeier", "Exponential", "Weibull"})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Figure.Names()).To(Equal([]string{"KaplanMeier", "Exponential", "Weibull"}))
		Expect(res.Summary.Rows[0].Strategy).To(Equal(estimators.KaplanMeier))
	})

	Describe("fit failure policy", func() {
		names := []string{"KaplanMeier", "Gompertz", "Weibull"}

		It("aborts the cycle by default", func() {
			wf.newEstimator = failOn(estimators.Gompertz)

			res, err := wf.EvaluateCycle(ctx, datasets.CircuitBreaker, names)
			Expect(err).To(MatchError(errBoom))
			Expect(res).To(BeNil())

			var fe *estimators.FitError
			Expect(errors.As(err, &fe)).To(BeTrue())
			Expect(fe.Strategy).To(Equal(estimators.Gompertz))
		})

		It("aborts the same way when fitting in parallel", func() {
			wf = New(datasets.Default(), Config{TimelinePoints: 60, Parallel: true})
			wf.newEstimator = failOn(estimators.Gompertz, estimators.Weibull)

			_, err := wf.EvaluateCycle(ctx, datasets.CircuitBreaker, names)
			var fe *estimators.FitError
			Expect(errors.As(err, &fe)).To(BeTrue())
			Expect(fe.Strategy).To(Equal(estimators.Gompertz))
		})

		It("skips failed strategies when asked to", func() {
			wf = New(datasets.Default(), Config{TimelinePoints: 60, Policy: PolicySkip})
			wf.newEstimator = failOn(estimators.Gompertz)

			res, err := wf.EvaluateCycle(ctx, datasets.CircuitBreaker, names)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Figure.Names()).To(Equal([]string{"KaplanMeier", "Weibull"}))
			Expect(res.Failures).To(HaveLen(1))
			Expect(res.Failures[0].Strategy).To(Equal(estimators.Gompertz))
			Expect(res.Failures[0]).To(MatchError(errBoom))
		})
	})

	DescribeTable("ParseFitPolicy",
		func(in string, want FitPolicy, wantErr bool) {
			got, err := ParseFitPolicy(in)
			if wantErr {
				Expect(err).To(MatchError(ErrUnknownPolicy))
				return
			}
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("abort", "abort", PolicyAbort, false),
		Entry("skip, any case", "SKIP", PolicySkip, false),
		Entry("empty defaults to abort", "", PolicyAbort, false),
		Entry("unknown", "retry", FitPolicy(""), true),
	)
})
