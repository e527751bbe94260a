package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/san-kum/survlab/internal/estimators"
	"github.com/san-kum/survlab/internal/lifetime"
	"github.com/san-kum/survlab/internal/logger"
)

type fitOutcome struct {
	fit     estimators.Fitted
	err     error
	elapsed time.Duration
}

// fitAll fits one fresh estimator per strategy. Outcomes are indexed like
// strategies. Sequential mode stops at a cancelled context, and at the
// first failure unless failures are skipped; later outcomes stay zero.
func (w *Workflow) fitAll(ctx context.Context, strategies []estimators.Strategy, rec lifetime.Records) []fitOutcome {
	if w.cfg.Parallel {
		return w.fitParallel(ctx, strategies, rec)
	}

	outcomes := make([]fitOutcome, len(strategies))
	for i, s := range strategies {
		if ctx.Err() != nil {
			break
		}
		outcomes[i] = w.fitOne(ctx, s, rec)
		if outcomes[i].err != nil && w.cfg.Policy != PolicySkip {
			break
		}
	}
	return outcomes
}

// fitParallel runs every fit in its own goroutine. Records are shared
// read-only.
func (w *Workflow) fitParallel(ctx context.Context, strategies []estimators.Strategy, rec lifetime.Records) []fitOutcome {
	outcomes := make([]fitOutcome, len(strategies))

	var wg sync.WaitGroup
	for i, s := range strategies {
		wg.Add(1)
		go func(idx int, s estimators.Strategy) {
			defer wg.Done()
			outcomes[idx] = w.fitOne(ctx, s, rec)
		}(i, s)
	}

	wg.Wait()
	logger.L().Debug("fit.batch", "strategies", len(strategies), "units", rec.Len())
	return outcomes
}

func (w *Workflow) fitOne(ctx context.Context, s estimators.Strategy, rec lifetime.Records) fitOutcome {
	start := time.Now()
	fit, err := w.newEstimator(s).Fit(ctx, rec)
	return fitOutcome{fit: fit, err: err, elapsed: time.Since(start)}
}
