// Package workflow implements the comparison cycle behind every screen and
// command: load a dataset, tabulate it, fit the selected strategies and
// overlay their survival curves on one figure.
//
// A cycle is a pure function of its inputs. Nothing is cached between calls,
// so evaluating the same dataset and strategy names twice yields equal
// results.
//
// # Example
//
//	wf := workflow.New(datasets.Default(), workflow.DefaultConfig())
//	res, err := wf.EvaluateCycle(ctx, "Circuit Breaker", []string{"KaplanMeier", "Weibull"})
//	if err != nil {
//		return err
//	}
//	if res.Advisory != "" {
//		fmt.Println(res.Advisory)
//	}
//
// # Failure policy
//
// With PolicyAbort the first failing fit aborts the cycle and no figure is
// produced. With PolicySkip failed strategies are listed in
// RenderResult.Failures and the remaining curves keep their order.
package workflow
