// Package observable wraps command and query handlers with metrics, tracing and logging,
// keeping the handlers themselves free of observability concerns.
//
// Wrapping happens explicitly at wiring time:
//
//	coreHandler := borrow.NewCommandHandler(eventStore, vendorAPI, policyConfig)
//
//	handler, err := observable.NewCommandWrapper[borrow.Command](
//		coreHandler,
//		observable.WithCommandMetrics[borrow.Command](metricsCollector),
//		observable.WithCommandTracing[borrow.Command](tracingCollector),
//		observable.WithCommandContextualLogging[borrow.Command](contextualLogger),
//	)
//
//	result, err := handler.Handle(ctx, command)
//
// Circulation problems (a *problem.Problem returned by a handler) are reported with the
// "rejected" status and logged as warnings; all other errors are logged as errors.
package observable
