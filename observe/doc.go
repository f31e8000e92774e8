// Package observe provides telemetry for check execution: OpenTelemetry
// tracing and metrics plus a structured JSON logger, behind one Observer.
//
// Example usage:
//
//	obs, err := observe.NewObserver(ctx, observe.Config{
//		ServiceName: "healthops",
//		Version:     "1.0.0",
//		Tracing:     observe.TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: 1.0},
//		Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "prometheus"},
//		Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
//	})
//	if err != nil {
//		return err
//	}
//	defer obs.Shutdown(ctx)
//
//	mw, err := observe.MiddlewareFromObserver(obs)
//	if err != nil {
//		return err
//	}
//	run := mw.Wrap(func(ctx context.Context, meta observe.CheckMeta) error {
//		return probe(ctx)
//	})
//	err = run(ctx, observe.CheckMeta{Name: "database", Kind: "dependency", Critical: true})
//
// Every subsystem degrades to a no-op when disabled, so callers never need
// nil checks around telemetry.
package observe
