// Package observability wires OpenTelemetry tracing and metrics into
// flatkit tools.
//
// Telemetry is off unless enabled in configuration. When it is off the
// global no-op providers stay in place, so spans and instruments cost
// nothing.
//
//	shutdown, err := observability.Setup(ctx, cfg.Observability, observability.Service{Name: "flatten"})
//	defer shutdown(context.Background())
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanRun)
//	defer span.End()
//
//	metrics, err := observability.NewMetrics(observability.Meter("flatten"))
//	metrics.RecordPull(ctx, "front", true)
package observability
