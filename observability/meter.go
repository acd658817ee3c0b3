package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/flatkit/logger"
)

// InitMeter installs an OTLP/HTTP meter provider as the global provider.
// The caller must shut it down on exit.
func InitMeter(ctx context.Context, cfg Config, svc Service) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(svc)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Get("observability").Debug("meter initialized", logger.Fields(
		"service", svc.Name,
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded by a flatten run. A nil *Metrics
// records nothing.
type Metrics struct {
	pullTotal   metric.Int64Counter
	runTotal    metric.Int64Counter
	runDuration metric.Float64Histogram
	errorTotal  metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	pullTotal, err := meter.Int64Counter("flatten.pull.total",
		metric.WithDescription("Pulls by end and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating flatten.pull.total counter: %w", err)
	}

	runTotal, err := meter.Int64Counter("flatten.run.total",
		metric.WithDescription("Completed runs by mode and status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating flatten.run.total counter: %w", err)
	}

	runDuration, err := meter.Float64Histogram("flatten.run.duration",
		metric.WithDescription("Duration of runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating flatten.run.duration histogram: %w", err)
	}

	errorTotal, err := meter.Int64Counter("flatten.error.total",
		metric.WithDescription("Errors by code and component"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating flatten.error.total counter: %w", err)
	}

	return &Metrics{
		pullTotal:   pullTotal,
		runTotal:    runTotal,
		runDuration: runDuration,
		errorTotal:  errorTotal,
	}, nil
}

// RecordPull records one pull from end.
func (m *Metrics) RecordPull(ctx context.Context, end string, yielded bool) {
	if m == nil {
		return
	}
	outcome := "empty"
	if yielded {
		outcome = "yielded"
	}
	m.pullTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrEnd, end),
		attribute.String(AttrOutcome, outcome),
	))
}

// RecordRun records a finished run.
func (m *Metrics) RecordRun(ctx context.Context, mode, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.runTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrMode, mode),
		attribute.String(AttrStatus, status),
	))
	m.runDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(AttrMode, mode),
	))
}

// RecordError records an error by code and component.
func (m *Metrics) RecordError(ctx context.Context, code, component string) {
	if m == nil {
		return
	}
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
		attribute.String("component", component),
	))
}
