package observability

import (
	"context"
	stderrors "errors"
)

// ShutdownFunc flushes and stops telemetry export.
type ShutdownFunc func(context.Context) error

// Setup installs the tracer and meter providers described by cfg. With
// telemetry disabled it installs nothing and returns a no-op shutdown.
func Setup(ctx context.Context, cfg Config, svc Service) (ShutdownFunc, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}
	cfg.ApplyDefaults()

	tp, err := InitTracer(ctx, cfg, svc)
	if err != nil {
		return nil, err
	}
	mp, err := InitMeter(ctx, cfg, svc)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}
	return func(ctx context.Context) error {
		return stderrors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}
