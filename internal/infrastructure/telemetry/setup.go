package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/adbook/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Providers groups the trace, metric and log pipelines of one process.
type Providers struct {
	Tracer *TracerProvider
	Meter  *MeterProvider
	Logs   *LoggerProvider
}

// Setup builds all three pipelines from cfg. With telemetry disabled every
// provider is a no-op and Shutdown returns immediately.
func Setup(ctx context.Context, cfg config.TelemetryConfig, logger *zap.Logger) (*Providers, error) {
	tracer, err := NewTracerProvider(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	meter, err := NewMeterProvider(ctx, cfg, logger)
	if err != nil {
		_ = tracer.Shutdown(ctx)
		return nil, err
	}
	logs, err := NewLoggerProvider(ctx, cfg, logger)
	if err != nil {
		_ = tracer.Shutdown(ctx)
		_ = meter.Shutdown(ctx)
		return nil, err
	}
	return &Providers{Tracer: tracer, Meter: meter, Logs: logs}, nil
}

// Shutdown flushes and stops every pipeline
func (p *Providers) Shutdown(ctx context.Context) error {
	return errors.Join(
		p.Tracer.Shutdown(ctx),
		p.Meter.Shutdown(ctx),
		p.Logs.Shutdown(ctx),
	)
}

// exporterOptions builds the collector options of an OTLP gRPC exporter.
// The three signal packages declare their own Option types, hence O.
func exporterOptions[O any](cfg config.TelemetryConfig, endpoint func(string) O, insecure func() O) []O {
	opts := []O{endpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, insecure())
	}
	return opts
}

// shutdownWithin gives a provider shutdownTimeout to flush
func shutdownWithin(ctx context.Context, signal string, shutdown func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown %s provider: %w", signal, err)
	}
	return nil
}
