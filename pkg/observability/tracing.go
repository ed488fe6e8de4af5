package observability

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/lintang-b-s/navigatorx-lastmile/pkg/util"
)

const TracerName = "github.com/lintang-b-s/navigatorx-lastmile"

// InitTracing builds a tracer provider that exports spans as JSON to w (stdout when nil).
// when tracing is disabled a noop provider is returned. the returned function flushes and
// stops the provider.
func InitTracing(ctx context.Context, cfg util.TracingConfig, w io.Writer, log *zap.Logger) (trace.TracerProvider,
	func(context.Context) error, error) {
	if log == nil {
		log = zap.NewNop()
	}

	if !cfg.Enabled {
		log.Info("tracing disabled; using noop tracer provider")
		return noop.NewTracerProvider(), func(context.Context) error { return nil }, nil
	}

	if w == nil {
		w = os.Stdout
	}
	exp, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithoutTimestamps(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create stdout exporter: %w", err)
	}

	res, err := resource.New(
		ctx,
		resource.WithAttributes(
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("service.namespace", "lastmile"),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create resource: %w", err)
	}

	sampler := sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sampler),
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)

	log.Info("tracing enabled",
		zap.String("service_name", cfg.ServiceName),
		zap.String("sampler", fmt.Sprintf("parentbased_traceidratio_%0.2f", cfg.SampleRatio)),
	)

	return tp, tp.Shutdown, nil
}

// ShutdownWithTimeout invokes shutdown with a bounded timeout, logging instead of returning errors.
func ShutdownWithTimeout(ctx context.Context, shutdown func(context.Context) error, log *zap.Logger) {
	if shutdown == nil {
		return
	}
	if log == nil {
		log = zap.NewNop()
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Warn("tracing shutdown failed", zap.Error(err))
	}
}
