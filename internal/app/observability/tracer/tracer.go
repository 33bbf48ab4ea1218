package tracer

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
)

// Options configures the providers. Service fields end up as resource
// attributes on every span and metric.
type Options struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	MetricsAddr    string
	OTLPEndpoint   string
	Logger         *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Resource describes this process to the telemetry backends.
func Resource(opts Options) *resource.Resource {
	attrs := []attribute.KeyValue{semconv.ServiceName(opts.ServiceName)}
	if opts.ServiceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersion(opts.ServiceVersion))
	}
	if opts.Environment != "" {
		attrs = append(attrs, semconv.DeploymentEnvironmentName(opts.Environment))
	}
	return resource.NewWithAttributes(semconv.SchemaURL, attrs...)
}

// InitOtelProviders installs the global tracer and meter providers and
// serves /metrics on opts.MetricsAddr. The returned func shuts all of it down.
func InitOtelProviders(opts Options) (func(context.Context) error, error) {
	log := opts.logger()
	res := Resource(opts)

	tp := newTracerProvider(res, opts.OTLPEndpoint, log)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	mp, err := newMeterProvider(res)
	if err != nil {
		return nil, err
	}
	otel.SetMeterProvider(mp)

	metricsServer := serveMetrics(opts.MetricsAddr, log)

	return func(ctx context.Context) error {
		return errors.Join(
			wrapShutdown("metrics server", metricsServer.Shutdown(ctx)),
			wrapShutdown("meter provider", mp.Shutdown(ctx)),
			wrapShutdown("tracer provider", tp.Shutdown(ctx)),
		)
	}, nil
}

// newTracerProvider falls back to an unexported provider when the OTLP
// exporter cannot be built, so tracing calls stay valid.
func newTracerProvider(res *resource.Resource, endpoint string, log *zap.Logger) *sdktrace.TracerProvider {
	exporter, err := otlptracehttp.New(context.Background(),
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		log.Warn("OTLP trace exporter unavailable, spans will not be exported", zap.Error(err))
		return sdktrace.NewTracerProvider(sdktrace.WithResource(res))
	}
	log.Debug("Exporting traces over OTLP", zap.String("endpoint", endpoint))
	return sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
	)
}

func newMeterProvider(res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	), nil
}

func serveMetrics(addr string, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		log.Info("Serving Prometheus metrics", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Metrics server stopped", zap.Error(err))
		}
	}()
	return srv
}

func wrapShutdown(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s shutdown: %w", what, err)
}
