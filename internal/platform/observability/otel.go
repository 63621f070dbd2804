package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const serviceNamespace = "webshop"

// Settings selects how a webshop process logs and exports telemetry.
type Settings struct {
	ServiceName string
	Environment string
	// LogLevel takes slog level names; anything unparsable means info.
	LogLevel string
	// LogFormat is "json" or "text".
	LogFormat string
	// OTLPEndpoint is a host:port or URL. Empty uses the exporter defaults.
	OTLPEndpoint string
	OTLPInsecure bool
	// TraceSampleRatio applies to root spans; children follow their parent.
	TraceSampleRatio float64
	// Output receives log records. Defaults to stdout.
	Output io.Writer
}

// Instruments bundles the process logger and telemetry providers.
type Instruments struct {
	Logger         *slog.Logger
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider

	tracerSDK *sdktrace.TracerProvider
	meterSDK  *sdkmetric.MeterProvider
}

// Init installs the logger, tracer provider, meter provider and propagators
// as process globals. Call Shutdown before exit to flush spans.
func Init(ctx context.Context, settings Settings) (*Instruments, error) {
	out := settings.Output
	if out == nil {
		out = os.Stdout
	}
	logger := newLogger(out, settings.LogLevel, settings.LogFormat)

	res, err := newResource(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("build telemetry resource: %w", err)
	}
	exporter, err := newSpanExporter(ctx, settings, logger)
	if err != nil {
		return nil, fmt.Errorf("build span exporter: %w", err)
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(settings.TraceSampleRatio))),
		sdktrace.WithBatcher(exporter),
	)
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewManualReader()),
	)

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Instruments{
		Logger:         logger,
		TracerProvider: tracerProvider,
		MeterProvider:  meterProvider,
		tracerSDK:      tracerProvider,
		meterSDK:       meterProvider,
	}, nil
}

// Shutdown flushes and stops the providers created by Init.
func (i *Instruments) Shutdown(ctx context.Context) error {
	if i == nil {
		return nil
	}
	var err error
	if i.meterSDK != nil {
		err = errors.Join(err, i.meterSDK.Shutdown(ctx))
	}
	if i.tracerSDK != nil {
		err = errors.Join(err, i.tracerSDK.Shutdown(ctx))
	}
	return err
}

// Tracer returns a named tracer, falling back to the global provider.
func (i *Instruments) Tracer(name string) trace.Tracer {
	if i == nil || i.TracerProvider == nil {
		return otel.Tracer(name)
	}
	return i.TracerProvider.Tracer(name)
}

// Meter returns a named meter; without instruments it records nothing.
func (i *Instruments) Meter(name string) metric.Meter {
	if i == nil || i.MeterProvider == nil {
		return metricnoop.NewMeterProvider().Meter(name)
	}
	return i.MeterProvider.Meter(name)
}

func newLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl, AddSource: true}
	var handler slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func newResource(ctx context.Context, settings Settings) (*resource.Resource, error) {
	environment := strings.TrimSpace(settings.Environment)
	if environment == "" {
		environment = "local"
	}
	return resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithProcess(),
		resource.WithTelemetrySDK(),
		resource.WithHost(),
		resource.WithAttributes(
			attribute.String("service.name", settings.ServiceName),
			attribute.String("service.namespace", serviceNamespace),
			attribute.String("deployment.environment", environment),
		),
	)
}

// newSpanExporter prefers OTLP over HTTP and falls back to pretty-printed
// spans on stdout when the exporter cannot be built.
func newSpanExporter(ctx context.Context, settings Settings, logger *slog.Logger) (sdktrace.SpanExporter, error) {
	exporter, err := otlptracehttp.New(ctx, otlpOptions(settings)...)
	if err == nil {
		return exporter, nil
	}
	logger.Warn("OTLP trace exporter unavailable, writing spans to stdout", slog.String("error", err.Error()))
	return stdouttrace.New(stdouttrace.WithPrettyPrint())
}

func otlpOptions(settings Settings) []otlptracehttp.Option {
	var opts []otlptracehttp.Option
	endpoint := strings.TrimSpace(settings.OTLPEndpoint)
	switch {
	case endpoint == "":
	case strings.Contains(endpoint, "://"):
		opts = append(opts, otlptracehttp.WithEndpointURL(endpoint))
	default:
		opts = append(opts, otlptracehttp.WithEndpoint(endpoint))
	}
	if settings.OTLPInsecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	return opts
}
