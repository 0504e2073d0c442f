package trace

import (
	"context"
	"time"

	"github.com/pharmlab/procure/pkg/middleware/logger"
	"go.opentelemetry.io/contrib/instrumentation/host"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

type InitConfig struct {
	ServiceName    string
	Version        string
	Env            string
	TraceEndpoint  string
	MetricEndpoint string
	Stdout         bool
}

var (
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
)

// InitTrace installs global tracer and meter providers. With no endpoint and
// Stdout unset it leaves the otel no-op providers in place.
func InitTrace(ctx context.Context, conf *InitConfig) {
	res, err := resource.New(ctx,
		resource.WithTelemetrySDK(),
		resource.WithHost(),
		resource.WithAttributes(
			semconv.ServiceName(conf.ServiceName),
			semconv.ServiceVersion(conf.Version),
			semconv.DeploymentEnvironment(conf.Env),
		))
	if err != nil {
		logger.Errorf(ctx, "init trace resource err: %+v", err)
		return
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	if spanExporter := newSpanExporter(ctx, conf); spanExporter != nil {
		tracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(spanExporter),
			sdktrace.WithResource(res),
		)
		otel.SetTracerProvider(tracerProvider)
	}

	if reader := newMetricReader(ctx, conf); reader != nil {
		meterProvider = sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(reader),
			sdkmetric.WithResource(res),
		)
		otel.SetMeterProvider(meterProvider)
		if err := host.Start(host.WithMeterProvider(meterProvider)); err != nil {
			logger.Errorf(ctx, "start host metrics err: %+v", err)
		}
		if err := runtime.Start(runtime.WithMeterProvider(meterProvider)); err != nil {
			logger.Errorf(ctx, "start runtime metrics err: %+v", err)
		}
	}
}

func newSpanExporter(ctx context.Context, conf *InitConfig) sdktrace.SpanExporter {
	switch {
	case conf.TraceEndpoint != "":
		exp, err := otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(conf.TraceEndpoint),
			otlptracegrpc.WithInsecure())
		if err != nil {
			logger.Errorf(ctx, "init otlp trace exporter err: %+v", err)
			return nil
		}
		return exp
	case conf.Stdout:
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			logger.Errorf(ctx, "init stdout trace exporter err: %+v", err)
			return nil
		}
		return exp
	}
	return nil
}

func newMetricReader(ctx context.Context, conf *InitConfig) sdkmetric.Reader {
	switch {
	case conf.MetricEndpoint != "":
		exp, err := otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(conf.MetricEndpoint),
			otlpmetricgrpc.WithInsecure())
		if err != nil {
			logger.Errorf(ctx, "init otlp metric exporter err: %+v", err)
			return nil
		}
		return sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(30*time.Second))
	case conf.Stdout:
		exp, err := stdoutmetric.New()
		if err != nil {
			logger.Errorf(ctx, "init stdout metric exporter err: %+v", err)
			return nil
		}
		return sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(time.Minute))
	}
	return nil
}

func CloseTrace() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if tracerProvider != nil {
		_ = tracerProvider.Shutdown(ctx)
	}
	if meterProvider != nil {
		_ = meterProvider.Shutdown(ctx)
	}
}
