// Package telemetry exports traces and metrics to an OTLP collector.
package telemetry

import (
	"context"
	"errors"
	"time"

	"ocs-acceptance/internal/infra/node"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/contrib/propagators/b3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

type ShutdownFunc func() error

const (
	_collectPeriod   = 30 * time.Second
	_collectTimeout  = 35 * time.Second
	_minimumInterval = time.Minute
)

// Options selects the collector and what is exported to it.
type Options struct {
	Endpoint    string
	ServiceName string
	// Metrics also exports meter provider and Go runtime metrics.
	Metrics bool
}

// Propagator reads and writes both W3C trace context and B3 headers.
func Propagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, b3.New())
}

// Start installs the global OTel propagator and providers. The returned
// function flushes and stops the providers.
func Start(ctx context.Context, opts Options) (ShutdownFunc, error) {
	otel.SetTextMapPropagator(Propagator())
	res := newResource(opts.ServiceName)

	traceShutdown, err := startTraceProvider(ctx, opts.Endpoint, res)
	if err != nil {
		return nil, err
	}
	if !opts.Metrics {
		return traceShutdown, nil
	}

	metricsShutdown, err := startMetricsProvider(ctx, opts.Endpoint, res)
	if err != nil {
		return nil, errors.Join(err, traceShutdown())
	}

	return func() error {
		return errors.Join(metricsShutdown(), traceShutdown())
	}, nil
}

func newResource(serviceName string) *resource.Resource {
	info := node.GetNodeInfo()
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
		semconv.ServiceVersionKey.String(info.Version),
		semconv.ServiceInstanceIDKey.String(info.ID),
	)
}

func startTraceProvider(ctx context.Context, endpoint string, res *resource.Resource) (ShutdownFunc, error) {
	exp, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exp),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return func() error {
		return tp.Shutdown(ctx)
	}, nil
}

func startMetricsProvider(ctx context.Context, endpoint string, res *resource.Resource) (ShutdownFunc, error) {
	exp, err := otlpmetricgrpc.New(
		ctx,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	mp := metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(
			metric.NewPeriodicReader(
				exp,
				metric.WithTimeout(_collectTimeout),
				metric.WithInterval(_collectPeriod))),
	)
	otel.SetMeterProvider(mp)

	if err := runtime.Start(runtime.WithMinimumReadMemStatsInterval(_minimumInterval)); err != nil {
		return nil, errors.Join(err, mp.Shutdown(ctx))
	}

	return func() error {
		return mp.Shutdown(ctx)
	}, nil
}
