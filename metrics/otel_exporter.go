package metrics

import (
	"context"
	"fmt"
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// OTelExporter provides OpenTelemetry metrics export following OTel standards
type OTelExporter struct {
	meterProvider *sdkmetric.MeterProvider
	registry      *prom.Registry
	collector     Collector

	// OTel meters and instruments
	meter           metric.Meter
	totalBooksGauge metric.Int64ObservableGauge
	genreBooksGauge metric.Int64ObservableGauge
	registration    metric.Registration
}

// NewOTelExporter creates a new OpenTelemetry metrics exporter with Prometheus format.
// Each exporter owns its registry, so several can live in one process.
func NewOTelExporter(collector Collector) (*OTelExporter, error) {
	registry := prom.NewRegistry()

	// Create Prometheus exporter
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	// Create meter provider
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(meterProvider)

	// Create meter with service info
	meter := meterProvider.Meter(
		"book-catalog",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	oe := &OTelExporter{
		meterProvider: meterProvider,
		registry:      registry,
		collector:     collector,
		meter:         meter,
	}

	// Register metrics instruments
	if err := oe.registerInstruments(); err != nil {
		_ = meterProvider.Shutdown(context.Background())
		return nil, fmt.Errorf("registering instruments: %w", err)
	}

	return oe, nil
}

// registerInstruments creates the gauges and one callback that feeds both
func (oe *OTelExporter) registerInstruments() error {
	var err error

	// Total books gauge
	oe.totalBooksGauge, err = oe.meter.Int64ObservableGauge(
		"catalog.books",
		metric.WithDescription("Number of books in the catalog"),
		metric.WithUnit("{books}"),
	)
	if err != nil {
		return fmt.Errorf("creating total books gauge: %w", err)
	}

	// Books per genre gauge
	oe.genreBooksGauge, err = oe.meter.Int64ObservableGauge(
		"catalog.genre.books",
		metric.WithDescription("Number of books per genre"),
		metric.WithUnit("{books}"),
	)
	if err != nil {
		return fmt.Errorf("creating genre books gauge: %w", err)
	}

	oe.registration, err = oe.meter.RegisterCallback(oe.observe, oe.totalBooksGauge, oe.genreBooksGauge)
	if err != nil {
		return fmt.Errorf("registering callback: %w", err)
	}

	return nil
}

// observe collects once per scrape and reports both gauges
func (oe *OTelExporter) observe(ctx context.Context, observer metric.Observer) error {
	m, err := oe.collector.Collect(ctx)
	if err != nil {
		return err
	}

	observer.ObserveInt64(oe.totalBooksGauge, m.TotalBooks)
	for genre, count := range m.GenreCounts {
		observer.ObserveInt64(oe.genreBooksGauge, count, metric.WithAttributes(
			attribute.String("genre", genre),
		))
	}

	return nil
}

// ServeHTTP serves Prometheus-formatted metrics on the given HTTP handler
func (oe *OTelExporter) ServeHTTP() http.Handler {
	return promhttp.HandlerFor(oe.registry, promhttp.HandlerOpts{})
}

// Shutdown gracefully shuts down the meter provider
func (oe *OTelExporter) Shutdown(ctx context.Context) error {
	if oe.registration != nil {
		if err := oe.registration.Unregister(); err != nil {
			return fmt.Errorf("unregistering callback: %w", err)
		}
	}
	if oe.meterProvider != nil {
		return oe.meterProvider.Shutdown(ctx)
	}
	return nil
}
