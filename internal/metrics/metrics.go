package metrics

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

const MetricsSubsystem = "bridge"

// Metrics contains metrics exposed by the runtime
type Metrics struct {
	// Height of the last applied block.
	Height metrics.Gauge
	// Number of the latest verified external header.
	LightClientHeight metrics.Gauge
	// Extrinsics applied, by call and result.
	Extrinsics metrics.Counter
	// Inbound messages accepted, by channel and dispatch result.
	Deliveries metrics.Counter
	// Outbound batches sealed, by channel.
	Batches metrics.Counter
	// Number of messages per sealed batch.
	BatchSize metrics.Histogram
}

// PrometheusMetrics returns Metrics build using Prometheus client library.
func PrometheusMetrics(namespace string) *Metrics {
	return &Metrics{
		Height: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "height",
			Help:      "Height of the last applied block.",
		}, []string{}),
		LightClientHeight: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "light_client_height",
			Help:      "Number of the latest verified external header.",
		}, []string{}),
		Extrinsics: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "extrinsics",
			Help:      "Number of applied extrinsics.",
		}, []string{"call", "result"}),
		Deliveries: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "deliveries",
			Help:      "Number of accepted inbound messages.",
		}, []string{"channel", "dispatched"}),
		Batches: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "batches",
			Help:      "Number of sealed outbound batches.",
		}, []string{"channel"}),
		BatchSize: prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "batch_size",
			Help:      "Messages per sealed outbound batch.",
			Buckets:   stdprometheus.ExponentialBuckets(1, 2, 10),
		}, []string{"channel"}),
	}
}

// NopMetrics returns no-op Metrics.
func NopMetrics() *Metrics {
	return &Metrics{
		Height:            discard.NewGauge(),
		LightClientHeight: discard.NewGauge(),
		Extrinsics:        discard.NewCounter(),
		Deliveries:        discard.NewCounter(),
		Batches:           discard.NewCounter(),
		BatchSize:         discard.NewHistogram(),
	}
}
