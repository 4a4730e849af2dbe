package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Recorder records signature service metrics.
type Recorder interface {
	// RecordSign records one sign operation and how long it took.
	RecordSign(format string, success bool, duration time.Duration)

	// RecordSignatures records the number of placements of one type that
	// were burned into a document.
	RecordSignatures(signatureType string, count int)

	// RecordAssetSaved records a signature asset written to the catalog.
	RecordAssetSaved(signatureType string)

	// RecordAssetDeleted records a signature asset removed from the catalog.
	RecordAssetDeleted(signatureType string)
}

// NoopRecorder is used when metrics are disabled.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) RecordSign(format string, success bool, duration time.Duration) {}

func (n *NoopRecorder) RecordSignatures(signatureType string, count int) {}

func (n *NoopRecorder) RecordAssetSaved(signatureType string) {}

func (n *NoopRecorder) RecordAssetDeleted(signatureType string) {}

// PrometheusRecorder records metrics using Prometheus.
type PrometheusRecorder struct {
	signTotal       *prometheus.CounterVec
	signDuration    *prometheus.HistogramVec
	signaturesTotal *prometheus.CounterVec
	assetsSaved     *prometheus.CounterVec
	assetsDeleted   *prometheus.CounterVec
}

// NewPrometheusRecorder registers the service collectors on reg.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	signTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "esign_sign_operations_total",
		Help: "Total sign operations",
	}, []string{"format", "result"})

	signDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "esign_sign_duration_seconds",
		Help:    "Duration of sign operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"format"})

	signaturesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "esign_signatures_total",
		Help: "Total signatures burned into documents",
	}, []string{"type"})

	assetsSaved := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "esign_assets_saved_total",
		Help: "Total signature assets saved",
	}, []string{"type"})

	assetsDeleted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "esign_assets_deleted_total",
		Help: "Total signature assets deleted",
	}, []string{"type"})

	reg.MustRegister(signTotal, signDuration, signaturesTotal, assetsSaved, assetsDeleted)

	return &PrometheusRecorder{
		signTotal:       signTotal,
		signDuration:    signDuration,
		signaturesTotal: signaturesTotal,
		assetsSaved:     assetsSaved,
		assetsDeleted:   assetsDeleted,
	}
}

func (p *PrometheusRecorder) RecordSign(format string, success bool, duration time.Duration) {
	result := "failure"
	if success {
		result = "success"
	}
	p.signTotal.WithLabelValues(format, result).Inc()
	p.signDuration.WithLabelValues(format).Observe(duration.Seconds())
}

func (p *PrometheusRecorder) RecordSignatures(signatureType string, count int) {
	if count <= 0 {
		return
	}
	p.signaturesTotal.WithLabelValues(signatureType).Add(float64(count))
}

func (p *PrometheusRecorder) RecordAssetSaved(signatureType string) {
	p.assetsSaved.WithLabelValues(signatureType).Inc()
}

func (p *PrometheusRecorder) RecordAssetDeleted(signatureType string) {
	p.assetsDeleted.WithLabelValues(signatureType).Inc()
}

// NewRegistry returns a registry carrying the Go runtime and process
// collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
