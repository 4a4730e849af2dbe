package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"esign-composer/internal/config"
)

var Module = fx.Module("metrics",
	fx.Provide(
		NewRegistry,
		NewRecorder,
	),
)

// NewRecorder returns a Prometheus recorder, or a no-op one when metrics are
// disabled.
func NewRecorder(cfg *config.Config, reg *prometheus.Registry, logger *zap.Logger) Recorder {
	if !cfg.Metrics.Enabled {
		logger.Info("Metrics disabled")
		return NewNoopRecorder()
	}
	logger.Info("Metrics enabled", zap.String("path", cfg.Metrics.Path))
	return NewPrometheusRecorder(reg)
}
