package engine

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("engine",
	fx.Provide(
		NewLocalFactory,
		NewProvider,
	),
	fx.Invoke(registerLifecycle),
)

// NewLocalFactory returns a factory for the in-process engine.
func NewLocalFactory(logger *zap.Logger) Factory {
	return func() (Engine, error) {
		return NewLocalEngine(logger.Named("engine")), nil
	}
}

func registerLifecycle(lc fx.Lifecycle, provider *Provider) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return provider.Close()
		},
	})
}
