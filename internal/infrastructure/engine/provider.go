package engine

import (
	"sync"

	"go.uber.org/zap"
)

// Factory creates the engine handle.
type Factory func() (Engine, error)

// Provider creates the engine on first use and hands out the same handle
// afterwards. A failed creation is not retried.
type Provider struct {
	factory Factory
	logger  *zap.Logger

	once   sync.Once
	engine Engine
	err    error
}

func NewProvider(factory Factory, logger *zap.Logger) *Provider {
	return &Provider{factory: factory, logger: logger}
}

// Get returns the engine, creating it on the first call.
func (p *Provider) Get() (Engine, error) {
	p.once.Do(func() {
		p.engine, p.err = p.factory()
		if p.err != nil {
			p.logger.Error("Failed to initialize signing engine", zap.Error(p.err))
			return
		}
		p.logger.Info("Signing engine initialized")
	})
	return p.engine, p.err
}

// Close releases the engine if it was created.
func (p *Provider) Close() error {
	// Claim the once so a Get racing with shutdown does not create a new
	// engine.
	p.once.Do(func() {})
	if p.engine == nil {
		return nil
	}
	return p.engine.Close()
}
