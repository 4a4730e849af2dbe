package service

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/fx"

	"esign-composer/internal/config"
	deliveryhttp "esign-composer/internal/delivery/http"
	"esign-composer/internal/infrastructure/catalog"
	"esign-composer/internal/infrastructure/database"
	"esign-composer/internal/infrastructure/engine"
	"esign-composer/internal/infrastructure/httpclient"
	"esign-composer/internal/infrastructure/logger"
	"esign-composer/internal/infrastructure/metrics"
	"esign-composer/internal/infrastructure/redis"
	"esign-composer/internal/infrastructure/repository"
	"esign-composer/internal/infrastructure/storage"
	"esign-composer/internal/server"
	"esign-composer/internal/usecase"
)

// Modules returns every module of the service.
func Modules() fx.Option {
	return fx.Options(
		// Configuration
		config.Module,

		// Infrastructure
		logger.Module,
		database.Module,
		redis.Module,
		metrics.Module,
		storage.Module,
		catalog.Module,
		engine.Module,
		httpclient.Module,
		repository.Module,

		// Business Logic
		usecase.Module,

		// Delivery
		deliveryhttp.Module,

		// Server
		server.Module,
	)
}

// Application wraps the fx.App for service management
type Application struct {
	app      *fx.App
	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
	doneChan chan struct{}
}

// NewApplication creates a new Application instance
func NewApplication() *Application {
	ctx, cancel := context.WithCancel(context.Background())
	return &Application{
		ctx:      ctx,
		cancel:   cancel,
		doneChan: make(chan struct{}),
	}
}

// Run starts the application and blocks until it is shut down.
func (a *Application) Run() error {
	defer close(a.doneChan)

	a.app = fx.New(Modules())

	if err := a.app.Start(a.ctx); err != nil {
		return err
	}

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-sigChan:
		a.Shutdown()
	case <-a.ctx.Done():
		a.stop()
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (a *Application) Shutdown() {
	a.cancel()
	a.stop()
}

// stop runs the fx stop hooks once, whichever of the signal handler and
// the service manager asks first.
func (a *Application) stop() {
	a.stopOnce.Do(func() {
		if a.app == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
		defer cancel()
		_ = a.app.Stop(ctx)
	})
}

// Wait blocks until the application exits
func (a *Application) Wait() {
	<-a.doneChan
}
