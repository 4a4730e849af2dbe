package http

import (
	"go.uber.org/fx"

	"esign-composer/internal/delivery/http/handler"
	"esign-composer/internal/delivery/http/router"
)

var Module = fx.Module("http",
	fx.Provide(
		handler.NewSignatureHandler,
		handler.NewHealthHandler,
		handler.NewLogHandler,
		router.NewRouter,
	),
)
