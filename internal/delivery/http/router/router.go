package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"esign-composer/internal/config"
	"esign-composer/internal/delivery/http/handler"
	"esign-composer/internal/domain/entity"
)

// bodyLimit covers uploaded documents and Base64 previews.
const bodyLimit = 64 << 20

type Router struct {
	app              *fiber.App
	config           *config.Config
	registry         *prometheus.Registry
	signatureHandler *handler.SignatureHandler
	healthHandler    *handler.HealthHandler
	logHandler       *handler.LogHandler
}

func NewRouter(
	cfg *config.Config,
	registry *prometheus.Registry,
	signatureHandler *handler.SignatureHandler,
	healthHandler *handler.HealthHandler,
	logHandler *handler.LogHandler,
) *Router {
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: customErrorHandler,
		BodyLimit:    bodyLimit,
	})

	return &Router{
		app:              app,
		config:           cfg,
		registry:         registry,
		signatureHandler: signatureHandler,
		healthHandler:    healthHandler,
		logHandler:       logHandler,
	}
}

func (r *Router) Setup() *fiber.App {
	// Middleware
	r.app.Use(recover.New())
	r.app.Use(requestid.New())
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	if r.config.IsDevelopment() {
		r.app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
		}))
	}

	// Health check route
	r.app.Get("/health", r.healthHandler.Health)

	if r.config.Metrics.Enabled {
		r.app.Get(r.config.Metrics.Path, adaptor.HTTPHandler(
			promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}),
		))
	}

	// Signature routes
	signature := r.app.Group("/signature")
	{
		signature.Post("/loadFileTree", r.signatureHandler.LoadFileTree)
		signature.Post("/loadDocumentDescription", r.signatureHandler.LoadDocumentDescription)
		signature.Post("/loadDocumentPage", r.signatureHandler.LoadDocumentPage)
		signature.Get("/downloadDocument", r.signatureHandler.DownloadDocument)
		signature.Post("/uploadDocument", r.signatureHandler.UploadDocument)
		signature.Post("/loadSignatureImage", r.signatureHandler.LoadSignatureImage)
		signature.Post("/deleteSignatureFile", r.signatureHandler.DeleteSignatureFile)
		signature.Post("/sign", r.signatureHandler.Sign)
		signature.Post("/saveImage", r.signatureHandler.SaveImage)
		signature.Post("/saveStamp", r.signatureHandler.SaveStamp)
		signature.Post("/saveOpticalCode", r.signatureHandler.SaveOpticalCode)
		signature.Post("/saveText", r.signatureHandler.SaveText)
		signature.Get("/getFonts", r.signatureHandler.GetFonts)
	}

	// API v1 routes
	api := r.app.Group("/api/v1")
	{
		api.Get("/logs", r.logHandler.GetLogs)
	}

	return r.app
}

func (r *Router) GetApp() *fiber.App {
	return r.app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(entity.NewErrorResponse(entity.ErrCodeBadRequest.String(), e.Message))
	}

	status, resp := entity.NewAppErrorResponse(err)
	return c.Status(status).JSON(resp)
}
