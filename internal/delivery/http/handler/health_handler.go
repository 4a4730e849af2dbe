package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"esign-composer/internal/config"
	"esign-composer/internal/domain/entity"
	"esign-composer/internal/version"
)

type HealthHandler struct {
	config *config.Config
}

func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{config: cfg}
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Database  bool      `json:"database"`
	Cache     bool      `json:"cache"`
}

// Health godoc
// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} entity.APIResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(entity.NewSuccessResponse(HealthResponse{
		Status:    "healthy",
		Name:      h.config.App.Name,
		Timestamp: time.Now(),
		Version:   version.Version,
		Database:  h.config.Database.Enabled,
		Cache:     h.config.Redis.Enabled,
	}, "Service is healthy"))
}
