package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"esign-composer/internal/domain/entity"
	"esign-composer/internal/usecase"
)

type LogHandler struct {
	documents usecase.DocumentUsecase
	logger    *zap.Logger
}

func NewLogHandler(documents usecase.DocumentUsecase, logger *zap.Logger) *LogHandler {
	return &LogHandler{documents: documents, logger: logger}
}

// GetLogs godoc
// @Summary List sign operations
// @Description Latest sign operations, optionally for one document
// @Tags logs
// @Produce json
// @Param guid query string false "Document path"
// @Param limit query int false "Maximum entries" default(50)
// @Success 200 {object} entity.APIResponse
// @Router /api/v1/logs [get]
func (h *LogHandler) GetLogs(c *fiber.Ctx) error {
	logs, err := h.documents.SignLogs(c.UserContext(), c.Query("guid"), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, h.logger, "Failed to load sign logs", err)
	}
	if logs == nil {
		logs = []entity.SignLog{}
	}
	return c.JSON(entity.NewSuccessResponse(logs, "Sign logs retrieved successfully"))
}
