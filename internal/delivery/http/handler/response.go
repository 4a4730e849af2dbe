package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"esign-composer/internal/domain/entity"
)

// respondError logs err and replies with its error envelope. Request faults
// are logged as warnings.
func respondError(c *fiber.Ctx, logger *zap.Logger, msg string, err error) error {
	status, resp := entity.NewAppErrorResponse(err)

	fields := []zap.Field{
		zap.String("path", c.Path()),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= fiber.StatusInternalServerError {
		logger.Error(msg, fields...)
	} else {
		logger.Warn(msg, fields...)
	}

	return c.Status(status).JSON(resp)
}

// parseBody decodes the JSON request body into v.
func parseBody(c *fiber.Ctx, logger *zap.Logger, v interface{}) error {
	if err := c.BodyParser(v); err != nil {
		logger.Warn("Failed to parse request body", zap.String("path", c.Path()), zap.Error(err))
		return entity.BadRequestError("Invalid request body")
	}
	return nil
}
