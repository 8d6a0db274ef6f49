// Package httpserver hosts the plain HTTP endpoints next to the gRPC API.
package httpserver

import (
	"errors"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// New builds the fiber app with error mapping, panic recovery and /health.
func New(log logger.ZapLogger) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code, message := statusOf(err)
			if code >= fiber.StatusInternalServerError {
				log.Error("http request failed", zap.String("method", c.Method()), zap.String("path", c.Path()), zap.Error(err))
			}
			return c.Status(code).JSON(fiber.Map{
				"error": message,
			})
		},
	})

	app.Use(recover.New())
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	return app
}

func statusOf(err error) (int, string) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}

	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError, "internal error"
	}
	switch appErr.Code {
	case apperror.CodeInvalidArgument:
		return fiber.StatusBadRequest, appErr.Message
	case apperror.CodeNotFound:
		return fiber.StatusNotFound, appErr.Message
	case apperror.CodeInvariantViolation, apperror.CodeConflict:
		return fiber.StatusConflict, appErr.Message
	case apperror.CodeUnavailable:
		return fiber.StatusServiceUnavailable, appErr.Message
	default:
		return fiber.StatusInternalServerError, "internal error"
	}
}
