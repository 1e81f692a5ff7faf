package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/avilaops/canaswarm-intelligence/internal/domain"
)

// ErrorHandler maps errors to JSON responses. Upstream failures surface as
// 502 so callers can tell a broken Precision Platform apart from a broken
// ingestion service.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		switch {
		case domain.IsConnectivity(err):
			code = fiber.StatusBadGateway
		case domain.IsMalformedResponse(err):
			code = fiber.StatusBadGateway
		default:
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
		}

		if code == fiber.StatusInternalServerError {
			log.Error("Internal Server Error", zap.Error(err), zap.String("path", c.Path()))
		}

		return c.Status(code).JSON(fiber.Map{
			"error":       err.Error(),
			"status_code": code,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}
