package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	HeaderRequestID = "X-Request-ID"
	LocalRequestID  = "request_id"
)

// RequestID reuses an incoming X-Request-ID or assigns a new uuid.
func RequestID(c *fiber.Ctx) error {
	requestID := utils.CopyString(c.Get(HeaderRequestID))
	if requestID == "" {
		requestID = uuid.New().String()
	}
	c.Locals(LocalRequestID, requestID)
	c.Set(HeaderRequestID, requestID)
	return c.Next()
}

// RequestLogger writes one line per request once the handler chain has finished.
// fiber reuses the request buffers, so string fields are copied before logging.
func RequestLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// let the app error handler set the final status before logging
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		requestID, _ := c.Locals(LocalRequestID).(string)
		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", utils.CopyString(c.Method())),
			zap.String("path", utils.CopyString(c.Path())),
			zap.String("ip", utils.CopyString(c.IP())),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", requestID),
		}
		if company := Company(c); company != "" {
			fields = append(fields, zap.String("company", company))
		}
		if userID := UserID(c); userID != 0 {
			fields = append(fields, zap.Int("user_id", userID))
		}

		switch {
		case status >= 500:
			logger.Error("Server error", fields...)
		case status >= 400:
			logger.Warn("Client error", fields...)
		default:
			logger.Info("Request", fields...)
		}
		return nil
	}
}
