package controllers

import (
	"errors"
	"outward-wms/repositories"
	"outward-wms/services"
	"outward-wms/wms/consignment"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// errorStatus maps service and engine errors onto HTTP status codes.
func errorStatus(err error) int {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, consignment.ErrUnknownField),
		errors.Is(err, consignment.ErrUnknownAction),
		errors.Is(err, consignment.ErrInvalidValue):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, consignment.ErrArticleNotFound),
		errors.Is(err, consignment.ErrBoxNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrDuplicateConsignment),
		errors.Is(err, services.ErrNotEditable),
		repositories.IsDuplicate(err):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

func respondError(ctx *fiber.Ctx, message string, err error) error {
	status := errorStatus(err)
	body := fiber.Map{
		"success": false,
		"message": message,
		"error":   err.Error(),
	}

	var verr *services.ValidationError
	if errors.As(err, &verr) {
		body["errors"] = verr.Fields
	}
	if status == fiber.StatusInternalServerError {
		zap.L().Error(message, zap.Error(err), zap.String("path", ctx.Path()))
	}
	return ctx.Status(status).JSON(body)
}

func badRequest(ctx *fiber.Ctx, err error) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}
