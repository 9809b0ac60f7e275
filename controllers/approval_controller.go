package controllers

import (
	"outward-wms/middleware"
	"outward-wms/notify"
	"outward-wms/services"

	"github.com/gofiber/fiber/v2"
)

type ApprovalController struct {
	Notifier   notify.Notifier
	Recipients []string
}

func NewApprovalController(notifier notify.Notifier, recipients []string) *ApprovalController {
	return &ApprovalController{Notifier: notifier, Recipients: recipients}
}

func (c *ApprovalController) service(ctx *fiber.Ctx) *services.ApprovalService {
	return services.NewApprovalService(middleware.DB(ctx), c.Notifier, c.Recipients)
}

func (c *ApprovalController) SubmitApproval(ctx *fiber.Ctx) error {
	var input services.ApprovalInput
	if err := ctx.BodyParser(&input); err != nil {
		return badRequest(ctx, err)
	}

	approval, created, err := c.service(ctx).Submit(middleware.Company(ctx), middleware.UserID(ctx), input)
	if err != nil {
		return respondError(ctx, "Failed to submit approval", err)
	}

	status := fiber.StatusOK
	message := "Approval updated"
	if created {
		status = fiber.StatusCreated
		message = "Approval submitted"
	}
	return ctx.Status(status).JSON(fiber.Map{"success": true, "message": message, "data": approval})
}

func (c *ApprovalController) GetApproval(ctx *fiber.Ctx) error {
	approval, err := c.service(ctx).Get(middleware.Company(ctx), ctx.Params("consignment_id"))
	if err != nil {
		return respondError(ctx, "Approval not found", err)
	}
	return ctx.JSON(fiber.Map{"success": true, "data": approval})
}
