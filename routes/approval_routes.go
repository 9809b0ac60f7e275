package routes

import (
	"outward-wms/config"
	"outward-wms/controllers"
	"outward-wms/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupApprovalRoutes(app *fiber.App, controller *controllers.ApprovalController) {
	api := app.Group(config.MAIN_ROUTES+"/approvals", middleware.AuthMiddleware, middleware.InjectDBMiddleware)
	api.Post("/", controller.SubmitApproval)
	api.Get("/:consignment_id", controller.GetApproval)
}
