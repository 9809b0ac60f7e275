package routes

import (
	"outward-wms/config"
	"outward-wms/controllers"
	"outward-wms/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupConsignmentRoutes(app *fiber.App, controller *controllers.ConsignmentController) {
	api := app.Group(config.MAIN_ROUTES+"/consignments", middleware.AuthMiddleware)
	api.Post("/articles/new", controller.NewArticle)
	api.Post("/derive-boxes", controller.DeriveBoxes)
	api.Post("/delete-box", controller.DeleteBox)
	api.Post("/stats", controller.Stats)
	api.Post("/apply", controller.Apply)
}
