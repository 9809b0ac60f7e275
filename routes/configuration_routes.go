package routes

import (
	"outward-wms/config"
	"outward-wms/database"
	"outward-wms/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupConfigurationRoutes(app *fiber.App, handler *database.HandlerCompanies) {
	api := app.Group(config.MAIN_ROUTES+"/configurations", middleware.AuthMiddleware)
	api.Get("/companies", handler.GetAllCompanies)
	api.Post("/companies", handler.CreateCompany)
}
