package routes

import (
	"outward-wms/config"
	"outward-wms/controllers"
	"outward-wms/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupCatalogRoutes(app *fiber.App, controller *controllers.CatalogController) {
	api := app.Group(config.MAIN_ROUTES+"/catalog", middleware.AuthMiddleware, middleware.InjectDBMiddleware)
	api.Get("/material-types", controller.GetMaterialTypes)
	api.Get("/categories", controller.GetCategories)
	api.Get("/sub-categories", controller.GetSubCategories)
	api.Get("/item-descriptions", controller.GetItemDescriptions)
	api.Get("/sku", controller.GetSkuID)
	api.Get("/items", controller.SearchItems)
}
