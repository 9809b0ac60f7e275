package routes

import (
	"outward-wms/config"
	"outward-wms/controllers"
	"outward-wms/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupOutwardRoutes(app *fiber.App, controller *controllers.OutwardController) {
	api := app.Group(config.MAIN_ROUTES+"/outward", middleware.AuthMiddleware, middleware.InjectDBMiddleware)
	api.Post("/", controller.CreateOutward)
	api.Get("/", controller.GetOutwardList)
	api.Get("/export", controller.ExportExcel)
	api.Post("/import", controller.ImportArticles)
	api.Get("/:consignment_id", controller.GetOutwardByID)
	api.Put("/:consignment_id", controller.UpdateOutward)
	api.Delete("/:consignment_id", controller.DeleteOutward)
	api.Get("/:consignment_id/history", controller.GetHistory)
	api.Get("/:consignment_id/labels.zpl", controller.LabelsZPL)
	api.Get("/:consignment_id/boxes/:box_id/label.png", controller.LabelPNG)
	api.Post("/:consignment_id/archive", controller.ArchiveOutward)
}
