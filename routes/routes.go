package routes

import (
	"errors"
	"outward-wms/cache"
	"outward-wms/config"
	"outward-wms/controllers"
	"outward-wms/database"
	"outward-wms/middleware"
	"outward-wms/notify"
	"outward-wms/storage"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// Dependencies are the shared clients handed to the controllers. Nil members fall back
// to no-op implementations.
type Dependencies struct {
	Logger     *zap.Logger
	Cache      cache.Cache
	CacheTTL   time.Duration
	Notifier   notify.Notifier
	Recipients []string
	Archive    *storage.Archive
	Companies  *database.HandlerCompanies
}

// NewApp builds the fiber application with middleware and every route registered.
func NewApp(deps Dependencies) *fiber.App {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Cache == nil {
		deps.Cache = cache.Noop{}
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.Discard{}
	}
	if deps.Companies == nil {
		deps.Companies = database.NewHandlerCompanies()
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
		BodyLimit:    20 * 1024 * 1024,
	})

	app.Use(middleware.RequestID)
	app.Use(middleware.RequestLogger(deps.Logger))
	app.Use(recover.New())
	config.SetupCORS(app)

	SetupConfigurationRoutes(app, deps.Companies)
	SetupCatalogRoutes(app, controllers.NewCatalogController(deps.Cache, deps.CacheTTL))
	SetupOutwardRoutes(app, controllers.NewOutwardController(deps.Archive))
	SetupApprovalRoutes(app, controllers.NewApprovalController(deps.Notifier, deps.Recipients))
	SetupConsignmentRoutes(app, controllers.NewConsignmentController())

	return app
}

func errorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		code = ferr.Code
	}
	return ctx.Status(code).JSON(fiber.Map{
		"success": false,
		"message": err.Error(),
	})
}
