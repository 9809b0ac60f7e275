package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"outward-wms/cache"
	"outward-wms/config"
	"outward-wms/controllers/idgen"
	"outward-wms/database"
	"outward-wms/migration"
	"outward-wms/notify"
	"outward-wms/routes"
	"outward-wms/storage"
	"outward-wms/wms/consignment"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	consignment.MaxBoxesPerArticle = config.MaxBoxesPerArticle

	logger, err := config.NewLogger()
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	idgen.Init(1)

	if err := database.EnsureDatabaseExists(config.DBMaster); err != nil {
		logger.Fatal("Failed to ensure master database", zap.Error(err))
	}
	masterDB, err := database.OpenMasterConnection()
	if err != nil {
		logger.Fatal("Failed to connect to master database", zap.Error(err))
	}
	if err := migration.Migrate(masterDB); err != nil {
		logger.Fatal("Failed to migrate master database", zap.Error(err))
	}

	if config.DBDefaultCompany != "" {
		if err := database.EnsureDatabaseExists(config.DBDefaultCompany); err != nil {
			logger.Fatal("Failed to ensure company database", zap.Error(err))
		}
		companyDB, err := database.GetDBConnection(config.DBDefaultCompany)
		if err != nil {
			logger.Fatal("Failed to connect to company database", zap.Error(err))
		}
		if err := database.SetupCompany(companyDB); err != nil {
			logger.Fatal("Failed to prepare company database", zap.Error(err))
		}
		if err := database.SeedMaster(masterDB, config.DBDefaultCompany); err != nil {
			logger.Fatal("Failed to register default company", zap.Error(err))
		}
	}

	deps := routes.Dependencies{
		Logger:     logger,
		CacheTTL:   config.CatalogCacheTTL,
		Recipients: config.ApprovalNotifyEmails,
	}

	if config.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		rdb, err := cache.Dial(ctx, config.RedisAddr, config.RedisPassword, config.RedisDB)
		cancel()
		if err != nil {
			logger.Warn("Redis unavailable, catalog cache disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			deps.Cache = cache.NewRedis(rdb)
		}
	}

	if config.MinioEndpoint != "" {
		archive, err := storage.NewArchive(storage.Options{
			Endpoint:  config.MinioEndpoint,
			AccessKey: config.MinioAccessKey,
			SecretKey: config.MinioSecretKey,
			Bucket:    config.MinioBucket,
			UseSSL:    config.MinioUseSSL,
		})
		if err == nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err = archive.EnsureBucket(ctx)
			cancel()
		}
		if err != nil {
			logger.Warn("MinIO unavailable, archiving disabled", zap.Error(err))
		} else {
			deps.Archive = archive
		}
	}

	if config.SMTPHost != "" {
		deps.Notifier = notify.NewMailer(config.SMTPHost, config.SMTPPort, config.SMTPUser, config.SMTPPassword, config.SMTPFrom)
	}

	app := routes.NewApp(deps)

	go func() {
		logger.Info("Server starting", zap.String("port", config.APP_PORT))
		if err := app.Listen(":" + config.APP_PORT); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited")
}
