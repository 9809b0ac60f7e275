package main

import (
	"log"
	"outward-wms/config"
	"outward-wms/controllers/idgen"
	"outward-wms/database"
	"outward-wms/notify"
	"outward-wms/wms/consignment"

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

	idgen.Init(2)

	db, err := database.GetDBConnection(config.ProcessorCompany)
	if err != nil {
		logger.Fatal("Failed to connect to company database", zap.String("company", config.ProcessorCompany), zap.Error(err))
	}

	p := &Processor{
		DB:         db,
		Company:    config.ProcessorCompany,
		Folder:     config.ProcessorFolder,
		Recipients: config.ProcessorNotifyTo,
	}
	if config.SMTPHost != "" {
		p.Notifier = notify.NewMailer(config.SMTPHost, config.SMTPPort, config.SMTPUser, config.SMTPPassword, config.SMTPFrom)
	}

	report, err := p.Run()
	if err != nil {
		logger.Fatal("Processor failed", zap.Error(err))
	}
	logger.Info("Processor finished",
		zap.Int("processed", len(report.Processed)),
		zap.Int("failed", len(report.Failed)))
}
