package main

import (
	"go.uber.org/zap"

	"github.com/ItumelengS/linac-qa-app-sub000/internal/config"
	"github.com/ItumelengS/linac-qa-app-sub000/internal/database"
	logger "github.com/ItumelengS/linac-qa-app-sub000/internal/logging"
	"github.com/ItumelengS/linac-qa-app-sub000/internal/models"
	"github.com/ItumelengS/linac-qa-app-sub000/internal/repository"
	"github.com/ItumelengS/linac-qa-app-sub000/internal/router"
	"github.com/ItumelengS/linac-qa-app-sub000/internal/services"
)

func main() {
	// Configuration first: the logger is built from it.
	if err := config.Init("."); err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	// Initialize Logger
	log, err := logger.Init(config.Conf.Logging)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	// Hot-reload the config file now that changes can be logged.
	config.Watch(log)

	// Initialize Database
	database.Init(log)

	// Seed the default admin account and treatment units on first run.
	if err := repository.EnsureDefaultAdmin(); err != nil {
		log.Fatal("Failed to ensure default admin", zap.Error(err))
	}
	if err := repository.EnsureDefaultEquipment(); err != nil {
		log.Fatal("Failed to ensure default equipment", zap.Error(err))
	}

	// Load QA test catalogs at startup
	catalogs, err := models.LoadCatalogs(config.Conf.Catalogs.Directory)
	if err != nil {
		log.Fatal("Failed to load QA catalogs", zap.Error(err))
	}
	log.Info("Loaded QA catalogs", zap.Int("equipment_types", len(catalogs)))

	// Start the QA due-date scheduler
	scheduler := services.NewScheduler(log)
	scheduler.Start()

	// Setup router, passing the logger and catalogs to it
	r := router.Setup(log, catalogs)

	// Start the Gin server
	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}
