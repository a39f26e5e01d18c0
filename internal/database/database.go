package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ItumelengS/linac-qa-app-sub000/internal/config"
	logging "github.com/ItumelengS/linac-qa-app-sub000/internal/logging"
	"github.com/ItumelengS/linac-qa-app-sub000/internal/models"
)

var DB *gorm.DB

func Init(log *zap.Logger) {
	var err error
	dbConf := config.Conf.Database
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		dbConf.Host, dbConf.User, dbConf.Password, dbConf.DBName, dbConf.Port)

	// Create our custom GORM logger
	gormLogger := logging.NewGormZapLogger(log, config.Conf.Logging.GormLevel)

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})

	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	log.Info("Database connection established successfully.")
	runMigrations(log)
}

func runMigrations(log *zap.Logger) {
	// GORM's AutoMigrate will create tables, columns, and foreign keys.
	// It will NOT create custom indexes, so we handle that separately.
	err := DB.AutoMigrate(
		&models.User{},
		&models.Equipment{},
		&models.QAReport{},
		&models.QATestResult{},
		&models.Baseline{},
		&models.OutputReading{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}
	log.Info("Database migrations completed successfully.")

	// Report review and trend queries filter test rows by report and id.
	resultsIndex := `CREATE INDEX IF NOT EXISTS idx_test_results_query ON qa_test_results (report_id, test_id);`
	if err := DB.Exec(resultsIndex).Error; err != nil {
		log.Fatal("Failed to create custom index on test results table", zap.Error(err))
	}
	trendIndex := `CREATE INDEX IF NOT EXISTS idx_output_readings_trend ON output_readings (equipment_id, energy, date);`
	if err := DB.Exec(trendIndex).Error; err != nil {
		log.Fatal("Failed to create custom index on output readings table", zap.Error(err))
	}
	log.Info("Custom indexes ensured successfully.")
}
