package services

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pagebuilder_app_echo/internal/logging"
	"pagebuilder_app_echo/internal/models"
)

// InitDB opens the Postgres connection and configures its pool
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logging.Info("Database connection established")
	return db, nil
}

// AutoMigrate creates or updates the page tables
func AutoMigrate(db *gorm.DB) error {
	logging.Info("Running database migrations")

	if err := db.AutoMigrate(&models.PageRecord{}); err != nil {
		logging.Error("Database migration failed", zap.Error(err))
		return err
	}

	logging.Info("Database migrations completed")
	return nil
}
