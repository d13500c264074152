package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ritikk978/next-nest/internal/model"
	"github.com/ritikk978/next-nest/pkg/config"
)

var db *gorm.DB

// InitDB opens the database connection, applies pool settings and runs
// migrations for every entity
func InitDB(cfg *config.Config) error {
	var err error

	pgConfig := postgres.Config{
		DSN:                  cfg.DB.GetDSN(),
		PreferSimpleProtocol: true, // Disables implicit prepared statement usage
	}

	db, err = gorm.Open(postgres.New(pgConfig), &gorm.Config{
		Logger: gormlogger.Default.LogMode(cfg.DB.LogLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)

	if err := db.AutoMigrate(
		&model.User{},
		&model.Property{},
		&model.Booking{},
		&model.Transaction{},
		&model.RoommateRequest{},
		&model.RoommateResponse{},
		&model.MaintenanceRequest{},
		&model.Conversation{},
		&model.ConversationParticipant{},
		&model.Message{},
		&model.Service{},
		&model.ServiceProvider{},
	); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return db
}

// SetDB replaces the database instance (used by tests)
func SetDB(instance *gorm.DB) {
	db = instance
}
