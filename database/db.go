package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mikeychann-hash/Evies-Epoxy/config"
	"github.com/mikeychann-hash/Evies-Epoxy/models"
)

// Connect opens the postgres connection and runs schema migration.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	zap.L().Info("Connected to PostgreSQL",
		zap.String("host", cfg.PostgresHost),
		zap.String("database", cfg.PostgresDB),
	)
	return db, nil
}
