package database

import (
	"fmt"

	"inventory-backend/internal/config"
	"inventory-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Init opens the Postgres connection and runs migrations. The handle is
// returned to the caller instead of being kept in a package global so that
// handlers and tests receive their store explicitly.
func Init(cfg *config.Config) (*gorm.DB, error) {
	// TranslateError maps driver unique-violation errors to
	// gorm.ErrDuplicatedKey, which the upsert path relies on.
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the schema. Also used by the sqlite-backed tests.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Stock{},
		&models.StockLog{},
		&models.LowStockRule{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
