package database

import (
	"fmt"

	"github.com/Roshan1923/BillBrain/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Category{},
		&models.Receipt{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
