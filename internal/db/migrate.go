package db

import (
	"fmt"

	"github.com/sooop-pk/sooop-portal/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema for all portal tables.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	return conn.AutoMigrate(
		&models.SiteContent{},
		&models.Page{},
		&models.Section{},
		&models.Profile{},
		&models.MembershipApplication{},
		&models.Document{},
		&models.Payment{},
		&models.Setting{},
		&models.AuditEntry{},
	)
}
