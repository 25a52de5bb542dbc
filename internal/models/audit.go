package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditEntry records one admin console mutation for review. Entries are
// append-only; a retention job prunes old rows.
type AuditEntry struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	ActorID string `gorm:"type:varchar(64);not null;index"` // Acting admin profile ID.
	Action  string `gorm:"type:varchar(128);not null"`      // Permission key, "METHOD path".
	Target  string `gorm:"type:varchar(255)"`               // Route parameter identifying the target.
	Status  int    `gorm:"not null"`                        // HTTP status of the response.

	Detail datatypes.JSON `gorm:"type:jsonb"` // Request context, sensitive values masked.

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index"` // Event timestamp.
}

// TableName maps AuditEntry to the admin_audit table.
func (AuditEntry) TableName() string { return "admin_audit" }
