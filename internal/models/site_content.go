package models

import (
	"time"

	"gorm.io/datatypes"
)

// SiteContent stores a named singleton content block, e.g. the homepage hero.
// Writes are last-writer-wins; rows are never deleted in normal operation.
type SiteContent struct {
	Key       string         `gorm:"type:varchar(255);primaryKey"`                      // Content key, e.g. "home_hero".
	Content   datatypes.JSON `gorm:"type:jsonb"`                                        // JSON-encoded content value.
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime;default:CURRENT_TIMESTAMP"` // Last update timestamp.
	UpdatedBy string         `gorm:"type:varchar(64)"`                                  // Profile ID of the last writer.
}

// TableName maps SiteContent to the site_content table.
func (SiteContent) TableName() string { return "site_content" }
