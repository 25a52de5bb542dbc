package models

import (
	"encoding/json"
	"time"
)

// Setting stores an operational key/value entry, e.g. the site name or the
// page revalidation window. Distinct from SiteContent, which holds editorial
// content.
type Setting struct {
	Key       string          `gorm:"type:varchar(255);primaryKey"`                      // Setting key.
	Value     json.RawMessage `gorm:"type:jsonb"`                                        // JSON-encoded value.
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime;default:CURRENT_TIMESTAMP"` // Last update timestamp.
}

// TableName maps Setting to the site_settings table.
func (Setting) TableName() string { return "site_settings" }
