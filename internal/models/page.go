package models

import (
	"time"

	"gorm.io/datatypes"
)

// Page represents a CMS page addressed by slug.
type Page struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Slug  string `gorm:"type:varchar(255);not null;uniqueIndex"` // URL slug, e.g. "about-us".
	Title string `gorm:"type:text;not null"`                     // Page title.

	SEOTitle       string `gorm:"type:text"` // Optional SEO title override.
	SEODescription string `gorm:"type:text"` // Optional SEO description.

	IsPublished bool `gorm:"not null;default:false"` // Unpublished pages resolve as not found.

	Sections []Section `gorm:"foreignKey:PageID"` // Ordered content sections.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// TableName maps Page to the cms_pages table.
func (Page) TableName() string { return "cms_pages" }

// Section is one typed content block within a page. Inactive sections are
// retained but excluded from resolution.
type Section struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	PageID uint64 `gorm:"not null;index"` // Owning page.

	SectionType string         `gorm:"type:varchar(64);not null"` // Type tag, e.g. "hero".
	Content     datatypes.JSON `gorm:"type:jsonb"`                // Payload matching the type's shape.

	OrderIndex int  `gorm:"not null;default:0"` // Render order, ascending.
	IsActive   bool `gorm:"not null"`           // Inactive sections are skipped.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// TableName maps Section to the cms_sections table.
func (Section) TableName() string { return "cms_sections" }
