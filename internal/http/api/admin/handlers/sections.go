package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sooop-pk/sooop-portal/internal/cms"
	"github.com/sooop-pk/sooop-portal/internal/models"
)

// SectionAdminHandler manages page sections from the admin console. Sections
// are deactivated rather than deleted so editors can restore them.
type SectionAdminHandler struct {
	db     *gorm.DB
	broker *cms.Broker
}

// NewSectionAdminHandler constructs a SectionAdminHandler.
func NewSectionAdminHandler(db *gorm.DB, broker *cms.Broker) *SectionAdminHandler {
	return &SectionAdminHandler{db: db, broker: broker}
}

// createSectionRequest captures the payload for adding a section to a page.
type createSectionRequest struct {
	SectionType string          `json:"section_type"` // Type tag from the closed set.
	Content     json.RawMessage `json:"content"`      // Payload for the section renderer.
	OrderIndex  int             `json:"order_index"`  // Render order.
	IsActive    *bool           `json:"is_active"`    // Optional, defaults to true.
}

// Create validates input and appends a section to a page.
func (h *SectionAdminHandler) Create(c *gin.Context) {
	pageID, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var body createSectionRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	sectionType := strings.TrimSpace(body.SectionType)
	if sectionType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "section_type is required"})
		return
	}
	if !cms.KnownSectionType(sectionType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown section_type"})
		return
	}
	if len(body.Content) == 0 || !json.Valid(body.Content) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content must be valid JSON"})
		return
	}

	var page models.Page
	if errFind := h.db.WithContext(c.Request.Context()).First(&page, pageID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "service unavailable, try again later"})
		return
	}

	isActive := true
	if body.IsActive != nil {
		isActive = *body.IsActive
	}
	now := time.Now().UTC()
	section := models.Section{
		PageID:      page.ID,
		SectionType: sectionType,
		Content:     []byte(body.Content),
		OrderIndex:  body.OrderIndex,
		IsActive:    isActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&section).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create section failed"})
		return
	}

	h.broker.InvalidateAll(c.Request.Context())
	c.JSON(http.StatusCreated, gin.H{
		"id":           section.ID,
		"page_id":      section.PageID,
		"section_type": section.SectionType,
		"content":      json.RawMessage(section.Content),
		"order_index":  section.OrderIndex,
		"is_active":    section.IsActive,
	})
}

// updateSectionRequest captures optional fields for section updates.
type updateSectionRequest struct {
	SectionType *string         `json:"section_type"` // Optional type tag.
	Content     json.RawMessage `json:"content"`      // Optional replacement payload.
	OrderIndex  *int            `json:"order_index"`  // Optional render order.
}

// Update applies changes to a section.
func (h *SectionAdminHandler) Update(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var body updateSectionRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	updates := map[string]any{"updated_at": time.Now().UTC()}
	if body.SectionType != nil {
		sectionType := strings.TrimSpace(*body.SectionType)
		if !cms.KnownSectionType(sectionType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown section_type"})
			return
		}
		updates["section_type"] = sectionType
	}
	if len(body.Content) > 0 {
		if !json.Valid(body.Content) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "content must be valid JSON"})
			return
		}
		updates["content"] = []byte(body.Content)
	}
	if body.OrderIndex != nil {
		updates["order_index"] = *body.OrderIndex
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.Section{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	h.broker.InvalidateAll(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// setActiveRequest captures the active flag for toggling a section.
type setActiveRequest struct {
	IsActive bool `json:"is_active"` // Desired active state.
}

// SetActive toggles a section's active flag. Inactive sections stay stored
// but are excluded from page resolution.
func (h *SectionAdminHandler) SetActive(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var body setActiveRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.Section{}).Where("id = ?", id).
		Updates(map[string]any{"is_active": body.IsActive, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	h.broker.InvalidateAll(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
