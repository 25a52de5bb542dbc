package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sooop-pk/sooop-portal/internal/cms"
	"github.com/sooop-pk/sooop-portal/internal/models"
)

// slugPattern restricts slugs to lowercase words separated by hyphens.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// PageAdminHandler manages CMS pages from the admin console.
type PageAdminHandler struct {
	db     *gorm.DB
	broker *cms.Broker
}

// NewPageAdminHandler constructs a PageAdminHandler.
func NewPageAdminHandler(db *gorm.DB, broker *cms.Broker) *PageAdminHandler {
	return &PageAdminHandler{db: db, broker: broker}
}

// List returns all pages, optionally filtered by publication state.
func (h *PageAdminHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.Page{})
	switch strings.TrimSpace(c.Query("published")) {
	case "true", "1":
		q = q.Where("is_published = ?", true)
	case "false", "0":
		q = q.Where("is_published = ?", false)
	}

	var rows []models.Page
	if errFind := q.Order("slug ASC").Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "service unavailable, try again later"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, h.formatPage(&row, nil))
	}
	c.JSON(http.StatusOK, gin.H{"pages": out})
}

// createPageRequest captures the payload for creating a page.
type createPageRequest struct {
	Slug           string `json:"slug"`            // URL slug.
	Title          string `json:"title"`           // Page title.
	SEOTitle       string `json:"seo_title"`       // Optional SEO title.
	SEODescription string `json:"seo_description"` // Optional SEO description.
}

// Create validates input and inserts an unpublished page.
func (h *PageAdminHandler) Create(c *gin.Context) {
	var body createPageRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	slug := strings.TrimSpace(body.Slug)
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slug is required"})
		return
	}
	if !slugPattern.MatchString(slug) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slug must be lowercase words separated by hyphens"})
		return
	}
	title := strings.TrimSpace(body.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	now := time.Now().UTC()
	page := models.Page{
		Slug:           slug,
		Title:          title,
		SEOTitle:       strings.TrimSpace(body.SEOTitle),
		SEODescription: strings.TrimSpace(body.SEODescription),
		IsPublished:    false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&page).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create page failed"})
		return
	}
	c.JSON(http.StatusCreated, h.formatPage(&page, nil))
}

// Get fetches a page with all its sections, inactive included.
func (h *PageAdminHandler) Get(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var page models.Page
	if errFind := h.db.WithContext(c.Request.Context()).First(&page, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "service unavailable, try again later"})
		return
	}

	var sections []models.Section
	if errFind := h.db.WithContext(c.Request.Context()).
		Where("page_id = ?", page.ID).
		Order("order_index ASC, id ASC").
		Find(&sections).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "service unavailable, try again later"})
		return
	}

	c.JSON(http.StatusOK, h.formatPage(&page, sections))
}

// updatePageRequest captures optional fields for page updates.
type updatePageRequest struct {
	Title          *string `json:"title"`           // Optional title.
	SEOTitle       *string `json:"seo_title"`       // Optional SEO title.
	SEODescription *string `json:"seo_description"` // Optional SEO description.
}

// Update applies metadata changes to a page. The slug is immutable; cached
// renders key on it.
func (h *PageAdminHandler) Update(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var body updatePageRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	updates := map[string]any{"updated_at": time.Now().UTC()}
	if body.Title != nil {
		title := strings.TrimSpace(*body.Title)
		if title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title cannot be empty"})
			return
		}
		updates["title"] = title
	}
	if body.SEOTitle != nil {
		updates["seo_title"] = strings.TrimSpace(*body.SEOTitle)
	}
	if body.SEODescription != nil {
		updates["seo_description"] = strings.TrimSpace(*body.SEODescription)
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.Page{}).Where("id = ?", id).Updates(updates)
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

// setPublishedRequest captures the publication flag.
type setPublishedRequest struct {
	IsPublished bool `json:"is_published"` // Desired publication state.
}

// SetPublished toggles a page's publication flag and invalidates cached
// renders.
func (h *PageAdminHandler) SetPublished(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var body setPublishedRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.Page{}).Where("id = ?", id).
		Updates(map[string]any{"is_published": body.IsPublished, "updated_at": time.Now().UTC()})
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

// formatPage converts a page (and optional sections) into a response payload.
func (h *PageAdminHandler) formatPage(page *models.Page, sections []models.Section) gin.H {
	out := gin.H{
		"id":              page.ID,
		"slug":            page.Slug,
		"title":           page.Title,
		"seo_title":       page.SEOTitle,
		"seo_description": page.SEODescription,
		"is_published":    page.IsPublished,
		"created_at":      page.CreatedAt,
		"updated_at":      page.UpdatedAt,
	}
	if sections != nil {
		formatted := make([]gin.H, 0, len(sections))
		for _, section := range sections {
			formatted = append(formatted, gin.H{
				"id":           section.ID,
				"section_type": section.SectionType,
				"content":      json.RawMessage(section.Content),
				"order_index":  section.OrderIndex,
				"is_active":    section.IsActive,
			})
		}
		out["sections"] = formatted
	}
	return out
}
