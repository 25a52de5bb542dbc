package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sooop-pk/sooop-portal/internal/cms"
	"github.com/sooop-pk/sooop-portal/internal/models"
)

// ContentAdminHandler manages named content entries from the admin console.
type ContentAdminHandler struct {
	db       *gorm.DB
	resolver *cms.Resolver
}

// NewContentAdminHandler constructs a ContentAdminHandler.
func NewContentAdminHandler(db *gorm.DB, resolver *cms.Resolver) *ContentAdminHandler {
	return &ContentAdminHandler{db: db, resolver: resolver}
}

// List returns all content entries with their audit stamps.
func (h *ContentAdminHandler) List(c *gin.Context) {
	var rows []models.SiteContent
	if errFind := h.db.WithContext(c.Request.Context()).Order("key ASC").Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "service unavailable, try again later"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, gin.H{
			"key":        row.Key,
			"content":    json.RawMessage(row.Content),
			"updated_at": row.UpdatedAt,
			"updated_by": row.UpdatedBy,
		})
	}
	c.JSON(http.StatusOK, gin.H{"content": out})
}

// Get returns one content entry by key.
func (h *ContentAdminHandler) Get(c *gin.Context) {
	var row models.SiteContent
	errFind := h.db.WithContext(c.Request.Context()).Where("key = ?", c.Param("key")).First(&row).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "service unavailable, try again later"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"key":        row.Key,
		"content":    json.RawMessage(row.Content),
		"updated_at": row.UpdatedAt,
		"updated_by": row.UpdatedBy,
	})
}

// putContentRequest carries the new value for a content entry.
type putContentRequest struct {
	Content json.RawMessage `json:"content"` // Replacement JSON value.
}

// Put upserts a content entry through the resolver, which performs the role
// check, stamps the writer, and triggers broad cache invalidation.
func (h *ContentAdminHandler) Put(c *gin.Context) {
	var body putContentRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	errWrite := h.resolver.WriteNamedContent(c.Request.Context(), c.Param("key"), body.Content, getAdminID(c))
	if errWrite != nil {
		var validationErr *cms.ValidationError
		switch {
		case errors.As(errWrite, &validationErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message, "field": validationErr.Field})
		case errors.Is(errWrite, cms.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "service unavailable, try again later"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
