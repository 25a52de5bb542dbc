package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sooop-pk/sooop-portal/internal/models"
)

const auditPageSize = 50

// AuditAdminHandler exposes the admin action log.
type AuditAdminHandler struct {
	db *gorm.DB
}

// NewAuditAdminHandler constructs an AuditAdminHandler.
func NewAuditAdminHandler(db *gorm.DB) *AuditAdminHandler {
	return &AuditAdminHandler{db: db}
}

// List returns recent audit entries, newest first, optionally filtered by
// actor.
func (h *AuditAdminHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.AuditEntry{})

	if actor := strings.TrimSpace(c.Query("actor")); actor != "" {
		q = q.Where("actor_id = ?", actor)
	}

	page := 1
	if raw := strings.TrimSpace(c.Query("page")); raw != "" {
		parsed, errParse := strconv.Atoi(raw)
		if errParse != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
			return
		}
		page = parsed
	}

	var rows []models.AuditEntry
	if errFind := q.Order("created_at DESC, id DESC").
		Limit(auditPageSize).
		Offset((page - 1) * auditPageSize).
		Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "service unavailable, try again later"})
		return
	}

	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, gin.H{
			"id":         row.ID,
			"actor_id":   row.ActorID,
			"action":     row.Action,
			"target":     row.Target,
			"status":     row.Status,
			"detail":     json.RawMessage(row.Detail),
			"created_at": row.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"entries": out, "page": page, "page_size": auditPageSize})
}
