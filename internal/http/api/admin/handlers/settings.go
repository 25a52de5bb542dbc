package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sooop-pk/sooop-portal/internal/models"
	"github.com/sooop-pk/sooop-portal/internal/settings"
)

// SettingAdminHandler manages operational settings. Writes go to the
// database and immediately refresh the in-memory snapshot.
type SettingAdminHandler struct {
	db *gorm.DB
}

// NewSettingAdminHandler constructs a SettingAdminHandler.
func NewSettingAdminHandler(db *gorm.DB) *SettingAdminHandler {
	return &SettingAdminHandler{db: db}
}

// List returns all settings.
func (h *SettingAdminHandler) List(c *gin.Context) {
	var rows []models.Setting
	if errFind := h.db.WithContext(c.Request.Context()).Order("key ASC").Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "service unavailable, try again later"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, gin.H{
			"key":        row.Key,
			"value":      row.Value,
			"updated_at": row.UpdatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"settings": out})
}

// putSettingRequest carries the new value for a setting.
type putSettingRequest struct {
	Value json.RawMessage `json:"value"` // Replacement JSON value.
}

// Put upserts one setting and refreshes the snapshot so the new value takes
// effect without a restart.
func (h *SettingAdminHandler) Put(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key is required"})
		return
	}
	var body putSettingRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if len(body.Value) == 0 || !json.Valid(body.Value) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value must be valid JSON"})
		return
	}

	row := models.Setting{Key: key, Value: body.Value, UpdatedAt: time.Now().UTC()}
	errWrite := h.db.WithContext(c.Request.Context()).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&row).Error
	if errWrite != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save setting failed"})
		return
	}

	if errRefresh := settings.Refresh(c.Request.Context(), h.db); errRefresh != nil {
		log.WithError(errRefresh).Warn("settings refresh after write failed")
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
