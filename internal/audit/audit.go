// Package audit records admin console mutations into an append-only table.
package audit

import (
	"context"
	"encoding/json"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/sooop-pk/sooop-portal/internal/models"
	"github.com/sooop-pk/sooop-portal/internal/util"
)

// Event describes one admin mutation to record.
type Event struct {
	ActorID  string // Acting admin profile ID.
	Action   string // Permission key, "METHOD path".
	Target   string // Route parameter identifying the target.
	Status   int    // HTTP status of the response.
	Path     string // Concrete request path.
	RawQuery string // Raw query string, masked before storage.
}

// Recorder persists audit entries. A nil recorder drops events silently so
// callers need no guards.
type Recorder struct {
	db *gorm.DB
}

// NewRecorder constructs a Recorder backed by GORM.
func NewRecorder(db *gorm.DB) *Recorder {
	if db == nil {
		return nil
	}
	return &Recorder{db: db}
}

// Record writes one entry. The write uses a detached timeout so a cancelled
// request context cannot lose the event.
func (r *Recorder) Record(event Event) {
	if r == nil || r.db == nil {
		return
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	detail, errDetail := json.Marshal(map[string]string{
		"path":  event.Path,
		"query": util.MaskSensitiveQuery(event.RawQuery),
	})
	if errDetail != nil {
		detail = nil
	}

	row := models.AuditEntry{
		ActorID:   event.ActorID,
		Action:    event.Action,
		Target:    event.Target,
		Status:    event.Status,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}
	if errCreate := r.db.WithContext(dbCtx).Create(&row).Error; errCreate != nil {
		log.WithError(errCreate).WithField("action", event.Action).Warn("audit write failed")
	}
}
