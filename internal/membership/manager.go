package membership

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/sooop-pk/sooop-portal/internal/models"
)

// Notifier signals that cached renders must refresh after a state mutation.
type Notifier interface {
	InvalidateAll(ctx context.Context)
}

// Manager applies membership lifecycle transitions. All transitions are
// single-row writes; concurrent admin actions on the same member resolve as
// last-writer-wins.
type Manager struct {
	db         *gorm.DB
	invalidate Notifier
	now        func() time.Time
}

// NewManager constructs a manager. invalidate may be nil.
func NewManager(db *gorm.DB, invalidate Notifier) *Manager {
	return &Manager{db: db, invalidate: invalidate, now: func() time.Time { return time.Now().UTC() }}
}

// Approve activates a member: status becomes active, specialty and expiry are
// stored, and a registration number is assigned when the member has none.
// Expired members re-enter active through this same path. Authorization and
// validation happen before any write.
func (m *Manager) Approve(ctx context.Context, memberID, specialty string, expiry time.Time, actorID string) error {
	if errAuthz := m.requireAdmin(ctx, actorID); errAuthz != nil {
		return errAuthz
	}

	specialty = strings.TrimSpace(specialty)
	if specialty == "" {
		return &ValidationError{Field: "specialty", Message: "specialty is required"}
	}
	if expiry.IsZero() {
		return &ValidationError{Field: "expiry", Message: "expiry date is required"}
	}
	today := m.now().Truncate(24 * time.Hour)
	if expiry.Before(today) {
		return &ValidationError{Field: "expiry", Message: "expiry date must be today or later"}
	}

	member, errLoad := m.loadProfile(ctx, memberID)
	if errLoad != nil {
		return errLoad
	}

	registration := ""
	if member.RegistrationNumber != nil {
		registration = *member.RegistrationNumber
	}
	if registration == "" {
		assigned, errAssign := m.nextRegistrationNumber(ctx)
		if errAssign != nil {
			return errAssign
		}
		registration = assigned
	}

	expiryDate := expiry.UTC()
	updates := map[string]any{
		"membership_status":   models.StatusActive,
		"specialty":           specialty,
		"membership_expiry":   &expiryDate,
		"registration_number": registration,
		"updated_at":          m.now(),
	}
	if errUpdate := m.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", member.ID).
		Updates(updates).Error; errUpdate != nil {
		log.WithError(errUpdate).WithField("member_id", member.ID).Error("approve update failed")
		return fmt.Errorf("%w: approve: %v", ErrBackendUnavailable, errUpdate)
	}

	// Close out the open application, if any.
	if errApp := m.db.WithContext(ctx).
		Model(&models.MembershipApplication{}).
		Where("profile_id = ? AND status = ?", member.ID, models.ApplicationSubmitted).
		Updates(map[string]any{"status": models.ApplicationApproved, "updated_at": m.now()}).Error; errApp != nil {
		log.WithError(errApp).WithField("member_id", member.ID).Warn("application close-out failed")
	}

	log.WithFields(log.Fields{
		"member_id":    member.ID,
		"registration": registration,
		"expiry":       expiryDate.Format("2006-01-02"),
	}).Info("member approved")

	if m.invalidate != nil {
		m.invalidate.InvalidateAll(ctx)
	}
	return nil
}

// Reject sets status=rejected unconditionally. Rejection is terminal; no
// re-submission path exists.
func (m *Manager) Reject(ctx context.Context, memberID, actorID string) error {
	if errAuthz := m.requireAdmin(ctx, actorID); errAuthz != nil {
		return errAuthz
	}

	member, errLoad := m.loadProfile(ctx, memberID)
	if errLoad != nil {
		return errLoad
	}

	if errUpdate := m.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", member.ID).
		Updates(map[string]any{
			"membership_status": models.StatusRejected,
			"updated_at":        m.now(),
		}).Error; errUpdate != nil {
		log.WithError(errUpdate).WithField("member_id", member.ID).Error("reject update failed")
		return fmt.Errorf("%w: reject: %v", ErrBackendUnavailable, errUpdate)
	}

	if errApp := m.db.WithContext(ctx).
		Model(&models.MembershipApplication{}).
		Where("profile_id = ? AND status = ?", member.ID, models.ApplicationSubmitted).
		Updates(map[string]any{"status": models.ApplicationRejected, "updated_at": m.now()}).Error; errApp != nil {
		log.WithError(errApp).WithField("member_id", member.ID).Warn("application close-out failed")
	}

	log.WithField("member_id", member.ID).Info("member rejected")

	if m.invalidate != nil {
		m.invalidate.InvalidateAll(ctx)
	}
	return nil
}

// loadProfile fetches a member profile by ID.
func (m *Manager) loadProfile(ctx context.Context, memberID string) (*models.Profile, error) {
	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return nil, ErrNotFound
	}
	var member models.Profile
	errFind := m.db.WithContext(ctx).Where("id = ?", memberID).First(&member).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.WithError(errFind).WithField("member_id", memberID).Error("member lookup failed")
		return nil, fmt.Errorf("%w: member lookup: %v", ErrBackendUnavailable, errFind)
	}
	return &member, nil
}

// requireAdmin verifies the actor holds an admin role before any mutation.
func (m *Manager) requireAdmin(ctx context.Context, actorID string) error {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return ErrForbidden
	}
	if _, errParse := uuid.Parse(actorID); errParse != nil {
		return ErrForbidden
	}

	var actor models.Profile
	errFind := m.db.WithContext(ctx).
		Select("id", "role").
		Where("id = ?", actorID).
		First(&actor).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return ErrForbidden
		}
		log.WithError(errFind).Error("actor lookup failed")
		return fmt.Errorf("%w: actor lookup: %v", ErrBackendUnavailable, errFind)
	}
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
