package membership

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/sooop-pk/sooop-portal/internal/models"
	"github.com/sooop-pk/sooop-portal/internal/settings"
)

// nextRegistrationNumber produces the next number in the PREFIX-YYYY-NNN
// sequence, e.g. SOOOP-2024-001. The sequence restarts each year. Concurrent
// approvals may race on the count; the unique index on registration_number
// rejects the loser, which matches the accepted last-writer-wins model for
// human-paced admin actions.
func (m *Manager) nextRegistrationNumber(ctx context.Context) (string, error) {
	prefix := settings.StringValue(settings.RegistrationPrefixKey, settings.DefaultRegistrationPrefix)
	year := m.now().Year()
	pattern := fmt.Sprintf("%s-%d-%%", prefix, year)

	var issued int64
	errCount := m.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("registration_number LIKE ?", pattern).
		Count(&issued).Error
	if errCount != nil {
		log.WithError(errCount).Error("registration number count failed")
		return "", fmt.Errorf("%w: registration count: %v", ErrBackendUnavailable, errCount)
	}

	return fmt.Sprintf("%s-%d-%03d", prefix, year, issued+1), nil
}
