package membership

import (
	"time"

	"github.com/sooop-pk/sooop-portal/internal/models"
)

// DeriveDisplayStatus computes the status shown to readers at the given
// instant. A stored "active" whose expiry has passed reads as "expired"
// without any write; expiry is a lazy transition, so two readers at different
// times may derive different statuses from the same stored row.
func DeriveDisplayStatus(profile *models.Profile, now time.Time) string {
	if profile == nil {
		return models.StatusPending
	}
	if profile.MembershipStatus == models.StatusActive &&
		profile.MembershipExpiry != nil &&
		profile.MembershipExpiry.Before(now) {
		return models.StatusExpired
	}
	return profile.MembershipStatus
}

// IsCurrentlyActive reports whether the profile grants active-member access
// at the given instant.
func IsCurrentlyActive(profile *models.Profile, now time.Time) bool {
	return DeriveDisplayStatus(profile, now) == models.StatusActive
}
