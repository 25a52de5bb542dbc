package membership

import (
	"testing"
	"time"

	"github.com/sooop-pk/sooop-portal/internal/models"
)

func TestDeriveDisplayStatus(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(-1, 0, 0)
	future := now.AddDate(1, 0, 0)

	cases := []struct {
		name    string
		profile *models.Profile
		want    string
	}{
		{"nil profile", nil, models.StatusPending},
		{"pending stays pending", &models.Profile{MembershipStatus: models.StatusPending}, models.StatusPending},
		{"active without expiry", &models.Profile{MembershipStatus: models.StatusActive}, models.StatusActive},
		{"active with future expiry", &models.Profile{MembershipStatus: models.StatusActive, MembershipExpiry: &future}, models.StatusActive},
		{"active with past expiry derives expired", &models.Profile{MembershipStatus: models.StatusActive, MembershipExpiry: &past}, models.StatusExpired},
		{"rejected with past expiry stays rejected", &models.Profile{MembershipStatus: models.StatusRejected, MembershipExpiry: &past}, models.StatusRejected},
	}
	for _, tc := range cases {
		if got := DeriveDisplayStatus(tc.profile, now); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestDerivationIsReadOnly(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, -1, 0)
	profile := &models.Profile{MembershipStatus: models.StatusActive, MembershipExpiry: &past}

	if got := DeriveDisplayStatus(profile, now); got != models.StatusExpired {
		t.Fatalf("expected expired, got %s", got)
	}
	if profile.MembershipStatus != models.StatusActive {
		t.Fatalf("expected stored status untouched, got %s", profile.MembershipStatus)
	}
	// Readers at different instants may disagree; both derive from the same row.
	if got := DeriveDisplayStatus(profile, past.AddDate(0, 0, -1)); got != models.StatusActive {
		t.Fatalf("expected active before expiry, got %s", got)
	}
}

func TestIsCurrentlyActive(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -1)
	future := now.AddDate(0, 0, 1)

	if IsCurrentlyActive(&models.Profile{MembershipStatus: models.StatusActive, MembershipExpiry: &future}, now) != true {
		t.Fatalf("expected active member to pass")
	}
	if IsCurrentlyActive(&models.Profile{MembershipStatus: models.StatusActive, MembershipExpiry: &past}, now) != false {
		t.Fatalf("expected lapsed member to fail")
	}
	if IsCurrentlyActive(&models.Profile{MembershipStatus: models.StatusPending}, now) != false {
		t.Fatalf("expected pending member to fail")
	}
}
