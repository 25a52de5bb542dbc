package models

import "time"

// Profile roles.
const (
	// RoleMember is the default role for authenticated members.
	RoleMember = "member"
	// RoleAdmin can edit content and review applications.
	RoleAdmin = "admin"
	// RoleSuperAdmin has all admin rights plus role management.
	RoleSuperAdmin = "super_admin"
)

// Membership status values stored on a profile. "expired" is additionally
// derived at read time when the stored status is active but the expiry has
// passed.
const (
	StatusPending  = "pending"
	StatusActive   = "active"
	StatusExpired  = "expired"
	StatusRejected = "rejected"
)

// Profile holds the member record for one identity-provider account.
// The ID is the UUID issued by the identity provider.
type Profile struct {
	ID string `gorm:"type:varchar(64);primaryKey"` // Identity provider UUID.

	FullName string `gorm:"type:text"`                           // Display name.
	Email    string `gorm:"type:varchar(255);not null;index"`    // Contact email from the identity provider.
	Phone    string `gorm:"type:varchar(32)"`                    // Contact phone.
	CNIC     string `gorm:"type:varchar(32);index"`              // National identity number.
	City     string `gorm:"type:varchar(128)"`                   // City.
	District string `gorm:"type:varchar(128)"`                   // District.
	Role     string `gorm:"type:varchar(32);not null;default:'member'"` // member, admin or super_admin.

	Qualification      string  `gorm:"type:text"`                    // Professional qualification.
	Specialty          string  `gorm:"type:varchar(128)"`            // Assigned on approval.
	RegistrationNumber *string `gorm:"type:varchar(64);uniqueIndex"` // e.g. SOOOP-2024-001, NULL until first approval.
	AvatarURL          string  `gorm:"type:text"`                    // Object store URL.

	MembershipStatus string     `gorm:"type:varchar(32);not null;default:'pending';index"` // Stored lifecycle status.
	MembershipExpiry *time.Time `gorm:"type:date"`                                         // Optional expiry date.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// TableName maps Profile to the profiles table.
func (Profile) TableName() string { return "profiles" }

// IsAdmin reports whether the profile may perform admin actions.
func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin || p.Role == RoleSuperAdmin
}
