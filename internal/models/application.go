package models

import (
	"time"

	"gorm.io/datatypes"
)

// Application statuses.
const (
	ApplicationSubmitted = "submitted"
	ApplicationApproved  = "approved"
	ApplicationRejected  = "rejected"
)

// Payment statuses for a membership application.
const (
	PaymentSubmitted = "submitted"
	PaymentVerified  = "verified"
	PaymentRejected  = "rejected"
)

// MembershipApplication carries the fields an admin reviews before approving
// or rejecting a member, plus attached documents and the fee payment.
type MembershipApplication struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	ProfileID string `gorm:"type:varchar(64);not null;index"` // Applicant profile.

	Status string `gorm:"type:varchar(32);not null;default:'submitted'"` // submitted, approved or rejected.

	Qualification string `gorm:"type:text"`         // Claimed qualification.
	Institution   string `gorm:"type:text"`         // Issuing institution.
	Workplace     string `gorm:"type:text"`         // Current workplace.
	DesiredType   string `gorm:"type:varchar(64)"`  // Requested membership type.

	Documents []Document `gorm:"foreignKey:ApplicationID"` // Uploaded supporting documents.
	Payment   *Payment   `gorm:"foreignKey:ApplicationID"` // Membership fee payment.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Submission timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// TableName maps MembershipApplication to the membership_applications table.
func (MembershipApplication) TableName() string { return "membership_applications" }

// Document is a reference to an uploaded file in the external object store.
// Only the public URL is kept; storage mechanics live outside this service.
type Document struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	ApplicationID uint64 `gorm:"not null;index"` // Owning application.

	Kind string `gorm:"type:varchar(64);not null"` // cnic_front, cnic_back, degree, license or photo.
	Name string `gorm:"type:text"`                 // Original file name.
	URL  string `gorm:"type:text;not null"`        // Public object store URL.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Upload timestamp.
}

// TableName maps Document to the application_documents table.
func (Document) TableName() string { return "application_documents" }

// Payment records the membership fee attached to an application. Amounts are
// stored in paisa to avoid float arithmetic on money.
type Payment struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	ApplicationID uint64 `gorm:"not null;uniqueIndex"` // Owning application.

	Amount        int64  `gorm:"not null"`                                      // Fee amount in paisa.
	Currency      string `gorm:"type:varchar(8);not null;default:'PKR'"`        // ISO currency code.
	TransactionID string `gorm:"type:varchar(128);not null"`                    // Bank transaction reference.
	Status        string `gorm:"type:varchar(32);not null;default:'submitted'"` // submitted, verified or rejected.
	ReceiptRef    string `gorm:"type:varchar(64)"`                              // Internal receipt reference.
	ReceiptURL    string `gorm:"type:text"`                                     // Optional uploaded receipt image URL.

	Meta datatypes.JSON `gorm:"type:jsonb"` // Extra gateway or bank metadata.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Submission timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// TableName maps Payment to the application_payments table.
func (Payment) TableName() string { return "application_payments" }
