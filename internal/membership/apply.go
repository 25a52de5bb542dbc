package membership

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/sooop-pk/sooop-portal/internal/models"
)

// DocumentInput references an already-uploaded file in the object store.
type DocumentInput struct {
	Kind string // cnic_front, cnic_back, degree, license or photo.
	Name string // Original file name.
	URL  string // Public object store URL.
}

// PaymentInput carries the membership fee details for an application.
type PaymentInput struct {
	Amount        int64  // Fee amount in paisa.
	TransactionID string // Bank transaction reference.
	ReceiptURL    string // Optional uploaded receipt image URL.
}

// ApplicationInput is the member-supplied application payload.
type ApplicationInput struct {
	Qualification string
	Institution   string
	Workplace     string
	DesiredType   string
	Documents     []DocumentInput
	Payment       PaymentInput
}

// SubmitApplication records a membership application with its documents and
// payment. A profile may hold at most one open application, and rejection is
// terminal.
func (m *Manager) SubmitApplication(ctx context.Context, profileID string, input ApplicationInput) (*models.MembershipApplication, error) {
	profile, errLoad := m.loadProfile(ctx, profileID)
	if errLoad != nil {
		return nil, errLoad
	}
	if profile.MembershipStatus == models.StatusRejected {
		return nil, &ValidationError{Field: "status", Message: "rejected applications cannot be resubmitted"}
	}

	if strings.TrimSpace(input.Qualification) == "" {
		return nil, &ValidationError{Field: "qualification", Message: "qualification is required"}
	}
	if input.Payment.Amount <= 0 {
		return nil, &ValidationError{Field: "payment.amount", Message: "payment amount is required"}
	}
	if strings.TrimSpace(input.Payment.TransactionID) == "" {
		return nil, &ValidationError{Field: "payment.transaction_id", Message: "transaction reference is required"}
	}
	for i, doc := range input.Documents {
		if strings.TrimSpace(doc.Kind) == "" || strings.TrimSpace(doc.URL) == "" {
			return nil, &ValidationError{
				Field:   fmt.Sprintf("documents[%d]", i),
				Message: "document kind and url are required",
			}
		}
	}

	var open int64
	errCount := m.db.WithContext(ctx).
		Model(&models.MembershipApplication{}).
		Where("profile_id = ? AND status = ?", profile.ID, models.ApplicationSubmitted).
		Count(&open).Error
	if errCount != nil {
		log.WithError(errCount).Error("open application lookup failed")
		return nil, fmt.Errorf("%w: application lookup: %v", ErrBackendUnavailable, errCount)
	}
	if open > 0 {
		return nil, &ValidationError{Field: "application", Message: "an application is already under review"}
	}

	application := models.MembershipApplication{
		ProfileID:     profile.ID,
		Status:        models.ApplicationSubmitted,
		Qualification: strings.TrimSpace(input.Qualification),
		Institution:   strings.TrimSpace(input.Institution),
		Workplace:     strings.TrimSpace(input.Workplace),
		DesiredType:   strings.TrimSpace(input.DesiredType),
		Payment: &models.Payment{
			Amount:        input.Payment.Amount,
			Currency:      "PKR",
			TransactionID: strings.TrimSpace(input.Payment.TransactionID),
			Status:        models.PaymentSubmitted,
			ReceiptRef:    newReceiptRef(),
			ReceiptURL:    strings.TrimSpace(input.Payment.ReceiptURL),
		},
	}
	for _, doc := range input.Documents {
		application.Documents = append(application.Documents, models.Document{
			Kind: strings.TrimSpace(doc.Kind),
			Name: strings.TrimSpace(doc.Name),
			URL:  strings.TrimSpace(doc.URL),
		})
	}

	// Association create inserts the application, documents and payment in
	// one transaction.
	if errCreate := m.db.WithContext(ctx).Create(&application).Error; errCreate != nil {
		log.WithError(errCreate).WithField("profile_id", profile.ID).Error("application create failed")
		return nil, fmt.Errorf("%w: application create: %v", ErrBackendUnavailable, errCreate)
	}

	log.WithFields(log.Fields{
		"profile_id":     profile.ID,
		"application_id": application.ID,
	}).Info("membership application submitted")
	return &application, nil
}

// newReceiptRef generates a short human-readable receipt reference.
func newReceiptRef() string {
	return "RCPT-" + strings.ToUpper(uuid.NewString()[:8])
}
