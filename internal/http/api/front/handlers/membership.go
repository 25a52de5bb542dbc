package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/sooop-pk/sooop-portal/internal/membership"
	"github.com/sooop-pk/sooop-portal/internal/models"
	"github.com/sooop-pk/sooop-portal/internal/settings"
)

// MembershipHandler handles the member-facing membership endpoints.
type MembershipHandler struct {
	db      *gorm.DB
	manager *membership.Manager
}

// NewMembershipHandler constructs a MembershipHandler.
func NewMembershipHandler(db *gorm.DB, manager *membership.Manager) *MembershipHandler {
	return &MembershipHandler{db: db, manager: manager}
}

// Card returns the membership card payload shown on the dashboard.
func (h *MembershipHandler) Card(c *gin.Context) {
	profileID := getProfileID(c)
	if profileID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var profile models.Profile
	if errFind := h.db.WithContext(c.Request.Context()).Where("id = ?", profileID).First(&profile).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "service unavailable, try again later"})
		return
	}

	now := time.Now().UTC()
	c.JSON(http.StatusOK, gin.H{
		"site_name":           settings.StringValue(settings.SiteNameKey, settings.DefaultSiteName),
		"registration_number": profile.RegistrationNumber,
		"full_name":           profile.FullName,
		"email":               profile.Email,
		"specialty":           profile.Specialty,
		"membership_status":   membership.DeriveDisplayStatus(&profile, now),
		"membership_expiry":   profile.MembershipExpiry,
	})
}

// CurrentApplication returns the member's latest application with its
// documents and payment.
func (h *MembershipHandler) CurrentApplication(c *gin.Context) {
	profileID := getProfileID(c)
	if profileID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var application models.MembershipApplication
	errFind := h.db.WithContext(c.Request.Context()).
		Preload("Documents").
		Preload("Payment").
		Where("profile_id = ?", profileID).
		Order("created_at DESC").
		First(&application).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no application found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "service unavailable, try again later"})
		return
	}

	c.JSON(http.StatusOK, formatApplication(&application))
}

// applyDocument is one uploaded document reference in an application request.
type applyDocument struct {
	Kind string `json:"kind" binding:"required"`     // Document kind.
	Name string `json:"name"`                        // Original file name.
	URL  string `json:"url" binding:"required,url"`  // Public object store URL.
}

// applyPayment carries the fee payment fields of an application request.
type applyPayment struct {
	Amount        int64  `json:"amount" binding:"required,gt=0"`    // Fee in paisa.
	TransactionID string `json:"transaction_id" binding:"required"` // Bank transaction reference.
	ReceiptURL    string `json:"receipt_url" binding:"omitempty,url"`
}

// applyRequest is the membership application submission payload.
type applyRequest struct {
	Qualification string          `json:"qualification" binding:"required"`
	Institution   string          `json:"institution"`
	Workplace     string          `json:"workplace"`
	DesiredType   string          `json:"desired_type"`
	Documents     []applyDocument `json:"documents" binding:"omitempty,dive"`
	Payment       applyPayment    `json:"payment" binding:"required"`
}

// Apply submits a membership application with documents and payment.
func (h *MembershipHandler) Apply(c *gin.Context) {
	profileID := getProfileID(c)
	if profileID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body applyRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(errBind, &fieldErrs) {
			out := make([]gin.H, 0, len(fieldErrs))
			for _, fieldErr := range fieldErrs {
				out = append(out, gin.H{
					"field":  strings.ToLower(fieldErr.Field()),
					"reason": fieldErr.Tag(),
				})
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid application", "fields": out})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	input := membership.ApplicationInput{
		Qualification: body.Qualification,
		Institution:   body.Institution,
		Workplace:     body.Workplace,
		DesiredType:   body.DesiredType,
		Payment: membership.PaymentInput{
			Amount:        body.Payment.Amount,
			TransactionID: body.Payment.TransactionID,
			ReceiptURL:    body.Payment.ReceiptURL,
		},
	}
	for _, doc := range body.Documents {
		input.Documents = append(input.Documents, membership.DocumentInput{
			Kind: doc.Kind,
			Name: doc.Name,
			URL:  doc.URL,
		})
	}

	application, errSubmit := h.manager.SubmitApplication(c.Request.Context(), profileID, input)
	if errSubmit != nil {
		var validationErr *membership.ValidationError
		switch {
		case errors.As(errSubmit, &validationErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message, "field": validationErr.Field})
		case errors.Is(errSubmit, membership.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "service unavailable, try again later"})
		}
		return
	}

	c.JSON(http.StatusCreated, formatApplication(application))
}

// formatApplication converts an application into a response payload.
func formatApplication(application *models.MembershipApplication) gin.H {
	documents := make([]gin.H, 0, len(application.Documents))
	for _, doc := range application.Documents {
		documents = append(documents, gin.H{
			"id":   doc.ID,
			"kind": doc.Kind,
			"name": doc.Name,
			"url":  doc.URL,
		})
	}

	out := gin.H{
		"id":            application.ID,
		"status":        application.Status,
		"qualification": application.Qualification,
		"institution":   application.Institution,
		"workplace":     application.Workplace,
		"desired_type":  application.DesiredType,
		"documents":     documents,
		"created_at":    application.CreatedAt,
	}
	if application.Payment != nil {
		out["payment"] = gin.H{
			"amount":         application.Payment.Amount,
			"currency":       application.Payment.Currency,
			"transaction_id": application.Payment.TransactionID,
			"status":         application.Payment.Status,
			"receipt_ref":    application.Payment.ReceiptRef,
			"receipt_url":    application.Payment.ReceiptURL,
		}
	}
	return out
}
