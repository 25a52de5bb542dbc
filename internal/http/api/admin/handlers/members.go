package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sooop-pk/sooop-portal/internal/db"
	"github.com/sooop-pk/sooop-portal/internal/membership"
	"github.com/sooop-pk/sooop-portal/internal/models"
)

const memberPageSize = 10

// MemberAdminHandler drives the member console: listing, review and role
// management.
type MemberAdminHandler struct {
	db      *gorm.DB
	manager *membership.Manager
}

// NewMemberAdminHandler constructs a MemberAdminHandler.
func NewMemberAdminHandler(conn *gorm.DB, manager *membership.Manager) *MemberAdminHandler {
	return &MemberAdminHandler{db: conn, manager: manager}
}

// List returns members filtered by status and free-text search, paginated.
// The expired filter matches on the derived status, so it includes stored
// actives whose expiry has passed.
func (h *MemberAdminHandler) List(c *gin.Context) {
	now := time.Now().UTC()

	q := h.db.WithContext(c.Request.Context()).Model(&models.Profile{})

	status := strings.TrimSpace(c.Query("status"))
	switch status {
	case "", "all":
	case models.StatusActive:
		q = q.Where("membership_status = ? AND (membership_expiry IS NULL OR membership_expiry >= ?)", models.StatusActive, now)
	case models.StatusExpired:
		q = q.Where("(membership_status = ?) OR (membership_status = ? AND membership_expiry IS NOT NULL AND membership_expiry < ?)",
			models.StatusExpired, models.StatusActive, now)
	case models.StatusPending, models.StatusRejected:
		q = q.Where("membership_status = ?", status)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
		return
	}

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := db.NormalizeLikePattern(h.db, "%"+search+"%")
		q = q.Where(h.db.
			Where(db.CaseInsensitiveLikeExpr(h.db, "full_name"), pattern).
			Or(db.CaseInsensitiveLikeExpr(h.db, "email"), pattern).
			Or(db.CaseInsensitiveLikeExpr(h.db, "cnic"), pattern).
			Or(db.CaseInsensitiveLikeExpr(h.db, "registration_number"), pattern))
	}

	page := 1
	if raw := strings.TrimSpace(c.Query("page")); raw != "" {
		parsed, errParse := strconv.Atoi(raw)
		if errParse != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
			return
		}
		page = parsed
	}

	var total int64
	if errCount := q.Session(&gorm.Session{}).Count(&total).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "service unavailable, try again later"})
		return
	}

	var rows []models.Profile
	if errFind := q.Order("created_at DESC, id ASC").
		Limit(memberPageSize).
		Offset((page - 1) * memberPageSize).
		Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "service unavailable, try again later"})
		return
	}

	out := make([]gin.H, 0, len(rows))
	for i := range rows {
		out = append(out, h.formatMember(&rows[i], now))
	}
	c.JSON(http.StatusOK, gin.H{
		"members":   out,
		"total":     total,
		"page":      page,
		"page_size": memberPageSize,
	})
}

// Get returns one member with their latest application, documents and payment
// preloaded for review.
func (h *MemberAdminHandler) Get(c *gin.Context) {
	now := time.Now().UTC()
	memberID := strings.TrimSpace(c.Param("id"))

	var member models.Profile
	errFind := h.db.WithContext(c.Request.Context()).Where("id = ?", memberID).First(&member).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "service unavailable, try again later"})
		return
	}

	out := h.formatMember(&member, now)

	var application models.MembershipApplication
	errApp := h.db.WithContext(c.Request.Context()).
		Preload("Documents").
		Preload("Payment").
		Where("profile_id = ?", member.ID).
		Order("created_at DESC").
		First(&application).Error
	switch {
	case errApp == nil:
		out["application"] = h.formatApplication(&application)
	case errors.Is(errApp, gorm.ErrRecordNotFound):
		out["application"] = nil
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "service unavailable, try again later"})
		return
	}

	c.JSON(http.StatusOK, out)
}

// approveMemberRequest carries the review decision details.
type approveMemberRequest struct {
	Specialty  string `json:"specialty"`   // Specialty assigned by the reviewer.
	ExpiryDate string `json:"expiry_date"` // Membership expiry, YYYY-MM-DD.
}

// Approve activates a member through the lifecycle manager.
func (h *MemberAdminHandler) Approve(c *gin.Context) {
	var body approveMemberRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	expiry, errParse := time.ParseInLocation("2006-01-02", strings.TrimSpace(body.ExpiryDate), time.UTC)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expiry_date must be YYYY-MM-DD", "field": "expiry_date"})
		return
	}

	errApprove := h.manager.Approve(c.Request.Context(), strings.TrimSpace(c.Param("id")), body.Specialty, expiry, getAdminID(c))
	if errApprove != nil {
		h.writeManagerError(c, errApprove)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Reject marks a member rejected through the lifecycle manager.
func (h *MemberAdminHandler) Reject(c *gin.Context) {
	errReject := h.manager.Reject(c.Request.Context(), strings.TrimSpace(c.Param("id")), getAdminID(c))
	if errReject != nil {
		h.writeManagerError(c, errReject)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// setRoleRequest carries the new role for a member.
type setRoleRequest struct {
	Role string `json:"role"` // member, admin or super_admin.
}

// SetRole changes a member's role. Route registration restricts this to
// super_admin callers.
func (h *MemberAdminHandler) SetRole(c *gin.Context) {
	var body setRoleRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	role := strings.TrimSpace(body.Role)
	switch role {
	case models.RoleMember, models.RoleAdmin, models.RoleSuperAdmin:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}

	memberID := strings.TrimSpace(c.Param("id"))
	if memberID == getAdminID(c) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot change own role"})
		return
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.Profile{}).Where("id = ?", memberID).
		Updates(map[string]any{"role": role, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// writeManagerError maps lifecycle manager errors onto HTTP responses.
func (h *MemberAdminHandler) writeManagerError(c *gin.Context, err error) {
	var validationErr *membership.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message, "field": validationErr.Field})
	case errors.Is(err, membership.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, membership.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "service unavailable, try again later"})
	}
}

// formatMember converts a profile into a console row. The status field is the
// derived display status, not the raw stored value.
func (h *MemberAdminHandler) formatMember(member *models.Profile, now time.Time) gin.H {
	var expiry any
	if member.MembershipExpiry != nil {
		expiry = member.MembershipExpiry.Format("2006-01-02")
	}
	return gin.H{
		"id":                  member.ID,
		"full_name":           member.FullName,
		"email":               member.Email,
		"phone":               member.Phone,
		"cnic":                member.CNIC,
		"city":                member.City,
		"district":            member.District,
		"role":                member.Role,
		"qualification":       member.Qualification,
		"specialty":           member.Specialty,
		"registration_number": member.RegistrationNumber,
		"membership_status":   membership.DeriveDisplayStatus(member, now),
		"membership_expiry":   expiry,
		"created_at":          member.CreatedAt,
	}
}

// formatApplication converts an application with its attachments into a
// review payload.
func (h *MemberAdminHandler) formatApplication(application *models.MembershipApplication) gin.H {
	documents := make([]gin.H, 0, len(application.Documents))
	for _, document := range application.Documents {
		documents = append(documents, gin.H{
			"kind": document.Kind,
			"name": document.Name,
			"url":  document.URL,
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
			"meta":           json.RawMessage(application.Payment.Meta),
		}
	}
	return out
}
