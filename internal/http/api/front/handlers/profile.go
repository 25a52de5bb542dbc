package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sooop-pk/sooop-portal/internal/membership"
	"github.com/sooop-pk/sooop-portal/internal/models"
)

// ProfileHandler handles the member's own profile endpoints.
type ProfileHandler struct {
	db *gorm.DB
}

// NewProfileHandler constructs a ProfileHandler.
func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{db: db}
}

// Get returns the current member's profile. The displayed status is derived
// at read time, so an active membership past its expiry reads as expired.
func (h *ProfileHandler) Get(c *gin.Context) {
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

	c.JSON(http.StatusOK, formatProfile(&profile, time.Now().UTC()))
}

// updateProfileRequest captures the member-editable contact fields.
type updateProfileRequest struct {
	FullName      *string `json:"full_name"`      // Optional display name.
	Phone         *string `json:"phone"`          // Optional contact phone.
	CNIC          *string `json:"cnic"`           // Optional national identity number.
	City          *string `json:"city"`           // Optional city.
	District      *string `json:"district"`       // Optional district.
	Qualification *string `json:"qualification"`  // Optional qualification.
	AvatarURL     *string `json:"avatar_url"`     // Optional avatar object store URL.
}

// Update applies contact field changes to the member's own profile. Status,
// role, specialty and registration number are admin-only and never touched
// here.
func (h *ProfileHandler) Update(c *gin.Context) {
	profileID := getProfileID(c)
	if profileID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body updateProfileRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	updates := map[string]any{"updated_at": time.Now().UTC()}
	if body.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*body.FullName)
	}
	if body.Phone != nil {
		updates["phone"] = strings.TrimSpace(*body.Phone)
	}
	if body.CNIC != nil {
		updates["cnic"] = strings.TrimSpace(*body.CNIC)
	}
	if body.City != nil {
		updates["city"] = strings.TrimSpace(*body.City)
	}
	if body.District != nil {
		updates["district"] = strings.TrimSpace(*body.District)
	}
	if body.Qualification != nil {
		updates["qualification"] = strings.TrimSpace(*body.Qualification)
	}
	if body.AvatarURL != nil {
		updates["avatar_url"] = strings.TrimSpace(*body.AvatarURL)
	}

	res := h.db.WithContext(c.Request.Context()).
		Model(&models.Profile{}).
		Where("id = ?", profileID).
		Updates(updates)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "service unavailable, try again later"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// formatProfile converts a profile into a response payload with the derived
// display status.
func formatProfile(profile *models.Profile, now time.Time) gin.H {
	displayStatus := membership.DeriveDisplayStatus(profile, now)
	return gin.H{
		"id":                  profile.ID,
		"full_name":           profile.FullName,
		"email":               profile.Email,
		"phone":               profile.Phone,
		"cnic":                profile.CNIC,
		"city":                profile.City,
		"district":            profile.District,
		"role":                profile.Role,
		"qualification":       profile.Qualification,
		"specialty":           profile.Specialty,
		"registration_number": profile.RegistrationNumber,
		"avatar_url":          profile.AvatarURL,
		"membership_status":   displayStatus,
		"is_expired":          displayStatus == models.StatusExpired,
		"membership_expiry":   profile.MembershipExpiry,
		"created_at":          profile.CreatedAt,
		"updated_at":          profile.UpdatedAt,
	}
}
