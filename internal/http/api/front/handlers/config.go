package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sooop-pk/sooop-portal/internal/settings"
)

// GetPublicConfig returns the public site configuration.
func GetPublicConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"site_name":          settings.StringValue(settings.SiteNameKey, settings.DefaultSiteName),
		"revalidate_seconds": settings.IntValue(settings.RevalidateSecondsKey, settings.DefaultRevalidateSeconds),
		"membership_fee":     settings.IntValue(settings.MembershipFeeKey, settings.DefaultMembershipFee),
	})
}
