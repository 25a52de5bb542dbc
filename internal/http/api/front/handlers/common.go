package handlers

import "github.com/gin-gonic/gin"

// getProfileID extracts the authenticated profile ID from gin context.
func getProfileID(c *gin.Context) string {
	val, exists := c.Get("profileID")
	if !exists {
		return ""
	}
	id, ok := val.(string)
	if !ok {
		return ""
	}
	return id
}
