package handlers

import "github.com/gin-gonic/gin"

// getAdminID extracts the acting admin's profile ID from gin context.
func getAdminID(c *gin.Context) string {
	val, exists := c.Get("adminID")
	if !exists {
		return ""
	}
	id, ok := val.(string)
	if !ok {
		return ""
	}
	return id
}
