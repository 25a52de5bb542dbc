package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	permissions "github.com/sooop-pk/sooop-portal/internal/http/api/admin/permissions"
)

// PermissionHandler exposes the route permission catalogue so the console can
// render its navigation from the definitions that actually guard the API.
type PermissionHandler struct{}

// NewPermissionHandler constructs a PermissionHandler.
func NewPermissionHandler() *PermissionHandler {
	return &PermissionHandler{}
}

// List returns every admin route definition.
func (h *PermissionHandler) List(c *gin.Context) {
	defs := permissions.Definitions()
	out := make([]gin.H, 0, len(defs))
	for _, def := range defs {
		out = append(out, gin.H{
			"key":         def.Key,
			"method":      def.Method,
			"path":        def.Path,
			"label":       def.Label,
			"module":      def.Module,
			"super_admin": def.SuperAdmin,
		})
	}
	c.JSON(http.StatusOK, gin.H{"permissions": out})
}
