package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	permissions "github.com/sooop-pk/sooop-portal/internal/http/api/admin/permissions"
	"github.com/sooop-pk/sooop-portal/internal/models"
)

// adminPermissionMiddleware enforces per-route access levels. Routes missing
// from the definitions list are denied, and super_admin-only routes reject
// plain admins. Runs after adminAuthMiddleware, which guarantees an admin
// role in context.
func adminPermissionMiddleware() gin.HandlerFunc {
	permissionMap := permissions.DefinitionMap()

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		path := c.FullPath()
		if path == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission denied"})
			return
		}

		def, ok := permissionMap[permissions.Key(c.Request.Method, path)]
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission denied"})
			return
		}

		if def.SuperAdmin && readAdminRole(c) != models.RoleSuperAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission denied"})
			return
		}

		c.Next()
	}
}

// readAdminRole extracts the admin role from gin context.
func readAdminRole(c *gin.Context) string {
	value, ok := c.Get("adminRole")
	if !ok {
		return ""
	}
	role, okRole := value.(string)
	if !okRole {
		return ""
	}
	return role
}
