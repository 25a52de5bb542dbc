package admin

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sooop-pk/sooop-portal/internal/audit"
	"github.com/sooop-pk/sooop-portal/internal/cms"
	"github.com/sooop-pk/sooop-portal/internal/config"
	"github.com/sooop-pk/sooop-portal/internal/http/api/admin/handlers"
	"github.com/sooop-pk/sooop-portal/internal/membership"
	"github.com/sooop-pk/sooop-portal/internal/models"
	"github.com/sooop-pk/sooop-portal/internal/security"
)

// RegisterAdminRoutes registers the admin console API. Every route passes the
// identity check, then the per-route permission check; mutations are recorded
// in the audit log.
func RegisterAdminRoutes(r *gin.Engine, db *gorm.DB, jwtCfg config.JWTConfig, resolver *cms.Resolver, manager *membership.Manager, broker *cms.Broker, recorder *audit.Recorder) {
	if r == nil || db == nil {
		return
	}

	group := r.Group("/v0/admin")
	group.Use(adminAuthMiddleware(db, jwtCfg))
	group.Use(adminPermissionMiddleware())
	group.Use(auditMiddleware(recorder))

	contentHandler := handlers.NewContentAdminHandler(db, resolver)
	group.GET("/content", contentHandler.List)
	group.GET("/content/:key", contentHandler.Get)
	group.PUT("/content/:key", contentHandler.Put)

	pageHandler := handlers.NewPageAdminHandler(db, broker)
	group.GET("/pages", pageHandler.List)
	group.POST("/pages", pageHandler.Create)
	group.GET("/pages/:id", pageHandler.Get)
	group.PUT("/pages/:id", pageHandler.Update)
	group.POST("/pages/:id/publish", pageHandler.SetPublished)

	sectionHandler := handlers.NewSectionAdminHandler(db, broker)
	group.POST("/pages/:id/sections", sectionHandler.Create)
	group.PUT("/sections/:id", sectionHandler.Update)
	group.POST("/sections/:id/active", sectionHandler.SetActive)

	memberHandler := handlers.NewMemberAdminHandler(db, manager)
	group.GET("/members", memberHandler.List)
	group.GET("/members/:id", memberHandler.Get)
	group.POST("/members/:id/approve", memberHandler.Approve)
	group.POST("/members/:id/reject", memberHandler.Reject)
	group.PUT("/members/:id/role", memberHandler.SetRole)

	settingHandler := handlers.NewSettingAdminHandler(db)
	group.GET("/settings", settingHandler.List)
	group.PUT("/settings/:key", settingHandler.Put)

	auditHandler := handlers.NewAuditAdminHandler(db)
	group.GET("/audit", auditHandler.List)

	permissionHandler := handlers.NewPermissionHandler()
	group.GET("/permissions", permissionHandler.List)

	group.GET("/version", handlers.GetVersion)
}

// adminAuthMiddleware verifies the identity token and requires an admin or
// super_admin profile. The failure message never reveals whether the profile
// exists or merely lacks the role.
func adminAuthMiddleware(db *gorm.DB, jwtCfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if authHeader == "" || token == authHeader || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		claims, errJWT := security.ParseIdentityToken(jwtCfg.Secret, token, jwtCfg.Leeway)
		if errJWT != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var actor models.Profile
		errFind := db.WithContext(c.Request.Context()).
			Select("id", "role").
			Where("id = ?", claims.UserID()).
			First(&actor).Error
		if errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission denied"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "service unavailable, try again later"})
			return
		}
		if !actor.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission denied"})
			return
		}

		c.Set("adminID", actor.ID)
		c.Set("adminRole", actor.Role)
		c.Next()
	}
}
