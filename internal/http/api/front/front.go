package front

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/sooop-pk/sooop-portal/internal/cms"
	"github.com/sooop-pk/sooop-portal/internal/config"
	"github.com/sooop-pk/sooop-portal/internal/http/api/front/handlers"
	"github.com/sooop-pk/sooop-portal/internal/membership"
	"github.com/sooop-pk/sooop-portal/internal/models"
	"github.com/sooop-pk/sooop-portal/internal/security"
)

// RegisterFrontRoutes registers the public page/content routes and the
// authenticated member dashboard routes.
func RegisterFrontRoutes(r *gin.Engine, db *gorm.DB, jwtCfg config.JWTConfig, resolver *cms.Resolver, manager *membership.Manager) {
	if r == nil || db == nil {
		return
	}

	front := r.Group("/v0/front")

	pageHandler := handlers.NewPageHandler(resolver)
	front.GET("/pages/:slug", pageHandler.Get)

	contentHandler := handlers.NewContentHandler(resolver)
	front.GET("/content/:key", contentHandler.Get)

	front.GET("/config", handlers.GetPublicConfig)

	authed := front.Group("")
	authed.Use(identityMiddleware(db, jwtCfg))

	profileHandler := handlers.NewProfileHandler(db)
	authed.GET("/profile", profileHandler.Get)
	authed.PUT("/profile", profileHandler.Update)

	membershipHandler := handlers.NewMembershipHandler(db, manager)
	authed.GET("/membership", membershipHandler.Card)
	authed.GET("/membership/application", membershipHandler.CurrentApplication)
	authed.POST("/membership/apply", membershipHandler.Apply)
}

// identityMiddleware verifies the identity provider JWT and loads (or
// provisions) the matching profile. The provider owns accounts; a first
// request from a fresh account creates its pending profile row.
func identityMiddleware(db *gorm.DB, jwtCfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		token = strings.TrimSpace(token)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "empty token"})
			return
		}

		claims, errJWT := security.ParseIdentityToken(jwtCfg.Secret, token, jwtCfg.Leeway)
		if errJWT != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		profileID := claims.UserID()
		var profile models.Profile
		errFind := db.WithContext(c.Request.Context()).Where("id = ?", profileID).First(&profile).Error
		if errFind != nil {
			if !errors.Is(errFind, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "service unavailable, try again later"})
				return
			}
			profile = models.Profile{
				ID:               profileID,
				Email:            claims.Email,
				Role:             models.RoleMember,
				MembershipStatus: models.StatusPending,
			}
			if errCreate := db.WithContext(c.Request.Context()).Create(&profile).Error; errCreate != nil {
				log.WithError(errCreate).WithField("profile_id", profileID).Error("profile provisioning failed")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "service unavailable, try again later"})
				return
			}
			log.WithField("profile_id", profileID).Info("provisioned profile for new identity")
		}

		c.Set("profileID", profileID)
		c.Set("profileRole", profile.Role)
		c.Next()
	}
}
