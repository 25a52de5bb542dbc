package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sooop-pk/sooop-portal/internal/audit"
	permissions "github.com/sooop-pk/sooop-portal/internal/http/api/admin/permissions"
)

// auditMiddleware records every admin mutation after it completes. Reads are
// not recorded. recorder may be nil.
func auditMiddleware(recorder *audit.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if recorder == nil {
			return
		}
		method := c.Request.Method
		if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
			return
		}
		routePath := c.FullPath()
		if routePath == "" {
			return
		}

		target := c.Param("id")
		if target == "" {
			target = c.Param("key")
		}
		recorder.Record(audit.Event{
			ActorID:  readAdminID(c),
			Action:   permissions.Key(method, routePath),
			Target:   target,
			Status:   c.Writer.Status(),
			Path:     c.Request.URL.Path,
			RawQuery: c.Request.URL.RawQuery,
		})
	}
}

// readAdminID extracts the acting admin's profile ID from gin context.
func readAdminID(c *gin.Context) string {
	value, ok := c.Get("adminID")
	if !ok {
		return ""
	}
	id, okID := value.(string)
	if !okID {
		return ""
	}
	return id
}
