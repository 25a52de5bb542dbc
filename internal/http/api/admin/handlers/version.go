package handlers

import (
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"

	"github.com/sooop-pk/sooop-portal/internal/buildinfo"
)

// GetVersion reports the running build.
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":    buildinfo.Version,
		"commit":     buildinfo.Commit,
		"build_date": buildinfo.BuildDate,
		"go_version": runtime.Version(),
	})
}
