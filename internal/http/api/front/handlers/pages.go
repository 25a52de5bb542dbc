package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sooop-pk/sooop-portal/internal/cms"
)

// PageHandler serves resolved CMS pages to the renderer.
type PageHandler struct {
	resolver *cms.Resolver
}

// NewPageHandler constructs a PageHandler.
func NewPageHandler(resolver *cms.Resolver) *PageHandler {
	return &PageHandler{resolver: resolver}
}

// Get resolves a published page by slug. A store failure renders the same
// generic not-found response as a missing page; internals stay in the logs.
func (h *PageHandler) Get(c *gin.Context) {
	page, errResolve := h.resolver.ResolvePage(c.Request.Context(), c.Param("slug"))
	if errResolve != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
		return
	}
	c.JSON(http.StatusOK, page)
}
