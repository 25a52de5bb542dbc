package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sooop-pk/sooop-portal/internal/cms"
)

// ContentHandler serves named singleton content blocks.
type ContentHandler struct {
	resolver *cms.Resolver
}

// NewContentHandler constructs a ContentHandler.
func NewContentHandler(resolver *cms.Resolver) *ContentHandler {
	return &ContentHandler{resolver: resolver}
}

// Get returns the stored value for a content key verbatim, or a JSON null
// when absent. Defaults belong to the caller, not this service.
func (h *ContentHandler) Get(c *gin.Context) {
	value, errResolve := h.resolver.ResolveNamedContent(c.Request.Context(), c.Param("key"))
	if errResolve != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "content not found"})
		return
	}
	if value == nil {
		value = json.RawMessage("null")
	}
	c.JSON(http.StatusOK, gin.H{
		"key":     c.Param("key"),
		"content": value,
	})
}
