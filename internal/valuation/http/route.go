package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the public valuation endpoint.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	g.POST("/valuation", h.Estimate)
}
