package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers file routes. Listing images are public.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/files")

	group.GET("/:id", h.ServeFile)
	group.GET("/:id/thumbnail", h.ServeThumbnail)
}
