package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/inquiries")

	// === Authenticated Routes ===
	group.Use(authMiddleware)
	{
		group.POST("", h.Submit)
		group.GET("/mine", h.ListMine)
	}

	// === Administration Routes ===
	adminGroup := group.Group("")
	adminGroup.Use(adminMiddleware)
	{
		adminGroup.GET("", h.ListAll)
		adminGroup.PUT("/:id/respond", h.Respond)
	}
}
