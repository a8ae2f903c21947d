package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers booking routes. adminOnly runs after authMiddleware.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminOnly gin.HandlerFunc) {
	group := g.Group("/bookings")

	// === Public Routes ===
	group.GET("/availability", h.Availability)

	// === Authenticated Routes ===
	authed := group.Group("", authMiddleware)
	{
		authed.GET("", h.List)
		authed.POST("", h.Create)
		authed.GET("/:id", h.Get)
		authed.PUT("/:id", h.UpdateDates)
		authed.DELETE("/:id", h.Cancel)
	}

	// === Admin Routes ===
	admin := group.Group("", authMiddleware, adminOnly)
	{
		admin.PUT("/:id/confirm", h.Confirm)
		admin.PUT("/:id/reject", h.Reject)
	}
}
