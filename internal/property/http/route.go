package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers property routes.
// agentOnly and adminOnly run after authMiddleware.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, agentOnly, adminOnly gin.HandlerFunc) {
	group := g.Group("/properties")

	// === Public Routes ===
	group.GET("", h.ListPublic)
	group.GET("/:id", h.GetPublic)

	// === Agent Routes ===
	agent := group.Group("", authMiddleware, agentOnly)
	{
		agent.GET("/mine", h.ListMine)
		agent.POST("/post", h.SubmitAdd)
		agent.POST("/update", h.SubmitUpdate)
		agent.DELETE("/delete/:id", h.SubmitDelete)
	}

	// === Admin Routes ===
	admin := group.Group("", authMiddleware, adminOnly)
	{
		admin.GET("/pending", h.ListPending)
		admin.GET("/report", h.Report)
		admin.POST("/approve/:id", h.Approve)
		admin.DELETE("/reject/:id", h.Reject)
	}
}
