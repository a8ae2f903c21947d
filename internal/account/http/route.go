package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	authGroup := g.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/register/agent", h.RegisterAgent)
		authGroup.POST("/login", h.Login)
	}

	g.GET("/me", authMiddleware, h.Me)

	agents := g.Group("/agents")
	{
		agents.GET("", h.ListAgents)
		agents.GET("/:id", h.GetAgent)
	}
}
