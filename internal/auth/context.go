package auth

import "github.com/gin-gonic/gin"

// Roles carried in access tokens.
const (
	RoleUser  = "user"
	RoleAgent = "agent"
	RoleAdmin = "admin"
)

const (
	ctxUserID = "userID"
	ctxRole   = "userRole"
)

// GetUserID returns the authenticated account's ID or empty string.
func GetUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// GetRole returns the authenticated account's role or empty string.
func GetRole(c *gin.Context) string {
	return c.GetString(ctxRole)
}

// IsAdmin reports whether the caller authenticated as an administrator.
func IsAdmin(c *gin.Context) bool {
	return GetRole(c) == RoleAdmin
}
