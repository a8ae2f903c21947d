package auth

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/estify-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/estify-backend/internal/pkg/response"
)

// AuthRequired is a Gin middleware that validates JWT from Authorization: Bearer <token>
func AuthRequired(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abort(c, http.StatusUnauthorized, "missing Authorization header")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abort(c, http.StatusUnauthorized, "invalid Authorization header format")
			return
		}

		claims, err := jwtManager.ParseAndValidate(parts[1])
		if err != nil {
			abort(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		c.Set(ctxUserID, claims.Subject)
		c.Set(ctxRole, claims.Role)

		c.Next()
	}
}

// RequireRole lets the request through only for the listed roles.
// It MUST be used after AuthRequired.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetRole(c)
		if role == "" {
			abort(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		if !slices.Contains(roles, role) {
			abort(c, http.StatusForbidden, "forbidden: "+strings.Join(roles, " or ")+" access required")
			return
		}
		c.Next()
	}
}

func abort(c *gin.Context, code int, message string) {
	response.Error(c, apperror.New(code, message))
	c.Abort()
}
