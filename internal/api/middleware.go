package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/estify-backend/internal/account"
	"github.com/nekogravitycat/estify-backend/internal/auth"
	"github.com/nekogravitycat/estify-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/estify-backend/internal/pkg/response"
)

// AccountLookup is the part of account.Service RequireAdmin needs.
type AccountLookup interface {
	GetByID(ctx context.Context, id string) (*account.Account, error)
}

// RequireAdmin ensures the authenticated account is still an administrator.
// The role claim is checked first; the account is then re-read so a deleted
// or demoted admin loses access before the token expires.
// It MUST be used after auth.AuthRequired middleware.
func RequireAdmin(accounts AccountLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.GetUserID(c)
		if userID == "" {
			abort(c, apperror.New(http.StatusUnauthorized, "unauthorized"))
			return
		}
		if !auth.IsAdmin(c) {
			abort(c, apperror.Forbidden("forbidden: admin access required"))
			return
		}

		a, err := accounts.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, account.ErrNotFound) {
				abort(c, apperror.New(http.StatusUnauthorized, "account not found"))
				return
			}
			abort(c, err)
			return
		}
		if a.Role != account.RoleAdmin {
			abort(c, apperror.Forbidden("forbidden: admin access required"))
			return
		}

		c.Next()
	}
}

// RequestTimeout bounds the request context so database calls give up once
// the deadline passes.
func RequestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func abort(c *gin.Context, err error) {
	response.Error(c, err)
	c.Abort()
}
