package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/nekogravitycat/estify-backend/internal/pkg/apperror"
)

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Error sends a JSON error response.
// It checks if the error is an AppError to determine the status code.
// If it's not an AppError, it defaults to 500 Internal Server Error.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			log.Warn().Err(appErr.Err).Str("path", c.FullPath()).Msg(appErr.Message)
		}
		c.JSON(appErr.Code, ErrorResponse{Error: appErr.Message, Code: appErr.Kind()})
		return
	}

	// Unexpected failures are logged with a stack and never echoed back.
	log.Error().
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Msgf("%+v", pkgerrors.WithStack(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: apperror.KindInternal})
}

// BadRequest sends a 400 for malformed input that never reached a service.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: apperror.KindValidation})
}
