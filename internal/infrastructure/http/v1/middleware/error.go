package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"breadroute/internal/core/apperror"
	"breadroute/pkg/logger"
)

// errorResponse is the JSON shape for all error replies.
type errorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorHandler translates errors attached by handlers into JSON responses.
// AppError maps to its code and HTTP status; anything else becomes a
// generic 500 without leaking internals.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err

		if appErr, ok := apperror.AsAppError(err); ok {
			if appErr.HTTPStatus >= 500 {
				logger.Error(c.Request.Context(), "request error", "error", err)
			}
			c.JSON(appErr.HTTPStatus, errorResponse{
				Code:    appErr.Code,
				Message: appErr.Message,
				Details: appErr.Details,
			})
			return
		}

		logger.Error(c.Request.Context(), "unhandled error", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{
			Code:    apperror.CodeInternal,
			Message: "Internal server error",
		})
	}
}
