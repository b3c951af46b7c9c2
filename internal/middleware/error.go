package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "carteira/internal/errors"
	"carteira/internal/logger"
)

// ErrorHandler renders the last error attached to the context as the API
// error envelope. Ledger and auth errors keep their code and message. Any
// other error becomes INTERNAL_ERROR and is logged with the request and user
// it belongs to. Nothing is written when a handler already sent a response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		appErr := apperrors.ErrInternalServer
		if !errors.As(err, &appErr) || appErr.Internal != nil {
			logger.Get().Errorw("request failed",
				"request_id", c.GetString(requestIDKey),
				"user_id", c.GetString(UserIDKey),
				"code", appErr.Code,
				"path", c.FullPath(),
				"error", err.Error(),
			)
		}
		writeAppError(c, appErr)
	}
}

// writeAppError aborts the chain with the error envelope. The request ID is
// echoed when the logging middleware assigned one.
func writeAppError(c *gin.Context, appErr *apperrors.AppError) {
	body := gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	}
	if id := c.GetString(requestIDKey); id != "" {
		body["request_id"] = id
	}
	c.AbortWithStatusJSON(appErr.StatusCode, gin.H{"error": body})
}
