// internal/middleware/error_handler.go
package middleware

import (
	"errors"

	xerrors "wecamp-service/internal/pkg/errors"
	"wecamp-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler renders the last error a handler attached with c.Error.
// Unexpected failures are logged as errors. Operational errors without an
// AppError message are logged as warnings, since the client never sees
// their detail.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		fields := []zap.Field{
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", GetRequestID(c)),
		}
		var appErr *xerrors.AppError
		switch {
		case xerrors.KindOf(err) == xerrors.KindInternal:
			logger.Error("request failed", fields...)
		case !errors.As(err, &appErr):
			// the client only sees the generic text for its kind
			logger.Warn("request rejected", fields...)
		}
		response.FromError(c, err)
	}
}
