// internal/middleware/recovery_middleware.go
package middleware

import (
	"runtime/debug"

	xerrors "wecamp-service/internal/pkg/errors"
	"wecamp-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", GetRequestID(c)),
					zap.ByteString("stack", debug.Stack()),
				)
				response.FromError(c, xerrors.New(xerrors.KindInternal, "internal server error"))
			}
		}()
		c.Next()
	}
}
