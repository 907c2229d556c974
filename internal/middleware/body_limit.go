// internal/middleware/body_limit.go
package middleware

import (
	"net/http"
	"strings"

	"wecamp-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// BodyLimit caps JSON request bodies. Multipart bodies are capped by the
// upload and gear handlers, which know their per-file limits.
func BodyLimit(max int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || strings.HasPrefix(c.ContentType(), "multipart/") {
			c.Next()
			return
		}
		if c.Request.ContentLength > max {
			response.Error(c, http.StatusRequestEntityTooLarge, "Request body too large", nil)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		c.Next()
	}
}
