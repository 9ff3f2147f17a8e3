package middleware

import (
	"net/http"

	limits "github.com/gin-contrib/size"
	"github.com/gin-gonic/gin"
	"github.com/mx-space/portfolio/internal/pkg/response"
)

// BodyLimit caps request bodies at limit bytes. Declared oversize bodies are
// rejected up front; undeclared ones are cut off with a 413 once read past
// the limit.
func BodyLimit(limit int64) gin.HandlerFunc {
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := limits.RequestSizeLimiter(limit)
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.Body == http.NoBody {
			c.Next()
			return
		}
		if c.Request.ContentLength > limit {
			response.Error(c, http.StatusRequestEntityTooLarge, "Request entity too large")
			return
		}
		limiter(c)
	}
}
