package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/portfolio/internal/pkg/response"
	"go.uber.org/zap"
)

// Recovery turns a panic into the standard 500 envelope. The panic value and
// stack reach the client only when detail is set.
func Recovery(log *zap.Logger, detail bool) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		stack := debug.Stack()
		log.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", GetRequestID(c)),
			zap.ByteString("stack", stack),
		)
		var err error
		if detail {
			err = fmt.Errorf("%v\n%s", recovered, stack)
		}
		response.InternalError(c, err, detail)
	})
}
