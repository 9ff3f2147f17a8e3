package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/portfolio/internal/pkg/response"
)

const (
	msgKeyRequired = "API key is required"
	msgKeyInvalid  = "Invalid API key"
)

// AccessConfig configures the shared-secret gate.
type AccessConfig struct {
	Secret          string
	Header          string
	FrontendOrigins []string
	// OriginBypass lets requests from a frontend origin through without the secret.
	OriginBypass bool
}

// Access admits a request when it comes from a configured frontend origin
// (if bypass is enabled) or carries the shared secret in the configured header.
func Access(cfg AccessConfig) gin.HandlerFunc {
	secret := []byte(cfg.Secret)
	return func(c *gin.Context) {
		if cfg.OriginBypass && fromFrontend(c, cfg.FrontendOrigins) {
			c.Next()
			return
		}

		key := c.GetHeader(cfg.Header)
		if key == "" {
			response.Unauthorized(c, msgKeyRequired)
			return
		}
		if len(secret) == 0 || subtle.ConstantTimeCompare([]byte(key), secret) != 1 {
			response.Unauthorized(c, msgKeyInvalid)
			return
		}
		c.Next()
	}
}

func fromFrontend(c *gin.Context, origins []string) bool {
	if len(origins) == 0 {
		return false
	}
	source := c.GetHeader("Origin")
	if source == "" {
		source = c.GetHeader("Referer")
	}
	return source != "" && OriginAllowed(source, origins)
}
