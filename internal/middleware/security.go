package middleware

import (
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
)

const hstsSeconds = 15552000

// isolationHeaders are not covered by secure.Config.
var isolationHeaders = map[string]string{
	"X-DNS-Prefetch-Control":            "off",
	"X-Permitted-Cross-Domain-Policies": "none",
	"Cross-Origin-Opener-Policy":        "same-origin",
	"Cross-Origin-Resource-Policy":      "cross-origin",
	"Origin-Agent-Cluster":              "?1",
	"X-XSS-Protection":                  "0",
}

// SecurityHeaders sets the hardening headers on every response. HSTS is
// only sent in production.
func SecurityHeaders(production bool) gin.HandlerFunc {
	cfg := secure.Config{
		CustomFrameOptionsValue: "SAMEORIGIN",
		ContentTypeNosniff:      true,
		ReferrerPolicy:          "no-referrer",
		IENoOpen:                true,
		SSLProxyHeaders:         map[string]string{"X-Forwarded-Proto": "https"},
	}
	if production {
		cfg.STSSeconds = hstsSeconds
		cfg.STSIncludeSubdomains = true
	}
	hardening := secure.New(cfg)

	return func(c *gin.Context) {
		h := c.Writer.Header()
		for k, v := range isolationHeaders {
			h.Set(k, v)
		}
		hardening(c)
	}
}
