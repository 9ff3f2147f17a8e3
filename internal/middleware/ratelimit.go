package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/portfolio/internal/pkg/metrics"
	"github.com/mx-space/portfolio/internal/pkg/ratelimit"
	"github.com/mx-space/portfolio/internal/pkg/response"
	"go.uber.org/zap"
)

const (
	msgTooManyRequests = "Too many requests from this IP, please try again later."
	msgTooManyContacts = "Too many contact form submissions, please try again later."
)

// RateLimitConfig configures one fixed-window limiter.
type RateLimitConfig struct {
	// Name namespaces the counters and labels the rejection metric.
	Name   string
	Store  ratelimit.Store
	Window time.Duration
	Max    int
	// Key selects the counter; defaults to the client IP.
	Key func(c *gin.Context) string
	// Reject writes the 429 body; defaults to the standard envelope.
	Reject func(c *gin.Context, retryAfter int)
	Log    *zap.Logger
}

// RateLimit rejects requests once a key exceeds Max hits in the current window.
// Counter store failures let the request through.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Key == nil {
		cfg.Key = func(c *gin.Context) string { return c.ClientIP() }
	}
	if cfg.Reject == nil {
		cfg.Reject = rejectStandard
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	limit := strconv.Itoa(cfg.Max)

	return func(c *gin.Context) {
		key := cfg.Key(c)
		if key == "" {
			c.Next()
			return
		}

		res, err := cfg.Store.Take(c.Request.Context(), cfg.Name+":"+key, cfg.Window)
		if err != nil {
			cfg.Log.Warn("rate limit store unavailable", zap.String("limiter", cfg.Name), zap.Error(err))
			c.Next()
			return
		}

		resetIn := int(math.Ceil(time.Until(res.ResetAt).Seconds()))
		if resetIn < 0 {
			resetIn = 0
		}
		remaining := int64(cfg.Max) - res.Count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("RateLimit-Limit", limit)
		c.Header("RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Header("RateLimit-Reset", strconv.Itoa(resetIn))

		if res.Count > int64(cfg.Max) {
			metrics.RateLimited(cfg.Name)
			c.Header("Retry-After", strconv.Itoa(resetIn))
			cfg.Reject(c, resetIn)
			return
		}
		c.Next()
	}
}

// APIKeyOrIP keys the general limiter by the API key header when present.
// The key is stored as a digest.
func APIKeyOrIP(header string) func(c *gin.Context) string {
	return func(c *gin.Context) string {
		if key := c.GetHeader(header); key != "" {
			sum := sha256.Sum256([]byte(key))
			return "key:" + hex.EncodeToString(sum[:12])
		}
		return "ip:" + c.ClientIP()
	}
}

func rejectStandard(c *gin.Context, retryAfter int) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"message":    msgTooManyRequests,
		"retryAfter": retryAfter,
		"timestamp":  response.Timestamp(time.Now()),
	})
}

// RejectContact is the 429 body of the contact limiter.
func RejectContact(c *gin.Context, _ int) {
	response.Failure(c, http.StatusTooManyRequests, msgTooManyContacts)
}
