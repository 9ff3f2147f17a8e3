package app

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mx-space/portfolio/internal/config"
	"github.com/mx-space/portfolio/internal/middleware"
)

// newCORS admits the configured frontend origins. Without any configured
// origin, development admits every origin and production none.
func newCORS(cfg *config.AppConfig) gin.HandlerFunc {
	origins := frontendOrigins(cfg)
	corsConfig := cors.Config{
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Requested-With", cfg.Access.Header},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader, "RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	switch {
	case len(origins) > 0:
		corsConfig.AllowOriginFunc = func(origin string) bool {
			return middleware.OriginAllowed(origin, origins)
		}
	case cfg.IsDev():
		corsConfig.AllowOriginFunc = func(string) bool { return true }
	default:
		corsConfig.AllowOriginFunc = func(string) bool { return false }
	}
	return cors.New(corsConfig)
}
