package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/portfolio/internal/middleware"
	"github.com/mx-space/portfolio/internal/modules/contact"
	"github.com/mx-space/portfolio/internal/modules/content/blog"
	"github.com/mx-space/portfolio/internal/modules/content/project"
	"github.com/mx-space/portfolio/internal/modules/content/resource"
	"github.com/mx-space/portfolio/internal/modules/content/services"
	"github.com/mx-space/portfolio/internal/modules/content/team"
	"github.com/mx-space/portfolio/internal/modules/system/health"
	"github.com/mx-space/portfolio/internal/pkg/metrics"
	"github.com/mx-space/portfolio/internal/pkg/response"
)

// Version is reported by the root index.
const Version = "1.0.0"

var index = gin.H{
	"message": "Portfolio Backend API",
	"version": Version,
	"endpoints": gin.H{
		"blogs":    "/api/blogs",
		"projects": "/api/projects",
		"services": "/api/services",
		"teams":    "/api/teams",
		"contact":  "/api/contact",
		"health":   "/api/health",
	},
}

func (a *App) registerRoutes(deps Deps) {
	r := a.router
	cfg := a.cfg

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"message":   "Route not found",
			"path":      c.Request.URL.Path,
			"method":    c.Request.Method,
			"timestamp": response.Timestamp(time.Now()),
		})
	})
	r.GET("/", func(c *gin.Context) { c.JSON(http.StatusOK, index) })

	images := r.Group("/images", func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age=31536000")
		c.Header("Cross-Origin-Resource-Policy", "cross-origin")
		c.Next()
	})
	images.Static("/", cfg.ImagesDir())

	if cfg.Metrics.Enable {
		r.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
	}

	api := r.Group("/api", middleware.RateLimit(middleware.RateLimitConfig{
		Name:   "general",
		Store:  a.limiter,
		Window: cfg.RateLimit.Window,
		Max:    cfg.RateLimit.Max,
		Key:    middleware.APIKeyOrIP(cfg.RateLimit.APIKeyHeader),
		Log:    a.logger,
	}))
	health.NewHandler(deps.Database, cfg.Env, a.logger).RegisterRoutes(api)

	access := middleware.AccessConfig{
		Secret:          cfg.Access.Secret,
		Header:          cfg.Access.Header,
		FrontendOrigins: cfg.Access.FrontendOrigins,
		OriginBypass:    cfg.OriginBypass(),
	}
	gate := middleware.Access(access)
	gated := api.Group("", gate)

	opts := resource.Options{Log: a.logger, Detail: cfg.IsDev()}
	blog.NewHandler(blog.NewService(deps.Stores.Blogs), opts).RegisterRoutes(gated)
	project.NewHandler(project.NewService(deps.Stores.Projects), opts).RegisterRoutes(gated)
	services.NewHandler(services.NewService(deps.Stores.Services), opts).RegisterRoutes(gated)
	team.NewHandler(team.NewService(deps.Stores.Teams), opts).RegisterRoutes(gated)

	// The public form always admits the frontend, whatever the gate's bypass setting.
	submitAccess := access
	submitAccess.OriginBypass = true
	submit := []gin.HandlerFunc{
		middleware.Access(submitAccess),
		middleware.RateLimit(middleware.RateLimitConfig{
			Name:   "contact",
			Store:  a.limiter,
			Window: cfg.RateLimit.Window,
			Max:    cfg.RateLimit.ContactMax,
			Reject: middleware.RejectContact,
			Log:    a.logger,
		}),
	}
	contact.NewHandler(contact.NewService(deps.Stores.Contacts), a.logger).RegisterRoutes(api, submit, gate)
}
